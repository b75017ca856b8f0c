// cmd/gbt/cmd/scan.go
package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/tamzrod/gbt-tool/internal/gbt"
)

var (
	scanRepetitions int
	scanVFATs       int
	scanSilent      bool
	scanOutput      string
	scanBestPhases  string
)

var scanCmd = &cobra.Command{
	Use:   "scan CARD",
	Short: "Scan VFAT RX phases on every OH in the mask",
	Long: `Scan phases 0-15 of every VFAT of every selected OH and count the good
repetitions per phase.

Results are printed as one table per OH unless --silent is given, and are
appended to --output when set. --best-phases writes a phase file usable by
set-phases-all: the middle of the widest fully good window per VFAT, or
skip when no phase passed every repetition.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	addSlotFlags(scanCmd)

	scanCmd.Flags().IntVarP(&scanRepetitions, "repetitions", "r", 100,
		"number of times the scan is performed")
	scanCmd.Flags().IntVar(&scanVFATs, "n-vfats", 24,
		"number of VFATs per OH")
	scanCmd.Flags().BoolVarP(&scanSilent, "silent", "s", false,
		"do not print result tables")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "",
		"append results to this file")
	scanCmd.Flags().StringVar(&scanBestPhases, "best-phases", "",
		"write the selected phase per VFAT to this YAML file")
}

func runScan(cmd *cobra.Command, args []string) error {
	mask, n := slotSelection(cmd)

	reps, vfats := scanRepetitions, scanVFATs
	if !cmd.Flags().Changed("repetitions") {
		reps = settings.GBT.Defaults.Repetitions
	}
	if !cmd.Flags().Changed("n-vfats") {
		vfats = settings.GBT.Defaults.NVFATs
	}

	results, err := gbt.Scan(dialer(), args[0], gbt.ScanOptions{
		Mask:        mask,
		NOHs:        n,
		Repetitions: reps,
		NVFATs:      vfats,
		Silent:      scanSilent,
		OutputFile:  scanOutput,
		Out:         cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	if scanBestPhases == "" {
		return nil
	}

	best := make(map[int][]gbt.Phase, len(results))
	for ohN, r := range results {
		best[ohN] = gbt.BestPhases(r, reps)
	}
	if err := gbt.SavePhaseMap(scanBestPhases, best); err != nil {
		return err
	}
	log.Printf("selected phases written to %s", scanBestPhases)
	return nil
}
