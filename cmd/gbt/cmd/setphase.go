// cmd/gbt/cmd/setphase.go
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tamzrod/gbt-tool/internal/gbt"
)

var setPhaseCmd = &cobra.Command{
	Use:   "set-phase CARD OH VFAT PHASE",
	Short: "Write the RX phase of one VFAT",
	Args:  cobra.ExactArgs(4),
	RunE:  runSetPhase,
}

var setPhasesCmd = &cobra.Command{
	Use:   "set-phases CARD OH PHASE...",
	Short: "Write the RX phase of every VFAT of one OH",
	Long: `Write one phase per VFAT of one OH; the position of each PHASE is the
VFAT number. A PHASE of "skip" (or the legacy 0xdeaddead) leaves that VFAT
untouched.`,
	Args: cobra.MinimumNArgs(3),
	RunE: runSetPhases,
}

var setPhasesAllCmd = &cobra.Command{
	Use:   "set-phases-all CARD PHASES.yaml",
	Short: "Write VFAT RX phases on every OH in the mask from a phase file",
	Long: `Write the phases listed in a YAML phase file to every selected OH:

  phases:
    0: [7, 8, skip, 6]
    2: [0xdeaddead, 3]

Every selected OH must be listed.`,
	Args: cobra.ExactArgs(2),
	RunE: runSetPhasesAll,
}

func init() {
	rootCmd.AddCommand(setPhaseCmd, setPhasesCmd, setPhasesAllCmd)
	addSlotFlags(setPhasesAllCmd)
}

func runSetPhase(cmd *cobra.Command, args []string) error {
	ohN, err := parseIndex("OH", args[1])
	if err != nil {
		return err
	}
	vfatN, err := parseIndex("VFAT", args[2])
	if err != nil {
		return err
	}
	phase, err := gbt.ParsePhase(args[3])
	if err != nil {
		return err
	}
	v, ok := phase.Value()
	if !ok {
		return fmt.Errorf("%w: set-phase needs a phase value, not %q", gbt.ErrUsage, args[3])
	}

	return gbt.SetPhase(dialer(), args[0], ohN, vfatN, v)
}

func runSetPhases(cmd *cobra.Command, args []string) error {
	ohN, err := parseIndex("OH", args[1])
	if err != nil {
		return err
	}
	phases, err := gbt.ParsePhases(args[2:])
	if err != nil {
		return err
	}

	return gbt.SetPhaseAllVFATs(dialer(), args[0], ohN, phases, debug)
}

func runSetPhasesAll(cmd *cobra.Command, args []string) error {
	mask, n := slotSelection(cmd)

	phases, err := gbt.LoadPhaseMap(args[1])
	if err != nil {
		return err
	}

	return gbt.SetPhaseAllOHs(dialer(), args[0], phases, mask, n, debug)
}

func parseIndex(what, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: invalid %s number %q", gbt.ErrUsage, what, s)
	}
	return v, nil
}
