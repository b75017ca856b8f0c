// cmd/gbt/cmd/root.go
package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/tamzrod/gbt-tool/internal/config"
	"github.com/tamzrod/gbt-tool/internal/gbt"
	"github.com/tamzrod/gbt-tool/internal/ohmask"
	"github.com/tamzrod/gbt-tool/internal/rpc"
	rmodbus "github.com/tamzrod/gbt-tool/internal/rpc/modbus"
	"github.com/tamzrod/gbt-tool/internal/rpc/sim"
)

// exUsage mirrors sysexits.h EX_USAGE.
const exUsage = 64

var (
	// Global flags
	cfgPath  string
	simulate bool
	debug    bool

	// Slot selection, shared by every multi-OH command
	ohMask = ohmask.All
	nOHs   = ohmask.DefaultOHs

	settings *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gbt",
	Short: "GBT configuration and VFAT phase alignment tool",
	Long: `Configure GBTx chips and scan or set VFAT RX phases on the optohybrids
of a backend board.

CARD is the board alias. Aliases listed in the config file are resolved to
their endpoint; any other alias is dialled as <host>:502 over Modbus TCP.

Examples:
  gbt config amc-s2e01-23-03 GBTX_OH_v3_0.txt GBTX_OH_v3_1.txt --oh-mask 0x3
  gbt scan amc-s2e01-23-03 --oh-mask 0b0101 --output phases.txt
  gbt set-phase amc-s2e01-23-03 2 17 9
  gbt set-phases amc-s2e01-23-03 2 7 8 skip 6
  gbt set-phases-all amc-s2e01-23-03 phases.yaml`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitCode(err)
	}
	return 0
}

func init() {
	log.SetPrefix("gbt: ")

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "gbt.yaml",
		"YAML card registry and defaults (optional)")
	rootCmd.PersistentFlags().BoolVar(&simulate, "simulate", false,
		"run against an in-memory simulated board")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false,
		"log every phase write and every Modbus frame")
}

func loadSettings(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	config.Normalize(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	settings = cfg
	return nil
}

// addSlotFlags registers --oh-mask / --n-ohs on cmd.
func addSlotFlags(cmd *cobra.Command) {
	cmd.Flags().Var(&ohMask, "oh-mask",
		"OH mask, bit n selects OH n (0x, 0b or decimal)")
	cmd.Flags().IntVar(&nOHs, "n-ohs", ohmask.DefaultOHs,
		"number of OH's on this board")
}

// slotSelection returns the mask and slot count, taking config defaults
// for flags left unset.
func slotSelection(cmd *cobra.Command) (ohmask.Mask, int) {
	m, n := ohMask, nOHs
	if !cmd.Flags().Changed("oh-mask") {
		m = settings.GBT.Defaults.OHMask
	}
	if !cmd.Flags().Changed("n-ohs") {
		n = settings.GBT.Defaults.NOHs
	}
	return m, n
}

func dialer() rpc.Dialer {
	if simulate {
		log.Printf("using simulated board")
		return sim.Dialer{Board: sim.NewBoard(ohmask.MaxOHs)}
	}

	var logger *log.Logger
	if debug {
		logger = log.New(os.Stderr, "modbus: ", log.LstdFlags)
	}
	return rmodbus.NewDialer(settings.GBT.Cards, logger)
}

// exitCode maps error kinds onto process exit codes.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, gbt.ErrUsage) {
		return exUsage
	}

	var se *rpc.StatusError
	if errors.As(err, &se) {
		log.Printf("board status %d from %s", se.ErrorCode(), se.Op)
	}
	return 1
}
