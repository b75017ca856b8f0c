// cmd/gbt/cmd/config.go
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tamzrod/gbt-tool/internal/gbt"
)

var configCmd = &cobra.Command{
	Use:   "config CARD FILE [FILE [FILE]]",
	Short: "Write GBTx configurations to every OH in the mask",
	Long: `Write one GBTx configuration file per GBT to every selected OH.
The position of each FILE is the GBT number on the OH (at most 3).

A configuration file holds one hexadecimal register value per line;
the first 366 lines are used.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	addSlotFlags(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	mask, n := slotSelection(cmd)

	return gbt.Configure(dialer(), args[0], gbt.ConfigureOptions{
		Files: args[1:],
		Mask:  mask,
		NOHs:  n,
	})
}
