package main

import (
	"fmt"
	"os"

	"github.com/aretw0/enigma/internal/cli"
	"github.com/aretw0/enigma/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Show the wiring tables and, optionally, a machine's settings",
	Long: `Prints the rotor and reflector wiring as a formatted report.
With --rotors and --code (or --config) it also describes that machine.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := machineOptions(cmd)
		width, _ := cmd.Flags().GetInt("width")
		raw, _ := cmd.Flags().GetBool("raw")

		report, err := cli.Describe(opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if raw {
			fmt.Print(report)
			return
		}

		out, err := tui.NewRenderer(width)(report)
		if err != nil {
			out = report
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	addMachineFlags(describeCmd)
	describeCmd.Flags().Int("width", 80, "Word wrap width of the report")
	describeCmd.Flags().Bool("raw", false, "Print the markdown source instead of rendering it")
}
