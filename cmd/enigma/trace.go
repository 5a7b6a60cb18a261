package main

import (
	"fmt"
	"os"

	"github.com/aretw0/enigma/internal/cli"
	"github.com/spf13/cobra"
)

// traceCmd represents the trace command
var traceCmd = &cobra.Command{
	Use:   "trace <letter>",
	Short: "Export the signal path of one key press",
	Long: `Builds the machine, presses one key and outputs a Mermaid diagram (graph TD)
of the letter after the plugboard, every rotor, the reflector and the way back.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := machineOptions(cmd)
		highlight, _ := cmd.Flags().GetString("highlight")

		output, err := cli.Trace(opts, args[0], highlight)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error tracing letter: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(output)
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)
	addMachineFlags(traceCmd)
	traceCmd.Flags().String("highlight", "", "Stage to highlight, e.g. reflector or \"rotor 2\"")
}
