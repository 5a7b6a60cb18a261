package main

import (
	"fmt"
	"os"

	"github.com/aretw0/enigma/internal/cli"
	"github.com/spf13/cobra"
)

var keysheetCmd = &cobra.Command{
	Use:   "keysheet",
	Short: "Create and check key sheet files",
	Long:  `A key sheet stores a machine's settings (never its rotor positions) for use with --config.`,
}

var keysheetNewCmd = &cobra.Command{
	Use:   "new <file>",
	Short: "Write the settings given as flags to a key sheet",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sheet, err := cli.WriteKeySheet(machineOptions(cmd), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing key sheet: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote key sheet '%s' to %s\n", sheet.Name, args[0])
	},
}

var keysheetCheckCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Check that key sheets assemble a valid machine",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tables, _ := cmd.Flags().GetString("tables")
		hasError := false

		for _, path := range args {
			sheet, err := cli.CheckKeySheet(path, tables)
			if err != nil {
				fmt.Printf("%s: %v\n", path, err)
				hasError = true
				continue
			}
			fmt.Printf("%s: key sheet '%s' is valid\n", path, sheet.Name)
		}
		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(keysheetCmd)
	keysheetCmd.AddCommand(keysheetNewCmd, keysheetCheckCmd)
	addMachineFlags(keysheetNewCmd)
}
