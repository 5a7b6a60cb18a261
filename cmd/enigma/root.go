package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "enigma",
	Short: "Enigma is a rotor cipher machine simulator",
	Long: `Enigma simulates a three or five rotor cipher machine with a reflector and a plugboard.
The same settings encrypt and decrypt: feed the ciphertext back to get the message.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	rootCmd.SetArgs(legacyArgs(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Log every rotor step and letter to stderr")
	rootCmd.PersistentFlags().String("tables", "", "YAML or JSON file overriding the rotor and reflector wiring")
}
