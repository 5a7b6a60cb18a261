package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/enigma"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of enigma",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("enigma version %s\n", strings.TrimSpace(enigma.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
