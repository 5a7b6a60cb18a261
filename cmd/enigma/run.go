package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/enigma/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Encrypt stdin line by line, or a single --text",
	Long: `Builds a machine from the flags (or a key sheet) and encrypts every line read from stdin
until EOF or Ctrl+C. Rotor positions carry over from one line to the next.`,
	Example: `  enigma run -r 123 -c abc -p qw -p er
  echo "Meet at noon" | enigma -r 451 -c xyz
  enigma run --config monday.yaml --text "Attack at dawn"`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := machineOptions(cmd)
		opts.Text, _ = cmd.Flags().GetString("text")
		opts.Quiet, _ = cmd.Flags().GetBool("quiet")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		stdio := cli.IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
		if err := cli.Execute(ctx, opts, stdio); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func addRunFlags(cmd *cobra.Command) {
	addMachineFlags(cmd)
	cmd.Flags().String("text", "", "Encrypt this text once instead of reading stdin")
	cmd.Flags().BoolP("quiet", "q", false, "Suppress the banner and system messages")
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)

	// 'run' is the default when no command is given.
	addRunFlags(rootCmd)
	rootCmd.Run = runCmd.Run
}
