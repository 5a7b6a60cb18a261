package main

import (
	"fmt"
	"os"

	"github.com/aretw0/enigma/internal/cli"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "Issue a bearer token for the HTTP session routes",
	Long: `Signs a token with the same secret given to 'enigma serve --auth-secret'.
Repeat --session to limit the token to those sessions.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, _ := cmd.Flags().GetString("secret")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		sessions, _ := cmd.Flags().GetStringArray("session")

		token, err := cli.IssueToken(secret, args[0], ttl, sessions)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().String("secret", os.Getenv("ENIGMA_AUTH_SECRET"), "Signing secret (env ENIGMA_AUTH_SECRET)")
	tokenCmd.Flags().Duration("ttl", 0, "Token lifetime (0 never expires)")
	tokenCmd.Flags().StringArray("session", nil, "Session the token grants (repeatable)")
}
