package main

import (
	"github.com/aretw0/enigma/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// legacyFlagNames maps the flag spellings of the older command line onto the
// current names.
var legacyFlagNames = map[string]string{
	"punctuation_off": "punctuation-off",
	"po":              "punctuation-off",
}

// normalizeFlagName accepts the legacy flag spellings.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if current, ok := legacyFlagNames[name]; ok {
		name = current
	}
	return pflag.NormalizedName(name)
}

// legacyArgs rewrites the single-dash "-po" switch, which pflag would read as
// "-p o", into "--punctuation-off". Arguments after "--" are left alone.
func legacyArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i, arg := range out {
		if arg == "--" {
			break
		}
		if arg == "-po" {
			out[i] = "--punctuation-off"
		}
	}
	return out
}

// addMachineFlags registers the flags describing a machine's settings.
func addMachineFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("rotors", "r", "", "Rotor IDs from 1 to 5, leftmost first (e.g. 123)")
	cmd.Flags().StringArrayP("plugboard", "p", nil, "Plugboard pair such as ab (repeatable)")
	cmd.Flags().StringP("code", "c", "", "Starting letter of each rotor, leftmost first (e.g. abc)")
	cmd.Flags().Bool("punctuation-off", false, "Drop non-letters instead of passing them through")
	cmd.Flags().String("ring", "", "Comma separated ring offsets from 0 to 26, one per rotor")
	cmd.Flags().String("config", "", "Key sheet file (YAML, or JSON by extension); flags override it")
}

// machineOptions reads the flags added by addMachineFlags and the persistent ones.
func machineOptions(cmd *cobra.Command) cli.RunOptions {
	var opts cli.RunOptions
	opts.Rotors, _ = cmd.Flags().GetString("rotors")
	opts.Plugboard, _ = cmd.Flags().GetStringArray("plugboard")
	opts.Code, _ = cmd.Flags().GetString("code")
	opts.PunctuationOff, _ = cmd.Flags().GetBool("punctuation-off")
	opts.Ring, _ = cmd.Flags().GetString("ring")
	opts.Config, _ = cmd.Flags().GetString("config")
	opts.Tables, _ = cmd.Flags().GetString("tables")
	opts.Debug, _ = cmd.Flags().GetBool("debug")
	return opts
}
