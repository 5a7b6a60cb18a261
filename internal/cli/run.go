package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/enigma/internal/presentation/tui"
	"github.com/aretw0/enigma/pkg/domain"
	"github.com/aretw0/enigma/pkg/machine"
	"github.com/aretw0/enigma/pkg/observability"
	"github.com/aretw0/enigma/pkg/runner"
	"github.com/aretw0/enigma/pkg/wiring"
	"github.com/muesli/termenv"
)

// IO bundles the streams the run command works on.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// LoadTables returns the embedded tables, or the file at path when set.
func LoadTables(path string) (*wiring.Tables, error) {
	if path == "" {
		return wiring.Default(), nil
	}
	return wiring.Load(path)
}

// Execute handles the run command: it builds a machine from the key sheet and
// flags, then either encrypts opts.Text once or streams the input line by line
// until EOF or ctx is cancelled.
func Execute(ctx context.Context, opts RunOptions, stdio IO) error {
	logger := createLogger(opts.Debug)

	settings, err := BuildSettings(opts)
	if err != nil {
		return err
	}
	tables, err := LoadTables(opts.Tables)
	if err != nil {
		return err
	}

	machineOpts := []machine.Option{machine.WithLogger(logger)}
	if opts.Debug {
		machineOpts = append(machineOpts, machine.WithHooks(observability.LogHooks(logger)))
	}
	m, err := machine.New(tables, settings, machineOpts...)
	if err != nil {
		return err
	}

	if opts.Text != "" {
		out, err := runner.EncryptAll(m, opts.Text)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdio.Out, out)
		return nil
	}

	interactive := isTerminal(stdio.In)
	if interactive && !opts.Quiet {
		tui.PrintBanner(stdio.Out)
		fmt.Fprintln(stdio.Out, tui.RotorWindow(m.Settings().Rotors, m.Positions()))
		describeMachine(stdio.Out, m)
	}

	profile := termenv.Ascii
	if interactive {
		profile = termenv.ColorProfile()
	}
	r := runner.New(
		runner.WithInput(stdio.In),
		runner.WithOutput(stdio.Out),
		runner.WithPrompt(interactive),
		runner.WithLogger(logger),
		runner.WithRenderer(tui.NewCipherRenderer(profile)),
	)

	err = r.Run(ctx, m)
	logger.Info("Run finished", "positions", m.Positions())
	return handleExecutionError(err)
}

func describeMachine(w io.Writer, m *machine.Machine) {
	s := m.Settings()
	mode := "kept"
	if s.DropPunctuation {
		mode = "dropped"
	}
	printSystemMessage(w, "Rotors %v at '%s', %d plugboard pairs, punctuation %s.",
		s.Rotors, m.Positions(), len(s.Plugboard), mode)
}

// Describe returns the markdown report for the tables and an optional key sheet.
func Describe(opts RunOptions) (string, error) {
	tables, err := LoadTables(opts.Tables)
	if err != nil {
		return "", err
	}
	if opts.Config == "" && opts.Rotors == "" {
		return tui.Report(tables, nil), nil
	}
	settings, err := BuildSettings(opts)
	if err != nil {
		return "", err
	}
	if _, err := machine.New(tables, settings); err != nil {
		return "", err
	}
	return tui.Report(tables, &domain.KeySheet{Name: opts.Config, Settings: settings}), nil
}
