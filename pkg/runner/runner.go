package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/enigma/internal/logging"
)

// Cipher is the stateful transformation applied to every line.
// *machine.Machine satisfies it.
type Cipher interface {
	EncryptString(text string) string
}

// ContentRenderer is a function that transforms the ciphertext before outputting it.
// This allows for TUI styling without coupling the core package.
type ContentRenderer func(string) (string, error)

// Prompts written around each line when prompting is enabled.
const (
	InputPrompt  = "In: "
	OutputPrompt = "Out: "
)

// Runner handles the read-encrypt-write loop over the provided IO.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Prompt   bool
	Renderer ContentRenderer

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	bufferSize int
}

// New creates a Runner on Stdin/Stdout without prompts.
func New(opts ...Option) *Runner {
	r := &Runner{
		Input:      os.Stdin,
		Output:     os.Stdout,
		Logger:     logging.NewNop(),
		bufferSize: DefaultInputBufferSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// Run processes lines until EOF or until ctx is cancelled.
// A line rejected by SanitizeInput is reported and skipped; the rotors do not move for it.
func (r *Runner) Run(ctx context.Context, c Cipher) error {
	lines := readLines(ctx, r.Input, r.bufferSize)
	processed := 0

	for {
		if r.Prompt {
			fmt.Fprint(r.Output, InputPrompt)
		}

		var (
			res lineResult
			ok  bool
		)
		select {
		case <-ctx.Done():
			r.Logger.Debug("Runner cancelled", "lines", processed)
			return ctx.Err()
		case res, ok = <-lines:
		}
		if !ok {
			return ctx.Err()
		}

		if res.err != nil {
			if errors.Is(res.err, io.EOF) {
				if r.Prompt {
					fmt.Fprintln(r.Output)
				}
				r.Logger.Debug("Input closed", "lines", processed)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", res.err)
		}

		clean, err := SanitizeInput(res.line)
		if err != nil {
			r.Logger.Warn("Input rejected", "err", err)
			fmt.Fprintf(r.Output, "error: %v\n", err)
			continue
		}

		r.write(c.EncryptString(clean))
		processed++
	}
}

func (r *Runner) write(cipher string) {
	output := cipher
	if r.Renderer != nil {
		if rendered, err := r.Renderer(cipher); err == nil {
			output = rendered
		} else {
			r.Logger.Debug("Renderer failed", "err", err)
		}
	}
	if r.Prompt {
		fmt.Fprint(r.Output, OutputPrompt)
	}
	fmt.Fprintln(r.Output, output)
}

// EncryptAll sanitizes text and encrypts it in one shot.
func EncryptAll(c Cipher, text string) (string, error) {
	clean, err := SanitizeInput(strings.TrimRight(text, "\r\n"))
	if err != nil {
		return "", err
	}
	return c.EncryptString(clean), nil
}
