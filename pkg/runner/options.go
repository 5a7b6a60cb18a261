package runner

import (
	"io"
	"log/slog"
)

// DefaultInputBufferSize is the default number of lines to buffer ahead of the cipher.
const DefaultInputBufferSize = 64

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithInput sets the stream lines are read from.
func WithInput(r io.Reader) Option {
	return func(rn *Runner) {
		rn.Input = r
	}
}

// WithOutput sets the stream results are written to.
func WithOutput(w io.Writer) Option {
	return func(rn *Runner) {
		rn.Output = w
	}
}

// WithPrompt enables the "In: " / "Out: " prompts.
func WithPrompt(prompt bool) Option {
	return func(rn *Runner) {
		rn.Prompt = prompt
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(rn *Runner) {
		rn.Logger = logger
	}
}

// WithRenderer configures the ciphertext renderer (e.g. terminal colours).
func WithRenderer(renderer ContentRenderer) Option {
	return func(rn *Runner) {
		rn.Renderer = renderer
	}
}

// WithInputBufferSize sets how many lines may be read ahead.
func WithInputBufferSize(size int) Option {
	return func(rn *Runner) {
		if size > 0 {
			rn.bufferSize = size
		}
	}
}
