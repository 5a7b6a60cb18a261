package enigma

import (
	"log/slog"

	"github.com/aretw0/enigma/internal/logging"
	"github.com/aretw0/enigma/pkg/domain"
	"github.com/aretw0/enigma/pkg/machine"
	"github.com/aretw0/enigma/pkg/wiring"
)

// Settings is re-exported for callers that only import the root package.
type Settings = domain.Settings

// Machine is the assembled cipher.
type Machine = machine.Machine

type config struct {
	tables *wiring.Tables
	hooks  domain.Hooks
	logger *slog.Logger
	err    error
}

// Option defines a functional option for New.
type Option func(*config)

// WithTables replaces the historical wiring tables.
func WithTables(t *wiring.Tables) Option {
	return func(c *config) {
		c.tables = t
	}
}

// WithTablesFile loads wiring tables from a YAML or JSON file.
// A file that cannot be loaded makes New fail.
func WithTablesFile(path string) Option {
	return func(c *config) {
		t, err := wiring.Load(path)
		if err != nil {
			c.err = err
			return
		}
		c.tables = t
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(c *config) {
		c.hooks = c.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// New builds a machine with the historical tables unless told otherwise.
func New(s Settings, opts ...Option) (*Machine, error) {
	c := &config{
		tables: wiring.Default(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.err != nil {
		return nil, c.err
	}
	return machine.New(c.tables, s, machine.WithHooks(c.hooks), machine.WithLogger(c.logger))
}

// Encrypt builds a fresh machine and runs text through it.
func Encrypt(s Settings, text string) (string, error) {
	m, err := New(s)
	if err != nil {
		return "", err
	}
	return m.EncryptString(text), nil
}
