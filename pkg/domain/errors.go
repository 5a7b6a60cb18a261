package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is the root of every configuration and usage error.
// Use errors.Is to test for it; ConfigError and AggregateError both unwrap to it.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ConfigError represents a single rejected construction parameter.
type ConfigError struct {
	Field  string // Parameter name, e.g. "rotors[1]" or "plugboard"
	Reason string // Human-readable reason for failure
	Value  any    // The value that was rejected
}

func (e *ConfigError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Reason, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidArgument
}

// AggregateError represents multiple configuration failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d configuration errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ConfigErrors returns all configuration errors if err is an AggregateError,
// a single-element slice if err is a ConfigError, and nil otherwise.
func ConfigErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	var cfg *ConfigError
	if errors.As(err, &cfg) {
		return []error{cfg}
	}
	return nil
}

// Invalid builds a usage error wrapping ErrInvalidArgument.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
