package ports

import (
	"context"

	"github.com/aretw0/enigma/pkg/domain"
)

// KeySheetStore defines the interface for persisting named machine settings.
// Rotor positions are never stored: a session always restarts at the sheet's code.
type KeySheetStore interface {
	// Save persists the key sheet under its name, replacing any previous one.
	Save(ctx context.Context, sheet *domain.KeySheet) error

	// Load retrieves the key sheet for a given name.
	// Returns domain.ErrSessionNotFound if the sheet does not exist.
	Load(ctx context.Context, name string) (*domain.KeySheet, error)

	// Delete removes the key sheet for a given name.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored key sheets.
	List(ctx context.Context) ([]string, error)
}
