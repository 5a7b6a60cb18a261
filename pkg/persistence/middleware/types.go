package middleware

import "github.com/aretw0/enigma/pkg/ports"

// Middleware allows wrapping a KeySheetStore to add behavior.
type Middleware func(ports.KeySheetStore) ports.KeySheetStore

// Chain applies middlewares so that the first one listed sees calls first.
func Chain(store ports.KeySheetStore, mws ...Middleware) ports.KeySheetStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
