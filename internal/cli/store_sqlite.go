//go:build sqlite

package cli

import (
	"context"
	"io"

	"github.com/aretw0/enigma/pkg/adapters/sqlite"
	"github.com/aretw0/enigma/pkg/ports"
)

func openSQLiteStore(ctx context.Context, path string) (ports.KeySheetStore, io.Closer, error) {
	s := sqlite.New(path)
	if err := s.Init(ctx); err != nil {
		return nil, nil, err
	}
	return s, s, nil
}
