//go:build !sqlite

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/enigma/pkg/ports"
)

func openSQLiteStore(_ context.Context, _ string) (ports.KeySheetStore, io.Closer, error) {
	return nil, nil, fmt.Errorf("sqlite backend unavailable in this build; rebuild with -tags sqlite")
}
