//go:build sqlite

package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/enigma/pkg/adapters/sqlite"
	"github.com/aretw0/enigma/pkg/domain"
	"github.com/aretw0/enigma/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s := sqlite.New(filepath.Join(t.TempDir(), "keysheets.db"))
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_Contract(t *testing.T) {
	ports.RunKeySheetStoreContract(t, newStore(t))
}

func TestSQLiteStore_RequiresInit(t *testing.T) {
	s := sqlite.New(filepath.Join(t.TempDir(), "keysheets.db"))
	_, err := s.Load(context.Background(), "x")
	assert.Error(t, err)

	err = sqlite.New("").Init(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keysheets.db")
	ctx := context.Background()

	s := sqlite.New(path)
	require.NoError(t, s.Init(ctx))
	require.NoError(t, s.Save(ctx, &domain.KeySheet{Name: "monday", Settings: domain.Settings{Rotors: []int{1, 2, 3}, Code: "AAA"}}))
	require.NoError(t, s.Close())

	again := sqlite.New(path)
	require.NoError(t, again.Init(ctx))
	defer again.Close()
	sheet, err := again.Load(ctx, "monday")
	require.NoError(t, err)
	assert.Equal(t, "AAA", sheet.Settings.Code)
}
