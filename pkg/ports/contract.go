package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/enigma/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunKeySheetStoreContract runs a suite of tests to verify that a KeySheetStore
// implementation adheres to the defined interface contract.
func RunKeySheetStoreContract(t *testing.T, store KeySheetStore) {
	ctx := context.Background()
	name := "contract-test-sheet-" + time.Now().Format("20060102150405")

	newSheet := func(name string) *domain.KeySheet {
		return &domain.KeySheet{
			Name: name,
			Settings: domain.Settings{
				Rotors:      []int{1, 2, 3},
				Code:        "ABC",
				RingOffsets: []int{0, 1, 2},
				Plugboard:   []string{"QW", "ER"},
			},
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		sheet := newSheet(name)

		err := store.Save(ctx, sheet)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sheet.Name, loaded.Name)
		assert.Equal(t, sheet.Settings, loaded.Settings)
		assert.True(t, sheet.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Isolation", func(t *testing.T) {
		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		loaded.Settings.Code = "ZZZ"
		loaded.Settings.Rotors[0] = 5

		again, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "ABC", again.Settings.Code, "mutating a loaded sheet must not leak into the store")
		assert.Equal(t, 1, again.Settings.Rotors[0])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, newSheet(name))
		require.NoError(t, err)

		err = store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		_ = store.Save(ctx, newSheet(id1))
		_ = store.Save(ctx, newSheet(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
	})
}
