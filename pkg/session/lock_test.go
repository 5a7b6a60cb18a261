package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/enigma/pkg/adapters/memory"
	"github.com/aretw0/enigma/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Deleted sessions must not leave mutexes or machines behind.
func TestManager_DeleteReleasesState(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()
	settings := domain.Settings{Rotors: []int{1, 2, 3}, Code: "AAA"}

	for i := 0; i < 2000; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_, err := mgr.Create(ctx, sid, settings)
		require.NoError(t, err)
		_, err = mgr.Encrypt(ctx, sid, "A")
		require.NoError(t, err)
		require.NoError(t, mgr.Delete(ctx, sid))
	}

	assert.Empty(t, mgr.locks, "locks left after Delete")
	assert.Empty(t, mgr.machines, "machines left after Delete")
}

// Concurrent single letters on one session step the rotors exactly once each.
func TestManager_ConcurrentEncryptSerializes(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()
	_, err := mgr.Create(ctx, "ops", domain.Settings{Rotors: []int{1, 2, 3}, Code: "AAA"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 26; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mgr.Encrypt(ctx, "ops", "A")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	st, err := mgr.Status(ctx, "ops")
	require.NoError(t, err)
	assert.Equal(t, "ABA", st.Positions)
	assert.Empty(t, mgr.locks)
}

// Each reply carries the positions its own letters left, even under contention.
func TestManager_EncryptWithPositionsIsAtomic(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()
	_, err := mgr.Create(ctx, "ops", domain.Settings{Rotors: []int{1, 2, 3}, Code: "AAA"})
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[string]bool)
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, positions, err := mgr.EncryptWithPositions(ctx, "ops", "A")
			assert.NoError(t, err)
			mu.Lock()
			seen[positions] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	// 25 steps from AAA visit AAB..AAU, carry on V, then ABV..ABZ.
	assert.Len(t, seen, 25)
	assert.True(t, seen["AAU"])
	assert.True(t, seen["ABV"])
	assert.True(t, seen["ABZ"])
	assert.False(t, seen["AAV"])
}
