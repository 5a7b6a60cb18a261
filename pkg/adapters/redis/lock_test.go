package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/enigma/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_MutualExclusion(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "enigma:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "daily", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("enigma:lock:daily"))

	// A second caller cannot get in while the lock is held.
	short, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(short, "daily", 5*time.Second)
	assert.ErrorIs(t, err, redis.ErrLockAcquire)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("enigma:lock:daily"))

	unlock, err = locker.Lock(ctx, "daily", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestLocker_UnlockDoesNotReleaseForeignLock(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "enigma:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "daily", time.Second)
	require.NoError(t, err)

	// The lock expires and somebody else takes it.
	mr.FastForward(2 * time.Second)
	other, err := locker.Lock(ctx, "daily", 5*time.Second)
	require.NoError(t, err)

	require.NoError(t, unlock(ctx))
	assert.True(t, mr.Exists("enigma:lock:daily"), "stale unlock must keep the new owner's lock")
	require.NoError(t, other(ctx))
}
