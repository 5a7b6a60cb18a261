package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by DistributedLocker.Lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes key sheet writes across server replicas that
// share one store. The in-process mutexes of session.Manager only cover a
// single replica.
type DistributedLocker interface {
	// Lock blocks until key is held or ctx is done. The lock lapses after ttl
	// even if the holder never releases it, so a crashed replica cannot wedge
	// a session. The returned UnlockFunc must be called once.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
