package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a lock.
type UnlockFunc func(ctx context.Context) error

// Locker serializes conversion runs over a shared scene.
// The engine itself never interleaves runs; callers that accept concurrent requests
// (HTTP, NDJSON transports) take the lock around each run.
type Locker interface {
	// TryLock acquires the lock for key without waiting.
	// Returns domain.ErrRunInProgress if the lock is already held.
	// The ttl bounds how long a crashed holder can keep the lock (implementation specific).
	TryLock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
