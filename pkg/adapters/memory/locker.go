package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/recolor/pkg/domain"
	"github.com/aretw0/recolor/pkg/ports"
)

type lease struct {
	token   uint64
	expires time.Time // zero never expires
}

// Locker implements ports.Locker for a single process.
type Locker struct {
	mu   sync.Mutex
	next uint64
	held map[string]lease
}

// NewLocker creates an in-process locker.
func NewLocker() *Locker {
	return &Locker{held: make(map[string]lease)}
}

// TryLock acquires key if it is free or its previous holder's ttl elapsed.
func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if cur, ok := l.held[key]; ok && (cur.expires.IsZero() || now.Before(cur.expires)) {
		return nil, domain.ErrRunInProgress
	}

	l.next++
	mine := lease{token: l.next}
	if ttl > 0 {
		mine.expires = now.Add(ttl)
	}
	l.held[key] = mine

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			// An expired lease may have been taken over; only the owner releases.
			if cur, ok := l.held[key]; ok && cur.token == mine.token {
				delete(l.held, key)
			}
		})
		return nil
	}, nil
}
