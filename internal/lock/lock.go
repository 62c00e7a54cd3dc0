// Package lock serializes work on a key across goroutines or, with Redis, across processes.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrLocked = errors.New("lock already held")

// Release frees a lock obtained from Acquire.
type Release func(ctx context.Context) error

type Locker interface {
	// Acquire takes key without waiting, failing with ErrLocked when another holder has it.
	// The lock expires after ttl if it is never released.
	Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error)
}

// Local is an in-process Locker.
type Local struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

func NewLocal() *Local {
	return &Local{held: make(map[string]time.Time), now: time.Now}
}

func (l *Local) Acquire(_ context.Context, key string, ttl time.Duration) (Release, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if expires, ok := l.held[key]; ok && now.Before(expires) {
		return nil, ErrLocked
	}

	expires := now.Add(ttl)
	l.held[key] = expires

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()

		// Only the holder that set this expiry may clear it.
		if l.held[key].Equal(expires) {
			delete(l.held, key)
		}

		return nil
	}, nil
}
