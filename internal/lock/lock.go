// Package lock provides short-lived named locks that serialize work on a
// single resource, either inside one process or across replicas via Redis.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"budgettracker/internal/uuid"
)

// ErrNotAcquired is returned when the lock is already held.
var ErrNotAcquired = errors.New("lock is held by another worker")

// Unlock releases a lock obtained from a Locker. It only releases the lease
// it was returned with, so a lock that expired and was re-acquired elsewhere
// is left alone.
type Unlock func(ctx context.Context) error

// Locker hands out exclusive leases on keys.
type Locker interface {
	// TryAcquire returns ErrNotAcquired instead of waiting when key is held.
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (Unlock, error)
}

type lease struct {
	token     string
	expiresAt time.Time
}

// LocalLocker is an in-process Locker.
type LocalLocker struct {
	mu     sync.Mutex
	leases map[string]lease
	now    func() time.Time
}

// NewLocalLocker creates an empty LocalLocker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{leases: make(map[string]lease), now: time.Now}
}

// TryAcquire implements Locker.
func (l *LocalLocker) TryAcquire(_ context.Context, key string, ttl time.Duration) (Unlock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if cur, held := l.leases[key]; held && now.Before(cur.expiresAt) {
		return nil, ErrNotAcquired
	}
	token := uuid.New()
	l.leases[key] = lease{token: token, expiresAt: now.Add(ttl)}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if cur, held := l.leases[key]; held && cur.token == token {
			delete(l.leases, key)
		}
		return nil
	}, nil
}
