// Package lock provides the single-writer locks that serialize recomputes.
package lock

import (
	"context"
	"errors"
)

// ErrNotHeld is returned by an unlock func when the lock was already
// released or expired.
var ErrNotHeld = errors.New("lock not held")

// Unlock releases a lock obtained from Locker.Lock.
type Unlock func(ctx context.Context) error

// Locker hands out exclusive locks by key.
type Locker interface {
	// Lock blocks until key is acquired or ctx ends.
	Lock(ctx context.Context, key string) (Unlock, error)
}
