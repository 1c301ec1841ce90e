package lock

import (
	"context"
	"sync"
)

// Local is an in-process Locker. The zero value is ready to use.
type Local struct {
	mu   sync.Mutex
	keys map[string]chan struct{}
}

// NewLocal returns an empty in-process Locker.
func NewLocal() *Local {
	return &Local{}
}

func (l *Local) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.keys == nil {
		l.keys = make(map[string]chan struct{})
	}
	ch, ok := l.keys[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.keys[key] = ch
	}
	return ch
}

// Lock implements Locker.
func (l *Local) Lock(ctx context.Context, key string) (Unlock, error) {
	ch := l.slot(key)
	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func(context.Context) error {
		err := ErrNotHeld
		once.Do(func() {
			<-ch
			err = nil
		})
		return err
	}, nil
}
