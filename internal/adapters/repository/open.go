package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/diamond/pkg/logger"
)

// Open builds the Store for driver, retrying the connection according to the
// configured policy. The memory driver never fails.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (Store, error) {
	o := &openOptions{attempts: defaultConnectAttempts, delay: defaultConnectDelay}
	for _, opt := range opts {
		opt(o)
	}

	switch driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	var lastErr error
	for attempt := 1; attempt <= o.attempts; attempt++ {
		s, err := NewSQLStore(ctx, driver, dsn)
		if err == nil {
			if o.logger != nil {
				o.logger.Info(ctx, "store connected", logger.String("driver", driver), logger.Int("attempt", attempt))
			}
			return s, nil
		}
		lastErr = err
		if !errors.Is(err, ErrStoreUnavailable) {
			return nil, err
		}
		if o.logger != nil {
			o.logger.Warn(ctx, "store connection failed",
				logger.String("driver", driver),
				logger.Int("attempt", attempt),
				logger.Int("maxAttempts", o.attempts),
				logger.Error(err),
			)
		}
		if attempt == o.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect %s: %w", driver, ctx.Err())
		case <-time.After(o.delay):
		}
	}
	return nil, fmt.Errorf("connect %s after %d attempts: %w", driver, o.attempts, lastErr)
}
