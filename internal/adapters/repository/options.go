package repository

import (
	"time"

	"github.com/okian/diamond/pkg/logger"
)

// Default connection retry policy.
const (
	defaultConnectAttempts = 5
	defaultConnectDelay    = 2 * time.Second
)

type openOptions struct {
	attempts int
	delay    time.Duration
	logger   logger.Logger
}

// Option applies a configuration option to Open.
type Option func(*openOptions)

// WithConnectRetry sets how many times Open tries to reach the store and how
// long it waits between attempts.
func WithConnectRetry(attempts int, delay time.Duration) Option {
	return func(o *openOptions) {
		if attempts > 0 {
			o.attempts = attempts
		}
		if delay >= 0 {
			o.delay = delay
		}
	}
}

// WithLogger sets the logger used to report connection attempts.
func WithLogger(l logger.Logger) Option {
	return func(o *openOptions) {
		if l != nil {
			o.logger = l
		}
	}
}
