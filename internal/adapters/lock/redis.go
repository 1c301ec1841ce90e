package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL          = 30 * time.Second
	defaultPollInterval = 50 * time.Millisecond
	defaultPrefix       = "diamond:lock:"
)

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript pushes the expiry forward only if the key still holds our token.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Redis is a Locker shared by every process talking to the same Redis.
// Locks expire after the TTL so a crashed holder cannot wedge the others.
// A live holder extends its key every third of the TTL until it unlocks.
type Redis struct {
	client    redis.UniversalClient
	ttl       time.Duration
	poll      time.Duration
	prefix    string
	noRefresh bool
}

// RedisOption configures a Redis locker.
type RedisOption func(*Redis)

// WithTTL sets how long an acquired lock lives without being released.
func WithTTL(d time.Duration) RedisOption {
	return func(r *Redis) {
		if d > 0 {
			r.ttl = d
		}
	}
}

// WithPollInterval sets the retry interval while a lock is contended.
func WithPollInterval(d time.Duration) RedisOption {
	return func(r *Redis) {
		if d > 0 {
			r.poll = d
		}
	}
}

// WithKeyPrefix namespaces the lock keys.
func WithKeyPrefix(p string) RedisOption {
	return func(r *Redis) {
		r.prefix = p
	}
}

// WithoutRefresh disables TTL extension, so a lock lives at most one TTL.
func WithoutRefresh() RedisOption {
	return func(r *Redis) {
		r.noRefresh = true
	}
}

// NewRedis builds a Redis locker on an existing client.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client,
		ttl:    defaultTTL,
		poll:   defaultPollInterval,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lock implements Locker.
func (r *Redis) Lock(ctx context.Context, key string) (Unlock, error) {
	name := r.prefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(r.poll)
	defer ticker.Stop()
	for {
		ok, err := r.client.SetNX(ctx, name, token, r.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("acquire %s: %w", name, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	stop := func() {}
	if !r.noRefresh {
		stop = r.keepAlive(context.WithoutCancel(ctx), name, token)
	}

	return func(ctx context.Context) error {
		stop()
		n, err := releaseScript.Run(ctx, r.client, []string{name}, token).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("release %s: %w", name, err)
		}
		if n == 0 {
			return ErrNotHeld
		}
		return nil
	}, nil
}

// keepAlive extends name while it holds token. The returned func stops it and
// waits for the goroutine to exit.
func (r *Redis) keepAlive(ctx context.Context, name, token string) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		interval := r.ttl / 3
		if interval <= 0 {
			interval = time.Millisecond
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := extendScript.Run(ctx, r.client, []string{name}, token, r.ttl.Milliseconds()).Int64()
				if err == nil && n == 0 {
					// Lost the key; unlock will report ErrNotHeld.
					return
				}
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
