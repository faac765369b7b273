// Package lock provides the single-writer locks used around ledger
// materialization.
package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrBusy is returned when another holder kept the lock for the whole wait.
var ErrBusy = errors.New("lock is held by another writer")

// Local serializes holders inside one process.
type Local struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocal() *Local {
	return &Local{slots: make(map[string]chan struct{})}
}

func (l *Local) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}

	return ch
}

// Lock blocks until key is free or ctx is done.
func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	ch := l.slot(key)

	select {
	case ch <- struct{}{}:
		var once sync.Once

		return func() { once.Do(func() { <-ch }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Redis holds the lock in Redis so that several API replicas never
// materialize at the same time.
type Redis struct {
	client  *redislock.Client
	ttl     time.Duration
	retries int
}

// RedisOption configures a Redis locker.
type RedisOption func(*Redis)

// WithRetries sets how many times Lock polls a held key before giving up
// with ErrBusy. Polls are 100ms apart.
func WithRetries(n int) RedisOption {
	return func(r *Redis) {
		r.retries = n
	}
}

func NewRedis(rdb *redis.Client, ttl time.Duration, opts ...RedisOption) *Redis {
	r := &Redis{
		client:  redislock.New(rdb),
		ttl:     ttl,
		retries: 50,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	l, err := r.client.Obtain(ctx, key, r.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), r.retries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrBusy
	}

	if err != nil {
		return nil, fmt.Errorf("obtaining redis lock %q: %w", key, err)
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := l.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			slog.Warn("failed to release redis lock", "key", key, "error", err)
		}
	}

	return release, nil
}
