package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Roma7-7-7/salon-notifier/pkg/clock"
)

type Fetcher[T any] func(ctx context.Context) (T, error)

// TTL memoizes the result of a fetcher for a fixed period. Failed fetches are never cached.
type TTL[T any] struct {
	fetcher Fetcher[T]
	ttl     time.Duration
	clock   clock.Interface

	mu          sync.RWMutex
	value       T
	lastFetched time.Time
}

func NewTTL[T any](fetcher Fetcher[T], ttl time.Duration) *TTL[T] {
	return NewTTLWithClock(fetcher, ttl, clock.NewClock())
}

func NewTTLWithClock[T any](fetcher Fetcher[T], ttl time.Duration, c clock.Interface) *TTL[T] {
	return &TTL[T]{
		fetcher: fetcher,
		ttl:     ttl,
		clock:   c,
	}
}

func (c *TTL[T]) Get(ctx context.Context) (T, error) {
	c.mu.RLock()
	if c.isValid() {
		value := c.value
		c.mu.RUnlock()
		return value, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isValid() {
		return c.value, nil
	}

	value, err := c.fetcher(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.value = value
	c.lastFetched = c.clock.Now()

	return value, nil
}

func (c *TTL[T]) isValid() bool {
	return !c.lastFetched.IsZero() && c.clock.Now().Sub(c.lastFetched) < c.ttl
}

func (c *TTL[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastFetched = time.Time{}
	var zero T
	c.value = zero
}
