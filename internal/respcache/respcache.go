// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

// Package respcache holds the most recent good backend response per logical
// resource key and serves it fetch-free while it is inside the freshness
// window. Concurrent misses for the same key share one in-flight request,
// and a fetch that was superseded by a later invalidation or store never
// overwrites the entry it lost to.
package respcache

import (
	"context"
	"sync"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the payload from the backend on a miss.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// slot is the cached state for one resource key. gen counts every write or
// invalidation so a slow fetch can detect it has been superseded.
type slot[T any] struct {
	payload    T
	capturedAt time.Time
	hasData    bool
	gen        uint64
}

// Cache is a keyed, freshness-windowed response cache. Construct one per
// payload type at application start and pass it by reference; there is no
// implicit package-level instance.
type Cache[T any] struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	slots  map[string]*slot[T]
	flight singleflight.Group
}

// Option customizes a Cache.
type Option[T any] func(*Cache[T])

// WithClock substitutes the time source. Tests use this.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(c *Cache[T]) { c.now = now }
}

// New constructs a Cache whose entries are served without a fetch for
// window after capture.
func New[T any](window time.Duration, opts ...Option[T]) *Cache[T] {
	c := &Cache[T]{
		window: window,
		now:    time.Now,
		slots:  make(map[string]*slot[T]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Window reports the configured freshness window.
func (c *Cache[T]) Window() time.Duration {
	return c.window
}

// Get returns the payload for key. When force is false and the entry is
// still fresh, the stored payload is returned without invoking fetch.
// Otherwise fetch runs; on success the entry is replaced with the new
// payload and capture time, on failure the entry is left exactly as it was
// and the error is returned to the caller. The cache never retries.
//
// Non-forced misses are deduplicated: callers that race on the same key
// attach to the same in-flight fetch and share its result or error. A
// forced read always performs its own fetch.
func (c *Cache[T]) Get(ctx context.Context, key string, force bool, fetch FetchFunc[T]) (T, error) {
	c.mu.Lock()
	s := c.slotFor(key)
	if !force && s.hasData && c.now().Sub(s.capturedAt) < c.window {
		v := s.payload
		c.mu.Unlock()
		log.Debugf("respcache hit: %s", key)
		return v, nil
	}
	startGen := s.gen
	c.mu.Unlock()

	if force {
		v, err := fetch(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		c.store(key, startGen, v)
		return v, nil
	}

	res, err, shared := c.flight.Do(key, func() (any, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, startGen, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if shared {
		log.Debugf("respcache shared flight: %s", key)
	}
	return res.(T), nil
}

// Invalidate clears the entry for key. Idempotent; the next non-forced Get
// misses. Any fetch already in flight for the key is superseded and will
// not repopulate the entry.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[key]
	if !ok {
		return
	}
	var zero T
	s.payload = zero
	s.capturedAt = time.Time{}
	s.hasData = false
	s.gen++
}

// Peek returns the stored payload and its capture time without any fetch.
// Callers use this to show last-known data when a refresh fails.
func (c *Cache[T]) Peek(key string) (T, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[key]
	if !ok || !s.hasData {
		var zero T
		return zero, time.Time{}, false
	}
	return s.payload, s.capturedAt, true
}

// Replace installs payload under key unconditionally, stamped at now.
// Prepend is built on this; it also backs local mutations that must be
// visible to the next read without a round-trip.
func (c *Cache[T]) Replace(key string, payload T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slotFor(key)
	s.payload = payload
	s.capturedAt = c.now()
	s.hasData = true
	s.gen++
}

// slotFor returns the slot for key, creating it if needed. Callers hold mu.
func (c *Cache[T]) slotFor(key string) *slot[T] {
	s, ok := c.slots[key]
	if !ok {
		s = &slot[T]{}
		c.slots[key] = s
	}
	return s
}

// store installs a fetched payload unless the slot moved on while the fetch
// was in flight. The losing fetch's caller still receives what it fetched;
// it just doesn't get to clobber newer state.
func (c *Cache[T]) store(key string, startGen uint64, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slotFor(key)
	if s.gen != startGen {
		log.Debugf("respcache: dropping superseded fetch for %s", key)
		return
	}
	s.payload = v
	s.capturedAt = c.now()
	s.hasData = true
	s.gen++
}

// Prepend pushes item onto the front of a slice-valued entry and re-stamps
// its capture time, so the next non-forced Get serves the mutated payload
// without a network call. This is how a locally observed item (one reported
// out of band rather than fetched) gets surfaced immediately; a later forced
// read reconciles with the server. No-op when the slot holds nothing.
func Prepend[E any](c *Cache[[]E], key string, item E) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[key]
	if !ok || !s.hasData {
		return
	}
	next := make([]E, 0, len(s.payload)+1)
	next = append(next, item)
	next = append(next, s.payload...)
	s.payload = next
	s.capturedAt = c.now()
	s.gen++
}
