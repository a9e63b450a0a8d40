// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the byte-oriented caches behind staged uploads and
// the live statistics snapshot, with an in-memory and a Redis backend.
package cache

import (
	"context"
	"time"
)

// Cache is implemented by every backend. Implementations are safe for
// concurrent use.
type Cache interface {
	// Get returns ErrCacheMiss when key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value for ttl; a zero ttl means the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	Close() error
}

// Stats are hit/miss counters kept by a backend.
type Stats struct {
	Hits   int64
	Misses int64
	Sets   int64
	Items  int
}

// StatsProvider is implemented by backends that count hits and misses.
type StatsProvider interface {
	Stats() Stats
}

// Error is a cache error constant.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrCacheMiss is returned when a key is absent or expired.
	ErrCacheMiss Error = "cache miss"
	// ErrCacheClosed is returned after Close.
	ErrCacheClosed Error = "cache closed"
)
