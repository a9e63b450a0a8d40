// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// TypedCache stores values of T as JSON in an underlying Cache.
type TypedCache[T any] struct {
	cache      Cache
	prefix     string
	defaultTTL time.Duration
}

// NewTypedCache wraps c. Keys are namespaced with prefix.
func NewTypedCache[T any](c Cache, prefix string, defaultTTL time.Duration) *TypedCache[T] {
	return &TypedCache[T]{cache: c, prefix: prefix, defaultTTL: defaultTTL}
}

// Get returns the cached value and whether it was found. A value that no
// longer decodes counts as a miss.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (T, bool) {
	var value T
	data, err := c.cache.Get(ctx, c.prefix+key)
	if err != nil {
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		var zero T
		return zero, false
	}
	return value, true
}

// Set stores value with the default TTL.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value T) error {
	return c.SetWithTTL(ctx, key, value, c.defaultTTL)
}

// SetWithTTL stores value with a custom TTL.
func (c *TypedCache[T]) SetWithTTL(ctx context.Context, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding cache value: %w", err)
	}
	return c.cache.Set(ctx, c.prefix+key, data, ttl)
}

// Delete removes key.
func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, c.prefix+key)
}

// GetOrSet returns the cached value or computes, stores and returns it.
// A failed store does not fail the call.
func (c *TypedCache[T]) GetOrSet(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, nil
	}
	v, err := fn(ctx)
	if err != nil {
		return v, err
	}
	_ = c.Set(ctx, key, v)
	return v, nil
}
