// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"time"
)

// Config selects and configures a backend.
type Config struct {
	// RedisURL selects the Redis backend when set.
	RedisURL        string
	Prefix          string
	DefaultTTL      time.Duration
	CleanupInterval time.Duration
}

// New returns a Redis cache when cfg.RedisURL is set and reachable, and a
// memory cache otherwise. An unreachable Redis is logged and the memory
// cache is used instead.
func New(ctx context.Context, cfg Config) Cache {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = time.Hour
	}

	if cfg.RedisURL != "" {
		rc, err := NewRedisCache(ctx, RedisOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.Prefix,
			DefaultTTL: cfg.DefaultTTL,
		})
		if err == nil {
			slog.Info("using redis cache", "prefix", cfg.Prefix)
			return rc
		}
		slog.Warn("redis cache unavailable, falling back to memory cache",
			"category", "cache", "error", err)
	}

	return NewMemoryCache(cfg.DefaultTTL, cfg.CleanupInterval)
}
