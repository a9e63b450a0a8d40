// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"time"

	"github.com/olegiv/daf-alumni/internal/cache"
	"github.com/olegiv/daf-alumni/internal/directory"
	"github.com/olegiv/daf-alumni/internal/model"
	"github.com/olegiv/daf-alumni/internal/store"
)

const (
	liveStatsKey = "live"
	liveStatsTTL = 10 * time.Second
	// ActivityLimit is how many activity entries the admin dashboard shows.
	ActivityLimit = 10
)

// StatsService computes the dashboard summary and the public live counters.
// The live counters are cached and refreshed by the scheduler and on every
// store change.
type StatsService struct {
	q     *store.Queries
	deps  Deps
	cache *cache.TypedCache[directory.Live]
}

// NewStatsService creates the statistics service.
func NewStatsService(q *store.Queries, c cache.Cache, deps Deps) *StatsService {
	return &StatsService{
		q:     q,
		deps:  deps.withDefaults(),
		cache: cache.NewTypedCache[directory.Live](c, "stats:", liveStatsTTL),
	}
}

func (s *StatsService) compute(ctx context.Context) (directory.Live, error) {
	users, err := s.q.ListUsers(ctx)
	if err != nil {
		return directory.Live{}, err
	}
	events, err := store.GetCollection[model.Event](ctx, s.q, store.KeyEvents)
	if err != nil {
		return directory.Live{}, err
	}
	return directory.LiveStats(users, events), nil
}

// Live returns the live counters, from cache when fresh.
func (s *StatsService) Live(ctx context.Context) (directory.Live, error) {
	return s.cache.GetOrSet(ctx, liveStatsKey, s.compute)
}

// Refresh recomputes the live counters and replaces the cached value.
func (s *StatsService) Refresh(ctx context.Context) (directory.Live, error) {
	live, err := s.compute(ctx)
	if err != nil {
		return directory.Live{}, err
	}
	if err := s.cache.Set(ctx, liveStatsKey, live); err != nil {
		s.deps.Logger.Debug("live stats not cached", "error", err)
	}
	return live, nil
}

// Dashboard returns the admin dashboard summary at now.
func (s *StatsService) Dashboard(ctx context.Context) (directory.Dashboard, error) {
	users, err := s.q.ListUsers(ctx)
	if err != nil {
		return directory.Dashboard{}, err
	}
	return directory.DashboardStats(users, s.deps.Now().In(s.deps.Location)), nil
}

// RecentActivity returns the newest activity log entries.
func (s *StatsService) RecentActivity(ctx context.Context) ([]model.Activity, error) {
	return s.q.ListRecentActivity(ctx, ActivityLimit)
}

// PurgeActivity deletes activity entries older than retention.
func (s *StatsService) PurgeActivity(ctx context.Context, retention time.Duration) (int64, error) {
	return s.q.PurgeActivityBefore(ctx, s.deps.Now().Add(-retention))
}

// Changes exposes the store change feed for live views.
func (s *StatsService) Changes() *store.Changes {
	return s.q.Changes()
}
