// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/olegiv/daf-alumni/internal/directory"
)

// Job schedules.
const (
	LiveStatsSchedule     = "@every 5s"
	CacheSweepSchedule    = "@every 1m"
	ActivityPurgeSchedule = "0 3 * * *"
)

// StatsRefresher recomputes the cached live counters.
type StatsRefresher interface {
	Refresh(ctx context.Context) (directory.Live, error)
}

// Sweeper drops expired cache entries, staged uploads included.
type Sweeper interface {
	Sweep() int
}

// ActivityPurger deletes old activity log entries.
type ActivityPurger interface {
	PurgeActivity(ctx context.Context, retention time.Duration) (int64, error)
}

// LiveStatsJob keeps the live statistics snapshot fresh.
func LiveStatsJob(stats StatsRefresher) Job {
	return Job{
		Name:        "live-stats",
		Description: "Refresh the cached live statistics",
		Schedule:    LiveStatsSchedule,
		Run: func(ctx context.Context) error {
			_, err := stats.Refresh(ctx)
			return err
		},
	}
}

// CacheSweepJob removes expired entries from the in-process cache,
// including abandoned staged uploads.
func CacheSweepJob(c Sweeper, logger *slog.Logger) Job {
	return Job{
		Name:        "cache-sweep",
		Description: "Drop expired cache entries and staged uploads",
		Schedule:    CacheSweepSchedule,
		Run: func(context.Context) error {
			if n := c.Sweep(); n > 0 {
				logger.Debug("swept expired cache entries", "count", n)
			}
			return nil
		},
	}
}

// ActivityPurgeJob deletes activity entries older than retention.
func ActivityPurgeJob(p ActivityPurger, retention time.Duration, logger *slog.Logger) Job {
	return Job{
		Name:        "activity-purge",
		Description: "Delete old activity log entries",
		Schedule:    ActivityPurgeSchedule,
		Run: func(ctx context.Context) error {
			n, err := p.PurgeActivity(ctx, retention)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("purged activity log", "count", n, "retention", retention)
			}
			return nil
		},
	}
}
