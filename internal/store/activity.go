// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/olegiv/daf-alumni/internal/model"
)

// CreateActivity appends an entry to the activity log.
func (q *Queries) CreateActivity(ctx context.Context, a model.Activity) error {
	if a.Metadata == "" {
		a.Metadata = "{}"
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err := sqlx.NamedExecContext(ctx, q.ext, `
INSERT INTO activity_log (level, category, message, path, metadata, created_at)
VALUES (:level, :category, :message, :path, :metadata, :created_at)`, a)
	if err != nil {
		return fmt.Errorf("creating activity: %w", err)
	}
	return nil
}

// ListRecentActivity returns the newest entries first.
func (q *Queries) ListRecentActivity(ctx context.Context, limit int) ([]model.Activity, error) {
	entries := []model.Activity{}
	err := sqlx.SelectContext(ctx, q.ext, &entries, `
SELECT id, level, category, message, path, metadata, created_at
FROM activity_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return entries, nil
}

// PurgeActivityBefore deletes entries older than t.
func (q *Queries) PurgeActivityBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := q.ext.ExecContext(ctx, `DELETE FROM activity_log WHERE created_at < ?`, t)
	if err != nil {
		return 0, fmt.Errorf("purging activity: %w", err)
	}
	return res.RowsAffected()
}
