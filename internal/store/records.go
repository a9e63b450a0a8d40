// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Record keys.
const (
	KeyUsers          = "alumniUsers"
	KeyAnnouncements  = "dafAnnouncements"
	KeyEvents         = "dafEvents"
	KeyContactMessage = "dafContactMessages"
	KeyUserMessages   = "dafUserMessages"
	KeyContactInfo    = "dafContactInfo"
	KeyAboutContent   = "dafAboutContent"
	KeySettings       = "dafSettings"
	KeyAdminPassword  = "dafAdminPw"
)

const upsertRecord = `
INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// getRaw returns the stored value for key and whether it exists.
func (q *Queries) getRaw(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := sqlxGet(ctx, q, &value, `SELECT value FROM records WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}

func (q *Queries) putRaw(ctx context.Context, key, value string) error {
	if _, err := q.ext.ExecContext(ctx, upsertRecord, key, value, time.Now()); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// GetString returns the plain string stored under key ("" when absent).
func (q *Queries) GetString(ctx context.Context, key string) (string, error) {
	v, _, err := q.getRaw(ctx, key)
	return v, err
}

// PutString stores a plain string under key.
func (q *Queries) PutString(ctx context.Context, key, value string) error {
	if err := q.putRaw(ctx, key, value); err != nil {
		return err
	}
	q.publish(key)
	return nil
}

// DeleteRecord removes key entirely.
func (q *Queries) DeleteRecord(ctx context.Context, key string) error {
	if _, err := q.ext.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	q.publish(key)
	return nil
}

// GetCollection returns the sequence stored under key in insertion order.
// A missing key yields an empty slice; so does malformed JSON, which is
// logged at WARN.
func GetCollection[T any](ctx context.Context, q *Queries, key string) ([]T, error) {
	raw, ok, err := q.getRaw(ctx, key)
	if err != nil {
		return []T{}, err
	}
	if !ok || raw == "" {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		slog.Warn("malformed collection in record store, treating as empty",
			"category", "system", "key", key, "error", err)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// PutCollection overwrites the whole sequence stored under key.
func PutCollection[T any](ctx context.Context, q *Queries, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := q.putRaw(ctx, key, string(data)); err != nil {
		return err
	}
	q.publish(key)
	return nil
}

// UpdateCollection runs a read-modify-write of the sequence under key in a
// single transaction. fn receives the current items and returns the new
// ones; an error from fn aborts without writing.
func UpdateCollection[T any](ctx context.Context, q *Queries, key string, fn func([]T) ([]T, error)) error {
	err := q.InTx(ctx, func(tx *Queries) error {
		items, err := GetCollection[T](ctx, tx, key)
		if err != nil {
			return err
		}
		updated, err := fn(items)
		if err != nil {
			return err
		}
		if updated == nil {
			updated = []T{}
		}
		data, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		return tx.putRaw(ctx, key, string(data))
	})
	if err != nil {
		return err
	}
	q.publish(key)
	return nil
}

// GetDocument returns the singleton stored under key. ok is false when the
// key is missing or its value is malformed.
func GetDocument[T any](ctx context.Context, q *Queries, key string) (doc T, ok bool, err error) {
	raw, found, err := q.getRaw(ctx, key)
	if err != nil || !found || raw == "" {
		return doc, false, err
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		slog.Warn("malformed document in record store, using defaults",
			"category", "system", "key", key, "error", err)
		var zero T
		return zero, false, nil
	}
	return doc, true, nil
}

// PutDocument overwrites the singleton stored under key.
func PutDocument[T any](ctx context.Context, q *Queries, key string, doc T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := q.putRaw(ctx, key, string(data)); err != nil {
		return err
	}
	q.publish(key)
	return nil
}
