// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/olegiv/daf-alumni/internal/model"
)

// mediaSchema describes the single keyed table of a media database.
type mediaSchema struct {
	table     string
	create    string
	upsert    string
	selectAll string
}

var photoSchema = mediaSchema{
	table: "photos",
	create: `CREATE TABLE IF NOT EXISTS photos (
    id       TEXT PRIMARY KEY,
    url      TEXT NOT NULL,
    caption  TEXT NOT NULL DEFAULT '',
    added_at DATETIME NOT NULL
)`,
	upsert: `INSERT INTO photos (id, url, caption, added_at) VALUES (:id, :url, :caption, :added_at)
ON CONFLICT(id) DO UPDATE SET url = excluded.url, caption = excluded.caption, added_at = excluded.added_at`,
	selectAll: `SELECT id, url, caption, added_at FROM photos`,
}

var slideSchema = mediaSchema{
	table: "slides",
	create: `CREATE TABLE IF NOT EXISTS slides (
    id         TEXT PRIMARY KEY,
    url        TEXT NOT NULL,
    sort_order INTEGER NOT NULL DEFAULT 0,
    added_at   DATETIME NOT NULL
)`,
	upsert: `INSERT INTO slides (id, url, sort_order, added_at) VALUES (:id, :url, :sort_order, :added_at)
ON CONFLICT(id) DO UPDATE SET url = excluded.url, sort_order = excluded.sort_order, added_at = excluded.added_at`,
	selectAll: `SELECT id, url, sort_order, added_at FROM slides`,
}

// MediaStore is a media database holding one keyed table of T. Row order
// is not guaranteed; callers sort.
type MediaStore[T any] struct {
	db     *sqlx.DB
	schema mediaSchema
}

// PhotoStore holds gallery photos.
type PhotoStore = MediaStore[model.GalleryPhoto]

// SlideStore holds hero slides.
type SlideStore = MediaStore[model.HeroSlide]

// OpenPhotoStore opens (creating if needed) the gallery database at path.
func OpenPhotoStore(ctx context.Context, path string) (*PhotoStore, error) {
	return openMediaStore[model.GalleryPhoto](ctx, path, photoSchema)
}

// OpenSlideStore opens (creating if needed) the hero slide database at path.
func OpenSlideStore(ctx context.Context, path string) (*SlideStore, error) {
	return openMediaStore[model.HeroSlide](ctx, path, slideSchema)
}

func openMediaStore[T any](ctx context.Context, path string, schema mediaSchema) (*MediaStore[T], error) {
	db, err := Open(path, MediaProfile)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", schema.table, err)
	}
	if _, err := db.ExecContext(ctx, schema.create); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating %s table: %w", schema.table, err)
	}
	return &MediaStore[T]{db: sqlx.NewDb(db, "sqlite"), schema: schema}, nil
}

// GetAll returns every record. An empty database yields an empty slice.
func (s *MediaStore[T]) GetAll(ctx context.Context) ([]T, error) {
	items := []T{}
	if err := s.db.SelectContext(ctx, &items, s.schema.selectAll); err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.schema.table, err)
	}
	return items, nil
}

// Put inserts rec or replaces the record with the same id.
func (s *MediaStore[T]) Put(ctx context.Context, rec T) error {
	if _, err := s.db.NamedExecContext(ctx, s.schema.upsert, rec); err != nil {
		return fmt.Errorf("writing %s: %w", s.schema.table, err)
	}
	return nil
}

// PutAll upserts every record in one transaction.
func (s *MediaStore[T]) PutAll(ctx context.Context, recs []T) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("writing %s: %w", s.schema.table, err)
	}
	for _, rec := range recs {
		if _, err := tx.NamedExecContext(ctx, s.schema.upsert, rec); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("writing %s: %w", s.schema.table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("writing %s: %w", s.schema.table, err)
	}
	return nil
}

// Delete removes the record with the given id. Unknown ids are not an error.
func (s *MediaStore[T]) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+s.schema.table+` WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting from %s: %w", s.schema.table, err)
	}
	return nil
}

// Clear removes every record.
func (s *MediaStore[T]) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+s.schema.table); err != nil {
		return fmt.Errorf("clearing %s: %w", s.schema.table, err)
	}
	return nil
}

// Count returns the number of records.
func (s *MediaStore[T]) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM `+s.schema.table); err != nil {
		return 0, fmt.Errorf("counting %s: %w", s.schema.table, err)
	}
	return n, nil
}

// Ping checks the database connection.
func (s *MediaStore[T]) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *MediaStore[T]) Close() error {
	return s.db.Close()
}
