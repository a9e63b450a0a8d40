// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the alumni site.
package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/olegiv/daf-alumni/internal/store"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a test logger that only outputs errors.
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestDB creates a temporary main database with migrations applied.
// Returns the database and a cleanup function that should be deferred.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "alumni-test.db")

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() {
		_ = db.Close()
	}
}

// TestQueries returns Queries over a fresh migrated database with a change
// feed attached. The database is closed when the test ends.
func TestQueries(t *testing.T) *store.Queries {
	t.Helper()
	db, cleanup := TestDB(t)
	t.Cleanup(cleanup)
	return store.New(db).WithChanges(store.NewChanges())
}

// TestPhotoStore opens a gallery database in a temp dir.
func TestPhotoStore(t *testing.T) *store.PhotoStore {
	t.Helper()
	s, err := store.OpenPhotoStore(context.Background(), filepath.Join(t.TempDir(), "gallery.db"))
	if err != nil {
		t.Fatalf("OpenPhotoStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// TestSlideStore opens a hero slide database in a temp dir.
func TestSlideStore(t *testing.T) *store.SlideStore {
	t.Helper()
	s, err := store.OpenSlideStore(context.Background(), filepath.Join(t.TempDir(), "hero.db"))
	if err != nil {
		t.Fatalf("OpenSlideStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

// PNG returns an encoded w×h PNG image.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(w, h)); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

// JPEG returns an encoded w×h JPEG image.
func JPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testImage(w, h), nil); err != nil {
		t.Fatalf("encoding jpeg: %v", err)
	}
	return buf.Bytes()
}
