// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store persists the alumni site: the main record database (JSON
// collections, documents, members, sessions, activity log) and the two
// independent media databases for gallery photos and hero slides.
package store

import (
	"database/sql"
	"embed"
	"fmt"
	"net/url"
	"time"

	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

//go:embed migrations/*.sql
var migrations embed.FS

// Profile describes how one of the site's databases is opened.
type Profile struct {
	Name string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// ConnPragmas run on every pooled connection through the DSN.
	ConnPragmas []string
	// FilePragmas are stored in the database file and run once at open.
	FilePragmas []string
}

// RecordsProfile is the main database: many small reads from page renders,
// writes serialized by Queries.
var RecordsProfile = Profile{
	Name:            "records",
	MaxOpenConns:    16,
	MaxIdleConns:    8,
	ConnMaxLifetime: 30 * time.Minute,
	ConnMaxIdleTime: 5 * time.Minute,
	ConnPragmas: []string{
		"busy_timeout(5000)",
		"foreign_keys(1)",
		"synchronous(NORMAL)",
		"temp_store(MEMORY)",
		"cache_size(-32000)",
	},
	FilePragmas: []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA wal_autocheckpoint=1000",
	},
}

// MediaProfile is a gallery or hero database: few rows, each a whole image
// as a data URL, so the page cache stays small.
var MediaProfile = Profile{
	Name:            "media",
	MaxOpenConns:    4,
	MaxIdleConns:    2,
	ConnMaxLifetime: 30 * time.Minute,
	ConnMaxIdleTime: 5 * time.Minute,
	ConnPragmas: []string{
		"busy_timeout(5000)",
		"synchronous(NORMAL)",
		"cache_size(-4000)",
	},
	FilePragmas: []string{
		"PRAGMA journal_mode=WAL",
	},
}

// dsn appends the per-connection pragmas to path.
func (p Profile) dsn(path string) string {
	if len(p.ConnPragmas) == 0 {
		return path
	}
	q := url.Values{}
	for _, pragma := range p.ConnPragmas {
		q.Add("_pragma", pragma)
	}
	return path + "?" + q.Encode()
}

// NewDB opens the main record database.
func NewDB(path string) (*sql.DB, error) {
	return Open(path, RecordsProfile)
}

// Open opens the SQLite database at path with the given profile and checks
// that it answers.
func Open(path string, p Profile) (*sql.DB, error) {
	db, err := sql.Open("sqlite", p.dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", p.Name, err)
	}

	db.SetMaxOpenConns(p.MaxOpenConns)
	db.SetMaxIdleConns(p.MaxIdleConns)
	db.SetConnMaxLifetime(p.ConnMaxLifetime)
	db.SetConnMaxIdleTime(p.ConnMaxIdleTime)

	for _, pragma := range p.FilePragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s database: %q: %w", p.Name, pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging %s database: %w", p.Name, err)
	}
	return db, nil
}

// Migrate brings the record database schema up to date.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("migrating record database: %w", err)
	}
	return nil
}
