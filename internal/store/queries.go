// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Queries runs the hand-written queries against the main database.
type Queries struct {
	db      *sqlx.DB
	ext     sqlx.ExtContext
	writeMu *sync.Mutex
	changes *Changes
}

// New wraps db for querying. The driver name must match the one NewDB opens.
func New(db *sql.DB) *Queries {
	x := sqlx.NewDb(db, "sqlite")
	return &Queries{db: x, ext: x, writeMu: &sync.Mutex{}}
}

// WithChanges returns a copy of q that publishes every write on c.
func (q *Queries) WithChanges(c *Changes) *Queries {
	cp := *q
	cp.changes = c
	return &cp
}

// Changes returns the change feed writes are published on, or nil.
func (q *Queries) Changes() *Changes {
	return q.changes
}

// WithTx returns a copy of q bound to tx.
func (q *Queries) WithTx(tx *sqlx.Tx) *Queries {
	cp := *q
	cp.ext = tx
	return &cp
}

// InTx runs fn inside a transaction. Transactions started through InTx are
// serialized in-process so read-modify-write cycles never interleave.
func (q *Queries) InTx(ctx context.Context, fn func(*Queries) error) error {
	q.writeMu.Lock()
	defer q.writeMu.Unlock()

	tx, err := q.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(q.WithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (q *Queries) Ping(ctx context.Context) error {
	return q.db.PingContext(ctx)
}

func (q *Queries) publish(key string) {
	q.changes.Publish(key)
}
