// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session manages browser sessions and the signed-in actors kept in
// them.
package session

import (
	"context"
	"database/sql"
	"encoding/gob"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/daf-alumni/internal/model"
)

// Session keys for the two actor slots.
const (
	AdminKey  = "admin_actor"
	AlumniKey = "alumni_actor"
)

func init() {
	gob.Register(model.AdminUser{})
	gob.Register(model.AlumniUser{})
}

// New creates a session manager backed by the sessions table of db. The
// cookie is not persisted, so a session ends when the browser session does.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()

	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 24 * time.Hour
	sm.IdleTimeout = 2 * time.Hour
	sm.Cookie.Persist = false
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !isDev
	if !isDev {
		sm.Cookie.Name = "__Host-session"
	}

	return sm
}

// Slot is a named place in the session holding one actor snapshot.
type Slot[T any] struct {
	sm  *scs.SessionManager
	key string
}

// SignIn stores actor in the slot, replacing whatever was there. The session
// token is renewed first to prevent fixation.
func (s Slot[T]) SignIn(ctx context.Context, actor T) error {
	if err := s.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	s.sm.Put(ctx, s.key, actor)
	return nil
}

// Refresh replaces the stored snapshot without renewing the token.
func (s Slot[T]) Refresh(ctx context.Context, actor T) {
	s.sm.Put(ctx, s.key, actor)
}

// SignOut clears the slot. The other slot is left alone.
func (s Slot[T]) SignOut(ctx context.Context) {
	s.sm.Remove(ctx, s.key)
}

// Current returns the actor in the slot, if any.
func (s Slot[T]) Current(ctx context.Context) (T, bool) {
	actor, ok := s.sm.Get(ctx, s.key).(T)
	return actor, ok
}

// Context gives handlers named access to the admin and alumni slots.
type Context struct {
	Manager *scs.SessionManager
	Admin   Slot[model.AdminUser]
	Alumni  Slot[model.AlumniUser]
}

// NewContext binds both actor slots to sm.
func NewContext(sm *scs.SessionManager) *Context {
	return &Context{
		Manager: sm,
		Admin:   Slot[model.AdminUser]{sm: sm, key: AdminKey},
		Alumni:  Slot[model.AlumniUser]{sm: sm, key: AlumniKey},
	}
}

// Token returns the current session token, or "" before one is issued.
func (c *Context) Token(ctx context.Context) string {
	return c.Manager.Token(ctx)
}
