// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/olegiv/daf-alumni/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX sessions_expiry_idx ON sessions(expiry);
	`)
	if err != nil {
		t.Fatalf("failed to create sessions table: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew_DevMode(t *testing.T) {
	sm := New(setupTestDB(t), true)

	if sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = false in dev mode")
	}
	if sm.Cookie.Name == "__Host-session" {
		t.Error("expected default cookie name in dev mode")
	}
}

func TestNew_ProductionMode(t *testing.T) {
	sm := New(setupTestDB(t), false)

	if !sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = true in production mode")
	}
	if sm.Cookie.Name != "__Host-session" {
		t.Errorf("expected __Host-session cookie name, got %q", sm.Cookie.Name)
	}
}

func TestNew_BrowserSessionCookie(t *testing.T) {
	sm := New(setupTestDB(t), true)

	if sm.Cookie.Persist {
		t.Error("expected Cookie.Persist = false")
	}
	if !sm.Cookie.HttpOnly {
		t.Error("expected Cookie.HttpOnly = true")
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("expected SameSite = Lax, got %v", sm.Cookie.SameSite)
	}
	if sm.Lifetime != 24*time.Hour {
		t.Errorf("Lifetime = %v, want 24h", sm.Lifetime)
	}
	if sm.Store == nil {
		t.Error("expected Store to be initialized")
	}
}

func loadedContext(t *testing.T, sm *scs.SessionManager) context.Context {
	t.Helper()
	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return ctx
}

func TestSlots_AreIndependent(t *testing.T) {
	sm := scs.New()
	sc := NewContext(sm)
	ctx := loadedContext(t, sm)

	if _, ok := sc.Alumni.Current(ctx); ok {
		t.Fatal("alumni slot should start empty")
	}

	alumni := model.AlumniUser{ID: "u1", FullName: "Karim"}
	if err := sc.Alumni.SignIn(ctx, alumni); err != nil {
		t.Fatalf("SignIn alumni: %v", err)
	}
	if err := sc.Admin.SignIn(ctx, model.AdminUser{Username: "admin"}); err != nil {
		t.Fatalf("SignIn admin: %v", err)
	}

	got, ok := sc.Alumni.Current(ctx)
	if !ok || got.ID != "u1" {
		t.Errorf("Alumni.Current = %+v, %v", got, ok)
	}

	sc.Admin.SignOut(ctx)
	if _, ok := sc.Admin.Current(ctx); ok {
		t.Error("admin still signed in after SignOut")
	}
	if _, ok := sc.Alumni.Current(ctx); !ok {
		t.Error("admin sign-out cleared the alumni slot")
	}
}

func TestSlot_SignInReplaces(t *testing.T) {
	sm := scs.New()
	sc := NewContext(sm)
	ctx := loadedContext(t, sm)

	_ = sc.Alumni.SignIn(ctx, model.AlumniUser{ID: "first"})
	_ = sc.Alumni.SignIn(ctx, model.AlumniUser{ID: "second"})

	got, _ := sc.Alumni.Current(ctx)
	if got.ID != "second" {
		t.Errorf("Current().ID = %q, want second", got.ID)
	}

	sc.Alumni.Refresh(ctx, model.AlumniUser{ID: "second", FullName: "Updated"})
	got, _ = sc.Alumni.Current(ctx)
	if got.FullName != "Updated" {
		t.Errorf("Refresh did not replace the snapshot: %+v", got)
	}
}
