// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for sign-in gates, request
// context and protective headers.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/olegiv/daf-alumni/internal/logging"
	"github.com/olegiv/daf-alumni/internal/model"
	"github.com/olegiv/daf-alumni/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for the signed-in actors.
const (
	ContextKeyAlumni ContextKey = "alumni"
	ContextKeyAdmin  ContextKey = "admin"
)

// Sign-in pages the gates redirect to.
const (
	AlumniLoginPath = "/login"
	AdminLoginPath  = "/admin/login"
)

// LoadActors copies the session's alumni and admin snapshots into the
// request context. Both may be present at once.
func LoadActors(sc *session.Context) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if u, ok := sc.Alumni.Current(ctx); ok {
				ctx = context.WithValue(ctx, ContextKeyAlumni, u)
			}
			if a, ok := sc.Admin.Current(ctx); ok {
				ctx = context.WithValue(ctx, ContextKeyAdmin, a)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAlumni redirects guests to the alumni login page.
// It must run after LoadActors.
func RequireAlumni(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetAlumni(r) == nil {
			http.Redirect(w, r, AlumniLoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin redirects to the admin login page unless an admin is signed in.
// It must run after LoadActors.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetAdmin(r) == nil {
			slog.Debug("admin page requested without admin session", "path", r.URL.Path)
			http.Redirect(w, r, AdminLoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetAlumni returns the signed-in alumni member, or nil.
func GetAlumni(r *http.Request) *model.AlumniUser {
	u, ok := r.Context().Value(ContextKeyAlumni).(model.AlumniUser)
	if !ok {
		return nil
	}
	return &u
}

// GetAdmin returns the signed-in admin, or nil.
func GetAdmin(r *http.Request) *model.AdminUser {
	a, ok := r.Context().Value(ContextKeyAdmin).(model.AdminUser)
	if !ok {
		return nil
	}
	return &a
}

// RequestPath stores the request path in the context so activity log
// entries carry the URL.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(logging.WithPath(r.Context(), r.URL.Path)))
	})
}
