// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/daf-alumni/internal/middleware"
	"github.com/olegiv/daf-alumni/internal/model"
	"github.com/olegiv/daf-alumni/internal/version"
)

var (
	pingOK   = PingFunc(func(context.Context) error { return nil })
	pingDown = PingFunc(func(context.Context) error { return errors.New("database is locked") })
)

func asAdmin(r *http.Request) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyAdmin, model.AdminUser{Username: "admin"})
	return r.WithContext(ctx)
}

func TestHealth_Public(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]Pinger
		wantCode   int
		wantStatus string
	}{
		{"all healthy", map[string]Pinger{"database": pingOK, "gallery": pingOK}, http.StatusOK, "healthy"},
		{"one down", map[string]Pinger{"database": pingOK, "gallery": pingDown}, http.StatusServiceUnavailable, "degraded"},
		{"no checks", nil, http.StatusOK, "healthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checks, version.Info{Version: "v1.0.0"})
			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var got map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.wantStatus, got["status"])
			// Anonymous callers only see the status.
			assert.Len(t, got, 1)
		})
	}
}

func TestHealth_AdminDetails(t *testing.T) {
	h := NewHealthHandler(map[string]Pinger{"database": pingOK, "hero": pingDown}, version.Info{Version: "v1.0.0", GitCommit: "abc1234"})

	rec := httptest.NewRecorder()
	h.Health(rec, asAdmin(httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil)))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var got HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "degraded", got.Status)
	assert.Equal(t, "v1.0.0 (abc1234)", got.Version)
	assert.Equal(t, "healthy", got.Checks["database"].Status)
	assert.Equal(t, "unhealthy", got.Checks["hero"].Status)
	assert.Equal(t, "database is locked", got.Checks["hero"].Message)
	require.NotNil(t, got.System)
	assert.Positive(t, got.System.NumCPU)
}

func TestLiveness(t *testing.T) {
	h := NewHealthHandler(map[string]Pinger{"database": pingDown}, version.Info{})
	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
}
