// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.Registration()
	m.Registration()
	m.Login(ActorAlumni, ResultSuccess)
	m.Login(ActorAdmin, ResultFailure)
	m.Upload("gallery", ResultSuccess)
	m.StoreError("gallery.put")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.registrations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues(ActorAlumni, ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues(ActorAdmin, ResultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues("gallery", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeErrors.WithLabelValues("gallery.put")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.Registration()
	m.Login(ActorAlumni, ResultSuccess)
	m.Upload("hero", ResultFailure)
	m.StoreError("x")
	m.ObserveHTTP(http.MethodGet, "/", 200, time.Millisecond)
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/directory", http.StatusOK, 20*time.Millisecond)
	m.Registration()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, "daf_alumni_registrations_total 1"))
	assert.True(t, strings.Contains(text, `daf_alumni_http_request_duration_seconds_count{method="GET",route="/directory",status="200"} 1`))
}
