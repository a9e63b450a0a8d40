// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/daf-alumni/internal/model"
)

// stream runs an SSE handler until ctx expires and returns what it wrote.
func stream(t *testing.T, handler http.HandlerFunc, path string, d time.Duration) *httptest.ResponseRecorder {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		handler(rec, req)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(d + 2*time.Second):
		t.Fatal("stream did not stop after the request context ended")
	}
	return rec
}

func TestLiveCountdowns(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.svc.Events.Save(context.Background(), "", model.EventInput{Title: "Iftar", Date: "2030-03-01", Time: "18:30"})
	require.NoError(t, err)

	h := NewLiveHandler(env.base)
	h.countdownInterval = 20 * time.Millisecond

	rec := stream(t, h.Countdowns, "/events/live", 150*time.Millisecond)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.GreaterOrEqual(t, strings.Count(body, "event: countdown\n"), 2)
	assert.Contains(t, body, `"past":false`)
}

func TestLiveStats(t *testing.T) {
	env := newTestEnv(t)
	env.register("20220001", "karim@example.com")

	h := NewLiveHandler(env.base)
	h.statsInterval = 20 * time.Millisecond

	rec := stream(t, h.Stats, "/stats/live", 100*time.Millisecond)

	body := rec.Body.String()
	assert.Contains(t, body, "event: stats\n")
	assert.Contains(t, body, `"alumni":1`)
	assert.Contains(t, body, `"alim":1`)
}

func TestLiveStats_PushesOnChange(t *testing.T) {
	env := newTestEnv(t)

	h := NewLiveHandler(env.base)
	h.statsInterval = time.Hour

	in := model.RegistrationInput{
		AlumniID: "20220001", FullName: "Abdul Karim", Email: "karim@example.com",
		Batch: model.BatchAlim2022, Password: testPassword, ConfirmPassword: testPassword, AcceptTerms: true,
	}
	registered := make(chan error, 1)
	go func() {
		time.Sleep(50 * time.Millisecond)
		_, err := env.svc.Alumni.Register(context.Background(), in, nil)
		registered <- err
	}()
	rec := stream(t, h.Stats, "/stats/live", 2*time.Second)
	require.NoError(t, <-registered)

	body := rec.Body.String()
	assert.Contains(t, body, `"alumni":0`)
	assert.Contains(t, body, `"alumni":1`)
}

func TestLiveClose_EndsStreams(t *testing.T) {
	env := newTestEnv(t)
	h := NewLiveHandler(env.base)

	go func() {
		time.Sleep(50 * time.Millisecond)
		h.Close()
		h.Close()
	}()

	start := time.Now()
	rec := stream(t, h.Countdowns, "/events/live", 5*time.Second)
	assert.Less(t, time.Since(start), 4*time.Second)
	assert.Contains(t, rec.Body.String(), "event: countdown\n")
}
