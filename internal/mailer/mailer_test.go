// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mailer

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_NoopWithoutKey(t *testing.T) {
	m := New(Config{From: "noreply@daf.example"}, testLogger())
	_, ok := m.(Noop)
	assert.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), Message{To: "a@b.co"}))
}

func TestSendGrid_Send(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := New(Config{
		APIKey:        "SG.test",
		From:          "noreply@daf.example",
		FromName:      "DAF Alumni",
		SubjectPrefix: "[DAF Alumni] ",
		Host:          srv.URL,
	}, testLogger())

	err := m.Send(context.Background(), Message{
		To:      "karim@example.com",
		ToName:  "Abdul Karim",
		Subject: "Reunion",
		Text:    "See you there",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer SG.test", auth)
	personalizations := got["personalizations"].([]any)
	require.Len(t, personalizations, 1)
	p := personalizations[0].(map[string]any)
	assert.Equal(t, "[DAF Alumni] Reunion", p["subject"])
	from := got["from"].(map[string]any)
	assert.Equal(t, "noreply@daf.example", from["email"])
}

func TestSendGrid_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	m := New(Config{APIKey: "SG.bad", From: "noreply@daf.example", Host: srv.URL}, testLogger())
	err := m.Send(context.Background(), Message{To: "karim@example.com", Subject: "x", Text: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
