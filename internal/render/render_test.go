// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(
			`{{define "base"}}<html>{{with .Notification}}<div class="toast {{.Kind}}" data-timeout="{{.TimeoutMillis}}">{{.Message}}</div>{{end}}{{block "body" .}}{{end}}</html>{{end}}`)},
		"layouts/public.html": {Data: []byte(
			`{{define "body"}}<nav>{{T .Lang "nav.home"}}</nav>{{template "content" .}}{{end}}`)},
		"layouts/admin.html": {Data: []byte(
			`{{define "body"}}<aside>admin</aside>{{template "content" .}}{{end}}`)},
		"partials/badge.html": {Data: []byte(
			`{{define "badge"}}<span class="badge">{{.}}</span>{{end}}`)},
		"public/home.html": {Data: []byte(
			`{{define "content"}}<h1>{{.Title}}</h1>


{{template "badge" .UnreadCount}}{{end}}`)},
		"admin/dashboard.html": {Data: []byte(
			`{{define "content"}}<h1>{{.Title}}</h1>{{end}}`)},
		"auth/login.html": {Data: []byte(
			`{{define "body"}}<form>{{.FieldError "email"}}</form>{{end}}`)},
	}
}

func newTestRenderer(t *testing.T, sm *scs.SessionManager) *Renderer {
	t.Helper()
	r, err := New(Config{TemplatesFS: testFS(), SessionManager: sm, Location: time.UTC})
	require.NoError(t, err)
	return r
}

func TestBlankLinesRegex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no blank lines", "line1\nline2", "line1\nline2"},
		{"one blank line", "line1\n\nline2", "line1\nline2"},
		{"several blank lines", "line1\n\n\n\nline2", "line1\nline2"},
		{"blank lines with spaces", "line1\n  \n\t\nline2", "line1\nline2"},
		{"windows line endings", "line1\r\n\r\n\r\nline2", "line1\nline2"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(blankLinesRegex.ReplaceAll([]byte(tt.input), []byte("\n")))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNew_RegistersGroups(t *testing.T) {
	r := newTestRenderer(t, nil)

	for _, name := range []string{"public/home", "admin/dashboard", "auth/login"} {
		assert.True(t, r.Has(name), name)
	}
	assert.False(t, r.Has("dashboard/home"))
}

func TestRender(t *testing.T) {
	r := newTestRenderer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err := r.Render(w, req, "public/home", TemplateData{Title: "Welcome", UnreadCount: 3})
	require.NoError(t, err)

	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "<h1>Welcome</h1>")
	assert.Contains(t, body, `<span class="badge">3</span>`)
	assert.NotContains(t, body, "\n\n")
}

func TestRender_UnknownTemplate(t *testing.T) {
	r := newTestRenderer(t, nil)

	w := httptest.NewRecorder()
	err := r.Render(w, httptest.NewRequest(http.MethodGet, "/", nil), "public/missing", TemplateData{})
	assert.Error(t, err)
}

func TestRenderStatus(t *testing.T) {
	r := newTestRenderer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	err := r.RenderStatus(w, req, http.StatusUnprocessableEntity, "auth/login", TemplateData{
		Errors: map[string]string{"email": "Email is required."},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Email is required.")
}

func TestNotify_ReplacesPending(t *testing.T) {
	sm := scs.New()
	r := newTestRenderer(t, sm)

	var body string
	h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.Notify(req, KindSuccess, "Announcement saved!")
		r.Notify(req, KindError, "Please fill in title and message.")
		rec := httptest.NewRecorder()
		require.NoError(t, r.Render(rec, req, "admin/dashboard", TemplateData{Title: "Dashboard"}))
		body = rec.Body.String()

		// Popped on render.
		assert.Nil(t, r.PopNotification(req))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Contains(t, body, `class="toast error"`)
	assert.Contains(t, body, "Please fill in title and message.")
	assert.NotContains(t, body, "Announcement saved!")
	assert.Contains(t, body, `data-timeout="3000"`)
}

func TestNotify_AuthTimeout(t *testing.T) {
	r := newTestRenderer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	err := r.Render(w, req, "auth/login", TemplateData{
		Notification: NotificationFor(KindSuccess, "Login successful! Redirecting to dashboard..."),
	})
	require.NoError(t, err)
	assert.Contains(t, w.Body.String(), `data-timeout="5000"`)
}

func TestNotify_UnknownKindBecomesInfo(t *testing.T) {
	sm := scs.New()
	r := newTestRenderer(t, sm)

	h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.Notify(req, "warning", "Heads up")
		n := r.PopNotification(req)
		require.NotNil(t, n)
		assert.Equal(t, KindInfo, n.Kind)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestNotificationFor_Empty(t *testing.T) {
	assert.Nil(t, NotificationFor(KindError, ""))
}

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
		excludes string
	}{
		{"emphasis", "**Reunion** at noon", "<strong>Reunion</strong>", ""},
		{"hard wraps", "line one\nline two", "<br", ""},
		{"script stripped", "hi <script>alert(1)</script>", "hi", "<script>"},
		{"links get nofollow", "[site](https://example.com)", `rel="nofollow"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(Markdown(tt.input))
			assert.Contains(t, got, tt.contains)
			if tt.excludes != "" {
				assert.NotContains(t, got, tt.excludes)
			}
		})
	}
}

func TestTemplateFuncs(t *testing.T) {
	funcs := (&Renderer{location: time.UTC}).TemplateFuncs()

	for _, name := range []string{"T", "pick", "markdown", "formatDate", "formatDateTime", "pad2", "batchLabel", "truncate", "dict"} {
		assert.Contains(t, funcs, name)
	}

	formatDate := funcs["formatDate"].(func(time.Time) string)
	assert.Equal(t, "Mar 15, 2026", formatDate(time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", formatDate(time.Time{}))

	truncate := funcs["truncate"].(func(string, int) string)
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ঢাকা...", truncate("ঢাকা আলিয়া", 4))
	assert.True(t, strings.HasSuffix(truncate("a long announcement", 6), "..."))

	dict := funcs["dict"].(func(...any) (map[string]any, error))
	m, err := dict("field", "email", "value", 1)
	require.NoError(t, err)
	assert.Equal(t, "email", m["field"])
	_, err = dict("odd")
	assert.Error(t, err)
}
