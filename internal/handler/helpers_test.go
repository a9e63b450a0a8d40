// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/daf-alumni/internal/auth"
	"github.com/olegiv/daf-alumni/internal/cache"
	"github.com/olegiv/daf-alumni/internal/metrics"
	"github.com/olegiv/daf-alumni/internal/middleware"
	"github.com/olegiv/daf-alumni/internal/model"
	"github.com/olegiv/daf-alumni/internal/render"
	"github.com/olegiv/daf-alumni/internal/service"
	"github.com/olegiv/daf-alumni/internal/session"
	"github.com/olegiv/daf-alumni/internal/staging"
	"github.com/olegiv/daf-alumni/internal/store"
	"github.com/olegiv/daf-alumni/internal/testutil"
)

const testPassword = "secret1"

// testPages are the page templates the handlers render. Each one prints its
// name so tests can tell which page came back.
var testPages = []string{
	"public/home", "public/about", "public/events", "public/gallery",
	"public/announcement", "public/contact", "public/not_found",
	"auth/register", "auth/login", "auth/logout", "auth/admin_login",
	"dashboard/overview", "dashboard/profile", "dashboard/events",
	"admin/dashboard", "admin/users", "admin/user", "admin/user_message",
	"admin/announcements", "admin/events", "admin/hero",
	"admin/contact_info", "admin/about", "admin/settings", "admin/password",
}

// Pages that also print some of their data.
var testPageBodies = map[string]string{
	"public/directory":   `{{range .Data.Cards}}<li>{{.FullName}}|{{.Email}}</li>{{end}}`,
	"admin/inbox":        `{{range .Data.Messages}}<li>{{.Name}}</li>{{end}}{{range .Data.UnreadIDs}}<input name="ids" value="{{.}}">{{end}}`,
	"admin/gallery":      `<p>photos={{len .Data.Photos}} staged={{len .Data.Staged}}</p>`,
	"dashboard/messages": `{{range .Data}}<li>{{.Subject}}{{if not .Read}} (new){{end}}</li>{{end}}`,
}

func testTemplates() fstest.MapFS {
	fsys := fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}` +
			`{{with .Notification}}<div class="toast {{.Kind}}">{{.Message}}</div>{{end}}` +
			`{{range $k, $v := .Errors}}<p class="field-error" data-field="{{$k}}">{{$v}}</p>{{end}}` +
			`{{if .Autofocus}}<i data-autofocus="{{.Autofocus}}"></i>{{end}}` +
			`<b data-unread="{{.UnreadCount}}"></b>` +
			`{{block "body" .}}{{end}}{{end}}`)},
		"layouts/public.html":    {Data: []byte(`{{define "body"}}{{template "content" .}}{{end}}`)},
		"layouts/dashboard.html": {Data: []byte(`{{define "body"}}{{template "content" .}}{{end}}`)},
		"layouts/admin.html":     {Data: []byte(`{{define "body"}}{{template "content" .}}{{end}}`)},
	}

	add := func(name, extra string) {
		group, _, _ := strings.Cut(name, "/")
		block := "content"
		if group == "auth" {
			block = "body"
		}
		fsys[name+".html"] = &fstest.MapFile{Data: []byte(
			`{{define "` + block + `"}}<h1>page:` + name + `</h1>` + extra + `{{end}}`)}
	}
	for _, name := range testPages {
		add(name, "")
	}
	for name, extra := range testPageBodies {
		add(name, extra)
	}
	return fsys
}

// testEnv is a running site over fresh databases.
type testEnv struct {
	t        *testing.T
	q        *store.Queries
	svc      *Services
	sessions *session.Context
	base     *Base
	server   *httptest.Server
	client   *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	q := store.New(db).WithChanges(store.NewChanges())
	require.NoError(t, store.Seed(ctx, q, ""))

	deps := service.Deps{
		Logger:   testutil.TestLoggerSilent(),
		Metrics:  metrics.New(),
		Location: time.UTC,
	}
	mem := cache.NewMemoryCache(time.Hour, 0)
	t.Cleanup(func() { _ = mem.Close() })
	stager := staging.New(mem, time.Hour)

	svc := &Services{
		Alumni:        service.NewAlumniService(q, deps, 0),
		Admin:         service.NewAdminService(q, deps, "admin"),
		Announcements: service.NewAnnouncementService(q, deps),
		Events:        service.NewEventService(q, deps),
		Documents:     service.NewDocumentService(q, deps),
		Inbox:         service.NewInboxService(q, deps),
		Messages:      service.NewMessageService(q, deps, nil),
		Gallery:       service.NewGalleryService(testutil.TestPhotoStore(t), stager, deps, service.MediaConfig{}),
		Hero:          service.NewHeroService(testutil.TestSlideStore(t), stager, deps, service.MediaConfig{}),
		Stats:         service.NewStatsService(q, mem, deps),
	}

	sm := session.New(db, true)
	sc := session.NewContext(sm)
	renderer, err := render.New(render.Config{TemplatesFS: testTemplates(), SessionManager: sm, Location: time.UTC, IsDev: true})
	require.NoError(t, err)

	base := NewBase(renderer, sc, svc, Limits{}, testutil.TestLoggerSilent())
	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})
	t.Cleanup(lp.Close)

	env := &testEnv{t: t, q: q, svc: svc, sessions: sc, base: base}

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(middleware.LoadActors(sc))
	r.NotFound(base.NotFound)
	mountTestRoutes(r, base, lp, auth.NewRemember("handler-test-remember-key-0123456789", false))

	env.server = httptest.NewServer(r)
	t.Cleanup(env.server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	env.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return env
}

func mountTestRoutes(r chi.Router, base *Base, lp *middleware.LoginProtection, remember *auth.Remember) {
	pub := NewPublicHandler(base)
	authH := NewAuthHandler(base, lp, remember)
	dash := NewDashboardHandler(base)
	admin := NewAdminHandler(base)
	content := NewContentHandler(base)
	media := NewMediaHandler(base)
	inbox := NewInboxHandler(base)
	docs := NewDocumentsHandler(base)

	r.Get("/", pub.Home)
	r.Get("/directory", pub.Directory)
	r.Get("/announcements/{id}", pub.Announcement)
	r.Get("/contact", pub.ContactForm)
	r.Post("/contact", pub.Contact)

	r.Get("/register", authH.RegisterForm)
	r.Post("/register", authH.Register)
	r.Get("/register/check-id", authH.CheckID)
	r.Post("/register/password-strength", authH.PasswordStrength)
	r.Get("/login", authH.LoginForm)
	r.Post("/login", authH.Login)
	r.Post("/logout", authH.Logout)
	r.Get("/admin/login", authH.AdminLoginForm)
	r.Post("/admin/login", authH.AdminLogin)
	r.Post("/admin/logout", authH.AdminLogout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAlumni)
		r.Get("/dashboard", dash.Overview)
		r.Get("/dashboard/profile", dash.ProfileForm)
		r.Post("/dashboard/profile", dash.Profile)
		r.Get("/dashboard/messages", dash.Messages)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/admin", admin.Dashboard)
		r.Get("/admin/users", admin.Users)
		r.Get("/admin/users/{id}", admin.User)
		r.Post("/admin/users/{id}/delete", admin.DeleteUser)
		r.Post("/admin/users/delete-all", admin.DeleteAllUsers)
		r.Post("/admin/users/{id}/message", admin.SendMessage)
		r.Get("/admin/announcements", content.Announcements)
		r.Post("/admin/announcements", content.CreateAnnouncement)
		r.Get("/admin/events", content.Events)
		r.Post("/admin/events", content.SaveEvent)
		r.Get("/admin/gallery", media.Gallery)
		r.Post("/admin/gallery/stage", media.StageGallery)
		r.Post("/admin/gallery/add", media.AddGallery)
		r.Post("/admin/gallery/clear", media.ClearGallery)
		r.Get("/admin/inbox", inbox.Inbox)
		r.Post("/admin/inbox/mark-read", inbox.MarkRead)
		r.Post("/admin/inbox/{id}/delete", inbox.Delete)
		r.Get("/admin/settings", docs.SettingsForm)
		r.Post("/admin/settings", docs.SaveSettings)
		r.Get("/admin/password", docs.PasswordForm)
		r.Post("/admin/password", docs.ChangePassword)
	})
}

// response is a finished request with its body read.
type response struct {
	*http.Response
	Body string
}

func (e *testEnv) do(req *http.Request) response {
	e.t.Helper()
	resp, err := e.client.Do(req)
	require.NoError(e.t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return response{Response: resp, Body: string(body)}
}

func (e *testEnv) get(path string) response {
	e.t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.server.URL+path, nil)
	require.NoError(e.t, err)
	return e.do(req)
}

func (e *testEnv) post(path string, form url.Values) response {
	e.t.Helper()
	req, err := http.NewRequest(http.MethodPost, e.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(e.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

// postMultipart sends fields and files; files maps a field to file name/content pairs.
func (e *testEnv) postMultipart(path string, fields url.Values, field string, files map[string][]byte) response {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(e.t, mw.WriteField(k, v))
		}
	}
	for name, data := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(e.t, err)
		_, err = fw.Write(data)
		require.NoError(e.t, err)
	}
	require.NoError(e.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, e.server.URL+path, &buf)
	require.NoError(e.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.do(req)
}

// follow requests the Location of a redirect.
func (e *testEnv) follow(resp response) response {
	e.t.Helper()
	require.Equal(e.t, http.StatusSeeOther, resp.StatusCode, resp.Body)
	return e.get(resp.Header.Get("Location"))
}

func (e *testEnv) register(alumniID, email string) model.AlumniUser {
	e.t.Helper()
	u, err := e.svc.Alumni.Register(context.Background(), model.RegistrationInput{
		AlumniID:        alumniID,
		FullName:        "Abdul Karim",
		Email:           email,
		Batch:           model.BatchAlim2022,
		Profession:      "Engineer",
		Password:        testPassword,
		ConfirmPassword: testPassword,
		AcceptTerms:     true,
	}, nil)
	require.NoError(e.t, err)
	return u
}

func (e *testEnv) loginAlumni(email string) {
	e.t.Helper()
	resp := e.post("/login", url.Values{"email": {email}, "password": {testPassword}})
	require.Equal(e.t, http.StatusSeeOther, resp.StatusCode, resp.Body)
	require.Equal(e.t, "/dashboard", resp.Header.Get("Location"))
}

func (e *testEnv) loginAdmin() {
	e.t.Helper()
	resp := e.post("/admin/login", url.Values{"username": {"admin"}, "password": {store.DefaultAdminPassword}})
	require.Equal(e.t, http.StatusSeeOther, resp.StatusCode, resp.Body)
	require.Equal(e.t, "/admin", resp.Header.Get("Location"))
}
