// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the site's HTML templates and writes pages with the
// shared layout data and the pending notification.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/daf-alumni/internal/model"
)

// blankLinesRegex collapses runs of blank lines left behind by template actions.
var blankLinesRegex = regexp.MustCompile(`(\r?\n[ \t]*)+\r?\n`)

// Template groups and the layouts each one is parsed with.
var layoutGroups = map[string][]string{
	"public":    {"layouts/base.html", "layouts/public.html"},
	"dashboard": {"layouts/base.html", "layouts/dashboard.html"},
	"admin":     {"layouts/base.html", "layouts/admin.html"},
	"auth":      {"layouts/base.html"},
}

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	location       *time.Location
	isDev          bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	// Location is used when formatting dates. Defaults to time.Local.
	Location *time.Location
	IsDev    bool
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		location:       cfg.Location,
		isDev:          cfg.IsDev,
	}
	if r.location == nil {
		r.location = time.Local
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses every page template with its group's layouts and
// all partials. Pages are registered as "<group>/<name>".
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := r.getTemplateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	for group, layouts := range layoutGroups {
		pages, err := r.getTemplateFiles(templatesFS, group)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", group, err)
		}

		for _, tmplPath := range pages {
			name := group + "/" + strings.TrimSuffix(path.Base(tmplPath), ".html")

			files := append([]string{}, layouts...)
			files = append(files, partials...)
			files = append(files, tmplPath)

			tmpl, err := template.New("").Funcs(r.TemplateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	return nil
}

// getTemplateFiles returns all .html files in a directory.
func (r *Renderer) getTemplateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	var files []string

	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		// A group without pages is fine
		return files, nil
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}

	return files, nil
}

// Has reports whether a page template was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title        string
	Data         any
	Notification *Notification
	CurrentYear  int
	Lang         string
	Path         string

	// Signed-in actors, nil for guests.
	Alumni *model.AlumniUser
	Admin  *model.AdminUser

	Settings model.SiteSettings
	// UnreadCount feeds the inbox badge of the current layout.
	UnreadCount int

	// Form state for re-rendered forms.
	Errors    map[string]string
	Autofocus string
}

// FieldError returns the error message for a form field.
func (d TemplateData) FieldError(field string) string {
	return d.Errors[field]
}

// Render renders a template with the given data.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a template with an explicit status code.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().In(r.location).Year()
	if data.Path == "" {
		data.Path = req.URL.Path
	}
	if data.Lang == "" {
		data.Lang = "en"
	}

	if data.Notification == nil {
		data.Notification = r.PopNotification(req)
	}
	if data.Notification != nil {
		data.Notification.Timeout = timeoutFor(name)
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	out := buf.Bytes()
	if !r.isDev {
		out = blankLinesRegex.ReplaceAll(out, []byte("\n"))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(out); err != nil {
		slog.Debug("writing response", "template", name, "error", err)
	}
	return nil
}
