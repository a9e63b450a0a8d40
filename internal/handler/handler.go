// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the alumni site: the public
// pages, registration and sign-in, the member dashboard and the admin panel.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/daf-alumni/internal/middleware"
	"github.com/olegiv/daf-alumni/internal/model"
	"github.com/olegiv/daf-alumni/internal/render"
	"github.com/olegiv/daf-alumni/internal/service"
	"github.com/olegiv/daf-alumni/internal/session"
)

// Services bundles the services the handlers call.
type Services struct {
	Alumni        *service.AlumniService
	Admin         *service.AdminService
	Announcements *service.AnnouncementService
	Events        *service.EventService
	Documents     *service.DocumentService
	Inbox         *service.InboxService
	Messages      *service.MessageService
	Gallery       *service.GalleryService
	Hero          *service.HeroService
	Stats         *service.StatsService
}

// Limits are the upload ceilings in bytes.
type Limits struct {
	ProfilePicture int64
	Media          int64
}

// bodyOverhead is allowed on top of the file limits for the other fields.
const bodyOverhead = 1 << 20

// Base holds what every handler needs to build a page.
type Base struct {
	renderer *render.Renderer
	sessions *session.Context
	svc      *Services
	limits   Limits
	logger   *slog.Logger
	now      func() time.Time
}

// NewBase creates the shared handler base.
func NewBase(renderer *render.Renderer, sessions *session.Context, svc *Services, limits Limits, logger *slog.Logger) *Base {
	if logger == nil {
		logger = slog.Default()
	}
	if limits.ProfilePicture <= 0 {
		limits.ProfilePicture = service.DefaultProfileMaxBytes
	}
	if limits.Media <= 0 {
		limits.Media = service.DefaultMediaMaxBytes
	}
	return &Base{
		renderer: renderer,
		sessions: sessions,
		svc:      svc,
		limits:   limits,
		logger:   logger,
		now:      time.Now,
	}
}

// page fills the layout data common to every page.
func (b *Base) page(r *http.Request, title string, data any) render.TemplateData {
	settings, err := b.svc.Documents.Settings(r.Context())
	if err != nil {
		b.logger.Warn("loading site settings", "error", err)
		settings = model.DefaultSiteSettings()
	}
	return render.TemplateData{
		Title:    title,
		Data:     data,
		Lang:     middleware.GetLang(r),
		Alumni:   middleware.GetAlumni(r),
		Admin:    middleware.GetAdmin(r),
		Settings: settings,
	}
}

// adminPage adds the unread contact message badge.
func (b *Base) adminPage(r *http.Request, title string, data any) render.TemplateData {
	td := b.page(r, title, data)
	n, err := b.svc.Inbox.UnreadCount(r.Context())
	if err != nil {
		b.logger.Warn("counting unread contact messages", "error", err)
	}
	td.UnreadCount = n
	return td
}

// dashboardPage adds the member's unread message badge.
func (b *Base) dashboardPage(r *http.Request, title string, data any) render.TemplateData {
	td := b.page(r, title, data)
	if td.Alumni != nil {
		n, err := b.svc.Messages.UnreadCount(r.Context(), td.Alumni.Email)
		if err != nil {
			b.logger.Warn("counting unread messages", "error", err)
		}
		td.UnreadCount = n
	}
	return td
}

// render writes a page and turns template failures into a 500.
func (b *Base) render(w http.ResponseWriter, r *http.Request, name string, td render.TemplateData) {
	b.renderStatus(w, r, http.StatusOK, name, td)
}

func (b *Base) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, td render.TemplateData) {
	if err := b.renderer.RenderStatus(w, r, status, name, td); err != nil {
		logAndInternalError(w, "render error", "template", name, "error", err)
	}
}

// renderInvalid re-renders a form after a validation failure: field errors
// inline, the first one as the notification, focus on the first bad field.
func (b *Base) renderInvalid(w http.ResponseWriter, r *http.Request, name string, td render.TemplateData, errs model.ValidationErrors) {
	first := errs.First()
	td.Errors = errs.Fields()
	td.Autofocus = first.Field
	td.Notification = render.NotificationFor(render.KindError, first.Message)
	b.renderStatus(w, r, http.StatusUnprocessableEntity, name, td)
}

// notFound renders the public not-found page.
func (b *Base) notFound(w http.ResponseWriter, r *http.Request) {
	b.renderStatus(w, r, http.StatusNotFound, "public/not_found", b.page(r, "Page not found", nil))
}

// NotFound handles unmatched routes.
func (b *Base) NotFound(w http.ResponseWriter, r *http.Request) {
	b.notFound(w, r)
}

// owner identifies the session that staged uploads belong to.
func (b *Base) owner(r *http.Request) string {
	return b.sessions.Token(r.Context())
}
