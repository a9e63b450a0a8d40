// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/daf-alumni/internal/directory"
	"github.com/olegiv/daf-alumni/internal/middleware"
	"github.com/olegiv/daf-alumni/internal/model"
	"github.com/olegiv/daf-alumni/internal/service"
)

// homeAnnouncements and homeEvents bound the home page lists.
const (
	homeAnnouncements = 3
	homeEvents        = 3
)

// PublicHandler serves the public site.
type PublicHandler struct {
	*Base
}

// NewPublicHandler creates the public page handler.
func NewPublicHandler(base *Base) *PublicHandler {
	return &PublicHandler{Base: base}
}

// HomeData is the home page.
type HomeData struct {
	Slides        []model.HeroSlide
	Live          directory.Live
	About         model.AboutContent
	Announcements []model.Announcement
	Upcoming      []directory.EventView
}

// Home handles GET /.
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := HomeData{}

	slides, err := h.svc.Hero.List(ctx)
	if err != nil {
		h.logger.Warn("loading hero slides", "error", err)
	}
	data.Slides = slides

	if data.Live, err = h.svc.Stats.Live(ctx); err != nil {
		h.logger.Warn("loading live stats", "error", err)
	}
	if data.About, err = h.svc.Documents.About(ctx); err != nil {
		h.logger.Warn("loading about content", "error", err)
	}

	announcements, err := h.svc.Announcements.List(ctx, "")
	if err != nil {
		h.logger.Warn("loading announcements", "error", err)
	}
	data.Announcements = announcements[:min(len(announcements), homeAnnouncements)]

	upcoming, _, err := h.svc.Events.Split(ctx, h.now())
	if err != nil {
		h.logger.Warn("loading events", "error", err)
	}
	data.Upcoming = upcoming[:min(len(upcoming), homeEvents)]

	h.render(w, r, "public/home", h.page(r, "", data))
}

// AboutData is the about page.
type AboutData struct {
	About model.AboutContent
	Live  directory.Live
}

// About handles GET /about.
func (h *PublicHandler) About(w http.ResponseWriter, r *http.Request) {
	about, err := h.svc.Documents.About(r.Context())
	if err != nil {
		h.logger.Warn("loading about content", "error", err)
		about = model.DefaultAboutContent()
	}
	live, err := h.svc.Stats.Live(r.Context())
	if err != nil {
		h.logger.Warn("loading live stats", "error", err)
	}
	h.render(w, r, "public/about", h.page(r, "About Us", AboutData{About: about, Live: live}))
}

// DirectoryData is the public alumni directory.
type DirectoryData struct {
	Cards   []directory.Card
	Batch   string
	Query   string
	Batches []string
}

// Directory handles GET /directory.
func (h *PublicHandler) Directory(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Alumni.List(r.Context())
	if err != nil {
		logAndInternalError(w, "listing alumni", "error", err)
		return
	}

	q := r.URL.Query()
	batch := q.Get("batch")
	if batch == "" {
		batch = directory.BatchAll
	}
	query := q.Get("q")

	h.render(w, r, "public/directory", h.page(r, "Alumni Directory", DirectoryData{
		Cards:   directory.DirectoryCards(users, batch, query, middleware.GetAlumni(r) != nil),
		Batch:   batch,
		Query:   query,
		Batches: model.Batches,
	}))
}

// EventsData is the public events page.
type EventsData struct {
	Upcoming []directory.EventView
	Past     []directory.EventView
}

// Events handles GET /events.
func (h *PublicHandler) Events(w http.ResponseWriter, r *http.Request) {
	upcoming, past, err := h.svc.Events.Split(r.Context(), h.now())
	if err != nil {
		logAndInternalError(w, "loading events", "error", err)
		return
	}
	h.render(w, r, "public/events", h.page(r, "Events", EventsData{Upcoming: upcoming, Past: past}))
}

// Gallery handles GET /gallery.
func (h *PublicHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	photos, err := h.svc.Gallery.List(r.Context())
	if err != nil {
		logAndInternalError(w, "loading gallery", "error", err)
		return
	}
	h.render(w, r, "public/gallery", h.page(r, "Gallery", photos))
}

// Announcement handles GET /announcements/{id}.
func (h *PublicHandler) Announcement(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Announcements.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, service.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		logAndInternalError(w, "loading announcement", "error", err)
		return
	}
	h.render(w, r, "public/announcement", h.page(r, a.Title, a))
}

// ContactData is the contact page.
type ContactData struct {
	Info    model.ContactInfo
	Form    model.ContactMessageInput
	Batches []string
}

func (h *PublicHandler) contactData(r *http.Request, form model.ContactMessageInput) ContactData {
	info, err := h.svc.Documents.ContactInfo(r.Context())
	if err != nil {
		h.logger.Warn("loading contact info", "error", err)
		info = model.DefaultContactInfo()
	}
	return ContactData{Info: info, Form: form, Batches: model.Batches}
}

// ContactForm handles GET /contact.
func (h *PublicHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "public/contact", h.page(r, "Contact Us", h.contactData(r, model.ContactMessageInput{})))
}

// Contact handles POST /contact.
func (h *PublicHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, "/contact") {
		return
	}

	var in model.ContactMessageInput
	if !bindForm(w, r, &in) {
		return
	}

	if _, err := h.svc.Inbox.Submit(r.Context(), in); err != nil {
		if errs, ok := model.AsValidationErrors(err); ok {
			h.renderInvalid(w, r, "public/contact", h.page(r, "Contact Us", h.contactData(r, in)), errs)
			return
		}
		storeFailed(w, r, h.renderer, "/contact", "saving contact message", err)
		return
	}

	h.logger.Info("contact message received", "category", model.CategoryUser, "email", in.Email)
	flashSuccess(w, r, h.renderer, "/contact", service.ContactSuccessMessage(in.Name))
}
