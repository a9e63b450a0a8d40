// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/daf-alumni/internal/model"
)

// Content administration messages.
const (
	MsgAnnouncementSaved    = "Announcement saved!"
	MsgAnnouncementUpdated  = "Announcement updated!"
	MsgAnnouncementDeleted  = "Announcement deleted."
	MsgAnnouncementNotFound = "Announcement not found."
	MsgEventAdded           = "Event added!"
	MsgEventUpdated         = "Event updated!"
	MsgEventDeleted         = "Event deleted."
	MsgEventNotFound        = "Event not found."
)

const (
	redirectAdminAnnouncements = "/admin/announcements"
	redirectAdminEvents        = "/admin/events"
)

// ContentHandler manages announcements and events.
type ContentHandler struct {
	*Base
}

// NewContentHandler creates the content administration handler.
func NewContentHandler(base *Base) *ContentHandler {
	return &ContentHandler{Base: base}
}

// AnnouncementsData is the announcement list with its create/edit form.
type AnnouncementsData struct {
	Items      []model.Announcement
	Query      string
	Form       model.AnnouncementInput
	EditID     string
	Severities []string
}

var severities = []string{"info", "success", "warning", "danger"}

func (h *ContentHandler) announcementsPage(r *http.Request, form model.AnnouncementInput, editID string) AnnouncementsData {
	query := r.URL.Query().Get("q")
	items, err := h.svc.Announcements.List(r.Context(), query)
	if err != nil {
		h.logger.Warn("loading announcements", "error", err)
	}
	return AnnouncementsData{Items: items, Query: query, Form: form, EditID: editID, Severities: severities}
}

// Announcements handles GET /admin/announcements.
func (h *ContentHandler) Announcements(w http.ResponseWriter, r *http.Request) {
	data := h.announcementsPage(r, model.AnnouncementInput{Severity: "info"}, "")
	h.render(w, r, "admin/announcements", h.adminPage(r, "Announcements", data))
}

// CreateAnnouncement handles POST /admin/announcements.
func (h *ContentHandler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminAnnouncements) {
		return
	}
	var in model.AnnouncementInput
	if !bindForm(w, r, &in) {
		return
	}

	if _, err := h.svc.Announcements.Create(r.Context(), in); err != nil {
		if errs, ok := model.AsValidationErrors(err); ok {
			h.renderInvalid(w, r, "admin/announcements",
				h.adminPage(r, "Announcements", h.announcementsPage(r, in, "")), errs)
			return
		}
		storeFailed(w, r, h.renderer, redirectAdminAnnouncements, "creating announcement", err)
		return
	}
	h.logger.Info("announcement created", "category", model.CategoryContent, "title", in.Title)
	flashSuccess(w, r, h.renderer, redirectAdminAnnouncements, MsgAnnouncementSaved)
}

// EditAnnouncement handles GET /admin/announcements/{id}/edit.
func (h *ContentHandler) EditAnnouncement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := h.svc.Announcements.Get(r.Context(), id)
	if err != nil {
		notFoundOr(w, r, h.renderer, redirectAdminAnnouncements, MsgAnnouncementNotFound, "loading announcement", err)
		return
	}
	h.render(w, r, "admin/announcements", h.adminPage(r, "Edit Announcement", h.announcementsPage(r, a.Form(), id)))
}

// UpdateAnnouncement handles POST /admin/announcements/{id}.
func (h *ContentHandler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminAnnouncements+"/"+id+"/edit") {
		return
	}
	var in model.AnnouncementInput
	if !bindForm(w, r, &in) {
		return
	}

	if _, err := h.svc.Announcements.Update(r.Context(), id, in); err != nil {
		if errs, ok := model.AsValidationErrors(err); ok {
			h.renderInvalid(w, r, "admin/announcements",
				h.adminPage(r, "Edit Announcement", h.announcementsPage(r, in, id)), errs)
			return
		}
		notFoundOr(w, r, h.renderer, redirectAdminAnnouncements, MsgAnnouncementNotFound, "updating announcement", err)
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminAnnouncements, MsgAnnouncementUpdated)
}

// DeleteAnnouncement handles POST /admin/announcements/{id}/delete.
func (h *ContentHandler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Announcements.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		notFoundOr(w, r, h.renderer, redirectAdminAnnouncements, MsgAnnouncementNotFound, "deleting announcement", err)
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminAnnouncements, MsgAnnouncementDeleted)
}

// AdminEventsData is the event list with its add/edit form.
type AdminEventsData struct {
	Items  []model.Event
	Query  string
	Form   model.EventInput
	EditID string
}

func (h *ContentHandler) eventsPage(r *http.Request, form model.EventInput, editID string) AdminEventsData {
	query := r.URL.Query().Get("q")
	items, err := h.svc.Events.List(r.Context(), query)
	if err != nil {
		h.logger.Warn("loading events", "error", err)
	}
	return AdminEventsData{Items: items, Query: query, Form: form, EditID: editID}
}

// Events handles GET /admin/events.
func (h *ContentHandler) Events(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin/events", h.adminPage(r, "Events", h.eventsPage(r, model.EventInput{}, "")))
}

// EditEvent handles GET /admin/events/{id}/edit, loading the event into the form.
func (h *ContentHandler) EditEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := h.svc.Events.Get(r.Context(), id)
	if err != nil {
		notFoundOr(w, r, h.renderer, redirectAdminEvents, MsgEventNotFound, "loading event", err)
		return
	}
	h.render(w, r, "admin/events", h.adminPage(r, "Edit Event", h.eventsPage(r, e.Form(), id)))
}

// SaveEvent handles POST /admin/events. A non-empty edit_id updates that
// event in place; otherwise a new event is added.
func (h *ContentHandler) SaveEvent(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminEvents) {
		return
	}
	editID := r.FormValue("edit_id")
	var in model.EventInput
	if !bindForm(w, r, &in) {
		return
	}

	_, created, err := h.svc.Events.Save(r.Context(), editID, in)
	if err != nil {
		if errs, ok := model.AsValidationErrors(err); ok {
			h.renderInvalid(w, r, "admin/events", h.adminPage(r, "Events", h.eventsPage(r, in, editID)), errs)
			return
		}
		notFoundOr(w, r, h.renderer, redirectAdminEvents, MsgEventNotFound, "saving event", err)
		return
	}

	if created {
		h.logger.Info("event added", "category", model.CategoryContent, "title", in.Title)
		flashSuccess(w, r, h.renderer, redirectAdminEvents, MsgEventAdded)
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminEvents, MsgEventUpdated)
}

// DeleteEvent handles POST /admin/events/{id}/delete.
func (h *ContentHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Events.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		notFoundOr(w, r, h.renderer, redirectAdminEvents, MsgEventNotFound, "deleting event", err)
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminEvents, MsgEventDeleted)
}
