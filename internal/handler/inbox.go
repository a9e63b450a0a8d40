// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/daf-alumni/internal/directory"
	"github.com/olegiv/daf-alumni/internal/model"
	"github.com/olegiv/daf-alumni/internal/render"
)

// Inbox messages.
const (
	MsgInboxMessageDeleted = "Message deleted."
	MsgInboxCleared        = "All messages cleared."
	MsgInboxMarkedRead     = "Messages marked as read."
	MsgInboxNotFound       = "Message not found."
)

const redirectAdminInbox = "/admin/inbox"

// InboxHandler serves the admin contact message inbox.
type InboxHandler struct {
	*Base
}

// NewInboxHandler creates the inbox handler.
func NewInboxHandler(base *Base) *InboxHandler {
	return &InboxHandler{Base: base}
}

// InboxData is the admin inbox page. UnreadIDs are the messages shown
// unread on this render; the page posts them back to mark them read.
type InboxData struct {
	Messages  []model.ContactMessage
	Query     string
	UnreadIDs []string
}

// Inbox handles GET /admin/inbox.
func (h *InboxHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	all, err := h.svc.Inbox.List(r.Context(), "")
	if err != nil {
		logAndInternalError(w, "loading inbox", "error", err)
		return
	}

	// Opening the inbox reads every unread message, not just the search hits.
	h.render(w, r, "admin/inbox", h.adminPage(r, "Inbox", InboxData{
		Messages:  directory.FilterContactMessages(all, query),
		Query:     query,
		UnreadIDs: directory.UnreadContactIDs(all),
	}))
}

// MarkRead handles POST /admin/inbox/mark-read with the ids captured at
// render time. Script clients get a JSON reply.
func (h *InboxHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		if wantsJSON(r) {
			writeJSONError(w, http.StatusBadRequest, MsgInvalidForm)
			return
		}
		flashError(w, r, h.renderer, redirectAdminInbox, MsgInvalidForm)
		return
	}

	marked, err := h.svc.Inbox.MarkRead(r.Context(), r.PostForm["ids"])
	if err != nil {
		if wantsJSON(r) {
			h.logger.Error("marking inbox read", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		storeFailed(w, r, h.renderer, redirectAdminInbox, "marking inbox read", err)
		return
	}

	if wantsJSON(r) {
		unread, err := h.svc.Inbox.UnreadCount(r.Context())
		if err != nil {
			h.logger.Warn("counting unread contact messages", "error", err)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"marked":  marked,
			"unread":  unread,
		})
		return
	}
	flashAndRedirect(w, r, h.renderer, redirectAdminInbox, MsgInboxMarkedRead, render.KindInfo)
}

// MarkOneRead handles POST /admin/inbox/{id}/read.
func (h *InboxHandler) MarkOneRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Inbox.MarkRead(r.Context(), []string{chi.URLParam(r, "id")})
	if err != nil {
		storeFailed(w, r, h.renderer, redirectAdminInbox, "marking message read", err)
		return
	}
	if n == 0 {
		http.Redirect(w, r, redirectAdminInbox, http.StatusSeeOther)
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminInbox, MsgInboxMarkedRead)
}

// Delete handles POST /admin/inbox/{id}/delete.
func (h *InboxHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Inbox.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		notFoundOr(w, r, h.renderer, redirectAdminInbox, MsgInboxNotFound, "deleting contact message", err)
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminInbox, MsgInboxMessageDeleted)
}

// Clear handles POST /admin/inbox/clear.
func (h *InboxHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Inbox.Clear(r.Context()); err != nil {
		storeFailed(w, r, h.renderer, redirectAdminInbox, "clearing inbox", err)
		return
	}
	h.logger.Warn("inbox cleared", "category", model.CategoryInbox)
	flashSuccess(w, r, h.renderer, redirectAdminInbox, MsgInboxCleared)
}
