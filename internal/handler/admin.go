// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/daf-alumni/internal/directory"
	"github.com/olegiv/daf-alumni/internal/model"
	"github.com/olegiv/daf-alumni/internal/service"
)

// Admin user management messages.
const (
	MsgUserDeleted     = "User deleted successfully."
	MsgAllUsersDeleted = "All users deleted."
	MsgUserNotFound    = "User not found."
)

const redirectAdminUsers = "/admin/users"

// AdminHandler serves the admin dashboard and member management.
type AdminHandler struct {
	*Base
}

// NewAdminHandler creates the admin dashboard handler.
func NewAdminHandler(base *Base) *AdminHandler {
	return &AdminHandler{Base: base}
}

// AdminDashboardData is the admin landing page.
type AdminDashboardData struct {
	Stats    directory.Dashboard
	Live     directory.Live
	Activity []model.Activity
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.svc.Stats.Dashboard(ctx)
	if err != nil {
		logAndInternalError(w, "loading dashboard stats", "error", err)
		return
	}
	live, err := h.svc.Stats.Live(ctx)
	if err != nil {
		h.logger.Warn("loading live stats", "error", err)
	}
	activity, err := h.svc.Stats.RecentActivity(ctx)
	if err != nil {
		h.logger.Warn("loading recent activity", "error", err)
	}

	h.render(w, r, "admin/dashboard", h.adminPage(r, "Dashboard", AdminDashboardData{
		Stats:    stats,
		Live:     live,
		Activity: activity,
	}))
}

// UsersData is the admin member list.
type UsersData struct {
	Users   []model.AlumniUser
	Batch   string
	Query   string
	Batches []string
}

// Users handles GET /admin/users.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
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

	h.render(w, r, "admin/users", h.adminPage(r, "Users", UsersData{
		Users:   directory.FilterUsers(users, batch, query),
		Batch:   batch,
		Query:   query,
		Batches: model.Batches,
	}))
}

// UserData is the admin member detail page with the message form.
type UserData struct {
	User model.AlumniUser
	Form model.UserMessageInput
}

// userOrRedirect loads the member in the {id} URL parameter.
func (h *AdminHandler) userOrRedirect(w http.ResponseWriter, r *http.Request) (model.AlumniUser, bool) {
	u, err := h.svc.Alumni.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		notFoundOr(w, r, h.renderer, redirectAdminUsers, MsgUserNotFound, "loading user", err)
		return model.AlumniUser{}, false
	}
	return u, true
}

// User handles GET /admin/users/{id}.
func (h *AdminHandler) User(w http.ResponseWriter, r *http.Request) {
	u, ok := h.userOrRedirect(w, r)
	if !ok {
		return
	}
	h.render(w, r, "admin/user", h.adminPage(r, u.FullName, UserData{User: u}))
}

// DeleteUser handles POST /admin/users/{id}/delete.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Alumni.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		notFoundOr(w, r, h.renderer, redirectAdminUsers, MsgUserNotFound, "deleting user", err)
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminUsers, MsgUserDeleted)
}

// DeleteAllUsers handles POST /admin/users/delete-all.
func (h *AdminHandler) DeleteAllUsers(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Alumni.DeleteAll(r.Context()); err != nil {
		storeFailed(w, r, h.renderer, redirectAdminUsers, "deleting all users", err)
		return
	}
	flashError(w, r, h.renderer, redirectAdminUsers, MsgAllUsersDeleted)
}

// MessageForm handles GET /admin/users/{id}/message.
func (h *AdminHandler) MessageForm(w http.ResponseWriter, r *http.Request) {
	u, ok := h.userOrRedirect(w, r)
	if !ok {
		return
	}
	h.render(w, r, "admin/user_message", h.adminPage(r, "Send Message", UserData{User: u}))
}

// SendMessage handles POST /admin/users/{id}/message.
func (h *AdminHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers+"/"+id+"/message") {
		return
	}

	var in model.UserMessageInput
	if !bindForm(w, r, &in) {
		return
	}

	_, u, err := h.svc.Messages.Send(r.Context(), id, in)
	if err != nil {
		if errs, ok := model.AsValidationErrors(err); ok {
			h.renderInvalid(w, r, "admin/user_message", h.adminPage(r, "Send Message", UserData{User: u, Form: in}), errs)
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			flashError(w, r, h.renderer, redirectAdminUsers, MsgUserNotFound)
			return
		}
		storeFailed(w, r, h.renderer, redirectAdminUsers+"/"+id, "sending message", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminUsers+"/"+id, fmt.Sprintf("Message sent to %s successfully!", u.Email))
}
