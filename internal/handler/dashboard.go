// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/olegiv/daf-alumni/internal/directory"
	"github.com/olegiv/daf-alumni/internal/middleware"
	"github.com/olegiv/daf-alumni/internal/model"
	"github.com/olegiv/daf-alumni/internal/service"
)

// Dashboard messages.
const (
	MsgProfileUpdated = "Profile updated successfully!"
	MsgAccountGone    = "Your account is no longer registered."
)

// DashboardHandler serves the signed-in member's dashboard.
type DashboardHandler struct {
	*Base
}

// NewDashboardHandler creates the member dashboard handler.
func NewDashboardHandler(base *Base) *DashboardHandler {
	return &DashboardHandler{Base: base}
}

// member loads the signed-in member's current record. A member deleted by
// the admin is signed out.
func (h *DashboardHandler) member(w http.ResponseWriter, r *http.Request) (model.AlumniUser, bool) {
	snap := middleware.GetAlumni(r)
	if snap == nil {
		http.Redirect(w, r, middleware.AlumniLoginPath, http.StatusSeeOther)
		return model.AlumniUser{}, false
	}
	u, err := h.svc.Alumni.Get(r.Context(), snap.ID)
	if errors.Is(err, service.ErrNotFound) {
		h.sessions.Alumni.SignOut(r.Context())
		flashError(w, r, h.renderer, middleware.AlumniLoginPath, MsgAccountGone)
		return model.AlumniUser{}, false
	}
	if err != nil {
		logAndInternalError(w, "loading member", "error", err)
		return model.AlumniUser{}, false
	}
	return u, true
}

// OverviewData is the dashboard landing page.
type OverviewData struct {
	User          model.AlumniUser
	Batchmates    int
	Upcoming      []directory.EventView
	Announcements []model.Announcement
}

// Overview handles GET /dashboard.
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	u, ok := h.member(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	data := OverviewData{User: u}

	users, err := h.svc.Alumni.List(ctx)
	if err != nil {
		h.logger.Warn("listing alumni", "error", err)
	}
	// The member is not their own batchmate.
	data.Batchmates = max(len(directory.UsersByBatch(users, u.Batch))-1, 0)

	upcoming, _, err := h.svc.Events.Split(ctx, h.now())
	if err != nil {
		h.logger.Warn("loading events", "error", err)
	}
	data.Upcoming = upcoming[:min(len(upcoming), homeEvents)]

	announcements, err := h.svc.Announcements.List(ctx, "")
	if err != nil {
		h.logger.Warn("loading announcements", "error", err)
	}
	data.Announcements = announcements[:min(len(announcements), homeAnnouncements)]

	h.render(w, r, "dashboard/overview", h.dashboardPage(r, "Dashboard", data))
}

// ProfileData is the profile page.
type ProfileData struct {
	User model.AlumniUser
	Form model.ProfileInput
}

func profileForm(u model.AlumniUser) model.ProfileInput {
	return model.ProfileInput{
		FullName:     u.FullName,
		Phone:        u.Phone,
		Address:      u.Address,
		Profession:   u.Profession,
		Organization: u.Organization,
		Designation:  u.Designation,
		WorkLocation: u.WorkLocation,
		Facebook:     u.Facebook,
		LinkedIn:     u.LinkedIn,
	}
}

// ProfileForm handles GET /dashboard/profile.
func (h *DashboardHandler) ProfileForm(w http.ResponseWriter, r *http.Request) {
	u, ok := h.member(w, r)
	if !ok {
		return
	}
	h.render(w, r, "dashboard/profile", h.dashboardPage(r, "My Profile", ProfileData{User: u, Form: profileForm(u)}))
}

// Profile handles POST /dashboard/profile.
func (h *DashboardHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u, ok := h.member(w, r)
	if !ok {
		return
	}

	if err := limitBody(w, r, h.limits.ProfilePicture+bodyOverhead); err != nil {
		h.renderInvalid(w, r, "dashboard/profile", h.dashboardPage(r, "My Profile", ProfileData{User: u, Form: profileForm(u)}),
			model.ValidationErrors{{Field: "profile_picture", Message: bodyError(err, h.limits.ProfilePicture)}})
		return
	}

	var in model.ProfileInput
	if !bindForm(w, r, &in) {
		return
	}
	picture, err := formFile(r, "profile_picture")
	if err != nil {
		logAndHTTPError(w, MsgInvalidForm, http.StatusBadRequest, "reading profile picture", "error", err)
		return
	}

	updated, err := h.svc.Alumni.UpdateProfile(r.Context(), u.ID, in, picture)
	if err != nil {
		if errs, ok := model.AsValidationErrors(err); ok {
			in.CurrentPassword, in.NewPassword, in.ConfirmPassword = "", "", ""
			h.renderInvalid(w, r, "dashboard/profile", h.dashboardPage(r, "My Profile", ProfileData{User: u, Form: in}), errs)
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			h.sessions.Alumni.SignOut(r.Context())
			flashError(w, r, h.renderer, middleware.AlumniLoginPath, MsgAccountGone)
			return
		}
		storeFailed(w, r, h.renderer, "/dashboard/profile", "updating profile", err)
		return
	}

	h.sessions.Alumni.Refresh(r.Context(), updated.Snapshot())
	h.logger.Info("profile updated", "category", model.CategoryUser, "user_id", updated.ID)
	flashSuccess(w, r, h.renderer, "/dashboard/profile", MsgProfileUpdated)
}

// Events handles GET /dashboard/events.
func (h *DashboardHandler) Events(w http.ResponseWriter, r *http.Request) {
	upcoming, past, err := h.svc.Events.Split(r.Context(), h.now())
	if err != nil {
		logAndInternalError(w, "loading events", "error", err)
		return
	}
	h.render(w, r, "dashboard/events", h.dashboardPage(r, "Events", EventsData{Upcoming: upcoming, Past: past}))
}

// Messages handles GET /dashboard/messages. The messages shown unread on
// this page are marked read once it has been rendered.
func (h *DashboardHandler) Messages(w http.ResponseWriter, r *http.Request) {
	u, ok := h.member(w, r)
	if !ok {
		return
	}

	msgs, err := h.svc.Messages.Inbox(r.Context(), u.Email)
	if err != nil {
		logAndInternalError(w, "loading messages", "error", err)
		return
	}
	var unread []string
	for _, m := range msgs {
		if !m.Read {
			unread = append(unread, m.ID)
		}
	}

	h.render(w, r, "dashboard/messages", h.dashboardPage(r, "Messages", msgs))

	if len(unread) > 0 {
		if err := h.svc.Messages.MarkRead(r.Context(), u.Email, unread); err != nil {
			h.logger.Warn("marking messages read", "error", err)
		}
	}
}
