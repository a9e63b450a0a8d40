// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/daf-alumni/internal/model"
)

// Site document messages.
const (
	MsgContactInfoSaved   = "Contact info saved!"
	MsgAboutSaved         = "About Us saved!"
	MsgSettingsSaved      = "Settings saved successfully!"
	MsgAdminPasswordSaved = "Admin password updated!"
)

const (
	redirectAdminContactInfo = "/admin/contact-info"
	redirectAdminAbout       = "/admin/about"
	redirectAdminSettings    = "/admin/settings"
	redirectAdminPassword    = "/admin/password"
)

// DocumentsHandler edits the contact block, the About page, the site
// settings and the admin password.
type DocumentsHandler struct {
	*Base
}

// NewDocumentsHandler creates the site documents handler.
func NewDocumentsHandler(base *Base) *DocumentsHandler {
	return &DocumentsHandler{Base: base}
}

// ContactInfoForm handles GET /admin/contact-info.
func (h *DocumentsHandler) ContactInfoForm(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Documents.ContactInfo(r.Context())
	if err != nil {
		h.logger.Warn("loading contact info", "error", err)
	}
	h.render(w, r, "admin/contact_info", h.adminPage(r, "Contact Info", info))
}

// SaveContactInfo handles POST /admin/contact-info.
func (h *DocumentsHandler) SaveContactInfo(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminContactInfo) {
		return
	}
	var in model.ContactInfo
	if !bindForm(w, r, &in) {
		return
	}

	if _, err := h.svc.Documents.SaveContactInfo(r.Context(), in); err != nil {
		if errs, ok := model.AsValidationErrors(err); ok {
			h.renderInvalid(w, r, "admin/contact_info", h.adminPage(r, "Contact Info", in), errs)
			return
		}
		storeFailed(w, r, h.renderer, redirectAdminContactInfo, "saving contact info", err)
		return
	}
	h.logger.Info("contact info saved", "category", model.CategoryConfig)
	flashSuccess(w, r, h.renderer, redirectAdminContactInfo, MsgContactInfoSaved)
}

// AboutForm handles GET /admin/about.
func (h *DocumentsHandler) AboutForm(w http.ResponseWriter, r *http.Request) {
	about, err := h.svc.Documents.About(r.Context())
	if err != nil {
		h.logger.Warn("loading about content", "error", err)
	}
	h.render(w, r, "admin/about", h.adminPage(r, "About Us", about))
}

// SaveAbout handles POST /admin/about.
func (h *DocumentsHandler) SaveAbout(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminAbout) {
		return
	}
	var in model.AboutContent
	if !bindForm(w, r, &in) {
		return
	}

	if _, err := h.svc.Documents.SaveAbout(r.Context(), in); err != nil {
		if errs, ok := model.AsValidationErrors(err); ok {
			h.renderInvalid(w, r, "admin/about", h.adminPage(r, "About Us", in), errs)
			return
		}
		storeFailed(w, r, h.renderer, redirectAdminAbout, "saving about content", err)
		return
	}
	h.logger.Info("about content saved", "category", model.CategoryConfig)
	flashSuccess(w, r, h.renderer, redirectAdminAbout, MsgAboutSaved)
}

// SettingsForm handles GET /admin/settings.
func (h *DocumentsHandler) SettingsForm(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.Documents.Settings(r.Context())
	if err != nil {
		h.logger.Warn("loading site settings", "error", err)
	}
	h.render(w, r, "admin/settings", h.adminPage(r, "Settings", settings))
}

// SaveSettings handles POST /admin/settings.
func (h *DocumentsHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminSettings) {
		return
	}
	var in model.SiteSettings
	if !bindForm(w, r, &in) {
		return
	}

	if _, err := h.svc.Documents.SaveSettings(r.Context(), in); err != nil {
		if errs, ok := model.AsValidationErrors(err); ok {
			h.renderInvalid(w, r, "admin/settings", h.adminPage(r, "Settings", in), errs)
			return
		}
		storeFailed(w, r, h.renderer, redirectAdminSettings, "saving settings", err)
		return
	}
	h.logger.Info("site settings saved", "category", model.CategoryConfig)
	flashSuccess(w, r, h.renderer, redirectAdminSettings, MsgSettingsSaved)
}

// PasswordForm handles GET /admin/password.
func (h *DocumentsHandler) PasswordForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin/password", h.adminPage(r, "Admin Password", nil))
}

// ChangePassword handles POST /admin/password.
func (h *DocumentsHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPassword) {
		return
	}
	var in model.AdminPasswordInput
	if !bindForm(w, r, &in) {
		return
	}

	if err := h.svc.Admin.ChangePassword(r.Context(), in); err != nil {
		if errs, ok := model.AsValidationErrors(err); ok {
			h.renderInvalid(w, r, "admin/password", h.adminPage(r, "Admin Password", nil), errs)
			return
		}
		storeFailed(w, r, h.renderer, redirectAdminPassword, "changing admin password", err)
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminPassword, MsgAdminPasswordSaved)
}
