// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/daf-alumni/internal/auth"
	"github.com/olegiv/daf-alumni/internal/middleware"
	"github.com/olegiv/daf-alumni/internal/model"
	"github.com/olegiv/daf-alumni/internal/render"
	"github.com/olegiv/daf-alumni/internal/service"
)

// Login scopes for lockout tracking.
const (
	scopeAlumni = "alumni"
	scopeAdmin  = "admin"
)

// User-facing messages of the sign-in flows.
const (
	MsgRegistered   = "Registration successful! Welcome to DAF Alumni Network."
	MsgLoggedIn     = "Login successful! Redirecting to dashboard..."
	MsgAdminWelcome = "Welcome back, Admin!"
	MsgLoggedOut    = "You have been logged out."
)

// Confirmation questions of the logout pages.
const (
	confirmAlumniLogout = "Logout from your account?"
	confirmAdminLogout  = "Logout from Admin Panel?"
)

// AuthHandler handles registration, sign-in and sign-out for members and
// the administrator.
type AuthHandler struct {
	*Base
	loginProtection *middleware.LoginProtection
	remember        *auth.Remember
}

// NewAuthHandler creates the authentication handler.
func NewAuthHandler(base *Base, lp *middleware.LoginProtection, remember *auth.Remember) *AuthHandler {
	return &AuthHandler{Base: base, loginProtection: lp, remember: remember}
}

// RegisterData is the registration page.
type RegisterData struct {
	Form    model.RegistrationInput
	Batches []string
}

// RegisterForm handles GET /register.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetAlumni(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.render(w, r, "auth/register", h.page(r, "Register", RegisterData{Batches: model.Batches}))
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in model.RegistrationInput

	if err := limitBody(w, r, h.limits.ProfilePicture+bodyOverhead); err != nil {
		h.renderInvalid(w, r, "auth/register", h.page(r, "Register", RegisterData{Batches: model.Batches}),
			model.ValidationErrors{{Field: "profile_picture", Message: bodyError(err, h.limits.ProfilePicture)}})
		return
	}
	if !bindForm(w, r, &in) {
		return
	}

	picture, err := formFile(r, "profile_picture")
	if err != nil {
		logAndHTTPError(w, MsgInvalidForm, http.StatusBadRequest, "reading profile picture", "error", err)
		return
	}

	u, err := h.svc.Alumni.Register(r.Context(), in, picture)
	if err != nil {
		if errs, ok := model.AsValidationErrors(err); ok {
			in.Password, in.ConfirmPassword = "", ""
			h.renderInvalid(w, r, "auth/register", h.page(r, "Register", RegisterData{Form: in, Batches: model.Batches}), errs)
			return
		}
		storeFailed(w, r, h.renderer, "/register", "registering alumni", err)
		return
	}

	h.logger.Info("alumni registration completed", "category", model.CategoryAuth, "user_id", u.ID)
	flashSuccess(w, r, h.renderer, "/directory", MsgRegistered)
}

// CheckID handles GET /register/check-id, the live alumni id check.
func (h *AuthHandler) CheckID(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Alumni.CheckAlumniID(r.Context(), r.URL.Query().Get("alumni_id"))
	if err != nil {
		h.logger.Error("checking alumni id", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// PasswordStrength handles POST /register/password-strength.
func (h *AuthHandler) PasswordStrength(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, MsgInvalidForm)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"strength": model.PasswordStrength(r.PostFormValue("password")),
	})
}

// LoginData is the member login page.
type LoginData struct {
	Email    string
	Remember bool
}

// LoginForm handles GET /login. A remembered email is filled in.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetAlumni(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	email := h.remember.Email(r)
	h.render(w, r, "auth/login", h.page(r, "Login", LoginData{Email: email, Remember: email != ""}))
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, "/login") {
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	rememberMe := r.FormValue("remember") != ""
	data := LoginData{Email: email, Remember: rememberMe}

	fail := func(msg string) {
		h.renderInvalid(w, r, "auth/login", h.page(r, "Login", data),
			model.ValidationErrors{{Field: "password", Message: msg}})
	}

	if locked, remaining := h.loginProtection.IsAccountLocked(scopeAlumni, email); locked {
		h.logger.Warn("login attempt on locked account", "category", model.CategoryAuth,
			"email", email, "ip", middleware.ClientIP(r))
		fail(lockedMessage(remaining))
		return
	}

	u, err := h.svc.Alumni.Login(r.Context(), email, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.logger.Warn("alumni login failed", "category", model.CategoryAuth,
			"email", email, "ip", middleware.ClientIP(r))
		fail(h.failedLoginMessage(scopeAlumni, email, service.MsgInvalidLogin))
		return
	}
	if err != nil {
		logAndInternalError(w, "alumni login", "error", err)
		return
	}

	h.loginProtection.RecordSuccessfulLogin(scopeAlumni, email)
	if err := h.sessions.Alumni.SignIn(r.Context(), u.Snapshot()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	if rememberMe {
		if err := h.remember.SetCookie(w, u.Email); err != nil {
			h.logger.Warn("remember-me cookie not set", "error", err)
		}
	} else {
		h.remember.ClearCookie(w)
	}

	h.logger.Info("alumni logged in", "category", model.CategoryAuth, "user_id", u.ID)
	flashSuccess(w, r, h.renderer, "/dashboard", MsgLoggedIn)
}

// LogoutData is the logout confirmation page.
type LogoutData struct {
	Question string
	Action   string
	Cancel   string
}

// LogoutForm handles GET /logout.
func (h *AuthHandler) LogoutForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "auth/logout", h.page(r, "Logout", LogoutData{
		Question: confirmAlumniLogout,
		Action:   "/logout",
		Cancel:   "/dashboard",
	}))
}

// Logout handles POST /logout. Only the alumni slot is cleared.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if u := middleware.GetAlumni(r); u != nil {
		h.logger.Info("alumni logged out", "category", model.CategoryAuth, "user_id", u.ID)
	}
	h.sessions.Alumni.SignOut(r.Context())
	flashAndRedirect(w, r, h.renderer, "/login", MsgLoggedOut, render.KindInfo)
}

// AdminLoginData is the admin login page.
type AdminLoginData struct {
	Username string
}

// AdminLoginForm handles GET /admin/login.
func (h *AuthHandler) AdminLoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetAdmin(r) != nil {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	h.render(w, r, "auth/admin_login", h.page(r, "Admin Login", AdminLoginData{}))
}

// AdminLogin handles POST /admin/login.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, "/admin/login") {
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	fail := func(msg string) {
		h.renderInvalid(w, r, "auth/admin_login", h.page(r, "Admin Login", AdminLoginData{Username: username}),
			model.ValidationErrors{{Field: "password", Message: msg}})
	}

	if locked, remaining := h.loginProtection.IsAccountLocked(scopeAdmin, username); locked {
		h.logger.Warn("admin login attempt on locked account", "category", model.CategoryAuth,
			"ip", middleware.ClientIP(r))
		fail(lockedMessage(remaining))
		return
	}

	admin, err := h.svc.Admin.Login(r.Context(), username, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.logger.Warn("admin login failed", "category", model.CategoryAuth,
			"username", username, "ip", middleware.ClientIP(r))
		fail(h.failedLoginMessage(scopeAdmin, username, service.MsgInvalidAdminLogin))
		return
	}
	if err != nil {
		logAndInternalError(w, "admin login", "error", err)
		return
	}

	h.loginProtection.RecordSuccessfulLogin(scopeAdmin, username)
	if err := h.sessions.Admin.SignIn(r.Context(), admin); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	h.logger.Info("admin logged in", "category", model.CategoryAuth, "ip", middleware.ClientIP(r))
	flashSuccess(w, r, h.renderer, "/admin", MsgAdminWelcome)
}

// AdminLogoutForm handles GET /admin/logout.
func (h *AuthHandler) AdminLogoutForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "auth/logout", h.page(r, "Logout", LogoutData{
		Question: confirmAdminLogout,
		Action:   "/admin/logout",
		Cancel:   "/admin",
	}))
}

// AdminLogout handles POST /admin/logout. Only the admin slot is cleared.
func (h *AuthHandler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Admin.SignOut(r.Context())
	h.logger.Info("admin logged out", "category", model.CategoryAuth)
	flashAndRedirect(w, r, h.renderer, "/admin/login", MsgLoggedOut, render.KindInfo)
}

// failedLoginMessage records the failure and picks the message to show.
func (h *AuthHandler) failedLoginMessage(scope, identifier, invalid string) string {
	if locked, d := h.loginProtection.RecordFailedAttempt(scope, identifier); locked {
		return lockedMessage(d)
	}
	if remaining := h.loginProtection.RemainingAttempts(scope, identifier); remaining > 0 && remaining <= 2 {
		return fmt.Sprintf("%s %d attempt(s) left before the account is locked.", invalid, remaining)
	}
	return invalid
}

func lockedMessage(d time.Duration) string {
	return fmt.Sprintf("Too many failed attempts. Please try again in %s.", formatDuration(d))
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
