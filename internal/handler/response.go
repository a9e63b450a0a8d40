// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/daf-alumni/internal/render"
	"github.com/olegiv/daf-alumni/internal/service"
)

// MsgInvalidForm is shown when a request body cannot be parsed.
const MsgInvalidForm = "Invalid form data"

// flashAndRedirect sets the notification and redirects to the given URL.
// Uses http.StatusSeeOther (303) so the browser follows with a GET.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, kind string) {
	renderer.Notify(r, kind, message)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error notification and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.KindError)
}

// flashSuccess sets a success notification and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.KindSuccess)
}

// parseFormOrRedirect parses the request form and redirects with an error
// notification on failure. Returns false if a redirect was written.
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, MsgInvalidForm)
		return false
	}
	return true
}

// logAndHTTPError logs an error and writes an HTTP error response.
func logAndHTTPError(w http.ResponseWriter, message string, statusCode int, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, message, statusCode)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	logAndHTTPError(w, "Internal Server Error", http.StatusInternalServerError, logMsg, args...)
}

// storeFailed logs a failed write and redirects with an error notification.
// The request still completes normally.
func storeFailed(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, logMsg string, err error) {
	slog.ErrorContext(r.Context(), logMsg, "error", err)
	flashError(w, r, renderer, url, "Something went wrong. Please try again.")
}

// notFoundOr redirects with notFoundMsg for service.ErrNotFound and treats
// any other error as a failed write.
func notFoundOr(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, notFoundMsg, logMsg string, err error) {
	if errors.Is(err, service.ErrNotFound) {
		flashError(w, r, renderer, url, notFoundMsg)
		return
	}
	storeFailed(w, r, renderer, url, logMsg, err)
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"success": false,
		"error":   message,
	})
}

// wantsJSON reports whether the client asked for a JSON reply.
func wantsJSON(r *http.Request) bool {
	return r.Header.Get("Accept") == "application/json"
}
