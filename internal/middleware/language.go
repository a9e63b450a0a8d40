// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"

	"github.com/olegiv/daf-alumni/internal/i18n"
)

// ContextKeyLanguage holds the negotiated site language code.
const ContextKeyLanguage ContextKey = "language"

// LanguageCookieName is the cookie name for language preference.
const LanguageCookieName = "daf_lang"

// Language picks the content language for the request.
// Priority order:
// 1. Query parameter ?lang=XX (explicit switch, remembered in a cookie)
// 2. The language cookie
// 3. Accept-Language header
// 4. English
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("lang"); q != "" && i18n.IsSupported(q) {
			lang := i18n.Match(q, "")
			SetLanguageCookie(w, lang)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ContextKeyLanguage, lang)))
			return
		}

		explicit := ""
		if c, err := r.Cookie(LanguageCookieName); err == nil {
			explicit = c.Value
		}
		lang := i18n.Match(explicit, r.Header.Get("Accept-Language"))
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ContextKeyLanguage, lang)))
	})
}

// GetLang returns the request's language code, English by default.
func GetLang(r *http.Request) string {
	lang, ok := r.Context().Value(ContextKeyLanguage).(string)
	if !ok || lang == "" {
		return i18n.English
	}
	return lang
}

// SetLanguageCookie sets the language preference cookie.
func SetLanguageCookie(w http.ResponseWriter, langCode string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    langCode,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60, // 1 year
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
