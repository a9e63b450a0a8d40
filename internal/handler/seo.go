// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"github.com/olegiv/daf-alumni/internal/seo"
)

// SEOHandler serves robots.txt and sitemap.xml.
type SEOHandler struct {
	*Base
	siteURL     string
	disallowAll bool
}

// NewSEOHandler creates the SEO handler. disallowAll hides the whole site
// from crawlers.
func NewSEOHandler(base *Base, siteURL string, disallowAll bool) *SEOHandler {
	return &SEOHandler{Base: base, siteURL: siteURL, disallowAll: disallowAll}
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(seo.Robots(seo.RobotsConfig{
		SiteURL:     h.siteURLFor(r),
		DisallowAll: h.disallowAll,
	})))
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Announcements.List(r.Context(), "")
	if err != nil {
		logAndInternalError(w, "failed to list announcements for sitemap", "error", err)
		return
	}

	b := seo.NewSitemapBuilder(h.siteURLFor(r))
	for _, a := range items {
		modified := a.CreatedAt
		if a.UpdatedAt != nil {
			modified = *a.UpdatedAt
		}
		b.AddAnnouncement(a.ID, modified)
	}

	out, err := b.Build()
	if err != nil {
		logAndInternalError(w, "failed to build sitemap", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(out)
}

// siteURLFor falls back to the request host when no site URL is configured.
func (h *SEOHandler) siteURLFor(r *http.Request) string {
	if h.siteURL != "" {
		return strings.TrimSuffix(h.siteURL, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
