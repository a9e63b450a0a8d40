// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Change frequencies used by the site.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// publicPages are the fixed public pages after the homepage.
var publicPages = []struct {
	path     string
	freq     ChangeFreq
	priority string
}{
	{"/events", ChangeFreqDaily, "0.9"},
	{"/directory", ChangeFreqDaily, "0.8"},
	{"/gallery", ChangeFreqWeekly, "0.7"},
	{"/about", ChangeFreqMonthly, "0.6"},
	{"/contact", ChangeFreqMonthly, "0.5"},
}

// SitemapBuilder builds sitemap XML for the public pages and announcements.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a builder seeded with the homepage and the
// fixed public pages.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	b := &SitemapBuilder{siteURL: strings.TrimSuffix(siteURL, "/")}
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/",
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
	})
	for _, p := range publicPages {
		b.urls = append(b.urls, SitemapURL{
			Loc:        b.siteURL + p.path,
			ChangeFreq: p.freq,
			Priority:   p.priority,
		})
	}
	return b
}

// AddAnnouncement adds an announcement detail page.
func (b *SitemapBuilder) AddAnnouncement(id string, modified time.Time) {
	u := SitemapURL{
		Loc:        b.siteURL + "/announcements/" + id,
		ChangeFreq: ChangeFreqMonthly,
		Priority:   "0.4",
	}
	if !modified.IsZero() {
		u.LastMod = modified.UTC().Format(time.RFC3339)
	}
	b.urls = append(b.urls, u)
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(output, xmlBytes...), nil
}
