// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/olegiv/daf-alumni/internal/i18n"
	"github.com/olegiv/daf-alumni/internal/model"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	// Free text comes from admins and visitors alike.
	htmlPolicy = bluemonday.UGCPolicy().RequireNoFollowOnLinks(true)
)

// Markdown converts Markdown to sanitized HTML.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(htmlPolicy.SanitizeBytes(buf.Bytes()))
}

// TemplateFuncs returns custom template functions.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	loc := time.Local
	if r != nil && r.location != nil {
		loc = r.location
	}

	return template.FuncMap{
		"T":        i18n.T,
		"pick":     i18n.Pick,
		"markdown": Markdown,
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(loc).Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(loc).Format("Jan 2, 2006 3:04 PM")
		},
		"pad2":       model.Pad2,
		"batchLabel": model.BatchLabel,
		"truncate": func(s string, length int) string {
			runes := []rune(s)
			if len(runes) <= length {
				return s
			}
			return string(runes[:length]) + "..."
		},
		"join":     strings.Join,
		"safeURL":  func(s string) template.URL { return template.URL(s) },
		"add":      func(a, b int) int { return a + b },
		"sub":      func(a, b int) int { return a - b },
		"selected": func(a, b string) bool { return a == b },
		"dict": func(pairs ...any) (map[string]any, error) {
			if len(pairs)%2 != 0 {
				return nil, errors.New("dict needs key/value pairs")
			}
			m := make(map[string]any, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				k, ok := pairs[i].(string)
				if !ok {
					return nil, errors.New("dict keys must be strings")
				}
				m[k] = pairs[i+1]
			}
			return m, nil
		},
	}
}
