// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// Announcement severities.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityDanger  = "danger"
)

// Announcement is a notice shown in the public marquee and detail page.
type Announcement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"msg"`
	Severity    string     `json:"type"`
	DisplayDate string     `json:"date,omitempty"`
	Link        string     `json:"link,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// AnnouncementInput is the announcement create/edit form.
type AnnouncementInput struct {
	Title       string `form:"title" validate:"required"`
	Body        string `form:"msg" validate:"required"`
	Severity    string `form:"type" validate:"omitempty,oneof=info success warning danger"`
	DisplayDate string `form:"date"`
	Link        string `form:"link" validate:"omitempty,url"`
}

var announcementMessages = messages{
	"title": "Please fill in title and message.",
	"msg":   "Please fill in title and message.",
	"type":  "Please choose a valid announcement type.",
	"link":  "Please enter a valid link.",
}

var announcementEditMessages = messages{
	"title": "Title and message are required.",
	"msg":   "Title and message are required.",
	"type":  "Please choose a valid announcement type.",
	"link":  "Please enter a valid link.",
}

func (in *AnnouncementInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
	in.Severity = strings.ToLower(strings.TrimSpace(in.Severity))
	if in.Severity == "" {
		in.Severity = SeverityInfo
	}
	in.DisplayDate = strings.TrimSpace(in.DisplayDate)
	in.Link = NormalizeURL(in.Link)
}

// Validate normalizes the input and checks every field rule.
func (in *AnnouncementInput) Validate() ValidationErrors {
	in.normalize()
	return check(in, announcementMessages)
}

// NewAnnouncement builds an announcement from a validated form.
func NewAnnouncement(in AnnouncementInput, now time.Time) (Announcement, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return Announcement{}, errs
	}
	return Announcement{
		ID:          NewID(),
		Title:       in.Title,
		Body:        in.Body,
		Severity:    in.Severity,
		DisplayDate: in.DisplayDate,
		Link:        in.Link,
		CreatedAt:   now,
	}, nil
}

// Apply returns a updated from the form, keeping its id and creation time.
func (a Announcement) Apply(in AnnouncementInput, now time.Time) (Announcement, error) {
	in.normalize()
	if errs := check(in, announcementEditMessages); len(errs) > 0 {
		return a, errs
	}
	a.Title = in.Title
	a.Body = in.Body
	a.Severity = in.Severity
	a.DisplayDate = in.DisplayDate
	a.Link = in.Link
	a.UpdatedAt = &now
	return a, nil
}

// Form returns the edit form prefilled from a.
func (a Announcement) Form() AnnouncementInput {
	return AnnouncementInput{
		Title:       a.Title,
		Body:        a.Body,
		Severity:    a.Severity,
		DisplayDate: a.DisplayDate,
		Link:        a.Link,
	}
}

// Label returns the date shown with the announcement.
func (a Announcement) Label() string {
	if a.DisplayDate != "" {
		return a.DisplayDate
	}
	return a.CreatedAt.Format("02 Jan 2006")
}
