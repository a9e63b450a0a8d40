// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package directory builds the list views of the site (alumni directory,
// admin tables, inboxes, statistics) from records already loaded from the
// store. Nothing here does I/O.
package directory

import (
	"sort"
	"strings"
	"time"

	"github.com/olegiv/daf-alumni/internal/model"
)

// Hidden replaces member contact details shown to guests.
const Hidden = "████████████"

// BatchAll selects every batch in a filter.
const BatchAll = "all"

func matches(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(strings.Join(fields, " ")), q)
}

// FilterUsers returns the members of batch ("all" or empty for every batch)
// whose name, email, alumni id, profession, address, work location or
// organization contains query, ignoring case. Input order is preserved.
func FilterUsers(users []model.AlumniUser, batch, query string) []model.AlumniUser {
	out := make([]model.AlumniUser, 0, len(users))
	for _, u := range users {
		if batch != "" && batch != BatchAll && u.Batch != batch {
			continue
		}
		if !matches(query, u.FullName, u.Email, u.AlumniID, u.Profession, u.Address, u.WorkLocation, u.Organization) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// Card is one entry of the public directory.
type Card struct {
	ID             string
	FullName       string
	Initials       string
	BatchLabel     string
	Profession     string
	Organization   string
	Designation    string
	ProfilePicture string
	Location       string
	Email          string
	Phone          string
	AlumniID       string
	Facebook       string
	LinkedIn       string
	Restricted     bool
}

// DirectoryCards builds the public directory. Guests get every card, but
// location, email and phone are masked with Hidden; signed-in members also
// see alumni ids and social links. query only matches text the viewer can
// see on the card.
func DirectoryCards(users []model.AlumniUser, batch, query string, signedIn bool) []Card {
	inBatch := FilterUsers(users, batch, "")
	cards := make([]Card, 0, len(inBatch))
	for _, u := range inBatch {
		c := Card{
			ID:             u.ID,
			FullName:       u.FullName,
			Initials:       u.Initials(),
			BatchLabel:     u.BatchLabel(),
			Profession:     u.Profession,
			Organization:   u.Organization,
			Designation:    u.Designation,
			ProfilePicture: u.ProfilePicture,
		}
		if signedIn {
			c.Location = u.Location()
			c.Email = u.Email
			c.Phone = u.Phone
			c.AlumniID = u.AlumniID
			c.Facebook = u.Facebook
			c.LinkedIn = u.LinkedIn
		} else {
			c.Location = Hidden
			c.Email = Hidden
			c.Phone = Hidden
			c.Restricted = true
		}
		if !matches(query, c.visibleText()...) {
			continue
		}
		cards = append(cards, c)
	}
	return cards
}

// visibleText is the searchable text of a card. Masked fields are left out.
func (c Card) visibleText() []string {
	fields := []string{c.FullName, c.BatchLabel, c.Profession, c.Organization, c.Designation}
	if c.Restricted {
		return fields
	}
	return append(fields, c.Location, c.Email, c.Phone, c.AlumniID)
}

// UsersByBatch returns the members of one batch in registration order.
func UsersByBatch(users []model.AlumniUser, batch string) []model.AlumniUser {
	return FilterUsers(users, batch, "")
}

// FilterAnnouncements keeps announcements whose title, body or severity
// contains query.
func FilterAnnouncements(items []model.Announcement, query string) []model.Announcement {
	out := make([]model.Announcement, 0, len(items))
	for _, a := range items {
		if matches(query, a.Title, a.Body, a.Severity, a.DisplayDate) {
			out = append(out, a)
		}
	}
	return out
}

// FilterEvents keeps events whose title, location, description or date
// contains query.
func FilterEvents(items []model.Event, query string) []model.Event {
	out := make([]model.Event, 0, len(items))
	for _, e := range items {
		if matches(query, e.Title, e.Location, e.Description, e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// FilterContactMessages keeps messages whose sender, email, batch or body
// contains query.
func FilterContactMessages(items []model.ContactMessage, query string) []model.ContactMessage {
	out := make([]model.ContactMessage, 0, len(items))
	for _, m := range items {
		if matches(query, m.Name, m.Email, m.Batch, m.Body) {
			out = append(out, m)
		}
	}
	return out
}

// Dashboard is the admin dashboard summary.
type Dashboard struct {
	Total           int
	Dakhil          int
	Alim            int
	RegisteredToday int
	Recent          []model.AlumniUser
}

// RecentLimit is how many recent registrations the dashboard lists.
const RecentLimit = 5

// DashboardStats counts members per batch, those registered on now's
// calendar day, and lists the most recent registrations newest first.
func DashboardStats(users []model.AlumniUser, now time.Time) Dashboard {
	d := Dashboard{Total: len(users)}
	y, m, day := now.Date()
	for _, u := range users {
		switch u.Batch {
		case model.BatchDakhil2020:
			d.Dakhil++
		case model.BatchAlim2022:
			d.Alim++
		}
		uy, um, ud := u.RegisteredAt.In(now.Location()).Date()
		if uy == y && um == m && ud == day {
			d.RegisteredToday++
		}
	}

	recent := make([]model.AlumniUser, len(users))
	copy(recent, users)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].RegisteredAt.After(recent[j].RegisteredAt)
	})
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	d.Recent = recent
	return d
}

// Live is the public live statistics snapshot.
type Live struct {
	Alumni      int `json:"alumni"`
	Dakhil      int `json:"dakhil"`
	Alim        int `json:"alim"`
	Events      int `json:"events"`
	Professions int `json:"professions"`
}

// LiveStats counts members, batches, events and distinct professions
// (trimmed and lower-cased; blanks ignored).
func LiveStats(users []model.AlumniUser, events []model.Event) Live {
	s := Live{Alumni: len(users), Events: len(events)}
	professions := make(map[string]struct{})
	for _, u := range users {
		switch u.Batch {
		case model.BatchDakhil2020:
			s.Dakhil++
		case model.BatchAlim2022:
			s.Alim++
		}
		if p := strings.ToLower(strings.TrimSpace(u.Profession)); p != "" {
			professions[p] = struct{}{}
		}
	}
	s.Professions = len(professions)
	return s
}

// InboxFor returns the messages addressed to email, newest first.
func InboxFor(msgs []model.UserMessage, email string) []model.UserMessage {
	out := []model.UserMessage{}
	for _, m := range msgs {
		if strings.EqualFold(m.To, strings.TrimSpace(email)) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SentAt.After(out[j].SentAt)
	})
	return out
}

// UnreadCount counts the unread messages among msgs.
func UnreadCount(msgs []model.UserMessage) int {
	n := 0
	for _, m := range msgs {
		if !m.Read {
			n++
		}
	}
	return n
}

// UnreadContactCount counts the unread contact form messages.
func UnreadContactCount(msgs []model.ContactMessage) int {
	n := 0
	for _, m := range msgs {
		if !m.Read {
			n++
		}
	}
	return n
}

// UnreadContactIDs returns the ids of the unread contact messages.
func UnreadContactIDs(msgs []model.ContactMessage) []string {
	ids := []string{}
	for _, m := range msgs {
		if !m.Read {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// EventView is an event with its countdown.
type EventView struct {
	model.Event
	Countdown model.Countdown
}

// SplitEvents separates upcoming from past events, both in date order.
func SplitEvents(events []model.Event, now time.Time, loc *time.Location) (upcoming, past []EventView) {
	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	model.SortEvents(sorted)

	upcoming, past = []EventView{}, []EventView{}
	for _, e := range sorted {
		v := EventView{Event: e, Countdown: e.Countdown(now, loc)}
		if v.Countdown.Past {
			past = append(past, v)
		} else {
			upcoming = append(upcoming, v)
		}
	}
	return upcoming, past
}
