// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	eventDateLayout = "2006-01-02"
	eventTimeLayout = "15:04"
)

// Event is a scheduled alumni event.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Time        string    `json:"time,omitempty"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"desc,omitempty"`
	Link        string    `json:"link,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EventInput is the event create/edit form.
type EventInput struct {
	Title       string `form:"title" validate:"required"`
	Date        string `form:"date" validate:"required,datetime=2006-01-02"`
	Time        string `form:"time" validate:"omitempty,datetime=15:04"`
	Location    string `form:"location"`
	Description string `form:"desc"`
	Link        string `form:"link" validate:"omitempty,url"`
}

var eventMessages = messages{
	"title":         "Please fill in event title and date.",
	"date.required": "Please fill in event title and date.",
	"date":          "Please enter the date as YYYY-MM-DD.",
	"time":          "Please enter the time as HH:MM.",
	"link":          "Please enter a valid link.",
}

// Validate normalizes the input and checks every field rule.
func (in *EventInput) Validate() ValidationErrors {
	in.Title = strings.TrimSpace(in.Title)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.Location = strings.TrimSpace(in.Location)
	in.Description = strings.TrimSpace(in.Description)
	in.Link = NormalizeURL(in.Link)
	return check(in, eventMessages)
}

// NewEvent builds an event from a validated form.
func NewEvent(in EventInput, now time.Time) (Event, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return Event{}, errs
	}
	return Event{
		ID:          NewID(),
		Title:       in.Title,
		Date:        in.Date,
		Time:        in.Time,
		Location:    in.Location,
		Description: in.Description,
		Link:        in.Link,
		CreatedAt:   now,
	}, nil
}

// Apply returns e updated from the form, keeping its id and creation time.
func (e Event) Apply(in EventInput) (Event, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return e, errs
	}
	e.Title = in.Title
	e.Date = in.Date
	e.Time = in.Time
	e.Location = in.Location
	e.Description = in.Description
	e.Link = in.Link
	return e, nil
}

// Form returns the edit form prefilled from e.
func (e Event) Form() EventInput {
	return EventInput{
		Title:       e.Title,
		Date:        e.Date,
		Time:        e.Time,
		Location:    e.Location,
		Description: e.Description,
		Link:        e.Link,
	}
}

// Start returns the event start in loc. A missing time means midnight.
func (e Event) Start(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t := e.Time
	if t == "" {
		t = "00:00"
	}
	return time.ParseInLocation(eventDateLayout+" "+eventTimeLayout, e.Date+" "+t, loc)
}

// Countdown is the time remaining until an event.
type Countdown struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
	Past    bool
}

// Countdown returns the time left until the event starts. Events with an
// unparseable date count as past.
func (e Event) Countdown(now time.Time, loc *time.Location) Countdown {
	start, err := e.Start(loc)
	if err != nil {
		return Countdown{Past: true}
	}
	d := start.Sub(now)
	if d <= 0 {
		return Countdown{Past: true}
	}
	secs := int(d / time.Second)
	return Countdown{
		Days:    secs / 86400,
		Hours:   secs % 86400 / 3600,
		Minutes: secs % 3600 / 60,
		Seconds: secs % 60,
	}
}

// String formats the countdown as "DDd HHh MMm SSs".
func (c Countdown) String() string {
	if c.Past {
		return "Completed"
	}
	return fmt.Sprintf("%sd %sh %sm %ss", Pad2(c.Days), Pad2(c.Hours), Pad2(c.Minutes), Pad2(c.Seconds))
}

// Pad2 zero-pads n to two digits.
func Pad2(n int) string {
	return fmt.Sprintf("%02d", n)
}

// SortEvents orders events ascending by date, then time, then creation.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
