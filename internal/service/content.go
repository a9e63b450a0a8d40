// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"sort"
	"time"

	"github.com/olegiv/daf-alumni/internal/directory"
	"github.com/olegiv/daf-alumni/internal/model"
	"github.com/olegiv/daf-alumni/internal/store"
)

// AnnouncementService manages announcements.
type AnnouncementService struct {
	q    *store.Queries
	deps Deps
}

// NewAnnouncementService creates the announcement service.
func NewAnnouncementService(q *store.Queries, deps Deps) *AnnouncementService {
	return &AnnouncementService{q: q, deps: deps.withDefaults()}
}

// List returns announcements newest first, filtered by query.
func (s *AnnouncementService) List(ctx context.Context, query string) ([]model.Announcement, error) {
	items, err := store.GetCollection[model.Announcement](ctx, s.q, store.KeyAnnouncements)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return directory.FilterAnnouncements(items, query), nil
}

// Get returns one announcement.
func (s *AnnouncementService) Get(ctx context.Context, id string) (model.Announcement, error) {
	items, err := store.GetCollection[model.Announcement](ctx, s.q, store.KeyAnnouncements)
	if err != nil {
		return model.Announcement{}, err
	}
	for _, a := range items {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Announcement{}, ErrNotFound
}

// Create validates and appends an announcement.
func (s *AnnouncementService) Create(ctx context.Context, in model.AnnouncementInput) (model.Announcement, error) {
	a, err := model.NewAnnouncement(in, s.deps.Now())
	if err != nil {
		return model.Announcement{}, err
	}
	err = store.UpdateCollection(ctx, s.q, store.KeyAnnouncements, func(items []model.Announcement) ([]model.Announcement, error) {
		return append(items, a), nil
	})
	if err != nil {
		s.deps.Metrics.StoreError("announcements.create")
		return model.Announcement{}, err
	}
	return a, nil
}

// Update replaces the fields of announcement id.
func (s *AnnouncementService) Update(ctx context.Context, id string, in model.AnnouncementInput) (model.Announcement, error) {
	var updated model.Announcement
	err := store.UpdateCollection(ctx, s.q, store.KeyAnnouncements, func(items []model.Announcement) ([]model.Announcement, error) {
		for i, a := range items {
			if a.ID != id {
				continue
			}
			next, err := a.Apply(in, s.deps.Now())
			if err != nil {
				return nil, err
			}
			items[i] = next
			updated = next
			return items, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return model.Announcement{}, err
	}
	return updated, nil
}

// Delete removes announcement id.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	return store.UpdateCollection(ctx, s.q, store.KeyAnnouncements, func(items []model.Announcement) ([]model.Announcement, error) {
		out, found := removeByID(items, id, func(a model.Announcement) string { return a.ID })
		if !found {
			return nil, ErrNotFound
		}
		return out, nil
	})
}

// EventService manages events.
type EventService struct {
	q    *store.Queries
	deps Deps
}

// NewEventService creates the event service.
func NewEventService(q *store.Queries, deps Deps) *EventService {
	return &EventService{q: q, deps: deps.withDefaults()}
}

// List returns events in date order, filtered by query.
func (s *EventService) List(ctx context.Context, query string) ([]model.Event, error) {
	items, err := store.GetCollection[model.Event](ctx, s.q, store.KeyEvents)
	if err != nil {
		return nil, err
	}
	model.SortEvents(items)
	return directory.FilterEvents(items, query), nil
}

// Split returns upcoming and past events with countdowns at now.
func (s *EventService) Split(ctx context.Context, now time.Time) (upcoming, past []directory.EventView, err error) {
	items, err := store.GetCollection[model.Event](ctx, s.q, store.KeyEvents)
	if err != nil {
		return nil, nil, err
	}
	upcoming, past = directory.SplitEvents(items, now, s.deps.Location)
	return upcoming, past, nil
}

// Get returns one event.
func (s *EventService) Get(ctx context.Context, id string) (model.Event, error) {
	items, err := store.GetCollection[model.Event](ctx, s.q, store.KeyEvents)
	if err != nil {
		return model.Event{}, err
	}
	for _, e := range items {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Event{}, ErrNotFound
}

// Save updates event editID in place, or appends a new event when editID is
// empty. Either way the collection is re-sorted by date. created reports
// whether a new event was added.
func (s *EventService) Save(ctx context.Context, editID string, in model.EventInput) (ev model.Event, created bool, err error) {
	err = store.UpdateCollection(ctx, s.q, store.KeyEvents, func(items []model.Event) ([]model.Event, error) {
		if editID == "" {
			e, err := model.NewEvent(in, s.deps.Now())
			if err != nil {
				return nil, err
			}
			items = append(items, e)
			ev, created = e, true
		} else {
			idx := -1
			for i, e := range items {
				if e.ID == editID {
					idx = i
					break
				}
			}
			if idx < 0 {
				return nil, ErrNotFound
			}
			e, err := items[idx].Apply(in)
			if err != nil {
				return nil, err
			}
			items[idx] = e
			ev = e
		}
		model.SortEvents(items)
		return items, nil
	})
	if err != nil {
		return model.Event{}, false, err
	}
	return ev, created, nil
}

// Delete removes event id.
func (s *EventService) Delete(ctx context.Context, id string) error {
	return store.UpdateCollection(ctx, s.q, store.KeyEvents, func(items []model.Event) ([]model.Event, error) {
		out, found := removeByID(items, id, func(e model.Event) string { return e.ID })
		if !found {
			return nil, ErrNotFound
		}
		return out, nil
	})
}

// DocumentService manages the singleton site documents.
type DocumentService struct {
	q    *store.Queries
	deps Deps
}

// NewDocumentService creates the document service.
func NewDocumentService(q *store.Queries, deps Deps) *DocumentService {
	return &DocumentService{q: q, deps: deps.withDefaults()}
}

// ContactInfo returns the stored contact block with defaults filled in.
func (s *DocumentService) ContactInfo(ctx context.Context) (model.ContactInfo, error) {
	doc, _, err := store.GetDocument[model.ContactInfo](ctx, s.q, store.KeyContactInfo)
	if err != nil {
		return model.DefaultContactInfo(), err
	}
	return doc.WithDefaults(), nil
}

// SaveContactInfo validates and stores the contact block.
func (s *DocumentService) SaveContactInfo(ctx context.Context, in model.ContactInfo) (model.ContactInfo, error) {
	doc, err := model.NewContactInfo(in)
	if err != nil {
		return model.ContactInfo{}, err
	}
	if err := store.PutDocument(ctx, s.q, store.KeyContactInfo, doc); err != nil {
		s.deps.Metrics.StoreError("documents.contact")
		return model.ContactInfo{}, err
	}
	return doc, nil
}

// About returns the About page content with defaults filled in.
func (s *DocumentService) About(ctx context.Context) (model.AboutContent, error) {
	doc, _, err := store.GetDocument[model.AboutContent](ctx, s.q, store.KeyAboutContent)
	if err != nil {
		return model.DefaultAboutContent(), err
	}
	return doc.WithDefaults(), nil
}

// SaveAbout validates and stores the About page content.
func (s *DocumentService) SaveAbout(ctx context.Context, in model.AboutContent) (model.AboutContent, error) {
	doc, err := model.NewAboutContent(in)
	if err != nil {
		return model.AboutContent{}, err
	}
	if err := store.PutDocument(ctx, s.q, store.KeyAboutContent, doc); err != nil {
		s.deps.Metrics.StoreError("documents.about")
		return model.AboutContent{}, err
	}
	return doc, nil
}

// Settings returns the site settings with defaults filled in.
func (s *DocumentService) Settings(ctx context.Context) (model.SiteSettings, error) {
	doc, _, err := store.GetDocument[model.SiteSettings](ctx, s.q, store.KeySettings)
	if err != nil {
		return model.DefaultSiteSettings(), err
	}
	return doc.WithDefaults(), nil
}

// SaveSettings validates and stores the site settings.
func (s *DocumentService) SaveSettings(ctx context.Context, in model.SiteSettings) (model.SiteSettings, error) {
	doc, err := model.NewSiteSettings(in)
	if err != nil {
		return model.SiteSettings{}, err
	}
	if err := store.PutDocument(ctx, s.q, store.KeySettings, doc); err != nil {
		s.deps.Metrics.StoreError("documents.settings")
		return model.SiteSettings{}, err
	}
	return doc, nil
}

func removeByID[T any](items []T, id string, idOf func(T) string) ([]T, bool) {
	out := items[:0]
	found := false
	for _, it := range items {
		if idOf(it) == id {
			found = true
			continue
		}
		out = append(out, it)
	}
	return out, found
}
