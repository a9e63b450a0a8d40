// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/daf-alumni/internal/model"
)

func TestEventSave_AppendAndEditKeepDateOrder(t *testing.T) {
	ctx := context.Background()
	s := NewEventService(newQueries(t), testDeps())

	reunion, created, err := s.Save(ctx, "", model.EventInput{Title: "Reunion", Date: "2026-12-01"})
	require.NoError(t, err)
	assert.True(t, created)
	_, _, err = s.Save(ctx, "", model.EventInput{Title: "Iftar", Date: "2026-03-20", Time: "18:00"})
	require.NoError(t, err)

	events, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Iftar", events[0].Title)

	// Edit moves the reunion before the iftar; still two records.
	edited, created, err := s.Save(ctx, reunion.ID, model.EventInput{Title: "Reunion 2026", Date: "2026-03-01"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, reunion.ID, edited.ID)
	assert.Equal(t, reunion.CreatedAt.Unix(), edited.CreatedAt.Unix())

	events, err = s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Reunion 2026", events[0].Title)
	assert.Equal(t, "Iftar", events[1].Title)

	_, _, err = s.Save(ctx, "missing", model.EventInput{Title: "x", Date: "2026-01-01"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = s.Save(ctx, "", model.EventInput{Title: "No date"})
	verrs, ok := model.AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Please fill in event title and date.", verrs.First().Message)

	events, err = s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestEventSplit(t *testing.T) {
	ctx := context.Background()
	s := NewEventService(newQueries(t), testDeps())
	_, _, err := s.Save(ctx, "", model.EventInput{Title: "Past", Date: "2026-01-01"})
	require.NoError(t, err)
	_, _, err = s.Save(ctx, "", model.EventInput{Title: "Next", Date: "2026-03-16"})
	require.NoError(t, err)

	upcoming, past, err := s.Split(ctx, fixedNow)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.Len(t, past, 1)
	assert.Equal(t, "Next", upcoming[0].Title)
	assert.Equal(t, 14, upcoming[0].Countdown.Hours)
}

func TestEventDelete(t *testing.T) {
	ctx := context.Background()
	s := NewEventService(newQueries(t), testDeps())
	e, _, err := s.Save(ctx, "", model.EventInput{Title: "Reunion", Date: "2026-12-01"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, e.ID))
	assert.ErrorIs(t, s.Delete(ctx, e.ID), ErrNotFound)
}

func TestAnnouncements(t *testing.T) {
	ctx := context.Background()
	deps := testDeps()
	now := fixedNow
	deps.Now = func() time.Time { now = now.Add(time.Minute); return now }
	s := NewAnnouncementService(newQueries(t), deps)

	first, err := s.Create(ctx, model.AnnouncementInput{Title: "Welcome", Body: "Site is live"})
	require.NoError(t, err)
	assert.Equal(t, model.SeverityInfo, first.Severity)
	_, err = s.Create(ctx, model.AnnouncementInput{Title: "Reunion", Body: "Register now", Severity: "warning"})
	require.NoError(t, err)

	_, err = s.Create(ctx, model.AnnouncementInput{Title: "Only title"})
	verrs, ok := model.AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Please fill in title and message.", verrs.First().Message)

	list, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Reunion", list[0].Title, "newest first")

	updated, err := s.Update(ctx, first.ID, model.AnnouncementInput{Title: "Welcome!", Body: "Site is live"})
	require.NoError(t, err)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, first.ID, updated.ID)

	_, err = s.Update(ctx, first.ID, model.AnnouncementInput{Title: ""})
	verrs, ok = model.AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Title and message are required.", verrs.First().Message)

	_, err = s.Update(ctx, "missing", model.AnnouncementInput{Title: "x", Body: "y"})
	assert.ErrorIs(t, err, ErrNotFound)

	filtered, err := s.List(ctx, "register")
	require.NoError(t, err)
	assert.Len(t, filtered, 1)

	require.NoError(t, s.Delete(ctx, first.ID))
	_, err = s.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocuments_RoundTripAfterNormalization(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentService(newQueries(t), testDeps())

	info, err := s.ContactInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultContactInfo(), info)

	saved, err := s.SaveContactInfo(ctx, model.ContactInfo{
		AddressEN: " Dhaka ",
		Phone:     "01700000000",
		Email:     "info@daf.example",
		Facebook:  "facebook.com/daf",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://facebook.com/daf", saved.Facebook)

	loaded, err := s.ContactInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dhaka", loaded.AddressEN)
	assert.Equal(t, "https://facebook.com/daf", loaded.Facebook)

	_, err = s.SaveAbout(ctx, model.AboutContent{})
	verrs, ok := model.AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Please fill in the description.", verrs.First().Message)

	_, err = s.SaveAbout(ctx, model.AboutContent{DescriptionBN: "আমাদের সম্পর্কে"})
	require.NoError(t, err)
	about, err := s.About(ctx)
	require.NoError(t, err)
	assert.Equal(t, "আমাদের সম্পর্কে", about.DescriptionBN)

	_, err = s.SaveSettings(ctx, model.SiteSettings{OrgNameEN: "DAF Alumni", Facebook: "fb.com/daf"})
	require.NoError(t, err)
	settings, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "DAF Alumni", settings.OrgNameEN)
	assert.Equal(t, "https://fb.com/daf", settings.Facebook)
}
