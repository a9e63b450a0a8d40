// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/daf-alumni/internal/model"
	"github.com/olegiv/daf-alumni/internal/testutil"
)

const owner = "session-token"

func TestGallery_StageThreeThenAdd(t *testing.T) {
	ctx := context.Background()
	s := NewGalleryService(testutil.TestPhotoStore(t), testStager(t), testDeps(), MediaConfig{MaxEdge: 200})

	res, err := s.Stage(ctx, owner, []Upload{
		upload("one.png", testutil.PNG(t, 400, 300)),
		upload("two.jpg", testutil.JPEG(t, 300, 400)),
		upload("three.png", testutil.PNG(t, 50, 50)),
	})
	require.NoError(t, err)
	assert.Empty(t, res.Rejected)
	require.Len(t, res.Staged, 3)
	assert.Equal(t, []string{"one.png", "two.jpg", "three.png"},
		[]string{res.Staged[0].Name, res.Staged[1].Name, res.Staged[2].Name})

	n, err := s.Add(ctx, owner, " Reunion 2025 ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Empty(t, s.Staged(ctx, owner))

	photos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, photos, 3)
	for i, p := range photos {
		assert.Equal(t, "Reunion 2025", p.Caption)
		assert.Equal(t, res.Staged[i].DataURL, p.URL)
	}
	assert.True(t, strings.HasPrefix(photos[1].URL, "data:image/jpeg;base64,"))
}

func TestGallery_RejectsButKeepsOthers(t *testing.T) {
	ctx := context.Background()
	s := NewGalleryService(testutil.TestPhotoStore(t), testStager(t), testDeps(), MediaConfig{MaxBytes: 1024 * 1024})

	res, err := s.Stage(ctx, owner, []Upload{
		upload("notes.txt", []byte("plain text")),
		upload("ok.png", testutil.PNG(t, 10, 10)),
		upload("huge.png", make([]byte, 2*1024*1024)),
	})
	require.NoError(t, err)
	require.Len(t, res.Staged, 1)
	require.Len(t, res.Rejected, 2)
	assert.Equal(t, "Please choose an image file", res.Rejected[0].Message)
	assert.Equal(t, "File size must be less than 1MB", res.Rejected[1].Message)
}

func TestGallery_AddNothingStaged(t *testing.T) {
	s := NewGalleryService(testutil.TestPhotoStore(t), testStager(t), testDeps(), MediaConfig{})
	_, err := s.Add(context.Background(), owner, "")
	assert.ErrorIs(t, err, ErrNothingStaged)
}

func TestGallery_WriteFailureKeepsStaged(t *testing.T) {
	ctx := context.Background()
	photos := testutil.TestPhotoStore(t)
	s := NewGalleryService(photos, testStager(t), testDeps(), MediaConfig{})

	_, err := s.Stage(ctx, owner, []Upload{
		upload("a.png", testutil.PNG(t, 10, 10)),
		upload("b.png", testutil.PNG(t, 10, 10)),
	})
	require.NoError(t, err)

	require.NoError(t, photos.Close())
	n, err := s.Add(ctx, owner, "")
	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, s.Staged(ctx, owner), 2)
}

func TestGallery_DiscardDeleteClear(t *testing.T) {
	ctx := context.Background()
	s := NewGalleryService(testutil.TestPhotoStore(t), testStager(t), testDeps(), MediaConfig{})

	_, err := s.Stage(ctx, owner, []Upload{upload("a.png", testutil.PNG(t, 10, 10))})
	require.NoError(t, err)
	require.NoError(t, s.DiscardStaged(ctx, owner))
	assert.Empty(t, s.Staged(ctx, owner))

	_, err = s.Stage(ctx, owner, []Upload{
		upload("a.png", testutil.PNG(t, 10, 10)),
		upload("b.png", testutil.PNG(t, 10, 10)),
	})
	require.NoError(t, err)
	_, err = s.Add(ctx, owner, "")
	require.NoError(t, err)

	photos, err := s.List(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, photos[0].ID))
	photos, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, photos, 1)

	require.NoError(t, s.Clear(ctx))
	photos, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, photos)
}

func TestHero_OrderContinuesAndRepacksOnDelete(t *testing.T) {
	ctx := context.Background()
	s := NewHeroService(testutil.TestSlideStore(t), testStager(t), testDeps(), MediaConfig{})

	stageAndAdd := func(names ...string) {
		t.Helper()
		uploads := make([]Upload, 0, len(names))
		for _, n := range names {
			uploads = append(uploads, upload(n, testutil.PNG(t, 20, 10)))
		}
		_, err := s.Stage(ctx, owner, uploads)
		require.NoError(t, err)
		_, err = s.Add(ctx, owner)
		require.NoError(t, err)
	}

	stageAndAdd("a.png", "b.png")
	stageAndAdd("c.png", "d.png")

	slides, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, slides, 4)
	for i, sl := range slides {
		assert.Equal(t, i, sl.Order)
	}

	require.NoError(t, s.Delete(ctx, slides[1].ID))

	after, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, after, 3)
	assert.Equal(t, []string{slides[0].ID, slides[2].ID, slides[3].ID},
		[]string{after[0].ID, after[1].ID, after[2].ID})
	for i, sl := range after {
		assert.Equal(t, i, sl.Order)
	}

	require.NoError(t, s.Clear(ctx))
	after, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, after)
}

func TestHero_AddContinuesAfterHighestOrder(t *testing.T) {
	ctx := context.Background()
	slides := testutil.TestSlideStore(t)
	now := time.Now()
	require.NoError(t, slides.Put(ctx, model.NewHeroSlide(model.StagedImage{DataURL: "data:a"}, 0, now)))
	require.NoError(t, slides.Put(ctx, model.NewHeroSlide(model.StagedImage{DataURL: "data:b"}, 5, now)))

	s := NewHeroService(slides, testStager(t), testDeps(), MediaConfig{})
	_, err := s.Stage(ctx, owner, []Upload{upload("c.png", testutil.PNG(t, 20, 10))})
	require.NoError(t, err)
	_, err = s.Add(ctx, owner)
	require.NoError(t, err)

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 6, got[2].Order)
}

func TestHero_ConcurrentAddsGetDistinctOrders(t *testing.T) {
	ctx := context.Background()
	s := NewHeroService(testutil.TestSlideStore(t), testStager(t), testDeps(), MediaConfig{})

	owners := []string{"owner-a", "owner-b", "owner-c"}
	for _, o := range owners {
		_, err := s.Stage(ctx, o, []Upload{
			upload(o+"-1.png", testutil.PNG(t, 20, 10)),
			upload(o+"-2.png", testutil.PNG(t, 20, 10)),
		})
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(owners))
	for i, o := range owners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.Add(ctx, o)
		}()
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 6)
	for i, sl := range got {
		assert.Equal(t, i, sl.Order)
	}
}

func TestNextSlideOrder(t *testing.T) {
	assert.Equal(t, 0, nextSlideOrder(nil))
	assert.Equal(t, 3, nextSlideOrder([]model.HeroSlide{{Order: 2}, {Order: 0}}))
}
