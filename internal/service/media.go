// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/olegiv/daf-alumni/internal/imaging"
	"github.com/olegiv/daf-alumni/internal/metrics"
	"github.com/olegiv/daf-alumni/internal/model"
	"github.com/olegiv/daf-alumni/internal/staging"
	"github.com/olegiv/daf-alumni/internal/store"
)

// DefaultMediaMaxBytes is the default per-file ceiling for gallery and
// hero uploads.
const DefaultMediaMaxBytes = 5 * 1024 * 1024

// StageResult reports a staging run. Rejected files do not stop the others.
type StageResult struct {
	Staged   []model.StagedImage
	Rejected []UploadError
}

// MediaConfig configures the gallery and hero services.
type MediaConfig struct {
	MaxBytes int64
	MaxEdge  int
	WebP     bool
}

func (c MediaConfig) withDefaults() MediaConfig {
	if c.MaxBytes <= 0 {
		c.MaxBytes = DefaultMediaMaxBytes
	}
	if c.MaxEdge <= 0 {
		c.MaxEdge = 1600
	}
	return c
}

// stage processes uploads in input order and appends the accepted ones to
// the owner's staging area.
func stage(ctx context.Context, deps Deps, stager *staging.Stager, cfg MediaConfig, kind, owner string, uploads []Upload) (StageResult, error) {
	var res StageResult
	accepted := make([]model.StagedImage, 0, len(uploads))
	for _, up := range uploads {
		img, err := processUpload(deps.Processor, up, cfg.MaxBytes, imaging.Options{MaxEdge: cfg.MaxEdge, WebP: cfg.WebP})
		var uerr *UploadError
		switch {
		case errors.As(err, &uerr):
			deps.Metrics.Upload(kind, metrics.ResultFailure)
			res.Rejected = append(res.Rejected, *uerr)
			continue
		case err != nil:
			return res, err
		}
		deps.Metrics.Upload(kind, metrics.ResultSuccess)
		accepted = append(accepted, img)
	}

	all, err := stager.Add(ctx, kind, owner, accepted...)
	if err != nil {
		return res, err
	}
	res.Staged = all
	return res, nil
}

// GalleryService manages the public photo gallery.
type GalleryService struct {
	photos *store.PhotoStore
	stager *staging.Stager
	deps   Deps
	cfg    MediaConfig
}

// NewGalleryService creates the gallery service.
func NewGalleryService(photos *store.PhotoStore, stager *staging.Stager, deps Deps, cfg MediaConfig) *GalleryService {
	return &GalleryService{photos: photos, stager: stager, deps: deps.withDefaults(), cfg: cfg.withDefaults()}
}

// List returns the photos oldest first.
func (s *GalleryService) List(ctx context.Context) ([]model.GalleryPhoto, error) {
	photos, err := s.photos.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading gallery: %w", err)
	}
	sort.SliceStable(photos, func(i, j int) bool {
		if !photos[i].AddedAt.Equal(photos[j].AddedAt) {
			return photos[i].AddedAt.Before(photos[j].AddedAt)
		}
		return photos[i].ID < photos[j].ID
	})
	return photos, nil
}

// Staged returns the owner's staged photos.
func (s *GalleryService) Staged(ctx context.Context, owner string) []model.StagedImage {
	return s.stager.List(ctx, staging.KindGallery, owner)
}

// Stage processes uploads and stages them for owner.
func (s *GalleryService) Stage(ctx context.Context, owner string, uploads []Upload) (StageResult, error) {
	return stage(ctx, s.deps, s.stager, s.cfg, staging.KindGallery, owner, uploads)
}

// DiscardStaged drops the owner's staged photos.
func (s *GalleryService) DiscardStaged(ctx context.Context, owner string) error {
	return s.stager.Clear(ctx, staging.KindGallery, owner)
}

// Add persists the owner's staged photos one at a time, in staging order,
// all with the same caption. On a write failure the photos not yet saved
// stay staged and the count saved so far is returned with the error.
func (s *GalleryService) Add(ctx context.Context, owner, caption string) (int, error) {
	items := s.stager.List(ctx, staging.KindGallery, owner)
	if len(items) == 0 {
		return 0, ErrNothingStaged
	}

	base := s.deps.Now()
	for i, img := range items {
		photo := model.NewGalleryPhoto(img, caption, base.Add(time.Duration(i)*time.Millisecond))
		if err := s.photos.Put(ctx, photo); err != nil {
			s.deps.Metrics.StoreError("gallery.put")
			_ = s.stager.Set(ctx, staging.KindGallery, owner, items[i:])
			return i, fmt.Errorf("saving photo %q: %w", img.Name, err)
		}
	}
	if err := s.stager.Clear(ctx, staging.KindGallery, owner); err != nil {
		s.deps.Logger.Warn("staged gallery photos not cleared", "category", model.CategoryMedia, "error", err)
	}
	return len(items), nil
}

// Delete removes one photo.
func (s *GalleryService) Delete(ctx context.Context, id string) error {
	if err := s.photos.Delete(ctx, id); err != nil {
		s.deps.Metrics.StoreError("gallery.delete")
		return err
	}
	return nil
}

// Clear removes every photo.
func (s *GalleryService) Clear(ctx context.Context) error {
	if err := s.photos.Clear(ctx); err != nil {
		s.deps.Metrics.StoreError("gallery.clear")
		return err
	}
	return nil
}

// HeroService manages the home page slideshow.
type HeroService struct {
	mu     sync.Mutex // serializes order changes
	slides *store.SlideStore
	stager *staging.Stager
	deps   Deps
	cfg    MediaConfig
}

// NewHeroService creates the hero slideshow service.
func NewHeroService(slides *store.SlideStore, stager *staging.Stager, deps Deps, cfg MediaConfig) *HeroService {
	return &HeroService{slides: slides, stager: stager, deps: deps.withDefaults(), cfg: cfg.withDefaults()}
}

// List returns the slides in display order.
func (s *HeroService) List(ctx context.Context) ([]model.HeroSlide, error) {
	slides, err := s.slides.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading slides: %w", err)
	}
	sortSlides(slides)
	return slides, nil
}

func sortSlides(slides []model.HeroSlide) {
	sort.SliceStable(slides, func(i, j int) bool {
		if slides[i].Order != slides[j].Order {
			return slides[i].Order < slides[j].Order
		}
		return slides[i].AddedAt.Before(slides[j].AddedAt)
	})
}

// Staged returns the owner's staged slides.
func (s *HeroService) Staged(ctx context.Context, owner string) []model.StagedImage {
	return s.stager.List(ctx, staging.KindHero, owner)
}

// Stage processes uploads and stages them for owner.
func (s *HeroService) Stage(ctx context.Context, owner string, uploads []Upload) (StageResult, error) {
	return stage(ctx, s.deps, s.stager, s.cfg, staging.KindHero, owner, uploads)
}

// DiscardStaged drops the owner's staged slides.
func (s *HeroService) DiscardStaged(ctx context.Context, owner string) error {
	return s.stager.Clear(ctx, staging.KindHero, owner)
}

// Add persists the owner's staged slides one at a time, continuing the
// order after the highest existing slide. Failure handling matches
// GalleryService.Add.
func (s *HeroService) Add(ctx context.Context, owner string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.stager.List(ctx, staging.KindHero, owner)
	if len(items) == 0 {
		return 0, ErrNothingStaged
	}

	existing, err := s.slides.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading slides: %w", err)
	}
	start := nextSlideOrder(existing)

	now := s.deps.Now()
	for i, img := range items {
		if err := s.slides.Put(ctx, model.NewHeroSlide(img, start+i, now)); err != nil {
			s.deps.Metrics.StoreError("hero.put")
			_ = s.stager.Set(ctx, staging.KindHero, owner, items[i:])
			return i, fmt.Errorf("saving slide %q: %w", img.Name, err)
		}
	}
	if err := s.stager.Clear(ctx, staging.KindHero, owner); err != nil {
		s.deps.Logger.Warn("staged hero slides not cleared", "category", model.CategoryMedia, "error", err)
	}
	return len(items), nil
}

// nextSlideOrder is one past the highest order in slides, or 0.
func nextSlideOrder(slides []model.HeroSlide) int {
	next := 0
	for _, sl := range slides {
		if sl.Order >= next {
			next = sl.Order + 1
		}
	}
	return next
}

// Delete removes one slide and renumbers the rest 0..n-1.
func (s *HeroService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.slides.Delete(ctx, id); err != nil {
		s.deps.Metrics.StoreError("hero.delete")
		return err
	}

	slides, err := s.slides.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("loading slides: %w", err)
	}
	sortSlides(slides)
	var changed []model.HeroSlide
	for i := range slides {
		if slides[i].Order != i {
			slides[i].Order = i
			changed = append(changed, slides[i])
		}
	}
	if len(changed) == 0 {
		return nil
	}
	if err := s.slides.PutAll(ctx, changed); err != nil {
		s.deps.Metrics.StoreError("hero.repack")
		return err
	}
	return nil
}

// Clear removes every slide.
func (s *HeroService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.slides.Clear(ctx); err != nil {
		s.deps.Metrics.StoreError("hero.clear")
		return err
	}
	return nil
}
