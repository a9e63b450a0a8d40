// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package staging holds processed uploads between the "stage" and "add"
// steps of the gallery and hero slide forms. Staged items belong to one
// session and expire on their own if never added.
package staging

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/daf-alumni/internal/cache"
	"github.com/olegiv/daf-alumni/internal/model"
)

// Staging areas.
const (
	KindGallery = "gallery"
	KindHero    = "hero"
)

// DefaultTTL is how long staged items survive without activity.
const DefaultTTL = 30 * time.Minute

// Stager keeps per-session lists of staged images.
type Stager struct {
	items *cache.TypedCache[[]model.StagedImage]
	ttl   time.Duration
}

// New creates a stager on top of c.
func New(c cache.Cache, ttl time.Duration) *Stager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Stager{
		items: cache.NewTypedCache[[]model.StagedImage](c, "staged:", ttl),
		ttl:   ttl,
	}
}

func key(kind, owner string) string {
	return kind + ":" + owner
}

// List returns the staged images in the order they were staged.
func (s *Stager) List(ctx context.Context, kind, owner string) []model.StagedImage {
	if owner == "" {
		return nil
	}
	items, _ := s.items.Get(ctx, key(kind, owner))
	return items
}

// Add appends images after the ones already staged.
func (s *Stager) Add(ctx context.Context, kind, owner string, imgs ...model.StagedImage) ([]model.StagedImage, error) {
	if owner == "" {
		return nil, fmt.Errorf("staging %s: no session", kind)
	}
	items := append(s.List(ctx, kind, owner), imgs...)
	if err := s.items.SetWithTTL(ctx, key(kind, owner), items, s.ttl); err != nil {
		return nil, fmt.Errorf("staging %s: %w", kind, err)
	}
	return items, nil
}

// Set replaces the staged images. An empty list clears the area.
func (s *Stager) Set(ctx context.Context, kind, owner string, imgs []model.StagedImage) error {
	if len(imgs) == 0 {
		return s.Clear(ctx, kind, owner)
	}
	if err := s.items.SetWithTTL(ctx, key(kind, owner), imgs, s.ttl); err != nil {
		return fmt.Errorf("staging %s: %w", kind, err)
	}
	return nil
}

// Clear discards every staged image.
func (s *Stager) Clear(ctx context.Context, kind, owner string) error {
	if owner == "" {
		return nil
	}
	if err := s.items.Delete(ctx, key(kind, owner)); err != nil {
		return fmt.Errorf("clearing staged %s: %w", kind, err)
	}
	return nil
}
