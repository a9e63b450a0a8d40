// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// GalleryPhoto is a photo in the public gallery. URL holds a data URL.
type GalleryPhoto struct {
	ID      string    `json:"id" db:"id"`
	URL     string    `json:"url" db:"url"`
	Caption string    `json:"caption" db:"caption"`
	AddedAt time.Time `json:"addedAt" db:"added_at"`
}

// RecordID returns the photo's key in the media store.
func (p GalleryPhoto) RecordID() string { return p.ID }

// HeroSlide is a home page slideshow image. Order is dense from 0.
type HeroSlide struct {
	ID      string    `json:"id" db:"id"`
	URL     string    `json:"url" db:"url"`
	Order   int       `json:"order" db:"sort_order"`
	AddedAt time.Time `json:"addedAt" db:"added_at"`
}

// RecordID returns the slide's key in the media store.
func (s HeroSlide) RecordID() string { return s.ID }

// StagedImage is a processed upload waiting to be added to the gallery or
// the hero slideshow.
type StagedImage struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	DataURL string `json:"dataUrl"`
	Size    int    `json:"size"`
}

// NewGalleryPhoto builds a gallery photo from a staged image.
func NewGalleryPhoto(img StagedImage, caption string, now time.Time) GalleryPhoto {
	return GalleryPhoto{
		ID:      NewID(),
		URL:     img.DataURL,
		Caption: strings.TrimSpace(caption),
		AddedAt: now,
	}
}

// NewHeroSlide builds a slide at position order from a staged image.
func NewHeroSlide(img StagedImage, order int, now time.Time) HeroSlide {
	return HeroSlide{
		ID:      NewID(),
		URL:     img.DataURL,
		Order:   order,
		AddedAt: now,
	}
}
