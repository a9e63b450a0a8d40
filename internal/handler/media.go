// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/daf-alumni/internal/model"
	"github.com/olegiv/daf-alumni/internal/render"
	"github.com/olegiv/daf-alumni/internal/service"
)

// Gallery and hero slideshow messages.
const (
	MsgSelectPhotosGallery = "Please select at least one photo first."
	MsgSelectPhotosHero    = "Please select photos first."
	MsgPhotoRemoved        = "Photo removed."
	MsgGalleryCleared      = "Gallery cleared."
	MsgSlidesAdded         = "Slides added!"
	MsgSlideRemoved        = "Slide removed."
	MsgSlidesCleared       = "All slides cleared."
	MsgStagedDiscarded     = "Selection cleared."
)

// maxFilesPerUpload bounds one staging request.
const maxFilesPerUpload = 20

const (
	redirectAdminGallery = "/admin/gallery"
	redirectAdminHero    = "/admin/hero"
)

// MediaHandler manages the gallery and the hero slideshow. Uploads are
// staged per session first and only persisted by the add action.
type MediaHandler struct {
	*Base
}

// NewMediaHandler creates the media administration handler.
func NewMediaHandler(base *Base) *MediaHandler {
	return &MediaHandler{Base: base}
}

// GalleryData is the admin gallery page.
type GalleryData struct {
	Photos []model.GalleryPhoto
	Staged []model.StagedImage
}

// Gallery handles GET /admin/gallery.
func (h *MediaHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	photos, err := h.svc.Gallery.List(r.Context())
	if err != nil {
		logAndInternalError(w, "loading gallery", "error", err)
		return
	}
	h.render(w, r, "admin/gallery", h.adminPage(r, "Gallery", GalleryData{
		Photos: photos,
		Staged: h.svc.Gallery.Staged(r.Context(), h.owner(r)),
	}))
}

// StageGallery handles POST /admin/gallery/stage.
func (h *MediaHandler) StageGallery(w http.ResponseWriter, r *http.Request) {
	h.stage(w, r, redirectAdminGallery, MsgSelectPhotosGallery, h.svc.Gallery.Stage)
}

// AddGallery handles POST /admin/gallery/add. Every staged photo gets the
// same caption.
func (h *MediaHandler) AddGallery(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminGallery) {
		return
	}
	caption := strings.TrimSpace(r.FormValue("caption"))

	n, err := h.svc.Gallery.Add(r.Context(), h.owner(r), caption)
	switch {
	case errors.Is(err, service.ErrNothingStaged):
		flashError(w, r, h.renderer, redirectAdminGallery, MsgSelectPhotosGallery)
	case err != nil:
		h.partialAdd(w, r, redirectAdminGallery, n, err)
	default:
		h.logger.Info("gallery photos added", "category", model.CategoryMedia, "count", n)
		flashSuccess(w, r, h.renderer, redirectAdminGallery, fmt.Sprintf("%d photo(s) added to gallery!", n))
	}
}

// DiscardGallery handles POST /admin/gallery/staged/clear.
func (h *MediaHandler) DiscardGallery(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Gallery.DiscardStaged(r.Context(), h.owner(r)); err != nil {
		storeFailed(w, r, h.renderer, redirectAdminGallery, "discarding staged photos", err)
		return
	}
	flashAndRedirect(w, r, h.renderer, redirectAdminGallery, MsgStagedDiscarded, render.KindInfo)
}

// DeletePhoto handles POST /admin/gallery/{id}/delete.
func (h *MediaHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Gallery.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		storeFailed(w, r, h.renderer, redirectAdminGallery, "deleting photo", err)
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminGallery, MsgPhotoRemoved)
}

// ClearGallery handles POST /admin/gallery/clear.
func (h *MediaHandler) ClearGallery(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Gallery.Clear(r.Context()); err != nil {
		storeFailed(w, r, h.renderer, redirectAdminGallery, "clearing gallery", err)
		return
	}
	h.logger.Warn("gallery cleared", "category", model.CategoryMedia)
	flashSuccess(w, r, h.renderer, redirectAdminGallery, MsgGalleryCleared)
}

// HeroData is the admin hero slideshow page.
type HeroData struct {
	Slides []model.HeroSlide
	Staged []model.StagedImage
}

// Hero handles GET /admin/hero.
func (h *MediaHandler) Hero(w http.ResponseWriter, r *http.Request) {
	slides, err := h.svc.Hero.List(r.Context())
	if err != nil {
		logAndInternalError(w, "loading hero slides", "error", err)
		return
	}
	h.render(w, r, "admin/hero", h.adminPage(r, "Hero Slides", HeroData{
		Slides: slides,
		Staged: h.svc.Hero.Staged(r.Context(), h.owner(r)),
	}))
}

// StageHero handles POST /admin/hero/stage.
func (h *MediaHandler) StageHero(w http.ResponseWriter, r *http.Request) {
	h.stage(w, r, redirectAdminHero, MsgSelectPhotosHero, h.svc.Hero.Stage)
}

// AddHero handles POST /admin/hero/add.
func (h *MediaHandler) AddHero(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Hero.Add(r.Context(), h.owner(r))
	switch {
	case errors.Is(err, service.ErrNothingStaged):
		flashError(w, r, h.renderer, redirectAdminHero, MsgSelectPhotosHero)
	case err != nil:
		h.partialAdd(w, r, redirectAdminHero, n, err)
	default:
		h.logger.Info("hero slides added", "category", model.CategoryMedia, "count", n)
		flashSuccess(w, r, h.renderer, redirectAdminHero, MsgSlidesAdded)
	}
}

// DiscardHero handles POST /admin/hero/staged/clear.
func (h *MediaHandler) DiscardHero(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Hero.DiscardStaged(r.Context(), h.owner(r)); err != nil {
		storeFailed(w, r, h.renderer, redirectAdminHero, "discarding staged slides", err)
		return
	}
	flashAndRedirect(w, r, h.renderer, redirectAdminHero, MsgStagedDiscarded, render.KindInfo)
}

// DeleteSlide handles POST /admin/hero/{id}/delete.
func (h *MediaHandler) DeleteSlide(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Hero.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		storeFailed(w, r, h.renderer, redirectAdminHero, "deleting slide", err)
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminHero, MsgSlideRemoved)
}

// ClearHero handles POST /admin/hero/clear.
func (h *MediaHandler) ClearHero(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Hero.Clear(r.Context()); err != nil {
		storeFailed(w, r, h.renderer, redirectAdminHero, "clearing slides", err)
		return
	}
	h.logger.Warn("hero slides cleared", "category", model.CategoryMedia)
	flashSuccess(w, r, h.renderer, redirectAdminHero, MsgSlidesCleared)
}

type stageFunc func(ctx context.Context, owner string, uploads []service.Upload) (service.StageResult, error)

// stage parses the "photos" files and stages them for this session.
// Rejected files are reported; the accepted ones stay staged.
func (h *MediaHandler) stage(w http.ResponseWriter, r *http.Request, redirect, noFiles string, fn stageFunc) {
	if err := limitBody(w, r, h.limits.Media*maxFilesPerUpload+bodyOverhead); err != nil {
		flashError(w, r, h.renderer, redirect, bodyError(err, h.limits.Media))
		return
	}
	uploads := formFiles(r, "photos")
	if len(uploads) == 0 {
		flashError(w, r, h.renderer, redirect, noFiles)
		return
	}
	if len(uploads) > maxFilesPerUpload {
		flashError(w, r, h.renderer, redirect, fmt.Sprintf("Please select at most %d photos at a time.", maxFilesPerUpload))
		return
	}

	res, err := fn(r.Context(), h.owner(r), uploads)
	if err != nil {
		storeFailed(w, r, h.renderer, redirect, "staging uploads", err)
		return
	}

	if len(res.Rejected) > 0 {
		msgs := make([]string, 0, len(res.Rejected))
		for _, rej := range res.Rejected {
			msgs = append(msgs, rej.Error())
		}
		flashError(w, r, h.renderer, redirect, strings.Join(msgs, "; "))
		return
	}
	flashAndRedirect(w, r, h.renderer, redirect,
		fmt.Sprintf("%d photo(s) ready to add.", len(res.Staged)), render.KindInfo)
}

// partialAdd reports a batch add that stopped on a write failure. The
// photos not yet saved are still staged.
func (h *MediaHandler) partialAdd(w http.ResponseWriter, r *http.Request, redirect string, saved int, err error) {
	h.logger.Error("adding staged media", "category", model.CategoryMedia, "saved", saved, "error", err)
	flashError(w, r, h.renderer, redirect,
		fmt.Sprintf("Saving stopped after %d photo(s). The rest are still selected; please try again.", saved))
}
