// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/daf-alumni/internal/testutil"
)

func TestGallery_StageAndAdd(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin()

	resp := env.post("/admin/gallery/add", url.Values{"caption": {"Reunion"}})
	assert.Contains(t, env.follow(resp).Body, MsgSelectPhotosGallery)

	resp = env.postMultipart("/admin/gallery/stage", nil, "photos", nil)
	assert.Contains(t, env.follow(resp).Body, MsgSelectPhotosGallery)

	resp = env.postMultipart("/admin/gallery/stage", nil, "photos", map[string][]byte{
		"one.png": testutil.PNG(t, 40, 30),
		"two.png": testutil.PNG(t, 30, 40),
	})
	page := env.follow(resp)
	assert.Contains(t, page.Body, "2 photo(s) ready to add.")
	assert.Contains(t, page.Body, "photos=0 staged=2")

	resp = env.post("/admin/gallery/add", url.Values{"caption": {"Reunion"}})
	page = env.follow(resp)
	assert.Contains(t, page.Body, "2 photo(s) added to gallery!")
	assert.Contains(t, page.Body, "photos=2 staged=0")

	photos, err := env.svc.Gallery.List(context.Background())
	require.NoError(t, err)
	require.Len(t, photos, 2)
	for _, p := range photos {
		assert.Equal(t, "Reunion", p.Caption)
	}

	resp = env.post("/admin/gallery/clear", nil)
	page = env.follow(resp)
	assert.Contains(t, page.Body, MsgGalleryCleared)
	assert.Contains(t, page.Body, "photos=0 staged=0")
}

func TestGallery_RejectsNonImages(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin()

	resp := env.postMultipart("/admin/gallery/stage", nil, "photos", map[string][]byte{
		"notes.txt": []byte("not an image"),
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	page := env.follow(resp)
	assert.Contains(t, page.Body, `toast error">`)
	assert.Contains(t, page.Body, "notes.txt")
	assert.Contains(t, page.Body, "staged=0")
}
