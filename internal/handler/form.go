// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/form/v4"

	"github.com/olegiv/daf-alumni/internal/service"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temp files.
const multipartMemory = 8 << 20

var formDecoder = newFormDecoder()

// newFormDecoder decodes only fields with an explicit `form` tag. Checkboxes
// are true when sent as any of "on", "true", "1" or "yes".
func newFormDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.SetMode(form.ModeExplicit)
	d.RegisterCustomTypeFunc(func(vals []string) (any, error) {
		if len(vals) == 0 {
			return false, nil
		}
		switch strings.ToLower(vals[0]) {
		case "on", "true", "1", "yes":
			return true, nil
		}
		return false, nil
	}, false)
	return d
}

// decodeForm fills the struct dst points to from the parsed request form.
func decodeForm(r *http.Request, dst any) error {
	if r.Form == nil {
		if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return err
		}
	}
	return formDecoder.Decode(dst, r.Form)
}

// bindForm decodes the form into dst, answering 400 when it cannot.
func bindForm(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeForm(r, dst); err != nil {
		logAndHTTPError(w, MsgInvalidForm, http.StatusBadRequest, "decoding form", "error", err)
		return false
	}
	return true
}

// formFile returns the optional upload in field, or nil if none was chosen.
func formFile(r *http.Request, field string) (*service.Upload, error) {
	f, fh, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	_ = f.Close()
	if fh.Filename == "" && fh.Size == 0 {
		return nil, nil
	}
	up := service.UploadFromHeader(fh)
	return &up, nil
}

// formFiles returns every upload in field, in the order they were sent.
func formFiles(r *http.Request, field string) []service.Upload {
	if r.MultipartForm == nil {
		return nil
	}
	headers := r.MultipartForm.File[field]
	uploads := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		uploads = append(uploads, service.UploadFromHeader(fh))
	}
	return uploads
}

// limitBody caps the request body and parses it as multipart form data.
func limitBody(w http.ResponseWriter, r *http.Request, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	return r.ParseMultipartForm(multipartMemory)
}

// bodyError maps a failed multipart parse to a user-facing message.
func bodyError(err error, limit int64) string {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return service.TooLargeMessage(limit)
	}
	return MsgInvalidForm
}
