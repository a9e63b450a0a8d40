// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the alumni site's operations on top of the
// store: registration and login, content administration, messaging, the
// gallery and hero slideshow, and live statistics. Handlers call services;
// services never touch HTTP.
package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/olegiv/daf-alumni/internal/imaging"
	"github.com/olegiv/daf-alumni/internal/metrics"
	"github.com/olegiv/daf-alumni/internal/model"
)

// Common errors.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNothingStaged      = errors.New("nothing staged")
)

// UploadError is a user-facing rejection of an uploaded file.
type UploadError struct {
	Name    string
	Message string
}

func (e *UploadError) Error() string {
	if e.Name == "" {
		return e.Message
	}
	return e.Name + ": " + e.Message
}

// Messages for rejected uploads.
const (
	MsgNotAnImage = "Please choose an image file"
)

// TooLargeMessage is the rejection message for files over limit bytes.
func TooLargeMessage(limit int64) string {
	return fmt.Sprintf("File size must be less than %dMB", limit/(1024*1024))
}

// Upload is a file received from a form.
type Upload struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// UploadFromHeader adapts a multipart file header.
func UploadFromHeader(fh *multipart.FileHeader) Upload {
	return Upload{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// Deps are the collaborators shared by every service.
type Deps struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Processor *imaging.Processor
	Now       func() time.Time
	Location  *time.Location
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Processor == nil {
		d.Processor = imaging.NewProcessor()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	return d
}

// processUpload validates and converts one upload into a staged image.
func processUpload(p *imaging.Processor, up Upload, limit int64, opts imaging.Options) (model.StagedImage, error) {
	if up.Size > limit {
		return model.StagedImage{}, &UploadError{Name: up.Name, Message: TooLargeMessage(limit)}
	}

	f, err := up.Open()
	if err != nil {
		return model.StagedImage{}, fmt.Errorf("opening upload %q: %w", up.Name, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return model.StagedImage{}, fmt.Errorf("reading upload %q: %w", up.Name, err)
	}
	if int64(len(data)) > limit {
		return model.StagedImage{}, &UploadError{Name: up.Name, Message: TooLargeMessage(limit)}
	}
	if !imaging.IsImage(data) {
		return model.StagedImage{}, &UploadError{Name: up.Name, Message: MsgNotAnImage}
	}

	// Corrupt files pass the signature check but fail to decode.
	res, err := p.ProcessBytes(data, opts)
	if err != nil {
		return model.StagedImage{}, &UploadError{Name: up.Name, Message: MsgNotAnImage}
	}

	return model.StagedImage{
		ID:      model.NewID(),
		Name:    up.Name,
		DataURL: res.DataURL,
		Size:    res.Size,
	}, nil
}
