// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging turns uploaded images into normalized data URLs: decoded,
// EXIF auto-oriented, downscaled and re-encoded.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// MIME types produced by the processor.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeWebP = "image/webp"
)

// ErrNotImage is returned for data that is not a supported image.
var ErrNotImage = errors.New("not a supported image")

// Options controls one processing run.
type Options struct {
	// MaxEdge caps the longer side in pixels; 0 keeps the original size.
	MaxEdge int
	// WebP re-encodes everything as lossy WebP. Otherwise JPEG input stays
	// JPEG and every other format becomes PNG.
	WebP bool
}

// Result is a processed image.
type Result struct {
	DataURL  string
	MimeType string
	Width    int
	Height   int
	Size     int
}

// Processor converts uploads into data URLs.
type Processor struct {
	jpegQuality int
	webpQuality float32
}

// NewProcessor creates a processor with the default encoder qualities.
func NewProcessor() *Processor {
	return &Processor{jpegQuality: 85, webpQuality: 80}
}

// IsImage reports whether data starts with a supported image signature.
func IsImage(data []byte) bool {
	return detectFormat(data) != ""
}

// Process reads the whole image from r and returns it as a data URL.
func (p *Processor) Process(r io.Reader, opts Options) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("reading image: %w", err)
	}
	return p.ProcessBytes(data, opts)
}

// ProcessBytes is Process for data already in memory.
func (p *Processor) ProcessBytes(data []byte, opts Options) (Result, error) {
	format := detectFormat(data)
	if format == "" {
		return Result{}, ErrNotImage
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("decoding image: %w", err)
	}

	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	if opts.MaxEdge > 0 {
		b := img.Bounds()
		if b.Dx() > opts.MaxEdge || b.Dy() > opts.MaxEdge {
			img = imaging.Fit(img, opts.MaxEdge, opts.MaxEdge, imaging.Lanczos)
		}
	}

	encoded, mime, err := p.encode(img, format, opts.WebP)
	if err != nil {
		return Result{}, fmt.Errorf("encoding image: %w", err)
	}

	b := img.Bounds()
	return Result{
		DataURL:  "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(encoded),
		MimeType: mime,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Size:     len(encoded),
	}, nil
}

func (p *Processor) encode(img image.Image, format string, toWebP bool) ([]byte, string, error) {
	var buf bytes.Buffer

	switch {
	case toWebP:
		if err := webp.Encode(&buf, img, &webp.Options{Quality: p.webpQuality}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), MimeTypeWebP, nil
	case format == "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.jpegQuality}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), MimeTypeJPEG, nil
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), MimeTypePNG, nil
	}
}

// readExifOrientation returns the EXIF orientation tag, or 1 when absent.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return o
}

// applyOrientation undoes the camera rotation described by an EXIF
// orientation value (2..8; anything else is left alone).
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// detectFormat sniffs the image format. TIFF is refused outright
// (CVE-2023-36308 in disintegration/imaging).
func detectFormat(data []byte) string {
	ct := http.DetectContentType(data)
	switch {
	case strings.Contains(ct, "tiff"):
		return ""
	case strings.Contains(ct, "jpeg"):
		return "jpeg"
	case strings.Contains(ct, "png"):
		return "png"
	case strings.Contains(ct, "gif"):
		return "gif"
	case strings.Contains(ct, "webp"):
		return "webp"
	default:
		return ""
	}
}
