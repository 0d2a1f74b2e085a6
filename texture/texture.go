// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package texture provides the RGBA8 textures painted by observers.
//
// A Texture doubles as the observer's allocator: pass it to
// observer.WithAllocator and it is resized whenever the layout changes.
// After a frame, Encode or WriteFile store it as PNG, BMP or TIFF with
// optional nearest-neighbor zoom.
package texture

import (
	"github.com/born-ml/tensorview/internal/texture"
)

// Texture is an RGBA8 pixel buffer.
type Texture = texture.Texture

// Format is an image file format.
type Format = texture.Format

// Supported formats.
const (
	PNG  Format = texture.PNG
	BMP  Format = texture.BMP
	TIFF Format = texture.TIFF
)

// MaxPixels is the largest texture Allocate accepts.
const MaxPixels = texture.MaxPixels

// ErrTooLarge is returned by Allocate for sizes above MaxPixels.
var ErrTooLarge = texture.ErrTooLarge

// New creates an empty texture.
func New() *Texture {
	return texture.New()
}

// ParseFormat parses a format name or file extension.
func ParseFormat(s string) (Format, error) {
	return texture.ParseFormat(s)
}

// FormatFromPath returns the format matching the extension of path.
func FormatFromPath(path string) (Format, error) {
	return texture.FormatFromPath(path)
}
