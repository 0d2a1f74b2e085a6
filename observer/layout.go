// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package observer

import (
	"github.com/born-ml/tensorview/internal/observer"
	"github.com/born-ml/tensorview/internal/tensor"
)

// Size is a texture size in pixels.
type Size = observer.Size

// TileGeometry describes the tile grid of a tiled layout.
type TileGeometry = observer.TileGeometry

// Layout is the result of a layout computation.
type Layout = observer.Layout

// DimensionHint reshapes a block before layout. See ParseDimensionHint.
type DimensionHint = observer.DimensionHint

// SmallVectorLimit is the largest vector rendered as a single row or column.
const SmallVectorLimit = observer.SmallVectorLimit

// Wildcard is the dimension hint token that absorbs the remaining elements.
const Wildcard = observer.Wildcard

// ParseDimensionHint parses text such as "2, *, 3". Parse failures are
// reported by the returned hint's Err method.
func ParseDimensionHint(text string) DimensionHint {
	return observer.ParseDimensionHint(text)
}

// ComputeTextureSize packs n pixels into a near-square texture.
func ComputeTextureSize(n int) Size {
	return observer.ComputeTextureSize(n)
}

// TextureSize computes the texture size of a non-tiled block. The returned
// string is a layout warning, empty when the layout fits.
func TextureSize(shape tensor.Shape, hint DimensionHint, method Method, vectorElements int) (Size, string, error) {
	return observer.TextureSize(shape, hint, method, vectorElements)
}

// TiledTextureSize computes the texture size of a tiled block.
func TiledTextureSize(tileShape tensor.Shape, tilesPerRow, elementCount int, method Method) (Size, TileGeometry, string) {
	return observer.TiledTextureSize(tileShape, tilesPerRow, elementCount, method)
}
