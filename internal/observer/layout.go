package observer

import (
	"fmt"
	"math"

	"github.com/born-ml/tensorview/internal/tensor"
)

// SmallVectorLimit is the largest vector laid out as a single row or column.
// Longer vectors are wrapped into a near-square texture.
const SmallVectorLimit = 10

// rgbChannels is the number of elements consumed by one RGB pixel.
const rgbChannels = 3

// Size is a texture size in pixels.
type Size struct {
	Width  int
	Height int
}

// IsEmpty reports whether the size covers no pixels.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Pixels returns Width*Height.
func (s Size) Pixels() int {
	if s.IsEmpty() {
		return 0
	}
	return s.Width * s.Height
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// TileGeometry describes the grid used by tiled observation.
type TileGeometry struct {
	TileWidth   int
	TileHeight  int
	TilesPerRow int
}

// Layout is the result of a layout recomputation.
type Layout struct {
	Size Size
	// Shape is the shape that was laid out (hint-adjusted when the hint applied).
	Shape tensor.Shape
	Tiled bool
	Tile  TileGeometry
	// Warning is the layout warning of this recomputation, if any.
	Warning string
}

// ComputeTextureSize packs n pixels into a near-square texture with
// Width*Height >= n.
func ComputeTextureSize(n int) Size {
	if n <= 0 {
		return Size{}
	}
	width := int(math.Ceil(math.Sqrt(float64(n))))
	height := (n + width - 1) / width
	return Size{Width: width, Height: height}
}

// divisor returns how many elements one pixel consumes under method.
func divisor(method Method, vectorElements int) (int, error) {
	switch method {
	case RGB:
		return rgbChannels, nil
	case Vector:
		if vectorElements < 1 {
			return 0, &ConfigurationError{Field: "VectorElements", Err: ErrInvalidVectorElements}
		}
		return vectorElements, nil
	default:
		return 1, nil
	}
}

func divisorName(method Method) string {
	if method == RGB {
		return "3 (RGB channel count)"
	}
	return "vector element count"
}

// shrink divides size by the method divisor, reporting whether the division
// was exact.
func shrink(size int, method Method, vectorElements int) (int, bool, error) {
	d, err := divisor(method, vectorElements)
	if err != nil {
		return 0, false, err
	}
	result := size / d
	return result, result*d == size, nil
}

// TextureSize derives the texture size for a block of the given shape.
//
// The returned warning describes the first shape mismatch encountered; the
// size is then a fallback layout. The error is non-nil only for invalid
// configuration (a vector element count below one in Vector mode).
func TextureSize(shape tensor.Shape, hint DimensionHint, method Method, vectorElements int) (Size, string, error) {
	size, _, warning, err := textureSize(shape, hint, method, vectorElements)
	return size, warning, err
}

func textureSize(shape tensor.Shape, hint DimensionHint, method Method, vectorElements int) (Size, tensor.Shape, string, error) {
	if shape.IsEmpty() {
		return Size{}, shape, "", nil
	}

	isRowVector := shape.Rank() == 1 || (shape.Rank() == 2 && shape[1] == 1)
	isColumnVector := !isRowVector && shape.Rank() == 2 && shape[0] == 1

	var warning string
	adjusted, applied := hint.TryApply(shape)
	if !hint.IsEmpty() && !applied {
		warning = "Could not apply custom dimensions (the element count must match the original)."
	}

	if !applied && (isRowVector || isColumnVector) {
		size, err := vectorTextureSize(shape.ElementCount(), isRowVector, method, vectorElements, &warning)
		return size, shape, warning, err
	}

	last := adjusted[adjusted.Rank()-1]
	shrunkLast, divisible, err := shrink(last, method, vectorElements)
	if err != nil {
		return Size{}, adjusted, "", err
	}

	if !divisible || shrunkLast == 0 {
		if warning == "" {
			reason := "not divisible by"
			if divisible {
				reason = "smaller than"
			}
			warning = fmt.Sprintf("The last dimension is %s %s. Ignoring dimensions.", reason, divisorName(method))
		}
		shrunkCount, _, err := shrink(shape.ElementCount(), method, vectorElements)
		if err != nil {
			return Size{}, adjusted, "", err
		}
		return ComputeTextureSize(shrunkCount), adjusted, warning, nil
	}

	// A rank-1 hint such as "*" gives a single row of shrunk pixels. This
	// intentionally differs from the general width d[0], height shrunk rule,
	// which would size the texture by the unshrunk extent.
	if adjusted.Rank() == 1 {
		return Size{Width: shrunkLast, Height: 1}, adjusted, warning, nil
	}

	// Every dimension except the first is folded into the height.
	height := shrunkLast
	for i := 1; i < adjusted.Rank()-1; i++ {
		height *= adjusted[i]
	}

	return Size{Width: adjusted[0], Height: height}, adjusted, warning, nil
}

func vectorTextureSize(count int, isRowVector bool, method Method, vectorElements int, warning *string) (Size, error) {
	shrunk, divisible, err := shrink(count, method, vectorElements)
	if err != nil {
		return Size{}, err
	}
	if !divisible && *warning == "" {
		*warning = fmt.Sprintf("Total count is not divisible by %s.", divisorName(method))
	}

	if count > SmallVectorLimit {
		return ComputeTextureSize(shrunk), nil
	}
	if isRowVector {
		return Size{Width: shrunk, Height: 1}, nil
	}
	return Size{Width: 1, Height: shrunk}, nil
}

// TiledTextureSize lays out elementCount elements as a grid of tiles. The
// first two extents of tileShape give the tile width and height.
//
// tilesPerRow below one is treated as one, and it is clamped when the block
// cannot fill a single row; the geometry actually used is returned alongside
// the size.
func TiledTextureSize(tileShape tensor.Shape, tilesPerRow, elementCount int, method Method) (Size, TileGeometry, string) {
	tilesPerRow = max(tilesPerRow, 1)
	if tileShape.IsEmpty() || elementCount <= 0 {
		return Size{}, TileGeometry{TilesPerRow: tilesPerRow}, ""
	}

	geom := TileGeometry{TileWidth: tileShape[0], TileHeight: 1, TilesPerRow: tilesPerRow}
	if tileShape.Rank() > 1 {
		geom.TileHeight = tileShape[1]
	}
	tileArea := geom.TileWidth * geom.TileHeight

	tiles := elementCount / tileArea
	if tiles == 0 {
		return Size{}, geom, "Tile is larger than the memory block."
	}

	var warning string
	if tileArea*geom.TilesPerRow > elementCount {
		geom.TilesPerRow = elementCount / tileArea
		warning = fmt.Sprintf("TilesInRow too big, adjusting to the maximum value of %d", geom.TilesPerRow)
	}

	rows := (tiles + geom.TilesPerRow - 1) / geom.TilesPerRow
	size := Size{Width: geom.TileWidth * geom.TilesPerRow, Height: rows * geom.TileHeight}

	if method == RGB {
		size.Height /= rgbChannels
		return size, geom, warning
	}

	// One pixel of separation between neighbouring tiles.
	tilesInColumn := size.Height * size.Width / geom.TileWidth / geom.TileHeight / geom.TilesPerRow
	size.Height += tilesInColumn - 1
	size.Width += geom.TilesPerRow - 1

	return size, geom, warning
}
