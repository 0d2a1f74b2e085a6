// Package texture holds the pixels painted by the kernel executors and
// encodes them as image files.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/born-ml/tensorview/internal/observer"
)

// MaxPixels bounds a single texture allocation.
const MaxPixels = 1 << 26

// ErrTooLarge is returned when a texture exceeds MaxPixels.
var ErrTooLarge = errors.New("texture too large")

// Texture is an RGBA8 pixel buffer in row-major order. It implements
// observer.TextureAllocator.
type Texture struct {
	size observer.Size
	// Pix holds 4 bytes (R, G, B, A) per pixel, the layout of image.RGBA.
	Pix []byte
}

var _ observer.TextureAllocator = (*Texture)(nil)

// New returns an empty texture.
func New() *Texture {
	return &Texture{}
}

// Allocate resizes the texture and clears it. The backing array is reused
// when it is large enough.
func (t *Texture) Allocate(size observer.Size) error {
	if size.IsEmpty() {
		t.size = observer.Size{}
		t.Pix = t.Pix[:0]
		return nil
	}
	if size.Pixels() > MaxPixels {
		return fmt.Errorf("%w: %v exceeds %d pixels", ErrTooLarge, size, MaxPixels)
	}

	n := 4 * size.Pixels()
	if cap(t.Pix) >= n {
		t.Pix = t.Pix[:n]
		clear(t.Pix)
	} else {
		t.Pix = make([]byte, n)
	}
	t.size = size
	return nil
}

// Size returns the allocated size.
func (t *Texture) Size() observer.Size {
	return t.size
}

// SetIndex stores the color of pixel i (row-major).
func (t *Texture) SetIndex(i int, c color.RGBA) {
	p := t.Pix[4*i : 4*i+4 : 4*i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Set stores the color at (x, y). Out-of-range coordinates are ignored.
func (t *Texture) Set(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= t.size.Width || y >= t.size.Height {
		return
	}
	t.SetIndex(y*t.size.Width+x, c)
}

// At returns the color at (x, y).
func (t *Texture) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= t.size.Width || y >= t.size.Height {
		return color.RGBA{}
	}
	i := 4 * (y*t.size.Width + x)
	return color.RGBA{R: t.Pix[i], G: t.Pix[i+1], B: t.Pix[i+2], A: t.Pix[i+3]}
}

// Image returns an image sharing the texture's pixels.
func (t *Texture) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    t.Pix,
		Stride: 4 * t.size.Width,
		Rect:   image.Rect(0, 0, t.size.Width, t.size.Height),
	}
}
