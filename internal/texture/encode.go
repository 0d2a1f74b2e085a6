package texture

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// Format is an image file format.
type Format string

// Supported formats.
const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// ParseFormat parses a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png", "":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	default:
		return "", fmt.Errorf("unsupported image format %q", s)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Scaled returns the texture magnified zoom times with nearest-neighbour
// sampling, so every element stays a crisp block of pixels.
func (t *Texture) Scaled(zoom int) image.Image {
	src := t.Image()
	if zoom <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, src.Rect.Dx()*zoom, src.Rect.Dy()*zoom))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Encode writes the (zoomed) texture in the given format.
func (t *Texture) Encode(w io.Writer, format Format, zoom int) error {
	if t.size.IsEmpty() {
		return fmt.Errorf("texture: nothing to encode (size %v)", t.size)
	}

	img := t.Scaled(zoom)
	switch format {
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("texture: unsupported format %q", format)
	}
}

// WriteFile encodes the texture into path, choosing the format from the
// file extension.
func (t *Texture) WriteFile(path string, zoom int) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	//nolint:gosec // G304: output path comes from the user
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("texture: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return t.Encode(f, format, zoom)
}
