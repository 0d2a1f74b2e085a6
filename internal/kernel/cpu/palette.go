package cpu

import (
	"image/color"
	"math"

	"github.com/born-ml/tensorview/internal/observer"
)

var (
	nanColor = color.RGBA{B: 255, A: 255}
	opaque   = color.RGBA{A: 255}
)

// unit converts a [0, 1] intensity into a byte, clamping out-of-range values.
func unit(v float32) uint8 {
	switch {
	case v != v || v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

// intensity maps |v| relative to magnitude onto [0, 1].
func intensity(v, magnitude float32, scale observer.Scale) float32 {
	x := float64(v) / float64(magnitude)
	if x < 0 {
		x = -x
	}
	if scale == observer.InverseTangent {
		return float32(math.Atan(x) * 2 / math.Pi)
	}
	return float32(math.Min(x, 1))
}

// scaleColor maps a value onto the diverging palette: negative values are
// red, positive values green, NaN is blue. The brightness is the magnitude
// relative to the larger of |min| and |max|.
func scaleColor(v, minValue, maxValue float32, scale observer.Scale) color.RGBA {
	if math.IsNaN(float64(v)) {
		return nanColor
	}

	magnitude := float32(math.Max(math.Abs(float64(minValue)), math.Abs(float64(maxValue))))
	if magnitude == 0 || math.IsInf(float64(magnitude), 0) {
		magnitude = 1
	}

	c := opaque
	i := unit(intensity(v, magnitude, scale))
	if v < 0 {
		c.R = i
	} else {
		c.G = i
	}
	return c
}

// hsv converts hue (degrees) and value to an opaque, fully saturated color.
func hsv(hue, value float64) color.RGBA {
	hue = math.Mod(hue, 360)
	if hue < 0 {
		hue += 360
	}
	sector := hue / 60
	f := sector - math.Floor(sector)
	p, q, t := 0.0, value*(1-f), value*f

	var r, g, b float64
	switch int(sector) {
	case 0:
		r, g, b = value, t, p
	case 1:
		r, g, b = q, value, p
	case 2:
		r, g, b = p, value, t
	case 3:
		r, g, b = p, q, value
	case 4:
		r, g, b = t, p, value
	default:
		r, g, b = value, p, q
	}
	return color.RGBA{R: unit(float32(r)), G: unit(float32(g)), B: unit(float32(b)), A: 255}
}

// vectorColor encodes the direction of (x, y) as hue and its length relative
// to maxValue as brightness.
func vectorColor(x, y, maxValue float32) color.RGBA {
	if math.IsNaN(float64(x)) || math.IsNaN(float64(y)) {
		return nanColor
	}
	length := math.Hypot(float64(x), float64(y))
	if length == 0 {
		return opaque
	}
	value := 1.0
	if maxValue > 0 {
		value = math.Min(length/float64(maxValue), 1)
	}
	hue := math.Atan2(float64(y), float64(x)) * 180 / math.Pi
	return hsv(hue, value)
}

// rgbColor builds a pixel from three channel values in [0, 1].
func rgbColor(r, g, b float32) color.RGBA {
	return color.RGBA{R: unit(r), G: unit(g), B: unit(b), A: 255}
}
