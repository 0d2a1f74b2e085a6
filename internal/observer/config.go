package observer

import (
	"fmt"
	"strings"
)

// Method selects how element values become pixel colors.
type Method int

// Rendering methods.
const (
	ColorScale Method = iota
	Vector
	RGB
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case ColorScale:
		return "ColorScale"
	case Vector:
		return "Vector"
	case RGB:
		return "RGB"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod parses a method name, case-insensitively.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "colorscale", "color_scale", "color-scale", "":
		return ColorScale, nil
	case "vector":
		return Vector, nil
	case "rgb":
		return RGB, nil
	default:
		return 0, fmt.Errorf("unknown rendering method %q", s)
	}
}

// Scale selects the color-mapping curve. It has no effect on layout.
type Scale int

// Color-mapping scales.
const (
	Linear Scale = iota
	InverseTangent
)

// String returns the scale name.
func (s Scale) String() string {
	switch s {
	case Linear:
		return "Linear"
	case InverseTangent:
		return "InverseTangent"
	default:
		return fmt.Sprintf("Scale(%d)", int(s))
	}
}

// ParseScale parses a scale name, case-insensitively.
func ParseScale(s string) (Scale, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "":
		return Linear, nil
	case "inversetangent", "inverse_tangent", "invtan", "atan":
		return InverseTangent, nil
	default:
		return 0, fmt.Errorf("unknown scale %q", s)
	}
}

// Default configuration values.
const (
	DefaultVectorElements = 2
	DefaultTilesPerRow    = 1
	DefaultMinValue       = 0
	DefaultMaxValue       = 1
)

// Config is the full observer configuration. It is applied as a whole by
// Observer.ApplyConfiguration.
type Config struct {
	Method Method
	Scale  Scale

	// BoundPolicy selects where MinValue/MaxValue come from. A MinValue or
	// MaxValue differing from the currently resolved bound forces Manual.
	BoundPolicy BoundPolicy
	MinValue    float32
	MaxValue    float32

	// VectorElements is the number of elements per pixel in Vector mode.
	VectorElements int

	// DimensionHint is a comma separated reshape hint, e.g. "2, 3, *".
	DimensionHint string

	// ObserveTensors displays the block as a grid of tiles.
	ObserveTensors bool
	// UseCustomDimensionsForTiles reads the tile shape from DimensionHint.
	UseCustomDimensionsForTiles bool
	// TilesPerRow is the grid width in tiles. Values < 1 are ignored.
	TilesPerRow int

	// TimeStep selects which time step of the block is rendered.
	TimeStep int
}

// DefaultConfig returns the configuration of a freshly created observer.
func DefaultConfig() Config {
	return Config{
		Method:         ColorScale,
		Scale:          Linear,
		BoundPolicy:    Inherited,
		MinValue:       DefaultMinValue,
		MaxValue:       DefaultMaxValue,
		VectorElements: DefaultVectorElements,
		TilesPerRow:    DefaultTilesPerRow,
	}
}

// validate reports configuration errors that abort a transaction.
func (c Config) validate() error {
	if c.Method == Vector && c.VectorElements < 1 {
		return &ConfigurationError{Field: "VectorElements", Err: ErrInvalidVectorElements}
	}
	if c.Method < ColorScale || c.Method > RGB {
		return &ConfigurationError{Field: "Method", Err: fmt.Errorf("unknown method %d", int(c.Method))}
	}
	if c.Scale < Linear || c.Scale > InverseTangent {
		return &ConfigurationError{Field: "Scale", Err: fmt.Errorf("unknown scale %d", int(c.Scale))}
	}
	if c.TimeStep < 0 {
		return &ConfigurationError{Field: "TimeStep", Err: fmt.Errorf("negative time step %d", c.TimeStep)}
	}
	return nil
}
