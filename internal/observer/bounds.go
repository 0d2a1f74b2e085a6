package observer

import (
	"fmt"
	"math"
	"strings"
)

// BoundPolicy selects where the color-mapping range comes from.
type BoundPolicy int

// Bound policies.
const (
	// Inherited tracks the source block's value hint.
	Inherited BoundPolicy = iota
	// Manual freezes the user supplied values.
	Manual
)

func (p BoundPolicy) String() string {
	switch p {
	case Inherited:
		return "Inherited"
	case Manual:
		return "Manual"
	default:
		return fmt.Sprintf("BoundPolicy(%d)", int(p))
	}
}

// ParseBoundPolicy parses a bound policy name, case-insensitively.
func ParseBoundPolicy(s string) (BoundPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inherited", "":
		return Inherited, nil
	case "manual":
		return Manual, nil
	default:
		return 0, fmt.Errorf("unknown bound policy %q", s)
	}
}

// resolveInherited replaces unbounded ends of a value hint with the
// defaults 0 and 1.
func resolveInherited(inheritedMin, inheritedMax float32) (minValue, maxValue float32) {
	minValue, maxValue = inheritedMin, inheritedMax
	if math.IsInf(float64(inheritedMin), -1) {
		minValue = DefaultMinValue
	}
	if math.IsInf(float64(inheritedMax), 1) {
		maxValue = DefaultMaxValue
	}
	return minValue, maxValue
}

// Bounds is the value range used for color mapping.
type Bounds struct {
	Policy BoundPolicy
	Min    float32
	Max    float32
}

// DefaultBounds returns inherited bounds over [0, 1].
func DefaultBounds() Bounds {
	return Bounds{Policy: Inherited, Min: DefaultMinValue, Max: DefaultMaxValue}
}

// Resolve returns the range to use for the given source value hint: the
// hint itself under Inherited policy, the frozen values under Manual.
func (b Bounds) Resolve(inheritedMin, inheritedMax float32) (minValue, maxValue float32) {
	if b.Policy == Manual {
		return b.Min, b.Max
	}
	return resolveInherited(inheritedMin, inheritedMax)
}

// SetMin freezes the lower bound. Any manual edit opts out of tracking.
func (b *Bounds) SetMin(v float32) {
	b.Min = v
	b.Policy = Manual
}

// SetMax freezes the upper bound. Any manual edit opts out of tracking.
func (b *Bounds) SetMax(v float32) {
	b.Max = v
	b.Policy = Manual
}

// Reset re-resolves inherited bounds from the source's value hint. Manual
// bounds are left untouched.
func (b *Bounds) Reset(inheritedMin, inheritedMax float32) {
	b.Min, b.Max = b.Resolve(inheritedMin, inheritedMax)
}
