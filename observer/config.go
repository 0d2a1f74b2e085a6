// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package observer

import (
	"github.com/born-ml/tensorview/internal/observer"
)

// Config is the user-editable observer configuration.
type Config = observer.Config

// Method selects how element values become pixel colors.
type Method = observer.Method

// Rendering methods.
const (
	ColorScale Method = observer.ColorScale
	Vector     Method = observer.Vector
	RGB        Method = observer.RGB
)

// Scale maps values into the color range.
type Scale = observer.Scale

// Scales.
const (
	Linear         Scale = observer.Linear
	InverseTangent Scale = observer.InverseTangent
)

// BoundPolicy decides where the color scale bounds come from.
type BoundPolicy = observer.BoundPolicy

// Bound policies.
const (
	Inherited BoundPolicy = observer.Inherited
	Manual    BoundPolicy = observer.Manual
)

// Bounds is the resolved color scale range.
type Bounds = observer.Bounds

// Configuration defaults.
const (
	DefaultVectorElements = observer.DefaultVectorElements
	DefaultTilesPerRow    = observer.DefaultTilesPerRow
)

// DefaultConfig returns the configuration a fresh observer starts from.
func DefaultConfig() Config {
	return observer.DefaultConfig()
}

// ParseMethod parses a method name, case-insensitively.
func ParseMethod(s string) (Method, error) {
	return observer.ParseMethod(s)
}

// ParseScale parses a scale name, case-insensitively.
func ParseScale(s string) (Scale, error) {
	return observer.ParseScale(s)
}

// ParseBoundPolicy parses a bound policy name, case-insensitively.
func ParseBoundPolicy(s string) (BoundPolicy, error) {
	return observer.ParseBoundPolicy(s)
}
