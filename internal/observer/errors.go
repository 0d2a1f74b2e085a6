package observer

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrInvalidVectorElements is returned when Vector mode is configured with
	// fewer than one element per vector.
	ErrInvalidVectorElements = errors.New("vector element count must be greater than zero")

	// ErrNotConfigured is returned by Frame before any configuration was applied.
	ErrNotConfigured = errors.New("observer is not configured")

	// ErrNoSource is returned when an observer has no block attached.
	ErrNoSource = errors.New("observer has no source")
)

// ConfigurationError rejects a configuration transaction. The observer keeps
// its previous state.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration field %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// WarningKind classifies recoverable problems.
type WarningKind int

// Warning kinds.
const (
	// ShapeMismatch covers hints, divisors and tile geometry that do not fit
	// the block. A fallback layout is used.
	ShapeMismatch WarningKind = iota
	// UnsupportedCombination covers settings that are rendered best-effort.
	UnsupportedCombination
)

func (k WarningKind) String() string {
	switch k {
	case ShapeMismatch:
		return "shape mismatch"
	case UnsupportedCombination:
		return "unsupported combination"
	default:
		return "unknown"
	}
}

// Warning is a recoverable problem found while applying a configuration.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	return w.Message
}
