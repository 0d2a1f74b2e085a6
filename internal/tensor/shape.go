package tensor

import (
	"fmt"
	"strconv"
	"strings"
)

// Shape represents the dimensions of a memory block.
//
// Shapes are treated as immutable values: layout code derives new shapes
// instead of modifying existing ones.
type Shape []int

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s)
}

// ElementCount returns the product of all extents.
// A rank-0 shape holds no elements.
func (s Shape) ElementCount() int {
	if len(s) == 0 {
		return 0
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// IsEmpty reports whether the shape describes a degenerate block
// (rank 0 or any non-positive extent).
func (s Shape) IsEmpty() bool {
	if len(s) == 0 {
		return true
	}
	for _, dim := range s {
		if dim <= 0 {
			return true
		}
	}
	return false
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// String formats the shape as "[2 3 4]".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		parts[i] = strconv.Itoa(dim)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
