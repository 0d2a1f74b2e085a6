// Package tensor provides the memory block types observed by tensorview.
package tensor

import (
	"fmt"
	"strings"
)

// DataType represents the element type of a memory block.
type DataType int

// Supported data types for memory blocks.
const (
	Float32 DataType = iota
	Float64
	Float16
	BFloat16
	Int32
	Int64
	Uint8
	Bool
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Float16, BFloat16:
		return 2
	case Uint8, Bool:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Float16:
		return "float16"
	case BFloat16:
		return "bfloat16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// ParseDataType parses the names produced by String.
func ParseDataType(s string) (DataType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "float32":
		return Float32, nil
	case "float64":
		return Float64, nil
	case "float16":
		return Float16, nil
	case "bfloat16":
		return BFloat16, nil
	case "int32":
		return Int32, nil
	case "int64":
		return Int64, nil
	case "uint8":
		return Uint8, nil
	case "bool":
		return Bool, nil
	default:
		return 0, fmt.Errorf("unknown data type %q", s)
	}
}
