// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/tensorview/internal/tensor"
)

// DataType represents the element type of a block.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32  DataType = tensor.Float32
	Float64  DataType = tensor.Float64
	Float16  DataType = tensor.Float16
	BFloat16 DataType = tensor.BFloat16
	Int32    DataType = tensor.Int32
	Int64    DataType = tensor.Int64
	Uint8    DataType = tensor.Uint8
	Bool     DataType = tensor.Bool
)

// Shape represents the dimensions of a block.
// Example: Shape{2, 3, 4} represents a 3D block with dimensions 2×3×4.
type Shape = tensor.Shape

// Block is a named memory block of one or more time steps.
type Block = tensor.Block

// MetadataRenderingMethod is the metadata key holding the preferred
// rendering method of a block.
const MetadataRenderingMethod = tensor.MetadataRenderingMethod

// NewBlock allocates a zeroed block holding steps time steps.
func NewBlock(owner, name string, shape Shape, dtype DataType, steps int) (*Block, error) {
	return tensor.NewBlock(owner, name, shape, dtype, steps)
}

// BlockFromBytes wraps little-endian data holding a whole number of time steps.
func BlockFromBytes(owner, name string, shape Shape, dtype DataType, data []byte) (*Block, error) {
	return tensor.BlockFromBytes(owner, name, shape, dtype, data)
}

// BlockFromFloat32 builds a single time-step float32 block.
func BlockFromFloat32(owner, name string, shape Shape, values []float32) (*Block, error) {
	return tensor.BlockFromFloat32(owner, name, shape, values)
}

// ParseDataType parses a data type name such as "float32".
func ParseDataType(s string) (DataType, error) {
	return tensor.ParseDataType(s)
}
