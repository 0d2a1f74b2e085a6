// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the memory blocks observed by tensorview.
//
// # Overview
//
// A Block is a named tensor owned by a node. It holds one or more time steps
// of the same shape, stored contiguously in little-endian byte order:
//   - Float32, Float64, Float16 and BFloat16 elements
//   - Int32, Int64, Uint8 and Bool elements
//
// Every data type is decoded to float32 when a frame is painted.
//
// # Basic Usage
//
//	block, err := tensor.BlockFromFloat32("Encoder", "Output", tensor.Shape{28, 28}, values)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	block.SetValueHint(-1, 1)
//	block.SetMetadata(tensor.MetadataRenderingMethod, "ColorScale")
//
// # Value Hints
//
// The value hint is the declared range of the block's elements. Unbounded
// ends are infinite. Observers with inherited bounds follow it, replacing
// infinite ends with 0 and 1.
package tensor
