// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package loader reads memory blocks from SafeTensors files.
//
// Every tensor in the file becomes one tensor.Block. Per-tensor metadata
// stored under "<tensor>.<key>" in the file header is copied to the block;
// the keys "<tensor>.min_value_hint" and "<tensor>.max_value_hint" set the
// block's value hint and "<tensor>.rendering_method" its preferred method.
//
// Example usage:
//
//	import (
//	    "github.com/born-ml/tensorview/loader"
//	)
//
//	blocks, err := loader.OpenBlocks("activations.safetensors", loader.Options{
//	    TimeAxis:  true,
//	    AutoHints: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, b := range blocks {
//	    fmt.Println(b.Name(), b.Shape(), b.TimeSteps())
//	}
package loader

import (
	"github.com/born-ml/tensorview/internal/loader"
	"github.com/born-ml/tensorview/internal/tensor"
)

// Options controls how tensors become blocks.
type Options = loader.Options

// SafeTensorsReader reads tensors from a SafeTensors file.
type SafeTensorsReader = loader.SafeTensorsReader

// Metadata keys holding a tensor's value hint.
const (
	MetadataMinValueHint = loader.MetadataMinValueHint
	MetadataMaxValueHint = loader.MetadataMaxValueHint
)

// ErrNoFiniteValues is returned by ComputeValueHint for blocks without a
// finite element.
var ErrNoFiniteValues = loader.ErrNoFiniteValues

// OpenBlocks loads every tensor of a SafeTensors file as a block, sorted by
// tensor name.
func OpenBlocks(path string, opts Options) ([]*tensor.Block, error) {
	return loader.OpenBlocks(path, opts)
}

// NewSafeTensorsReader opens a SafeTensors file. Close it when done.
func NewSafeTensorsReader(path string) (*SafeTensorsReader, error) {
	return loader.NewSafeTensorsReader(path)
}

// ComputeValueHint scans the finite elements of every time step and returns
// their range.
func ComputeValueHint(block *tensor.Block) (minValue, maxValue float32, err error) {
	return loader.ComputeValueHint(block)
}

// WriteBlocks writes blocks to a SafeTensors file, storing their metadata
// and finite value hints so OpenBlocks restores them.
func WriteBlocks(path string, blocks []*tensor.Block) error {
	return loader.WriteBlocks(path, blocks)
}
