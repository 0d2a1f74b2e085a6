package loader

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/tensorview/internal/tensor"
)

// Per-tensor metadata keys, prefixed with "<tensor>." in the file.
const (
	MetadataMinValueHint = "min_value_hint"
	MetadataMaxValueHint = "max_value_hint"
)

// ErrNoFiniteValues is returned by ComputeValueHint for blocks without a
// single finite element.
var ErrNoFiniteValues = errors.New("no finite values")

// Options controls how tensors become blocks.
type Options struct {
	// Owner names the node owning the blocks. Defaults to the file name
	// without extension.
	Owner string
	// TimeAxis treats the leading dimension as time steps.
	TimeAxis bool
	// AutoHints replaces the declared value hints with the data range.
	AutoHints bool
}

// LoadBlock reads one tensor as a block.
func (r *SafeTensorsReader) LoadBlock(name string, opts Options) (*tensor.Block, error) {
	info, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}

	dtype, err := safeTensorsDTypeToDataType(info.DType)
	if err != nil {
		return nil, fmt.Errorf("failed to convert dtype for tensor %s: %w", name, err)
	}

	shape := tensor.Shape(info.Shape).Clone()
	if opts.TimeAxis && shape.Rank() > 1 {
		shape = shape[1:]
	}

	data, err := r.ReadTensorData(name)
	if err != nil {
		return nil, err
	}

	block, err := tensor.BlockFromBytes(opts.Owner, name, shape, dtype, data)
	if err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}

	if err := applyMetadata(block, r.Metadata()); err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}

	if opts.AutoHints {
		minValue, maxValue, err := ComputeValueHint(block)
		if err == nil {
			block.SetValueHint(minValue, maxValue)
		} else if !errors.Is(err, ErrNoFiniteValues) {
			return nil, fmt.Errorf("tensor %s: %w", name, err)
		}
	}

	return block, nil
}

// applyMetadata copies "<block>.<key>" entries onto the block and parses the
// value hints.
func applyMetadata(block *tensor.Block, metadata map[string]string) error {
	prefix := block.Name() + "."
	for key, value := range metadata {
		if suffix, ok := strings.CutPrefix(key, prefix); ok && suffix != "" {
			block.SetMetadata(suffix, value)
		}
	}

	minValue, maxValue := block.ValueHint()
	for _, h := range []struct {
		key string
		dst *float32
	}{
		{MetadataMinValueHint, &minValue},
		{MetadataMaxValueHint, &maxValue},
	} {
		text, ok := block.Metadata(h.key)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", h.key, text, err)
		}
		*h.dst = float32(v)
	}
	block.SetValueHint(minValue, maxValue)
	return nil
}

// ComputeValueHint returns the range of the finite elements over all time
// steps.
func ComputeValueHint(block *tensor.Block) (minValue, maxValue float32, err error) {
	var finite []float64
	for step := range block.TimeSteps() {
		values, err := block.Float32s(step)
		if err != nil {
			return 0, 0, err
		}
		for _, v := range values {
			f := float64(v)
			if !math.IsNaN(f) && !math.IsInf(f, 0) {
				finite = append(finite, f)
			}
		}
	}
	if len(finite) == 0 {
		return 0, 0, fmt.Errorf("block %s: %w", block.Name(), ErrNoFiniteValues)
	}
	return float32(floats.Min(finite)), float32(floats.Max(finite)), nil
}

// OpenBlocks reads every tensor of a SafeTensors file as a block, in name
// order.
func OpenBlocks(path string, opts Options) ([]*tensor.Block, error) {
	r, err := NewSafeTensorsReader(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}
	defer func() { _ = r.Close() }()

	if opts.Owner == "" {
		opts.Owner = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	names := r.TensorNames()
	blocks := make([]*tensor.Block, 0, len(names))
	for _, name := range names {
		block, err := r.LoadBlock(name, opts)
		if err != nil {
			return nil, fmt.Errorf("loader: %s: %w", path, err)
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}
