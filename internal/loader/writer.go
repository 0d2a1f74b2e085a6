package loader

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/born-ml/tensorview/internal/tensor"
)

// SafeTensorsWriter writes memory blocks in SafeTensors format.
type SafeTensorsWriter struct {
	file   *os.File
	closed bool
}

// safeTensorHeader represents a tensor in the SafeTensors header.
type safeTensorHeader struct {
	DType       SafeTensorsDType `json:"dtype"`
	Shape       []int64          `json:"shape"`
	DataOffsets [2]int64         `json:"data_offsets"`
}

// NewSafeTensorsWriter creates a new SafeTensors file writer.
func NewSafeTensorsWriter(path string) (*SafeTensorsWriter, error) {
	//nolint:gosec // G304: File path comes from user input
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return &SafeTensorsWriter{file: file}, nil
}

// WriteBlocks writes blocks to a SafeTensors file that OpenBlocks reads back.
//
// Format:
// [8 bytes: header_size (uint64 LE)]
// [header_size bytes: JSON header]
// [tensor data: raw bytes]
//
// Blocks with more than one time step get a leading time dimension, so they
// are read back with Options.TimeAxis. Block metadata and finite value hints
// are stored under "<block>.<key>".
func WriteBlocks(path string, blocks []*tensor.Block) error {
	writer, err := NewSafeTensorsWriter(path)
	if err != nil {
		return err
	}

	if err := writer.WriteBlocks(blocks); err != nil {
		_ = writer.Close() // Best effort close
		return err
	}
	return writer.Close()
}

// WriteBlocks writes blocks to the file in alphabetical order by name.
func (w *SafeTensorsWriter) WriteBlocks(blocks []*tensor.Block) error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}

	sorted := slices.Clone(blocks)
	slices.SortFunc(sorted, func(a, b *tensor.Block) int {
		return strings.Compare(a.Name(), b.Name())
	})

	header := make(map[string]any, len(sorted)+1)
	metadata := make(map[string]string)

	// Calculate data offsets for each block
	var currentOffset int64
	for i, block := range sorted {
		if i > 0 && sorted[i-1].Name() == block.Name() {
			return fmt.Errorf("duplicate block name %q", block.Name())
		}

		dtype, err := dataTypeToSafeTensorsDType(block.DType())
		if err != nil {
			return fmt.Errorf("block %s: %w", block.Name(), err)
		}

		shape := make([]int64, 0, block.Shape().Rank()+1)
		if block.TimeSteps() > 1 {
			shape = append(shape, int64(block.TimeSteps()))
		}
		for _, dim := range block.Shape() {
			shape = append(shape, int64(dim))
		}

		size := int64(len(block.Data()))
		header[block.Name()] = safeTensorHeader{
			DType:       dtype,
			Shape:       shape,
			DataOffsets: [2]int64{currentOffset, currentOffset + size},
		}
		currentOffset += size

		collectMetadata(block, metadata)
	}

	if len(metadata) > 0 {
		header["__metadata__"] = metadata
	}

	// Marshal header to JSON
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	// Write header size (8 bytes, little-endian uint64)
	if err := binary.Write(w.file, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}

	// Write header JSON
	if _, err := w.file.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// Write block data in alphabetical order
	for _, block := range sorted {
		if _, err := w.file.Write(block.Data()); err != nil {
			return fmt.Errorf("failed to write block %s: %w", block.Name(), err)
		}
	}

	return nil
}

// Close closes the writer and the underlying file.
func (w *SafeTensorsWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// collectMetadata adds the block's metadata and finite value hints under
// "<block>.<key>".
func collectMetadata(block *tensor.Block, metadata map[string]string) {
	prefix := block.Name() + "."
	for _, key := range block.MetadataKeys() {
		value, _ := block.Metadata(key)
		metadata[prefix+key] = value
	}

	minValue, maxValue := block.ValueHint()
	if !math.IsInf(float64(minValue), 0) && !math.IsNaN(float64(minValue)) {
		metadata[prefix+MetadataMinValueHint] = strconv.FormatFloat(float64(minValue), 'g', -1, 32)
	}
	if !math.IsInf(float64(maxValue), 0) && !math.IsNaN(float64(maxValue)) {
		metadata[prefix+MetadataMaxValueHint] = strconv.FormatFloat(float64(maxValue), 'g', -1, 32)
	}
}

// dataTypeToSafeTensorsDType converts a block DataType to a SafeTensors dtype.
func dataTypeToSafeTensorsDType(dt tensor.DataType) (SafeTensorsDType, error) {
	switch dt {
	case tensor.Float32:
		return SafeTensorsF32, nil
	case tensor.Float64:
		return SafeTensorsF64, nil
	case tensor.Float16:
		return SafeTensorsF16, nil
	case tensor.BFloat16:
		return SafeTensorsBF16, nil
	case tensor.Int32:
		return SafeTensorsI32, nil
	case tensor.Int64:
		return SafeTensorsI64, nil
	case tensor.Uint8:
		return SafeTensorsU8, nil
	case tensor.Bool:
		return SafeTensorsBool, nil
	default:
		return "", fmt.Errorf("unsupported data type: %s", dt)
	}
}
