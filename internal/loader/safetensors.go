package loader

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/born-ml/tensorview/internal/tensor"
)

// SafeTensors format:
// [8 bytes: header_size (uint64 LE)]
// [header_size bytes: JSON header]
// [tensor data: raw bytes]

// maxHeaderSize bounds the JSON header.
const maxHeaderSize = 100 * 1024 * 1024

// SafeTensorsDType represents supported SafeTensors data types.
type SafeTensorsDType string

// Supported SafeTensors dtypes.
const (
	SafeTensorsF16  SafeTensorsDType = "F16"
	SafeTensorsF32  SafeTensorsDType = "F32"
	SafeTensorsF64  SafeTensorsDType = "F64"
	SafeTensorsBF16 SafeTensorsDType = "BF16"
	SafeTensorsI32  SafeTensorsDType = "I32"
	SafeTensorsI64  SafeTensorsDType = "I64"
	SafeTensorsU8   SafeTensorsDType = "U8"
	SafeTensorsBool SafeTensorsDType = "BOOL"
)

// SafeTensorInfo describes a tensor in SafeTensors format.
type SafeTensorInfo struct {
	DType       SafeTensorsDType `json:"dtype"`
	Shape       []int            `json:"shape"`
	DataOffsets [2]int64         `json:"data_offsets"` // [start, end]
}

// SafeTensorsHeader is the JSON header in SafeTensors format.
type SafeTensorsHeader struct {
	Metadata map[string]string          `json:"__metadata__"`
	Tensors  map[string]SafeTensorInfo  `json:"-"`
	RawMap   map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON implements custom JSON unmarshaling for SafeTensorsHeader.
func (h *SafeTensorsHeader) UnmarshalJSON(data []byte) error {
	// First parse as generic map
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return err
	}
	h.RawMap = rawMap

	// Extract metadata
	if metadataRaw, ok := rawMap["__metadata__"]; ok {
		if err := json.Unmarshal(metadataRaw, &h.Metadata); err != nil {
			return fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	// Extract tensors (everything except __metadata__)
	h.Tensors = make(map[string]SafeTensorInfo)
	for key, value := range rawMap {
		if key == "__metadata__" {
			continue
		}
		var info SafeTensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return fmt.Errorf("failed to unmarshal tensor %s: %w", key, err)
		}
		h.Tensors[key] = info
	}

	return nil
}

// SafeTensorsReader reads SafeTensors format files.
//
// The file is memory-mapped and only the header is parsed up front; tensor
// data is paged in on demand when a tensor is read.
type SafeTensorsReader struct {
	file       *os.File
	data       []byte // mmap'd region (read-only)
	size       int64
	header     SafeTensorsHeader
	headerSize uint64
	dataOffset int64 // Offset where tensor data starts
	closed     bool
}

// NewSafeTensorsReader creates a new SafeTensors reader.
//
// Important: Always call Close() when done to unmap the file (use defer).
func NewSafeTensorsReader(path string) (*SafeTensorsReader, error) {
	//nolint:gosec // G304: File path comes from user input
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if stat.Size() < 8 {
		_ = file.Close()
		return nil, fmt.Errorf("file too small: %d bytes (minimum 8 bytes required)", stat.Size())
	}

	// Memory map the file (platform-specific implementation)
	data, err := mmapFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("mmap failed: %w", err)
	}

	r := &SafeTensorsReader{
		file: file,
		data: data,
		size: stat.Size(),
	}

	if err := r.parseHeader(); err != nil {
		_ = r.Close()
		return nil, err
	}

	return r, nil
}

// parseHeader reads the header size and JSON header from the mapped region.
func (r *SafeTensorsReader) parseHeader() error {
	// Read header size (8 bytes, little-endian uint64)
	r.headerSize = binary.LittleEndian.Uint64(r.data[:8])

	// Validate header size (should be reasonable, < 100MB)
	if r.headerSize > maxHeaderSize {
		return fmt.Errorf("invalid header size: %d (too large)", r.headerSize)
	}

	headerEnd := 8 + int64(r.headerSize) //nolint:gosec // G115: bounded by maxHeaderSize
	if headerEnd > r.size {
		return fmt.Errorf("header extends beyond file: header_end=%d, file_size=%d", headerEnd, r.size)
	}

	// Parse header
	if err := json.Unmarshal(r.data[8:headerEnd], &r.header); err != nil {
		return fmt.Errorf("failed to parse header JSON: %w", err)
	}

	r.dataOffset = headerEnd
	return nil
}

// Close unmaps and closes the SafeTensors file.
func (r *SafeTensorsReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var err error
	if r.data != nil {
		err = munmapFile(r.data)
		r.data = nil
	}

	if closeErr := r.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	return err
}

// Metadata returns the metadata map from the header.
func (r *SafeTensorsReader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames returns the names of all tensors in the file, sorted.
func (r *SafeTensorsReader) TensorNames() []string {
	names := make([]string, 0, len(r.header.Tensors))
	for name := range r.header.Tensors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// TensorInfo returns information about a specific tensor.
func (r *SafeTensorsReader) TensorInfo(name string) (*SafeTensorInfo, error) {
	info, ok := r.header.Tensors[name]
	if !ok {
		return nil, fmt.Errorf("tensor %s not found", name)
	}
	return &info, nil
}

// TensorData returns a zero-copy slice to tensor data.
// The returned slice is valid only while the reader is open.
// WARNING: The data is read-only - writing to it will cause undefined behavior.
//
// For cases where you need to keep or modify the data, use ReadTensorData instead.
func (r *SafeTensorsReader) TensorData(name string) ([]byte, error) {
	if r.closed {
		return nil, fmt.Errorf("reader is closed")
	}

	info, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}

	// Calculate absolute offsets
	start := r.dataOffset + info.DataOffsets[0]
	end := r.dataOffset + info.DataOffsets[1]

	// Validate offsets
	if info.DataOffsets[0] < 0 || end < start {
		return nil, fmt.Errorf("invalid data offsets for tensor %s: [%d, %d]",
			name, info.DataOffsets[0], info.DataOffsets[1])
	}
	if end > r.size {
		return nil, fmt.Errorf("tensor %s: data end %d beyond file size %d", name, end, r.size)
	}

	return r.data[start:end], nil
}

// ReadTensorData returns a copy of the raw tensor data for a given tensor name.
func (r *SafeTensorsReader) ReadTensorData(name string) ([]byte, error) {
	data, err := r.TensorData(name)
	if err != nil {
		return nil, err
	}

	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// safeTensorsDTypeToDataType converts a SafeTensors dtype to a block DataType.
func safeTensorsDTypeToDataType(dtype SafeTensorsDType) (tensor.DataType, error) {
	switch dtype {
	case SafeTensorsF32:
		return tensor.Float32, nil
	case SafeTensorsF64:
		return tensor.Float64, nil
	case SafeTensorsF16:
		return tensor.Float16, nil
	case SafeTensorsBF16:
		return tensor.BFloat16, nil
	case SafeTensorsI32:
		return tensor.Int32, nil
	case SafeTensorsI64:
		return tensor.Int64, nil
	case SafeTensorsU8:
		return tensor.Uint8, nil
	case SafeTensorsBool:
		return tensor.Bool, nil
	default:
		return 0, fmt.Errorf("unsupported dtype: %s", dtype)
	}
}
