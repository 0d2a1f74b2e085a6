package loader

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/born-ml/tensorview/internal/tensor"
)

type testTensor struct {
	name  string
	dtype SafeTensorsDType
	shape []int
	data  []byte
}

func f32Bytes(values ...float32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
	return out
}

func f16Bytes(values ...float32) []byte {
	out := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(out[2*i:], float16.Fromfloat32(v).Bits())
	}
	return out
}

// writeSafeTensorsFile writes tensors back to back after the JSON header.
func writeSafeTensorsFile(t *testing.T, path string, metadata map[string]string, tensors ...testTensor) {
	t.Helper()

	headerMap := make(map[string]interface{})
	if metadata != nil {
		headerMap["__metadata__"] = metadata
	}
	var offset int64
	var payload []byte
	for _, tt := range tensors {
		end := offset + int64(len(tt.data))
		headerMap[tt.name] = SafeTensorInfo{DType: tt.dtype, Shape: tt.shape, DataOffsets: [2]int64{offset, end}}
		payload = append(payload, tt.data...)
		offset = end
	}

	headerJSON, err := json.Marshal(headerMap)
	if err != nil {
		t.Fatalf("Failed to marshal header: %v", err)
	}

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	defer file.Close()

	if err := binary.Write(file, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		t.Fatalf("Failed to write header size: %v", err)
	}
	if _, err := file.Write(headerJSON); err != nil {
		t.Fatalf("Failed to write header: %v", err)
	}
	if _, err := file.Write(payload); err != nil {
		t.Fatalf("Failed to write tensor data: %v", err)
	}
}

// createTestSafeTensorsFile creates a file with a weight [2, 3] and a bias [3].
func createTestSafeTensorsFile(t *testing.T, path string) {
	t.Helper()
	writeSafeTensorsFile(t, path, map[string]string{"format": "pt"},
		testTensor{"weight", SafeTensorsF32, []int{2, 3}, f32Bytes(1, 2, 3, 4, 5, 6)},
		testTensor{"bias", SafeTensorsF32, []int{3}, f32Bytes(0.1, 0.2, 0.3)},
	)
}

func TestNewSafeTensorsReader(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.safetensors")
	createTestSafeTensorsFile(t, testFile)

	reader, err := NewSafeTensorsReader(testFile)
	if err != nil {
		t.Fatalf("NewSafeTensorsReader failed: %v", err)
	}
	defer reader.Close()

	metadata := reader.Metadata()
	if metadata["format"] != "pt" {
		t.Errorf("Expected format=pt, got %s", metadata["format"])
	}

	assert.Equal(t, []string{"bias", "weight"}, reader.TensorNames())
}

func TestNewSafeTensorsReader_Invalid(t *testing.T) {
	dir := t.TempDir()

	_, err := NewSafeTensorsReader(filepath.Join(dir, "missing.safetensors"))
	assert.Error(t, err)

	short := filepath.Join(dir, "short.safetensors")
	require.NoError(t, os.WriteFile(short, []byte{1, 2}, 0o600))
	_, err = NewSafeTensorsReader(short)
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.safetensors")
	data := binary.LittleEndian.AppendUint64(nil, 4)
	require.NoError(t, os.WriteFile(garbage, append(data, []byte("nope")...), 0o600))
	_, err = NewSafeTensorsReader(garbage)
	assert.Error(t, err)
}

func TestSafeTensorsReader_TensorInfo(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.safetensors")
	createTestSafeTensorsFile(t, testFile)

	reader, err := NewSafeTensorsReader(testFile)
	if err != nil {
		t.Fatalf("NewSafeTensorsReader failed: %v", err)
	}
	defer reader.Close()

	info, err := reader.TensorInfo("weight")
	if err != nil {
		t.Fatalf("TensorInfo failed: %v", err)
	}
	if info.DType != SafeTensorsF32 {
		t.Errorf("Expected dtype F32, got %s", info.DType)
	}
	if len(info.Shape) != 2 || info.Shape[0] != 2 || info.Shape[1] != 3 {
		t.Errorf("Expected shape [2, 3], got %v", info.Shape)
	}

	_, err = reader.TensorInfo("nonexistent")
	if err == nil {
		t.Error("Expected error for non-existent tensor")
	}
}

func TestSafeTensorsReader_ReadTensorData(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.safetensors")
	createTestSafeTensorsFile(t, testFile)

	reader, err := NewSafeTensorsReader(testFile)
	if err != nil {
		t.Fatalf("NewSafeTensorsReader failed: %v", err)
	}
	defer reader.Close()

	data, err := reader.ReadTensorData("weight")
	if err != nil {
		t.Fatalf("ReadTensorData failed: %v", err)
	}
	assert.Equal(t, f32Bytes(1, 2, 3, 4, 5, 6), data)
}

func TestSafeTensorsReader_LoadBlock(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.safetensors")
	createTestSafeTensorsFile(t, testFile)

	reader, err := NewSafeTensorsReader(testFile)
	require.NoError(t, err)
	defer reader.Close()

	block, err := reader.LoadBlock("weight", Options{Owner: "Layer"})
	require.NoError(t, err)

	assert.Equal(t, "Layer", block.Owner())
	assert.Equal(t, "weight", block.Name())
	assert.Equal(t, tensor.Shape{2, 3}, block.Shape())
	assert.Equal(t, tensor.Float32, block.DType())
	assert.Equal(t, 1, block.TimeSteps())

	values, err := block.Float32s(0)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, values)

	minValue, maxValue := block.ValueHint()
	assert.True(t, math.IsInf(float64(minValue), -1))
	assert.True(t, math.IsInf(float64(maxValue), 1))
}

func TestSafeTensorsReader_LoadBlockTimeAxis(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "steps.safetensors")
	writeSafeTensorsFile(t, testFile, nil,
		testTensor{"state", SafeTensorsF32, []int{3, 2}, f32Bytes(1, 2, 3, 4, 5, 6)},
	)

	reader, err := NewSafeTensorsReader(testFile)
	require.NoError(t, err)
	defer reader.Close()

	block, err := reader.LoadBlock("state", Options{TimeAxis: true})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2}, block.Shape())
	assert.Equal(t, 3, block.TimeSteps())

	step, err := block.Float32s(2)
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 6}, step)
}

func TestSafeTensorsReader_LoadBlockFloat16(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "half.safetensors")
	writeSafeTensorsFile(t, testFile, nil,
		testTensor{"half", SafeTensorsF16, []int{4}, f16Bytes(0.5, -1, 2, 0)},
	)

	reader, err := NewSafeTensorsReader(testFile)
	require.NoError(t, err)
	defer reader.Close()

	block, err := reader.LoadBlock("half", Options{})
	require.NoError(t, err)
	assert.Equal(t, tensor.Float16, block.DType())

	values, err := block.Float32s(0)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -1, 2, 0}, values)
}

func TestSafeTensorsReader_LoadBlockUnsupportedDType(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "odd.safetensors")
	writeSafeTensorsFile(t, testFile, nil,
		testTensor{"odd", SafeTensorsDType("C64"), []int{1}, make([]byte, 8)},
	)

	reader, err := NewSafeTensorsReader(testFile)
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.LoadBlock("odd", Options{})
	assert.Error(t, err)
}
