package tensor

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestNewBlock(t *testing.T) {
	b, err := NewBlock("encoder", "weights", Shape{2, 3}, Float32, 4)
	require.NoError(t, err)

	assert.Equal(t, "encoder", b.Owner())
	assert.Equal(t, "weights", b.Name())
	assert.Equal(t, Shape{2, 3}, b.Shape())
	assert.Equal(t, Float32, b.DType())
	assert.Equal(t, 4, b.TimeSteps())
	assert.Equal(t, 24, b.StepSize())
	assert.Len(t, b.Data(), 96)

	_, err = NewBlock("n", "b", Shape{2, -1}, Float32, 1)
	assert.Error(t, err)

	_, err = NewBlock("n", "b", Shape{2}, Float32, 0)
	assert.Error(t, err)
}

func TestNewBlockCopiesShape(t *testing.T) {
	shape := Shape{4, 4}
	b, err := NewBlock("n", "b", shape, Uint8, 1)
	require.NoError(t, err)

	shape[0] = 1
	assert.Equal(t, Shape{4, 4}, b.Shape())
}

func TestBlockFromBytes(t *testing.T) {
	data := make([]byte, 3*2*4)
	b, err := BlockFromBytes("n", "b", Shape{2}, Float32, data)
	require.NoError(t, err)
	assert.Equal(t, 3, b.TimeSteps())

	_, err = BlockFromBytes("n", "b", Shape{2}, Float32, data[:7])
	assert.Error(t, err)

	_, err = BlockFromBytes("n", "b", Shape{2}, Float32, nil)
	assert.Error(t, err)
}

func TestBlockFromBytesDegenerate(t *testing.T) {
	b, err := BlockFromBytes("n", "empty", Shape{0, 3}, Float32, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, b.TimeSteps())
	assert.Equal(t, 0, b.StepSize())

	values, err := b.Float32s(0)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestBlockFromFloat32(t *testing.T) {
	b, err := BlockFromFloat32("n", "b", Shape{2, 2}, []float32{1, -2, 3.5, 0})
	require.NoError(t, err)

	values, err := b.Float32s(0)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, -2, 3.5, 0}, values)

	_, err = BlockFromFloat32("n", "b", Shape{2, 2}, []float32{1, 2, 3})
	assert.Error(t, err)
}

func TestBlockFloat32sTimeSteps(t *testing.T) {
	data := make([]byte, 2*3*4)
	for i := range 6 {
		binary.LittleEndian.PutUint32(data[4*i:], math.Float32bits(float32(i)))
	}
	b, err := BlockFromBytes("n", "b", Shape{3}, Float32, data)
	require.NoError(t, err)

	first, err := b.Float32s(0)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 2}, first)

	second, err := b.Float32s(1)
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 4, 5}, second)

	_, err = b.Float32s(2)
	assert.Error(t, err)
	_, err = b.Float32s(-1)
	assert.Error(t, err)
}

func TestBlockFloat32sDTypes(t *testing.T) {
	want := []float32{-2, 0, 1.5}

	encode := func(dt DataType, put func(buf []byte, v float32)) []byte {
		buf := make([]byte, len(want)*dt.Size())
		for i, v := range want {
			put(buf[i*dt.Size():], v)
		}
		return buf
	}

	tests := []struct {
		name  string
		dtype DataType
		data  []byte
		want  []float32
	}{
		{
			name:  "float64",
			dtype: Float64,
			data: encode(Float64, func(buf []byte, v float32) {
				binary.LittleEndian.PutUint64(buf, math.Float64bits(float64(v)))
			}),
			want: want,
		},
		{
			name:  "float16",
			dtype: Float16,
			data: encode(Float16, func(buf []byte, v float32) {
				binary.LittleEndian.PutUint16(buf, float16.Fromfloat32(v).Bits())
			}),
			want: want,
		},
		{
			name:  "bfloat16",
			dtype: BFloat16,
			data: encode(BFloat16, func(buf []byte, v float32) {
				binary.LittleEndian.PutUint16(buf, uint16(math.Float32bits(v)>>16))
			}),
			want: want,
		},
		{
			name:  "int32",
			dtype: Int32,
			data:  []byte{0xfe, 0xff, 0xff, 0xff, 0, 0, 0, 0, 7, 0, 0, 0},
			want:  []float32{-2, 0, 7},
		},
		{
			name:  "int64",
			dtype: Int64,
			data: []byte{
				0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
				0, 0, 0, 0, 0, 0, 0, 0,
				3, 0, 0, 0, 0, 0, 0, 0,
			},
			want: []float32{-1, 0, 3},
		},
		{
			name:  "uint8",
			dtype: Uint8,
			data:  []byte{0, 128, 255},
			want:  []float32{0, 128, 255},
		},
		{
			name:  "bool",
			dtype: Bool,
			data:  []byte{0, 1, 5},
			want:  []float32{0, 1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := BlockFromBytes("n", tt.name, Shape{3}, tt.dtype, tt.data)
			require.NoError(t, err)

			got, err := b.Float32s(0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBlockValueHint(t *testing.T) {
	b, err := NewBlock("n", "b", Shape{4}, Float32, 1)
	require.NoError(t, err)

	minValue, maxValue := b.ValueHint()
	assert.True(t, math.IsInf(float64(minValue), -1))
	assert.True(t, math.IsInf(float64(maxValue), 1))

	b.SetValueHint(-1, 2)
	minValue, maxValue = b.ValueHint()
	assert.Equal(t, float32(-1), minValue)
	assert.Equal(t, float32(2), maxValue)
}

func TestBlockMetadata(t *testing.T) {
	b, err := NewBlock("n", "b", Shape{4}, Float32, 1)
	require.NoError(t, err)

	_, ok := b.RenderingMethodHint()
	assert.False(t, ok)

	b.SetMetadata(MetadataRenderingMethod, "vector")
	b.SetMetadata("unit", "m/s")

	method, ok := b.RenderingMethodHint()
	assert.True(t, ok)
	assert.Equal(t, "vector", method)

	unit, ok := b.Metadata("unit")
	assert.True(t, ok)
	assert.Equal(t, "m/s", unit)

	assert.Equal(t, []string{MetadataRenderingMethod, "unit"}, b.MetadataKeys())
}
