package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShapeElementCount(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{}, 0},
		{Shape{5}, 5},
		{Shape{2, 3}, 6},
		{Shape{2, 3, 4}, 24},
		{Shape{4, 0}, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.shape.ElementCount(), "shape %v", tt.shape)
	}
}

func TestShapeIsEmpty(t *testing.T) {
	assert.True(t, Shape{}.IsEmpty())
	assert.True(t, Shape{3, 0}.IsEmpty())
	assert.True(t, Shape{-1}.IsEmpty())
	assert.False(t, Shape{1}.IsEmpty())
	assert.False(t, Shape{2, 3, 4}.IsEmpty())
}

func TestShapeValidate(t *testing.T) {
	assert.NoError(t, Shape{2, 3}.Validate())
	assert.NoError(t, Shape{}.Validate())

	err := Shape{2, 0}.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "index 1")
}

func TestShapeEqualAndClone(t *testing.T) {
	s := Shape{2, 3, 4}
	assert.True(t, s.Equal(Shape{2, 3, 4}))
	assert.False(t, s.Equal(Shape{2, 3}))
	assert.False(t, s.Equal(Shape{2, 3, 5}))

	clone := s.Clone()
	assert.True(t, clone.Equal(s))
	clone[0] = 9
	assert.Equal(t, 2, s[0], "clone must not alias the original")
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "[2 3 4]", Shape{2, 3, 4}.String())
	assert.Equal(t, "[7]", Shape{7}.String())
	assert.Equal(t, "[]", Shape{}.String())
}

func TestDataType(t *testing.T) {
	sizes := map[DataType]int{
		Float32:  4,
		Float64:  8,
		Float16:  2,
		BFloat16: 2,
		Int32:    4,
		Int64:    8,
		Uint8:    1,
		Bool:     1,
	}
	for dt, size := range sizes {
		assert.Equal(t, size, dt.Size(), dt.String())

		parsed, err := ParseDataType(dt.String())
		assert.NoError(t, err)
		assert.Equal(t, dt, parsed)
	}

	parsed, err := ParseDataType(" Float32 ")
	assert.NoError(t, err)
	assert.Equal(t, Float32, parsed)

	_, err = ParseDataType("complex64")
	assert.Error(t, err)
	assert.Equal(t, "unknown", DataType(99).String())
	assert.Panics(t, func() { DataType(99).Size() })
}
