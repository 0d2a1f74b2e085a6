package webgpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/tensorview/internal/observer"
)

func TestEncodeParams(t *testing.T) {
	p := observer.Params{
		Scale:          observer.InverseTangent,
		Min:            -2,
		Max:            3.5,
		VectorElements: 4,
		Size:           observer.Size{Width: 7, Height: 5},
		Tile:           observer.TileGeometry{TileWidth: 2, TileHeight: 3, TilesPerRow: 4},
		WorkItems:      35,
	}
	buf := encodeParams(p, 120)
	assert.Len(t, buf, paramsSize)
	assert.Zero(t, paramsSize%16)

	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(buf[off:]) }
	f32 := func(off int) float32 { return math.Float32frombits(u32(off)) }

	assert.Equal(t, uint32(7), u32(0))
	assert.Equal(t, uint32(5), u32(4))
	assert.Equal(t, uint32(120), u32(8))
	assert.Equal(t, uint32(4), u32(12))
	assert.Equal(t, float32(-2), f32(16))
	assert.Equal(t, float32(3.5), f32(20))
	assert.Equal(t, uint32(1), u32(24))
	assert.Equal(t, uint32(2), u32(28))
	assert.Equal(t, uint32(3), u32(32))
	assert.Equal(t, uint32(4), u32(36))
	assert.Equal(t, uint32(35), u32(40))
	assert.Equal(t, uint32(0), u32(44))
}

func TestEncodeParams_VectorElementsAtLeastOne(t *testing.T) {
	buf := encodeParams(observer.Params{}, 0)
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[12:]))
}

func TestWorkgroupGrid(t *testing.T) {
	tests := []struct {
		n     int
		wantX uint32
		wantY uint32
	}{
		{0, 0, 0},
		{1, 1, 1},
		{256, 1, 1},
		{257, 2, 1},
		{256 * 65535, 65535, 1},
		{256*65535 + 1, 65535, 2},
	}
	for _, tt := range tests {
		x, y := workgroupGrid(tt.n)
		assert.Equal(t, tt.wantX, x, "n=%d", tt.n)
		assert.Equal(t, tt.wantY, y, "n=%d", tt.n)
		if tt.n > 0 {
			assert.GreaterOrEqual(t, int(x)*int(y)*workgroupSize, tt.n)
		}
	}
}

func TestFloat32Bytes(t *testing.T) {
	buf := float32Bytes([]float32{1, -0.5})
	assert.Len(t, buf, 8)
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])))
	assert.Equal(t, float32(-0.5), math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])))
}
