// Package webgpu paints textures with WGSL compute kernels through go-webgpu
// (github.com/go-webgpu/webgpu), a zero-CGO binding of wgpu-native.
//
// The executor is only available on windows builds. Parameter packing and the
// dispatch grid are platform independent.
package webgpu

import (
	"encoding/binary"
	"math"

	"github.com/born-ml/tensorview/internal/observer"
)

// workgroupSize is the number of threads per workgroup in every kernel.
const workgroupSize = 256

// maxWorkgroupsPerDimension is the WebGPU default limit for one dispatch
// dimension.
const maxWorkgroupsPerDimension = 65535

// paramsSize is the byte size of the Params uniform, a multiple of 16.
const paramsSize = 48

// encodeParams packs kernel parameters into the layout of the WGSL Params
// struct:
//
//	width, height, count, elements: u32
//	min_value, max_value: f32; scale, tile_width: u32
//	tile_height, tiles_per_row, work_items, _pad: u32
//
// count is the number of elements uploaded for the frame.
//
//nolint:gosec // G115: sizes and counts are non-negative and bounded by texture.MaxPixels
func encodeParams(p observer.Params, count int) []byte {
	buf := make([]byte, paramsSize)
	le := binary.LittleEndian

	le.PutUint32(buf[0:], uint32(p.Size.Width))
	le.PutUint32(buf[4:], uint32(p.Size.Height))
	le.PutUint32(buf[8:], uint32(count))
	le.PutUint32(buf[12:], uint32(max(p.VectorElements, 1)))
	le.PutUint32(buf[16:], math.Float32bits(p.Min))
	le.PutUint32(buf[20:], math.Float32bits(p.Max))
	le.PutUint32(buf[24:], uint32(p.Scale))
	le.PutUint32(buf[28:], uint32(p.Tile.TileWidth))
	le.PutUint32(buf[32:], uint32(p.Tile.TileHeight))
	le.PutUint32(buf[36:], uint32(p.Tile.TilesPerRow))
	le.PutUint32(buf[40:], uint32(p.WorkItems))
	return buf
}

// workgroupGrid returns the dispatch size covering n work items. Grids wider
// than one dispatch dimension spill into y; kernels flatten the id with
// num_workgroups.
func workgroupGrid(n int) (x, y uint32) {
	if n <= 0 {
		return 0, 0
	}
	groups := (n + workgroupSize - 1) / workgroupSize
	if groups <= maxWorkgroupsPerDimension {
		//nolint:gosec // G115: groups <= 65535
		return uint32(groups), 1
	}
	rows := (groups + maxWorkgroupsPerDimension - 1) / maxWorkgroupsPerDimension
	//nolint:gosec // G115: rows is small for any texture below texture.MaxPixels
	return maxWorkgroupsPerDimension, uint32(rows)
}

// float32Bytes converts elements to little-endian bytes for upload.
func float32Bytes(values []float32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
	return out
}
