package loader

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/tensorview/internal/tensor"
)

func TestWriteBlocks_RoundTrip(t *testing.T) {
	weights, err := tensor.BlockFromFloat32("model", "weights", tensor.Shape{2, 3}, []float32{1, -2, 3, 0.5, 0, -1})
	require.NoError(t, err)
	weights.SetValueHint(-2, 3)
	weights.SetMetadata(tensor.MetadataRenderingMethod, "Vector")

	frames, err := tensor.BlockFromBytes("model", "frames", tensor.Shape{2}, tensor.Uint8, []byte{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	require.Equal(t, 3, frames.TimeSteps())

	path := filepath.Join(t.TempDir(), "model.safetensors")
	require.NoError(t, WriteBlocks(path, []*tensor.Block{weights, frames}))

	blocks, err := OpenBlocks(path, Options{})
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "frames", blocks[0].Name())
	assert.Equal(t, tensor.Shape{3, 2}, blocks[0].Shape(), "time steps become the leading dimension")

	got := blocks[1]
	assert.Equal(t, "model", got.Owner())
	assert.Equal(t, tensor.Shape{2, 3}, got.Shape())
	values, err := got.Float32s(0)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, -2, 3, 0.5, 0, -1}, values)

	minValue, maxValue := got.ValueHint()
	assert.Equal(t, float32(-2), minValue)
	assert.Equal(t, float32(3), maxValue)

	method, ok := got.RenderingMethodHint()
	assert.True(t, ok)
	assert.Equal(t, "Vector", method)

	timed, err := OpenBlocks(path, Options{TimeAxis: true})
	require.NoError(t, err)
	assert.Equal(t, 3, timed[0].TimeSteps())
	assert.Equal(t, tensor.Shape{2}, timed[0].Shape())
	last, err := timed[0].Float32s(2)
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 6}, last)
}

func TestWriteBlocks_SkipsUnboundedHints(t *testing.T) {
	b, err := tensor.BlockFromFloat32("n", "x", tensor.Shape{2}, []float32{1, 2})
	require.NoError(t, err)
	b.SetValueHint(float32(math.Inf(-1)), 7)

	path := filepath.Join(t.TempDir(), "x.safetensors")
	require.NoError(t, WriteBlocks(path, []*tensor.Block{b}))

	r, err := NewSafeTensorsReader(path)
	require.NoError(t, err)
	defer r.Close()

	_, ok := r.Metadata()["x."+MetadataMinValueHint]
	assert.False(t, ok)
	assert.Equal(t, "7", r.Metadata()["x."+MetadataMaxValueHint])
}

func TestWriteBlocks_DuplicateNames(t *testing.T) {
	a, err := tensor.NewBlock("n", "x", tensor.Shape{1}, tensor.Float32, 1)
	require.NoError(t, err)
	b, err := tensor.NewBlock("m", "x", tensor.Shape{1}, tensor.Float32, 1)
	require.NoError(t, err)

	err = WriteBlocks(filepath.Join(t.TempDir(), "dup.safetensors"), []*tensor.Block{a, b})
	assert.ErrorContains(t, err, "duplicate block name")
}

func TestSafeTensorsWriter_Closed(t *testing.T) {
	w, err := NewSafeTensorsWriter(filepath.Join(t.TempDir(), "closed.safetensors"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	assert.Error(t, w.WriteBlocks(nil))
}

func TestSafeTensorsReader_TensorDataAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.safetensors")
	createTestSafeTensorsFile(t, path)

	r, err := NewSafeTensorsReader(path)
	require.NoError(t, err)

	data, err := r.TensorData("weight")
	require.NoError(t, err)
	assert.Equal(t, f32Bytes(1, 2, 3, 4, 5, 6), data)

	require.NoError(t, r.Close())
	_, err = r.TensorData("weight")
	assert.Error(t, err)
}
