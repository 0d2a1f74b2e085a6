package observer_test

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/tensorview/backend/cpu"
	"github.com/born-ml/tensorview/observer"
	"github.com/born-ml/tensorview/tensor"
	"github.com/born-ml/tensorview/texture"
)

func TestObserverRendersThroughPublicAPI(t *testing.T) {
	nan := float32(math.NaN())
	block, err := tensor.BlockFromFloat32("layer", "weights", tensor.Shape{4, 2},
		[]float32{-1, -0.5, 0, 0.5, 1, 0.25, -0.25, nan})
	require.NoError(t, err)
	block.SetValueHint(-1, 1)

	tex := texture.New()
	obs := observer.New(block, observer.WithAllocator(tex))

	layout, warnings, err := obs.ApplyConfiguration(observer.DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, observer.Size{Width: 4, Height: 2}, layout.Size)
	assert.Equal(t, observer.KernelColorScale, obs.Invocation().Kernel)

	require.NoError(t, obs.Frame(context.Background(), cpu.NewSequential(tex)))
	assert.Equal(t, observer.Rendering, obs.State())

	assert.Equal(t, color.RGBA{R: 255, A: 255}, tex.At(0, 0))
	assert.Equal(t, color.RGBA{R: 128, A: 255}, tex.At(1, 0))
	assert.Equal(t, color.RGBA{A: 255}, tex.At(2, 0))
	assert.Equal(t, color.RGBA{G: 255, A: 255}, tex.At(0, 1))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, tex.At(3, 1))
}

func TestInvalidConfigurationKeepsState(t *testing.T) {
	block, err := tensor.NewBlock("layer", "bias", tensor.Shape{6}, tensor.Float32, 1)
	require.NoError(t, err)

	obs := observer.New(block)
	_, _, err = obs.ApplyConfiguration(observer.DefaultConfig())
	require.NoError(t, err)

	cfg := observer.DefaultConfig()
	cfg.Method = observer.Vector
	cfg.VectorElements = 0
	_, _, err = obs.ApplyConfiguration(cfg)
	assert.ErrorIs(t, err, observer.ErrInvalidVectorElements)
	assert.Equal(t, observer.ColorScale, obs.Config().Method)
}

func ExampleParseDimensionHint() {
	hint := observer.ParseDimensionHint("2, *, 3")
	shape, ok := hint.TryApply(tensor.Shape{2, 4, 3})
	fmt.Println(shape, ok)

	bad := observer.ParseDimensionHint("*, *")
	fmt.Println(bad.Err())
	// Output:
	// [2 4 3] true
	// at most one wildcard is allowed
}

func ExampleComputeTextureSize() {
	fmt.Println(observer.ComputeTextureSize(1000))
	// Output: 32x32
}
