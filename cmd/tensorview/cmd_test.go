package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/tensorview/internal/loader"
	"github.com/born-ml/tensorview/internal/observer"
	"github.com/born-ml/tensorview/internal/tensor"
	"github.com/born-ml/tensorview/internal/texture"
)

// writeFile writes a SafeTensors file with float32 tensors.
func writeFile(t *testing.T, path string, metadata map[string]string, tensors map[string][]int) {
	t.Helper()

	header := map[string]any{}
	if metadata != nil {
		header["__metadata__"] = metadata
	}
	var payload []byte
	for name, shape := range tensors {
		n := 1
		for _, d := range shape {
			n *= d
		}
		start := len(payload)
		for i := range n {
			payload = binary.LittleEndian.AppendUint32(payload, math.Float32bits(float32(i)/float32(n)))
		}
		header[name] = map[string]any{"dtype": "F32", "shape": shape, "data_offsets": []int{start, len(payload)}}
	}

	headerJSON, err := json.Marshal(header)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(len(headerJSON))))
	buf.Write(headerJSON)
	buf.Write(payload)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCLI()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}

func TestEnv(t *testing.T) {
	t.Setenv("TENSORVIEW_BACKEND", "cpu")
	out, err := execute(t, "env")
	require.NoError(t, err)
	assert.Contains(t, out, "TENSORVIEW_BACKEND")
	assert.Contains(t, out, "cpu")
}

func TestRender(t *testing.T) {
	t.Setenv("TENSORVIEW_DEBUG", "")
	dir := t.TempDir()
	in := filepath.Join(dir, "net.safetensors")
	writeFile(t, in, map[string]string{"image.rendering_method": "rgb"}, map[string][]int{
		"hidden": {4, 4},
		"image":  {3, 2, 2},
		"empty":  {0},
	})

	out := filepath.Join(dir, "out")
	_, err := execute(t, "render", in, "--backend", "cpu", "--zoom", "2", "-o", out)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(out, "net_hidden.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())

	assert.FileExists(t, filepath.Join(out, "net_image.png"))
	assert.NoFileExists(t, filepath.Join(out, "net_empty.png"))
}

func TestRender_TensorFilterAndFormat(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "net.safetensors")
	writeFile(t, in, nil, map[string][]int{"a": {6}, "b": {6}})

	_, err := execute(t, "render", in, "--backend", "cpu", "--tensor", "b", "--format", "bmp", "--owner", "Node", "-o", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "Node_b.bmp"))
	assert.NoFileExists(t, filepath.Join(dir, "Node_a.bmp"))

	_, err = execute(t, "render", in, "--backend", "cpu", "--tensor", "c", "-o", dir)
	assert.Error(t, err)
}

func TestRender_InvalidConfiguration(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "net.safetensors")
	writeFile(t, in, nil, map[string][]int{"a": {6}})

	_, err := execute(t, "render", in, "--backend", "cpu", "--method", "vector", "--elements", "0", "-o", dir)
	require.ErrorIs(t, err, observer.ErrInvalidVectorElements)

	_, err = execute(t, "render", in, "--format", "gif", "-o", dir)
	assert.Error(t, err)
}

func TestLayout(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "net.safetensors")
	writeFile(t, in, nil, map[string][]int{"logits": {1000}})

	out, err := execute(t, "layout", in, "--method", "rgb")
	require.NoError(t, err)
	assert.Contains(t, out, "logits")
	assert.Contains(t, out, "19x18")
	assert.Contains(t, out, "draw_rgb")
	assert.Contains(t, out, "divisible")
}

func TestHints(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "acts.safetensors")
	out := filepath.Join(dir, "acts-hinted.safetensors")
	writeFile(t, in, map[string]string{"acts.rendering_method": "RGB"}, map[string][]int{"acts": {4}})

	stdout, err := execute(t, "hints", in, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "acts")
	assert.Contains(t, stdout, "0.75")

	blocks, err := loader.OpenBlocks(out, loader.Options{})
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	minValue, maxValue := blocks[0].ValueHint()
	assert.Equal(t, float32(0), minValue)
	assert.Equal(t, float32(0.75), maxValue)

	method, ok := blocks[0].RenderingMethodHint()
	assert.True(t, ok)
	assert.Equal(t, "RGB", method)
}

func TestHints_RequiresOutput(t *testing.T) {
	in := filepath.Join(t.TempDir(), "acts.safetensors")
	writeFile(t, in, nil, map[string][]int{"acts": {4}})

	_, err := execute(t, "hints", in)
	assert.Error(t, err)
}

func TestObserveFlags_Apply(t *testing.T) {
	f := observeFlags{
		method:      "vector",
		minValue:    -1,
		maxValue:    7,
		elements:    3,
		tilesPerRow: 4,
		changed:     map[string]bool{"method": true, "min": true, "elements": true},
	}

	got, err := f.apply(observer.DefaultConfig())
	require.NoError(t, err)

	want := observer.DefaultConfig()
	want.Method = observer.Vector
	want.MinValue = -1
	want.VectorElements = 3
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	f.changed["scale"] = true
	f.scale = "log"
	_, err = f.apply(observer.DefaultConfig())
	assert.Error(t, err)
}

func TestFormatWarning(t *testing.T) {
	block, err := tensor.NewBlock("Node", "Output", tensor.Shape{3}, tensor.Float32, 1)
	require.NoError(t, err)

	got := formatWarning(block, observer.Warning{Kind: observer.ShapeMismatch, Message: "Tile is larger than the memory block."})
	assert.Equal(t, "Memory block 'Node: Output' observer: Tile is larger than the memory block.", got)
}

func TestOutputName(t *testing.T) {
	block, err := tensor.NewBlock("net", "layers/0:attn", tensor.Shape{1}, tensor.Float32, 1)
	require.NoError(t, err)
	assert.Equal(t, "net_layers_0_attn.tiff", outputName(block, texture.TIFF))
}
