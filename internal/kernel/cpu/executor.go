// Package cpu implements the texture-painting kernels in pure Go.
//
// Every kernel writes RGBA8 pixels into a texture.Texture. Per-pixel loops
// are split across goroutines with internal/parallel.
package cpu

import (
	"context"
	"errors"
	"fmt"

	"github.com/born-ml/tensorview/internal/observer"
	"github.com/born-ml/tensorview/internal/parallel"
	"github.com/born-ml/tensorview/internal/texture"
)

// ErrSizeMismatch is returned when the texture was not allocated with the
// size the invocation expects.
var ErrSizeMismatch = errors.New("texture size does not match invocation")

// kernelFunc paints one frame from the decoded block elements.
type kernelFunc func(e *Executor, p observer.Params, data []float32)

// kernels maps each kernel variant to its implementation.
var kernels = map[observer.Kernel]kernelFunc{
	observer.KernelColorScale:      colorScaleKernel,
	observer.KernelVector:          vectorKernel,
	observer.KernelRGB:             rgbKernel,
	observer.KernelTiledColorScale: tiledColorScaleKernel,
	observer.KernelTiledRGB:        tiledRGBKernel,
}

// Executor paints textures on the CPU. It implements observer.KernelExecutor.
type Executor struct {
	tex      *texture.Texture
	parallel parallel.Config
}

var _ observer.KernelExecutor = (*Executor)(nil)

// New creates an executor painting into tex.
func New(tex *texture.Texture, cfg parallel.Config) *Executor {
	return &Executor{tex: tex, parallel: cfg}
}

// Name returns the executor name.
func (e *Executor) Name() string {
	return "CPU"
}

// Texture returns the texture the executor paints into.
func (e *Executor) Texture() *texture.Texture {
	return e.tex
}

// Run paints one frame.
func (e *Executor) Run(ctx context.Context, inv observer.Invocation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fn, ok := kernels[inv.Kernel]
	if !ok {
		return fmt.Errorf("cpu: unknown kernel %v", inv.Kernel)
	}
	if inv.Source == nil {
		return fmt.Errorf("cpu: %s: %w", inv.Kernel, observer.ErrNoSource)
	}
	if got := e.tex.Size(); got != inv.Params.Size {
		return fmt.Errorf("cpu: %s: %w (texture %v, want %v)", inv.Kernel, ErrSizeMismatch, got, inv.Params.Size)
	}

	data, err := inv.Source.Float32s(inv.TimeStep)
	if err != nil {
		return fmt.Errorf("cpu: %s: %w", inv.Kernel, err)
	}

	fn(e, inv.Params, data)
	return nil
}
