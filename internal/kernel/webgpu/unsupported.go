//go:build !windows

package webgpu

import (
	"context"
	"errors"

	"github.com/born-ml/tensorview/internal/observer"
	"github.com/born-ml/tensorview/internal/texture"
)

// ErrUnsupported is returned by New on platforms without the WebGPU executor.
var ErrUnsupported = errors.New("webgpu: executor is only built on windows")

// Executor is unavailable on this platform.
type Executor struct{}

// New always fails on this platform.
func New(*texture.Texture) (*Executor, error) {
	return nil, ErrUnsupported
}

// IsAvailable reports false on this platform.
func IsAvailable() bool {
	return false
}

// Release is a no-op.
func (e *Executor) Release() {}

// Name returns the executor name.
func (e *Executor) Name() string {
	return "WebGPU"
}

// Run always fails on this platform.
func (e *Executor) Run(context.Context, observer.Invocation) error {
	return ErrUnsupported
}
