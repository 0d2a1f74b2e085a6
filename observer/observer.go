// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package observer

import (
	"log/slog"

	"github.com/born-ml/tensorview/internal/observer"
	"github.com/born-ml/tensorview/internal/tensor"
)

// Observer renders one memory block to a texture.
type Observer = observer.Observer

// Option configures an Observer.
type Option = observer.Option

// State is the lifecycle state of an Observer.
type State = observer.State

// Observer states.
const (
	Idle       State = observer.Idle
	Configured State = observer.Configured
	Rendering  State = observer.Rendering
)

// RenderableSource is the capability an observed memory block must provide.
type RenderableSource = observer.RenderableSource

// TextureAllocator owns the texture memory painted by a KernelExecutor.
type TextureAllocator = observer.TextureAllocator

// KernelExecutor paints the texture for one frame.
type KernelExecutor = observer.KernelExecutor

// New creates an observer for src. src may be nil; a source is then set
// later with SetSource.
func New(src RenderableSource, opts ...Option) *Observer {
	return observer.New(src, opts...)
}

// WithAllocator sets the allocator notified whenever the texture size changes.
func WithAllocator(a TextureAllocator) Option {
	return observer.WithAllocator(a)
}

// WithLogger sets the logger used for configuration warnings.
func WithLogger(l *slog.Logger) Option {
	return observer.WithLogger(l)
}

// Compile-time check that tensor.Block can be observed.
var _ RenderableSource = (*tensor.Block)(nil)
