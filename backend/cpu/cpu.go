// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/tensorview/internal/kernel/cpu"
	"github.com/born-ml/tensorview/internal/parallel"
	"github.com/born-ml/tensorview/internal/texture"
	"github.com/born-ml/tensorview/observer"
)

// Executor paints observer textures on the CPU.
type Executor = internalcpu.Executor

// Compile-time check that Executor implements observer.KernelExecutor.
var _ observer.KernelExecutor = (*Executor)(nil)

// New creates a CPU executor painting tex, using every CPU core.
//
// Example:
//
//	tex := texture.New()
//	exec := cpu.New(tex)
func New(tex *texture.Texture) *Executor {
	return internalcpu.New(tex, parallel.DefaultConfig())
}

// NewSequential creates a CPU executor that paints on the calling goroutine.
func NewSequential(tex *texture.Texture) *Executor {
	return internalcpu.New(tex, parallel.Sequential())
}
