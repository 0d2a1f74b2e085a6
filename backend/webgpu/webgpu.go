// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the GPU kernel executor.
//
// Every observer kernel is compiled to a WGSL compute shader and dispatched
// through WebGPU. The painted texture is read back into the host texture
// after each frame, so results can be encoded exactly like CPU output.
//
// The executor is built on Windows; elsewhere New returns an error and
// IsAvailable reports false.
//
// Example:
//
//	import (
//	    "github.com/born-ml/tensorview/backend/cpu"
//	    "github.com/born-ml/tensorview/backend/webgpu"
//	)
//
//	func main() {
//	    var exec observer.KernelExecutor = cpu.New(tex)
//	    if webgpu.IsAvailable() {
//	        gpu, err := webgpu.New(tex)
//	        if err != nil {
//	            log.Fatal(err)
//	        }
//	        defer gpu.Release()
//	        exec = gpu
//	    }
//	}
package webgpu

import (
	"github.com/born-ml/tensorview/internal/kernel/webgpu"
	"github.com/born-ml/tensorview/internal/texture"
	"github.com/born-ml/tensorview/observer"
)

// Executor paints observer textures on the GPU.
type Executor = webgpu.Executor

// Compile-time check that Executor implements observer.KernelExecutor.
var _ observer.KernelExecutor = (*Executor)(nil)

// New creates a WebGPU executor painting tex.
//
// Call Release() when done to free GPU resources. Returns an error if WebGPU
// initialization fails (e.g., no compatible GPU).
func New(tex *texture.Texture) (*Executor, error) {
	return webgpu.New(tex)
}

// IsAvailable checks if WebGPU is available on the current system.
//
// It's useful for graceful fallback to the CPU executor.
func IsAvailable() bool {
	return webgpu.IsAvailable()
}
