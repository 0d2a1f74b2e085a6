// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package observer

import (
	"github.com/born-ml/tensorview/internal/observer"
)

// Kernel identifies the compute routine that paints a texture.
type Kernel = observer.Kernel

// Kernels.
const (
	KernelColorScale      Kernel = observer.KernelColorScale
	KernelVector          Kernel = observer.KernelVector
	KernelRGB             Kernel = observer.KernelRGB
	KernelTiledColorScale Kernel = observer.KernelTiledColorScale
	KernelTiledRGB        Kernel = observer.KernelTiledRGB
)

// Params are the kernel parameters of one dispatch.
type Params = observer.Params

// Invocation is one kernel dispatch handed to a KernelExecutor.
type Invocation = observer.Invocation

// SelectKernel picks the kernel and parameters for a layout.
func SelectKernel(layout Layout, cfg Config, bounds Bounds, elementCount int) (Kernel, Params) {
	return observer.SelectKernel(layout, cfg, bounds, elementCount)
}
