// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package observer turns memory blocks into 2D textures.
//
// An Observer watches one memory block (a tensor.Block or any other
// RenderableSource). Applying a Config computes the texture layout, resolves
// the value bounds and selects the kernel; Frame then asks a KernelExecutor
// to paint the texture.
//
// # Layout
//
// Vectors of up to SmallVectorLimit elements become a single row or column,
// longer vectors a near-square texture. Matrix-like blocks use their first
// extent as the width and fold the remaining extents into the height. A
// DimensionHint such as "2, *, 3" reshapes the block before layout, and tiled
// observation arranges equally shaped tiles in a grid separated by one pixel
// gutters.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/tensorview/backend/cpu"
//	    "github.com/born-ml/tensorview/observer"
//	    "github.com/born-ml/tensorview/tensor"
//	    "github.com/born-ml/tensorview/texture"
//	)
//
//	func main() {
//	    block, _ := tensor.BlockFromFloat32("layer1", "weights", tensor.Shape{4, 4}, values)
//
//	    tex := texture.New()
//	    obs := observer.New(block, observer.WithAllocator(tex))
//
//	    cfg := observer.DefaultConfig()
//	    cfg.Scale = observer.InverseTangent
//	    _, warnings, err := obs.ApplyConfiguration(cfg)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, w := range warnings {
//	        log.Println(w)
//	    }
//
//	    if err := obs.Frame(ctx, cpu.New(tex)); err != nil {
//	        log.Fatal(err)
//	    }
//	    _ = tex.WriteFile("weights.png", 4)
//	}
//
// Layout problems never abort rendering: they produce a fallback layout and a
// Warning. Only invalid configuration is reported as an error.
package observer
