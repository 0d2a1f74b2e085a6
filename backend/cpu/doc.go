// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go kernel executor.
//
// # Overview
//
// The CPU executor implements every observer kernel:
//   - color scale with linear and inverse tangent scaling
//   - vector rendering (hue from direction, value from magnitude)
//   - RGB rendering
//   - tiled color scale and tiled RGB
//
// Pixels are painted in parallel across all CPU cores for textures large
// enough to amortize the goroutines.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/tensorview/backend/cpu"
//	    "github.com/born-ml/tensorview/observer"
//	    "github.com/born-ml/tensorview/texture"
//	)
//
//	func main() {
//	    tex := texture.New()
//	    obs := observer.New(block, observer.WithAllocator(tex))
//	    if _, _, err := obs.ApplyConfiguration(observer.DefaultConfig()); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    exec := cpu.New(tex)
//	    if err := obs.Frame(ctx, exec); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// For GPU execution, see the webgpu package.
package cpu
