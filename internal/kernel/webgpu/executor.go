//go:build windows

package webgpu

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/born-ml/tensorview/internal/observer"
	"github.com/born-ml/tensorview/internal/texture"
	"github.com/go-webgpu/webgpu/wgpu"
)

// ErrSizeMismatch is returned when the texture was not allocated with the
// size the invocation expects.
var ErrSizeMismatch = errors.New("texture size does not match invocation")

// Executor paints textures on the GPU. It implements observer.KernelExecutor.
// The pixels are read back into the texture after every frame.
type Executor struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	tex *texture.Texture

	// Shader and pipeline cache, keyed by kernel name.
	shaders   map[string]*wgpu.ShaderModule
	pipelines map[string]*wgpu.ComputePipeline
	mu        sync.RWMutex

	adapterInfo *wgpu.AdapterInfo

	// Readback buffers are reused across frames of the same size.
	staging *StagingPool
}

var _ observer.KernelExecutor = (*Executor)(nil)

// New creates a GPU executor painting into tex.
// Returns an error if WebGPU is not available or initialization fails.
func New(tex *texture.Texture) (executor *Executor, err error) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			executor = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", adapterErr)
	}

	adapterInfo := adapter.GetInfo()

	device, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", deviceErr)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	return &Executor{
		instance:    instance,
		adapter:     adapter,
		device:      device,
		queue:       queue,
		tex:         tex,
		shaders:     make(map[string]*wgpu.ShaderModule),
		pipelines:   make(map[string]*wgpu.ComputePipeline),
		adapterInfo: &adapterInfo,
		staging:     NewStagingPool(device),
	}, nil
}

// Release releases all WebGPU resources.
// Must be called when the executor is no longer needed.
func (e *Executor) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.staging != nil {
		e.staging.Clear()
		e.staging = nil
	}

	for _, p := range e.pipelines {
		p.Release()
	}
	e.pipelines = nil

	for _, s := range e.shaders {
		s.Release()
	}
	e.shaders = nil

	if e.queue != nil {
		e.queue.Release()
		e.queue = nil
	}
	if e.device != nil {
		e.device.Release()
		e.device = nil
	}
	if e.adapter != nil {
		e.adapter.Release()
		e.adapter = nil
	}
	if e.instance != nil {
		e.instance.Release()
		e.instance = nil
	}
}

// Name returns the executor name.
func (e *Executor) Name() string {
	if e.adapterInfo != nil {
		return fmt.Sprintf("WebGPU (%s %s)", e.adapterInfo.Device, e.adapterInfo.Vendor)
	}
	return "WebGPU"
}

// AdapterInfo returns information about the GPU adapter.
func (e *Executor) AdapterInfo() *wgpu.AdapterInfo {
	return e.adapterInfo
}

// Texture returns the texture the executor paints into.
func (e *Executor) Texture() *texture.Texture {
	return e.tex
}

// PoolStats reports readback buffer reuse.
func (e *Executor) PoolStats() (hits, misses uint64, pooled int) {
	return e.staging.Stats()
}

// Run paints one frame on the GPU and reads the pixels back.
func (e *Executor) Run(ctx context.Context, inv observer.Invocation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	code, ok := shaderSources[inv.Kernel]
	if !ok {
		return fmt.Errorf("webgpu: unknown kernel %v", inv.Kernel)
	}
	if inv.Source == nil {
		return fmt.Errorf("webgpu: %s: %w", inv.Kernel, observer.ErrNoSource)
	}
	if got := e.tex.Size(); got != inv.Params.Size {
		return fmt.Errorf("webgpu: %s: %w (texture %v, want %v)", inv.Kernel, ErrSizeMismatch, got, inv.Params.Size)
	}
	if isTiled(inv.Kernel) {
		tile := inv.Params.Tile
		if tile.TileWidth <= 0 || tile.TileHeight <= 0 || tile.TilesPerRow <= 0 {
			return nil
		}
	}

	data, err := inv.Source.Float32s(inv.TimeStep)
	if err != nil {
		return fmt.Errorf("webgpu: %s: %w", inv.Kernel, err)
	}
	if len(data) == 0 || inv.Params.WorkItems == 0 {
		return nil
	}

	pixels, err := e.runKernel(ctx, inv.Kernel.String(), code, inv.Params, data)
	if err != nil {
		return fmt.Errorf("webgpu: %s: %w", inv.Kernel, err)
	}
	copy(e.tex.Pix, pixels)
	return nil
}

func isTiled(k observer.Kernel) bool {
	return k == observer.KernelTiledColorScale || k == observer.KernelTiledRGB
}

// IsAvailable checks if WebGPU is available on this system.
func IsAvailable() (available bool) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()

	return true
}
