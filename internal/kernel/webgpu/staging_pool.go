//go:build windows

package webgpu

import (
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
)

// maxPooledPerSize bounds the number of idle buffers kept for one size.
const maxPooledPerSize = 4

// StagingPool reuses MapRead readback buffers. An observer reads back the
// same texture size every frame, so buffers are matched by exact size.
type StagingPool struct {
	device *wgpu.Device

	idle map[uint64][]*wgpu.Buffer
	mu   sync.Mutex

	hits   uint64
	misses uint64
}

// NewStagingPool creates an empty pool for the given device.
func NewStagingPool(device *wgpu.Device) *StagingPool {
	return &StagingPool{
		device: device,
		idle:   make(map[uint64][]*wgpu.Buffer),
	}
}

// Acquire returns an idle buffer of the given size or creates one.
func (p *StagingPool) Acquire(size uint64) *wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if bufs := p.idle[size]; len(bufs) > 0 {
		buf := bufs[len(bufs)-1]
		p.idle[size] = bufs[:len(bufs)-1]
		p.hits++
		return buf
	}

	p.misses++
	return p.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
}

// Release returns a buffer to the pool, or frees it when enough buffers of
// its size are idle.
func (p *StagingPool) Release(buf *wgpu.Buffer, size uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.idle[size]) >= maxPooledPerSize {
		buf.Release()
		return
	}
	p.idle[size] = append(p.idle[size], buf)
}

// Clear frees every idle buffer.
func (p *StagingPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for size, bufs := range p.idle {
		for _, buf := range bufs {
			buf.Release()
		}
		delete(p.idle, size)
	}
}

// Stats returns pool hits, misses and the number of idle buffers.
func (p *StagingPool) Stats() (hits, misses uint64, pooled int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, bufs := range p.idle {
		pooled += len(bufs)
	}
	return p.hits, p.misses, pooled
}
