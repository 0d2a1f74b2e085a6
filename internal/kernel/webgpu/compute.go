//go:build windows

package webgpu

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/born-ml/tensorview/internal/observer"
	"github.com/go-webgpu/webgpu/wgpu"
)

// compileShader compiles WGSL shader code into a ShaderModule.
// Results are cached in the Executor's shaders map.
func (e *Executor) compileShader(name, code string) *wgpu.ShaderModule {
	e.mu.RLock()
	if shader, exists := e.shaders[name]; exists {
		e.mu.RUnlock()
		return shader
	}
	e.mu.RUnlock()

	shader := e.device.CreateShaderModuleWGSL(code)

	e.mu.Lock()
	e.shaders[name] = shader
	e.mu.Unlock()

	return shader
}

// getOrCreatePipeline returns a cached ComputePipeline or creates a new one.
func (e *Executor) getOrCreatePipeline(name string, shader *wgpu.ShaderModule) *wgpu.ComputePipeline {
	e.mu.RLock()
	if pipeline, exists := e.pipelines[name]; exists {
		e.mu.RUnlock()
		return pipeline
	}
	e.mu.RUnlock()

	// Auto layout (nil) from the shader bindings.
	pipeline := e.device.CreateComputePipelineSimple(nil, shader, "main")

	e.mu.Lock()
	e.pipelines[name] = pipeline
	e.mu.Unlock()

	return pipeline
}

// createBuffer creates a GPU buffer holding data.
func (e *Executor) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data))

	buffer := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// readBuffer copies size bytes of srcBuffer back to CPU memory through a
// pooled staging buffer.
func (e *Executor) readBuffer(srcBuffer *wgpu.Buffer, size uint64) ([]byte, error) {
	stagingBuffer := e.staging.Acquire(size)
	defer e.staging.Release(stagingBuffer, size)

	encoder := e.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(srcBuffer, 0, stagingBuffer, 0, size)
	cmdBuffer := encoder.Finish(nil)
	e.queue.Submit(cmdBuffer)

	err := stagingBuffer.MapAsync(e.device, wgpu.MapModeRead, 0, size)
	if err != nil {
		return nil, fmt.Errorf("failed to map staging buffer: %w", err)
	}

	mappedPtr := stagingBuffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)

	stagingBuffer.Unmap()

	return result, nil
}

// runKernel uploads the elements, dispatches one thread per work item and
// returns the packed RGBA8 pixels.
func (e *Executor) runKernel(ctx context.Context, name, code string, p observer.Params, data []float32) ([]byte, error) {
	shader := e.compileShader(name, code)
	pipeline := e.getOrCreatePipeline(name, shader)

	input := float32Bytes(data)
	bufferData := e.createBuffer(input, wgpu.BufferUsageStorage)
	defer bufferData.Release()

	// Storage buffers start zeroed, so unpainted pixels stay transparent.
	//nolint:gosec // G115: Pixels() is non-negative
	outSize := uint64(4 * p.Size.Pixels())
	bufferPixels := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
		Size:  outSize,
	})
	defer bufferPixels.Release()

	bufferParams := e.createBuffer(encodeParams(p, len(data)), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := e.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferData, 0, uint64(len(input))),
		wgpu.BufferBindingEntry(1, bufferPixels, 0, outSize),
		wgpu.BufferBindingEntry(2, bufferParams, 0, paramsSize),
	})
	defer bindGroup.Release()

	encoder := e.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)
	x, y := workgroupGrid(p.WorkItems)
	computePass.DispatchWorkgroups(x, y, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	e.queue.Submit(cmdBuffer)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.readBuffer(bufferPixels, outSize)
}
