package filters

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/soypat/pixfx"
)

//go:embed point-filter-gpu.wgsl
var baseShaderWGSL string

// PointFilterGPU applies a per-pixel GPU compute shader transformation in place.
// Embed this in concrete filter implementations and provide a transform function in WGSL.
// It performs the same validation as the CPU filters and only writes the image
// once the GPU readback has completed.
type PointFilterGPU struct {
	name     string
	mu       sync.Mutex
	gpu      gpuResources
	uniforms [4]float32 // width, height, padding to 16 bytes.
	inited   bool
}

type gpuResources struct {
	device        *wgpu.Device
	queue         *wgpu.Queue
	shaderModule  *wgpu.ShaderModule
	pipeline      *wgpu.ComputePipeline
	bindLayout    *wgpu.BindGroupLayout
	uniformBuffer *wgpu.Buffer
	inputBuffer   *wgpu.Buffer
	outputBuffer  *wgpu.Buffer
	width, height int
	staging       []byte // Tightly packed upload/readback rows.
}

var errGPUNotInitialized = errors.New("gpu filter not initialized")

// Init initializes GPU resources with the given transform WGSL code.
// transformCode should define: fn transform(c: vec4<f32>) -> vec4<f32>
func (f *PointFilterGPU) Init(device *wgpu.Device, queue *wgpu.Queue, name, transformCode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.name = name
	// Combine base shader with transform function
	fullShader := strings.Replace(baseShaderWGSL, "// TRANSFORM_PLACEHOLDER", transformCode, 1)

	f.gpu.device = device
	f.gpu.queue = queue

	var err error
	f.gpu.shaderModule, err = device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: fullShader},
	})
	if err != nil {
		return fmt.Errorf("shader module: %w", err)
	}

	f.gpu.pipeline, err = device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     f.gpu.shaderModule,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return fmt.Errorf("compute pipeline: %w", err)
	}

	f.gpu.bindLayout = f.gpu.pipeline.GetBindGroupLayout(0)

	f.gpu.uniformBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:  16, // width, height, padding
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("uniform buffer: %w", err)
	}

	f.inited = true
	return nil
}

var _ pixfx.Filter = (*PointFilterGPU)(nil)

// Apply implements [pixfx.Filter]. The work always runs on the GPU; mode is only validated.
func (f *PointFilterGPU) Apply(img pixfx.ImageBuffered, mode pixfx.ExecMode) error {
	if err := checkMode(mode); err != nil {
		return err
	}
	return f.Process(img)
}

// Process applies the GPU filter to img in place.
// On error the image is left untouched.
func (f *PointFilterGPU) Process(img pixfx.ImageBuffered) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.inited {
		return errGPUNotInitialized
	}
	buf, dims, err := pixfx.ValidateInPlace(img)
	if err != nil {
		return err
	}
	w, h := dims.Width, dims.Height
	if err := f.ensureBuffers(w, h); err != nil {
		return err
	}

	// Upload image rows without stride padding.
	rowBytes := dims.SizeRow()
	for y := 0; y < h; y++ {
		copy(f.gpu.staging[y*rowBytes:(y+1)*rowBytes], buf[y*dims.Stride:])
	}
	f.gpu.queue.WriteBuffer(f.gpu.inputBuffer, 0, f.gpu.staging)

	f.uniforms[0], f.uniforms[1] = float32(w), float32(h)
	f.gpu.queue.WriteBuffer(f.gpu.uniformBuffer, 0, wgpu.ToBytes(f.uniforms[:]))

	if err := f.dispatch(w, h); err != nil {
		return err
	}
	if err := f.readback(); err != nil {
		return err
	}

	for y := 0; y < h; y++ {
		copy(buf[y*dims.Stride:y*dims.Stride+rowBytes], f.gpu.staging[y*rowBytes:])
	}
	pixfx.Logger().Debug("filter applied", "filter", f.name, "mode", "gpu", "width", w, "height", h)
	return nil
}

func (f *PointFilterGPU) ensureBuffers(w, h int) error {
	if w == f.gpu.width && h == f.gpu.height {
		return nil
	}

	f.releaseImageBuffers()

	size := uint64(w * h * 4)
	var err error

	f.gpu.inputBuffer, err = f.gpu.device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:  size,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("input buffer: %w", err)
	}

	f.gpu.outputBuffer, err = f.gpu.device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:  size,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("output buffer: %w", err)
	}

	f.gpu.staging = make([]byte, size)
	f.gpu.width, f.gpu.height = w, h
	return nil
}

func (f *PointFilterGPU) dispatch(w, h int) error {
	bindGroup, err := f.gpu.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: f.gpu.bindLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: f.gpu.uniformBuffer, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: f.gpu.inputBuffer, Size: wgpu.WholeSize},
			{Binding: 2, Buffer: f.gpu.outputBuffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("bind group: %w", err)
	}
	defer bindGroup.Release()

	encoder, err := f.gpu.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(f.gpu.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(uint32((w+7)/8), uint32((h+7)/8), 1)
	pass.End()
	pass.Release()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish: %w", err)
	}

	f.gpu.queue.Submit(cmd)
	return nil
}

func (f *PointFilterGPU) readback() error {
	size := uint64(f.gpu.width * f.gpu.height * 4)

	staging, err := f.gpu.device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("staging buffer: %w", err)
	}
	defer staging.Release()

	encoder, err := f.gpu.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("command encoder: %w", err)
	}
	encoder.CopyBufferToBuffer(f.gpu.outputBuffer, 0, staging, 0, size)
	cmd, err := encoder.Finish(nil)
	encoder.Release()
	if err != nil {
		return fmt.Errorf("finish: %w", err)
	}

	f.gpu.queue.Submit(cmd)
	f.gpu.device.Poll(true, nil)

	done := make(chan error, 1)
	staging.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			done <- fmt.Errorf("map failed: %v", status)
			return
		}
		done <- nil
	})

	f.gpu.device.Poll(true, nil)
	if err := <-done; err != nil {
		return err
	}

	copy(f.gpu.staging, staging.GetMappedRange(0, uint(size)))
	staging.Unmap()
	return nil
}

func (f *PointFilterGPU) releaseImageBuffers() {
	f.gpu.width, f.gpu.height = 0, 0
	if f.gpu.inputBuffer != nil {
		f.gpu.inputBuffer.Release()
		f.gpu.inputBuffer = nil
	}
	if f.gpu.outputBuffer != nil {
		f.gpu.outputBuffer.Release()
		f.gpu.outputBuffer = nil
	}
}

// Cleanup releases all GPU resources.
func (f *PointFilterGPU) Cleanup() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.releaseImageBuffers()
	if f.gpu.uniformBuffer != nil {
		f.gpu.uniformBuffer.Release()
	}
	if f.gpu.bindLayout != nil {
		f.gpu.bindLayout.Release()
	}
	if f.gpu.pipeline != nil {
		f.gpu.pipeline.Release()
	}
	if f.gpu.shaderModule != nil {
		f.gpu.shaderModule.Release()
	}
	f.inited = false
}

// Controls returns nil - concrete implementations should override.
func (f *PointFilterGPU) Controls() []pixfx.Control { return nil }
