package filters

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/soypat/pixfx"
)

// ErrNoGPU is returned by OpenGPU when no WebGPU adapter or device is available.
var ErrNoGPU = errors.New("webgpu not available")

// OpenGPU requests a low power WebGPU adapter and returns its device and queue.
func OpenGPU() (*wgpu.Device, *wgpu.Queue, error) {
	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return nil, nil, ErrNoGPU
	}
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceLowPower,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: adapter: %w", ErrNoGPU, err)
	}
	device, err := adapter.RequestDevice(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: device: %w", ErrNoGPU, err)
	}
	pixfx.Logger().Info("gpu device ready")
	return device, device.GetQueue(), nil
}

// GPUFilter is a filter holding GPU resources that must be released with Cleanup.
type GPUFilter interface {
	pixfx.Filter
	Cleanup()
}

// NewGPU returns the GPU implementation of a point filter kind.
// Only [KindGrayscale] and [KindNegative] have GPU implementations.
func NewGPU(k Kind, device *wgpu.Device, queue *wgpu.Queue) (GPUFilter, error) {
	var (
		f   GPUFilter
		err error
	)
	switch k {
	case KindGrayscale:
		f, err = NewGrayscaleGPU(device, queue)
	case KindNegative:
		f, err = NewNegativeGPU(device, queue)
	default:
		return nil, fmt.Errorf("%w: no gpu implementation of %v", pixfx.ErrInvalidParameter, k)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}
