package filters

import (
	"github.com/cogentcore/webgpu/wgpu"
)

const negativeTransform = `
fn transform(c: vec4<f32>) -> vec4<f32> {
    return vec4<f32>(1.0 - c.r, 1.0 - c.g, 1.0 - c.b, c.a);
}
`

// NegativeFilterGPU inverts image colors using GPU compute.
type NegativeFilterGPU struct {
	PointFilterGPU
}

// NewNegativeGPU creates a GPU-accelerated color inversion filter.
// Call Cleanup to release its GPU resources.
func NewNegativeGPU(device *wgpu.Device, queue *wgpu.Queue) (*NegativeFilterGPU, error) {
	f := &NegativeFilterGPU{}
	if err := f.Init(device, queue, KindNegative.String(), negativeTransform); err != nil {
		return nil, err
	}
	return f, nil
}
