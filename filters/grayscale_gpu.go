package filters

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Same fixed point weights as the CPU luma, so results agree within one step.
const grayscaleTransform = `
fn transform(c: vec4<f32>) -> vec4<f32> {
    let gray = (77.0 * c.r + 150.0 * c.g + 29.0 * c.b) / 256.0;
    return vec4<f32>(gray, gray, gray, c.a);
}
`

// GrayscaleFilterGPU converts images to grayscale using GPU compute.
type GrayscaleFilterGPU struct {
	PointFilterGPU
}

// NewGrayscaleGPU creates a GPU-accelerated grayscale filter.
// Call Cleanup to release its GPU resources.
func NewGrayscaleGPU(device *wgpu.Device, queue *wgpu.Queue) (*GrayscaleFilterGPU, error) {
	f := &GrayscaleFilterGPU{}
	if err := f.Init(device, queue, KindGrayscale.String(), grayscaleTransform); err != nil {
		return nil, err
	}
	return f, nil
}
