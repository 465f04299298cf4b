package filters

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
)

// Kernel3 is a 3x3 convolution kernel in row-major order, rows top to bottom.
// Index 4 is the centre tap.
type Kernel3 [9]float32

// Sum returns the sum of all taps.
func (k Kernel3) Sum() (s float32) {
	for _, w := range k {
		s += w
	}
	return s
}

// SharpenKernel is the centre-weighted high-pass kernel used by [Sharpen]. Its taps sum to 1
// so flat regions are preserved.
var SharpenKernel = Kernel3{
	-1, -1, -1,
	-1, 9, -1,
	-1, -1, -1,
}

// EmbossKernel returns the relief kernel for a light direction given in image
// coordinates (x right, y down). Neighbour (kx,ky) is weighted by dot((kx,ky), dir),
// the centre by 0. The length of dir scales the relief strength.
//
// The default direction (1,1) yields
//
//	-2 -1  0
//	-1  0  1
//	 0  1  2
func EmbossKernel(dir ms2.Vec) (k Kernel3) {
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			if kx == 0 && ky == 0 {
				continue
			}
			k[(ky+1)*3+kx+1] = ms2.Dot(ms2.Vec{X: float32(kx), Y: float32(ky)}, dir)
		}
	}
	return k
}

// GaussianKernel returns the 1D Gaussian kernel of 2*radius+1 taps,
// k[i] = exp(-(i-radius)²/(2σ²)) normalized so the taps sum to 1.
// The outer product of two such kernels is the normalized 2D Gaussian, so a
// horizontal pass followed by a vertical pass equals the 2D convolution.
// radius 0 returns the identity kernel [1]. A sigma so small that 2σ² underflows
// yields the delta kernel, the limit of the Gaussian as σ goes to 0.
func GaussianKernel(radius int, sigma float32) []float32 {
	if radius <= 0 {
		return []float32{1}
	}
	kernel := make([]float32, 2*radius+1)
	twoSigmaSq := 2 * sigma * sigma
	if !(twoSigmaSq > 0) {
		kernel[radius] = 1
		return kernel
	}
	var sum float32
	for i := range kernel {
		x := float32(i - radius)
		kernel[i] = math32.Exp(-(x * x) / twoSigmaSq)
		sum += kernel[i]
	}
	inv := 1 / sum
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

type kernelKey struct {
	radius int
	sigma  float32
}

// kernelCache caches Gaussian kernels. Cached kernels are shared and must not be modified.
type kernelCache struct {
	mu     sync.RWMutex
	cache  map[kernelKey][]float32
	maxLen int
}

var gaussianCache = &kernelCache{cache: make(map[kernelKey][]float32), maxLen: 64}

func (c *kernelCache) get(radius int, sigma float32) []float32 {
	key := kernelKey{radius: radius, sigma: sigma}
	c.mu.RLock()
	kernel, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return kernel
	}
	kernel = GaussianKernel(radius, sigma)
	c.mu.Lock()
	if len(c.cache) >= c.maxLen {
		// Drop half the entries; kernels are cheap to rebuild.
		n := 0
		for k := range c.cache {
			delete(c.cache, k)
			n++
			if n >= c.maxLen/2 {
				break
			}
		}
	}
	c.cache[key] = kernel
	c.mu.Unlock()
	return kernel
}

// clampUint8 rounds v to the nearest integer and saturates it to [0,255].
func clampUint8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
