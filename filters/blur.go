package filters

import (
	"fmt"

	"github.com/soypat/pixfx"
	"github.com/soypat/pixfx/internal/lanes"
)

const (
	DefaultBlurRadius = 3
	DefaultBlurSigma  = 5
	// MaxBlurRadius bounds the kernel size.
	MaxBlurRadius = 255
)

// Blur applies a separable Gaussian blur: a horizontal pass over each row into a
// float32 plane followed by a vertical pass back into the image. Borders are clamped to the edge.
// Radius 0 leaves the image unchanged. Alpha is unchanged.
type Blur struct {
	// Radius in pixels; the kernel has 2*Radius+1 taps. Must be in [0, MaxBlurRadius].
	Radius int
	// Sigma is the standard deviation of the Gaussian, must be > 0.
	// Larger sigma flattens the weight distribution over the radius.
	Sigma float32
	ctrls []pixfx.Control
}

var _ pixfx.Filter = (*Blur)(nil)

func NewBlur(radius int, sigma float32) *Blur {
	f := &Blur{Radius: radius, Sigma: sigma}
	f.ctrls = []pixfx.Control{
		&pixfx.ControlOrdered[int]{
			Name:        "Radius",
			Description: "Kernel radius in pixels",
			Value:       radius,
			Min:         0,
			Max:         MaxBlurRadius,
			Step:        1,
			OnChange: func(r int) error {
				f.Radius = r
				return nil
			},
		},
		&pixfx.ControlOrdered[float32]{
			Name:        "Sigma",
			Description: "Standard deviation of the Gaussian",
			Value:       sigma,
			Min:         0.1,
			Max:         100,
			Step:        0.1,
			OnChange: func(s float32) error {
				f.Sigma = s
				return nil
			},
		},
	}
	return f
}

// Controls implements [pixfx.Filter].
func (f *Blur) Controls() []pixfx.Control { return f.ctrls }

// Apply implements [pixfx.Filter].
func (f *Blur) Apply(img pixfx.ImageBuffered, mode pixfx.ExecMode) error {
	if err := checkMode(mode); err != nil {
		return err
	}
	if f.Radius < 0 || f.Radius > MaxBlurRadius {
		return fmt.Errorf("%w: blur radius %d outside [0,%d]", pixfx.ErrInvalidParameter, f.Radius, MaxBlurRadius)
	} else if !(f.Sigma > 0) {
		return fmt.Errorf("%w: blur sigma %v must be positive", pixfx.ErrInvalidParameter, f.Sigma)
	}
	buf, dims, err := pixfx.ValidateInPlace(img)
	if err != nil {
		return err
	}
	if f.Radius == 0 {
		return nil
	}
	kernel := gaussianCache.get(f.Radius, f.Sigma)
	// RGB only, alpha never leaves buf.
	plane := getFloats(3 * dims.Width * dims.Height)
	defer putFloats(plane)

	if mode == pixfx.ExecSIMD {
		bw := lanes.Width()
		// The vertical pass reads rows written by other bands: Bands joins before returning.
		lanes.Bands(dims.Height, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				for x := 0; x < dims.Width; x += bw {
					blurRowBlock(plane, buf, dims, kernel, x, y, min(bw, dims.Width-x))
				}
			}
		})
		lanes.Bands(dims.Height, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				for x := 0; x < dims.Width; x += bw {
					blurColBlock(buf, plane, dims, kernel, x, y, min(bw, dims.Width-x))
				}
			}
		})
	} else {
		for y := 0; y < dims.Height; y++ {
			for x := 0; x < dims.Width; x++ {
				blurRowPixel(plane, buf, dims, kernel, x, y)
			}
		}
		for y := 0; y < dims.Height; y++ {
			for x := 0; x < dims.Width; x++ {
				blurColPixel(buf, plane, dims, kernel, x, y)
			}
		}
	}
	logApplied(KindBlur.String(), dims, mode)
	return nil
}

func blurRowPixel(plane []float32, src []byte, dims pixfx.Dims, kernel []float32, x, y int) {
	radius := len(kernel) / 2
	row := y * dims.Stride
	var r, g, b float32
	for k, wt := range kernel {
		p := row + 4*clampInt(x+k-radius, 0, dims.Width-1)
		r += wt * float32(src[p])
		g += wt * float32(src[p+1])
		b += wt * float32(src[p+2])
	}
	o := 3 * (y*dims.Width + x)
	plane[o], plane[o+1], plane[o+2] = r, g, b
}

func blurColPixel(dst []byte, plane []float32, dims pixfx.Dims, kernel []float32, x, y int) {
	radius := len(kernel) / 2
	var r, g, b float32
	for k, wt := range kernel {
		p := 3 * (clampInt(y+k-radius, 0, dims.Height-1)*dims.Width + x)
		r += wt * plane[p]
		g += wt * plane[p+1]
		b += wt * plane[p+2]
	}
	o := y*dims.Stride + 4*x
	dst[o], dst[o+1], dst[o+2] = clampUint8(r), clampUint8(g), clampUint8(b)
}

// blurRowBlock is blurRowPixel over n <= lanes.Width256 consecutive pixels,
// one kernel tap at a time across all lanes.
func blurRowBlock(plane []float32, src []byte, dims pixfx.Dims, kernel []float32, x0, y, n int) {
	radius := len(kernel) / 2
	row := y * dims.Stride
	var r, g, b [lanes.Width256]float32
	for k, wt := range kernel {
		for l := 0; l < n; l++ {
			p := row + 4*clampInt(x0+l+k-radius, 0, dims.Width-1)
			r[l] += wt * float32(src[p])
			g[l] += wt * float32(src[p+1])
			b[l] += wt * float32(src[p+2])
		}
	}
	o := 3 * (y*dims.Width + x0)
	for l := 0; l < n; l++ {
		plane[o+3*l], plane[o+3*l+1], plane[o+3*l+2] = r[l], g[l], b[l]
	}
}

func blurColBlock(dst []byte, plane []float32, dims pixfx.Dims, kernel []float32, x0, y, n int) {
	radius := len(kernel) / 2
	var r, g, b [lanes.Width256]float32
	for k, wt := range kernel {
		p := 3 * (clampInt(y+k-radius, 0, dims.Height-1)*dims.Width + x0)
		for l := 0; l < n; l++ {
			q := p + 3*l
			r[l] += wt * plane[q]
			g[l] += wt * plane[q+1]
			b[l] += wt * plane[q+2]
		}
	}
	o := y*dims.Stride + 4*x0
	for l := 0; l < n; l++ {
		px := dst[o+4*l : o+4*l+3 : o+4*l+3]
		px[0], px[1], px[2] = clampUint8(r[l]), clampUint8(g[l]), clampUint8(b[l])
	}
}
