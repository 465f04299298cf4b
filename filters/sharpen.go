package filters

import (
	"github.com/soypat/pixfx"
	"github.com/soypat/pixfx/internal/lanes"
)

// Sharpen convolves every RGB channel with [SharpenKernel]. Alpha is unchanged.
type Sharpen struct{}

var _ pixfx.Filter = (*Sharpen)(nil)

func NewSharpen() *Sharpen { return &Sharpen{} }

// Apply implements [pixfx.Filter].
func (s *Sharpen) Apply(img pixfx.ImageBuffered, mode pixfx.ExecMode) error {
	if err := checkMode(mode); err != nil {
		return err
	}
	buf, dims, err := pixfx.ValidateInPlace(img)
	if err != nil {
		return err
	}
	convolve3(buf, dims, mode, rgbStencil{k: SharpenKernel})
	logApplied(KindSharpen.String(), dims, mode)
	return nil
}

// Controls implements [pixfx.Filter]. Sharpen has no adjustable parameters.
func (s *Sharpen) Controls() []pixfx.Control { return nil }

// rgbStencil convolves R, G and B independently with k.
type rgbStencil struct {
	k Kernel3
}

func (st rgbStencil) pixel(dst, src []byte, w *window) {
	var r, g, b float32
	for i, wt := range st.k {
		p := w[i]
		r += wt * float32(src[p])
		g += wt * float32(src[p+1])
		b += wt * float32(src[p+2])
	}
	dst[0], dst[1], dst[2] = clampUint8(r), clampUint8(g), clampUint8(b)
	dst[3] = src[w[4]+3]
}

func (st rgbStencil) block(dst, src []byte, w *window, n int) {
	var r, g, b [lanes.Width256]float32
	for i, wt := range st.k {
		p := w[i]
		for l := 0; l < n; l++ {
			q := p + 4*l
			r[l] += wt * float32(src[q])
			g[l] += wt * float32(src[q+1])
			b[l] += wt * float32(src[q+2])
		}
	}
	a := w[4] + 3
	for l := 0; l < n; l++ {
		px := dst[4*l : 4*l+4 : 4*l+4]
		px[0], px[1], px[2] = clampUint8(r[l]), clampUint8(g[l]), clampUint8(b[l])
		px[3] = src[a+4*l]
	}
}
