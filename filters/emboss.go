package filters

import (
	"fmt"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/pixfx"
	"github.com/soypat/pixfx/internal/lanes"
)

// embossBias lifts the relief so flat regions land on mid gray.
const embossBias = 128

// Emboss produces a gray relief image: the luminance of the 3x3 neighbourhood is
// convolved with [EmbossKernel] of Direction, offset by 128 and clamped.
// R, G and B receive the result, alpha is unchanged.
type Emboss struct {
	// Direction of the light in image coordinates. Its length scales the relief.
	Direction ms2.Vec
	ctrls     []pixfx.Control
}

var _ pixfx.Filter = (*Emboss)(nil)

// NewEmboss returns an emboss filter lit from the top left, direction (1,1).
func NewEmboss() *Emboss {
	f := &Emboss{Direction: ms2.Vec{X: 1, Y: 1}}
	f.ctrls = []pixfx.Control{
		&pixfx.ControlVec{
			Name:        "Light Direction",
			Description: "Direction the relief is lit from; length scales strength",
			Value:       f.Direction,
			OnChange: func(v ms2.Vec) error {
				f.Direction = v
				return nil
			},
		},
	}
	return f
}

// Apply implements [pixfx.Filter].
func (f *Emboss) Apply(img pixfx.ImageBuffered, mode pixfx.ExecMode) error {
	if err := checkMode(mode); err != nil {
		return err
	}
	if f.Direction == (ms2.Vec{}) {
		return fmt.Errorf("%w: zero emboss direction", pixfx.ErrInvalidParameter)
	}
	buf, dims, err := pixfx.ValidateInPlace(img)
	if err != nil {
		return err
	}
	convolve3(buf, dims, mode, lumaStencil{k: EmbossKernel(f.Direction), bias: embossBias})
	logApplied(KindEmboss.String(), dims, mode)
	return nil
}

// Controls implements [pixfx.Filter].
func (f *Emboss) Controls() []pixfx.Control { return f.ctrls }

// lumaStencil convolves the pixel luminance with k and writes k*luma+bias to R, G and B.
type lumaStencil struct {
	k    Kernel3
	bias float32
}

func (st lumaStencil) pixel(dst, src []byte, w *window) {
	var s float32
	for i, wt := range st.k {
		p := w[i]
		s += wt * float32(luma(src[p], src[p+1], src[p+2]))
	}
	v := clampUint8(s + st.bias)
	dst[0], dst[1], dst[2] = v, v, v
	dst[3] = src[w[4]+3]
}

func (st lumaStencil) block(dst, src []byte, w *window, n int) {
	var s [lanes.Width256]float32
	for i, wt := range st.k {
		p := w[i]
		for l := 0; l < n; l++ {
			q := p + 4*l
			s[l] += wt * float32(luma(src[q], src[q+1], src[q+2]))
		}
	}
	a := w[4] + 3
	for l := 0; l < n; l++ {
		v := clampUint8(s[l] + st.bias)
		px := dst[4*l : 4*l+4 : 4*l+4]
		px[0], px[1], px[2] = v, v, v
		px[3] = src[a+4*l]
	}
}
