package filters

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/pixfx"
	"github.com/soypat/pixfx/internal/lanes"
)

// EdgeOperator selects the gradient kernels of [EdgeDetect].
type EdgeOperator uint8

const (
	OperatorSobel EdgeOperator = iota
	OperatorPrewitt
	OperatorScharr
)

func (op EdgeOperator) String() string {
	switch op {
	case OperatorSobel:
		return "Sobel"
	case OperatorPrewitt:
		return "Prewitt"
	case OperatorScharr:
		return "Scharr"
	default:
		return fmt.Sprintf("EdgeOperator(%d)", uint8(op))
	}
}

// Kernels returns the horizontal and vertical gradient kernels of op.
// gy is gx transposed.
func (op EdgeOperator) Kernels() (gx, gy Kernel3, ok bool) {
	var side, mid float32
	switch op {
	case OperatorSobel:
		side, mid = 1, 2
	case OperatorPrewitt:
		side, mid = 1, 1
	case OperatorScharr:
		side, mid = 3, 10
	default:
		return gx, gy, false
	}
	gx = Kernel3{
		-side, 0, side,
		-mid, 0, mid,
		-side, 0, side,
	}
	gy = Kernel3{
		-side, -mid, -side,
		0, 0, 0,
		side, mid, side,
	}
	return gx, gy, true
}

// EdgeDetect writes the per channel gradient magnitude sqrt(gx²+gy²), clamped to
// [0,255], to R, G and B. Alpha is unchanged. On typical photographs the result is close to gray.
type EdgeDetect struct {
	Operator EdgeOperator
	ctrls    []pixfx.Control
}

var _ pixfx.Filter = (*EdgeDetect)(nil)

func NewEdgeDetect(op EdgeOperator) *EdgeDetect {
	f := &EdgeDetect{Operator: op}
	f.ctrls = []pixfx.Control{
		&pixfx.ControlEnum[EdgeOperator]{
			Name:        "Operator",
			Description: "Gradient kernel used to find edges",
			Value:       op,
			ValidValues: []EdgeOperator{OperatorSobel, OperatorPrewitt, OperatorScharr},
			OnChange: func(op EdgeOperator) error {
				f.Operator = op
				return nil
			},
		},
	}
	return f
}

// Apply implements [pixfx.Filter].
func (f *EdgeDetect) Apply(img pixfx.ImageBuffered, mode pixfx.ExecMode) error {
	if err := checkMode(mode); err != nil {
		return err
	}
	gx, gy, ok := f.Operator.Kernels()
	if !ok {
		return fmt.Errorf("%w: %v", pixfx.ErrInvalidParameter, f.Operator)
	}
	buf, dims, err := pixfx.ValidateInPlace(img)
	if err != nil {
		return err
	}
	convolve3(buf, dims, mode, gradientStencil{gx: gx, gy: gy})
	logApplied(KindEdgeDetection.String(), dims, mode)
	return nil
}

// Controls implements [pixfx.Filter].
func (f *EdgeDetect) Controls() []pixfx.Control { return f.ctrls }

type gradientStencil struct {
	gx, gy Kernel3
}

func magnitude(x, y float32) uint8 {
	return clampUint8(math32.Sqrt(x*x + y*y))
}

func (st gradientStencil) pixel(dst, src []byte, w *window) {
	var xr, xg, xb, yr, yg, yb float32
	for i := range w {
		p := w[i]
		r, g, b := float32(src[p]), float32(src[p+1]), float32(src[p+2])
		wx, wy := st.gx[i], st.gy[i]
		xr += wx * r
		xg += wx * g
		xb += wx * b
		yr += wy * r
		yg += wy * g
		yb += wy * b
	}
	dst[0], dst[1], dst[2] = magnitude(xr, yr), magnitude(xg, yg), magnitude(xb, yb)
	dst[3] = src[w[4]+3]
}

func (st gradientStencil) block(dst, src []byte, w *window, n int) {
	var xr, xg, xb, yr, yg, yb [lanes.Width256]float32
	for i := range w {
		p := w[i]
		wx, wy := st.gx[i], st.gy[i]
		for l := 0; l < n; l++ {
			q := p + 4*l
			r, g, b := float32(src[q]), float32(src[q+1]), float32(src[q+2])
			xr[l] += wx * r
			xg[l] += wx * g
			xb[l] += wx * b
			yr[l] += wy * r
			yg[l] += wy * g
			yb[l] += wy * b
		}
	}
	a := w[4] + 3
	for l := 0; l < n; l++ {
		px := dst[4*l : 4*l+4 : 4*l+4]
		px[0], px[1], px[2] = magnitude(xr[l], yr[l]), magnitude(xg[l], yg[l]), magnitude(xb[l], yb[l])
		px[3] = src[a+4*l]
	}
}
