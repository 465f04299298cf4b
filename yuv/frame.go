// Package yuv converts planar and semi-planar YUV camera frames to RGBA8888.
package yuv

import (
	"fmt"
	"math"

	"github.com/soypat/pixfx"
)

// Plane is one channel of a YUV frame. Sample (col,row) of the plane lives at
// Data[row*RowStride + col*PixelStride]. Interleaved chroma (NV12/NV21) is expressed with
// PixelStride 2 and Data starting at the first sample of the channel.
type Plane struct {
	Data        []byte
	RowStride   int
	PixelStride int
}

// Subsampling is the size of the luma block covered by one chroma sample.
// The zero value means 4:2:0, a 2x2 block.
type Subsampling struct {
	X, Y int
}

var (
	Sub420 = Subsampling{X: 2, Y: 2}
	Sub422 = Subsampling{X: 2, Y: 1}
	Sub444 = Subsampling{X: 1, Y: 1}
)

func (s Subsampling) normalized() Subsampling {
	if s == (Subsampling{}) {
		return Sub420
	}
	return s
}

// Frame is a YUV image of Width x Height luma samples.
type Frame struct {
	Width, Height int
	Y, U, V       Plane
	Subsampling   Subsampling
}

// ChromaSize returns the number of chroma samples per row and rows of chroma,
// rounding up for odd sizes.
func (f Frame) ChromaSize() (cols, rows int) {
	s := f.Subsampling.normalized()
	if s.X <= 0 || s.Y <= 0 {
		return 0, 0
	}
	return (f.Width + s.X - 1) / s.X, (f.Height + s.Y - 1) / s.Y
}

// Validate checks that every plane addresses all the samples it is responsible for.
// Errors wrap, in order of precedence, [pixfx.ErrInvalidDimensions],
// [pixfx.ErrInvalidStride] and [pixfx.ErrPlaneSizeMismatch].
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: frame %dx%d", pixfx.ErrInvalidDimensions, f.Width, f.Height)
	}
	s := f.Subsampling.normalized()
	if s.X <= 0 || s.Y <= 0 {
		return fmt.Errorf("%w: subsampling %dx%d", pixfx.ErrInvalidStride, s.X, s.Y)
	}
	cw, ch := f.ChromaSize()
	planes := [3]struct {
		name       string
		p          Plane
		cols, rows int
	}{
		{"y", f.Y, f.Width, f.Height},
		{"u", f.U, cw, ch},
		{"v", f.V, cw, ch},
	}
	for _, pl := range planes {
		if err := pl.p.checkStrides(pl.cols, pl.rows); err != nil {
			return fmt.Errorf("%s plane: %w", pl.name, err)
		}
	}
	for _, pl := range planes {
		if need := pl.p.required(pl.cols, pl.rows); len(pl.p.Data) < need {
			return fmt.Errorf("%w: %s plane has %d bytes, need %d", pixfx.ErrPlaneSizeMismatch, pl.name, len(pl.p.Data), need)
		}
	}
	return nil
}

// checkStrides also guarantees [Plane.required] does not overflow int.
func (p Plane) checkStrides(cols, rows int) error {
	if p.PixelStride <= 0 || p.RowStride <= 0 {
		return fmt.Errorf("%w: row stride %d, pixel stride %d", pixfx.ErrInvalidStride, p.RowStride, p.PixelStride)
	}
	if p.PixelStride > (math.MaxInt-1)/max(cols-1, 1) {
		return fmt.Errorf("%w: pixel stride %d overflows over %d samples", pixfx.ErrInvalidStride, p.PixelStride, cols)
	}
	extent := (cols-1)*p.PixelStride + 1
	if p.RowStride < extent {
		return fmt.Errorf("%w: row stride %d smaller than row extent %d", pixfx.ErrInvalidStride, p.RowStride, extent)
	}
	if p.RowStride > (math.MaxInt-extent)/max(rows-1, 1) {
		return fmt.Errorf("%w: row stride %d overflows over %d rows", pixfx.ErrInvalidStride, p.RowStride, rows)
	}
	return nil
}

// required returns the minimum length of Data to address cols x rows samples.
// The last row need not be padded to RowStride.
func (p Plane) required(cols, rows int) int {
	return (rows-1)*p.RowStride + (cols-1)*p.PixelStride + 1
}
