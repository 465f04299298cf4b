package filters

import (
	"fmt"

	"github.com/soypat/pixfx"
	"github.com/soypat/pixfx/internal/lanes"
)

// PointFunc processes a contiguous run of RGBA8888 pixels.
// dst and src hold the same number of pixels and may alias (in-place operation).
// The function should iterate through pixels: for i := 0; i < len(src); i += 4 { ... }
type PointFunc func(dst, src []byte)

// PointFilter applies a per-pixel transformation using a callback function.
// It handles the validation, row iteration and execution strategy common to all per-pixel filters.
type PointFilter struct {
	Name string
	// Fn processes runs of any length, one pixel at a time. Required.
	Fn PointFunc
	// Block processes runs of at most [lanes.Width256] pixels as a whole block,
	// loading every pixel before storing any. Used by [pixfx.ExecSIMD]; falls back to Fn when nil.
	Block PointFunc
	Ctrls []pixfx.Control // User-defined controls for this filter.
}

var _ pixfx.Filter = (*PointFilter)(nil)

// Controls implements [pixfx.Filter].
func (f *PointFilter) Controls() []pixfx.Control {
	return f.Ctrls
}

// Apply implements [pixfx.Filter].
func (f *PointFilter) Apply(img pixfx.ImageBuffered, mode pixfx.ExecMode) error {
	if f.Fn == nil {
		return errNilPointFunc
	}
	if err := checkMode(mode); err != nil {
		return err
	}
	buf, dims, err := pixfx.ValidateInPlace(img)
	if err != nil {
		return err
	}
	rowBytes := dims.SizeRow()
	switch mode {
	case pixfx.ExecSIMD:
		block := f.Block
		if block == nil {
			block = f.Fn
		}
		bw := 4 * lanes.Width()
		lanes.Bands(dims.Height, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				row := buf[y*dims.Stride : y*dims.Stride+rowBytes]
				full := len(row) - len(row)%bw
				for i := 0; i < full; i += bw {
					blk := row[i : i+bw]
					block(blk, blk)
				}
				if full < len(row) {
					f.Fn(row[full:], row[full:])
				}
			}
		})
	default:
		for y := 0; y < dims.Height; y++ {
			row := buf[y*dims.Stride : y*dims.Stride+rowBytes]
			f.Fn(row, row)
		}
	}
	logApplied(f.Name, dims, mode)
	return nil
}

func checkMode(mode pixfx.ExecMode) error {
	if mode != pixfx.ExecScalar && mode != pixfx.ExecSIMD {
		return fmt.Errorf("%w: %v", pixfx.ErrInvalidParameter, mode)
	}
	return nil
}

func logApplied(name string, dims pixfx.Dims, mode pixfx.ExecMode) {
	pixfx.Logger().Debug("filter applied", "filter", name, "mode", mode,
		"lanes", lanes.Width(), "width", dims.Width, "height", dims.Height)
}

var errNilPointFunc = fmt.Errorf("%w: nil PointFunc", pixfx.ErrInvalidParameter)
