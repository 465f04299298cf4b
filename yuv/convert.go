package yuv

import (
	"fmt"

	"github.com/soypat/pixfx"
	"github.com/soypat/pixfx/internal/lanes"
)

// ToRGBA converts frame to RGBA8888 into dst using ITU-R BT.601 limited range
// coefficients in 8-bit fixed point:
//
//	C = Y-16, D = U-128, E = V-128
//	R = (298C + 409E + 128) >> 8
//	G = (298C - 100D - 208E + 128) >> 8
//	B = (298C + 516D + 128) >> 8
//
// each clamped to [0,255]. Alpha is set to 255. dst must have the frame's size.
// On error dst is left untouched.
func ToRGBA(frame Frame, dst *pixfx.Buffer, mode pixfx.ExecMode) error {
	if mode != pixfx.ExecScalar && mode != pixfx.ExecSIMD {
		return fmt.Errorf("%w: %v", pixfx.ErrInvalidParameter, mode)
	}
	if err := frame.Validate(); err != nil {
		return err
	}
	if dst == nil {
		return fmt.Errorf("%w: nil destination", pixfx.ErrBufferTooSmall)
	}
	if dst.Width != frame.Width || dst.Height != frame.Height {
		return fmt.Errorf("%w: destination %dx%d, frame %dx%d", pixfx.ErrInvalidDimensions,
			dst.Width, dst.Height, frame.Width, frame.Height)
	}
	buf, dims, err := pixfx.ValidateInPlace(dst)
	if err != nil {
		return err
	}
	c := converter{frame: frame, sub: frame.Subsampling.normalized(), dst: buf, stride: dims.Stride}
	if mode == pixfx.ExecSIMD {
		bw := lanes.Width()
		lanes.Bands(frame.Height, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				full := frame.Width - frame.Width%bw
				for x := 0; x < full; x += bw {
					c.block(x, y, bw)
				}
				c.row(full, frame.Width, y)
			}
		})
	} else {
		for y := 0; y < frame.Height; y++ {
			c.row(0, frame.Width, y)
		}
	}
	pixfx.Logger().Debug("yuv converted", "mode", mode, "lanes", lanes.Width(),
		"width", frame.Width, "height", frame.Height, "subsampling", c.sub)
	return nil
}

type converter struct {
	frame  Frame
	sub    Subsampling
	dst    []byte
	stride int
}

// row converts pixels [x0,x1) of row y one at a time.
func (c *converter) row(x0, x1, y int) {
	f := &c.frame
	yRow := y * f.Y.RowStride
	cy := y / c.sub.Y
	uRow := cy * f.U.RowStride
	vRow := cy * f.V.RowStride
	out := c.dst[y*c.stride:]
	for x := x0; x < x1; x++ {
		cx := x / c.sub.X
		r, g, b := bt601(
			int32(f.Y.Data[yRow+x*f.Y.PixelStride]),
			int32(f.U.Data[uRow+cx*f.U.PixelStride]),
			int32(f.V.Data[vRow+cx*f.V.PixelStride]),
		)
		px := out[4*x : 4*x+4 : 4*x+4]
		px[0], px[1], px[2], px[3] = r, g, b, 255
	}
}

// block converts n <= lanes.Width256 pixels starting at x0: luma and the
// chroma it maps to are gathered into lanes, transformed, then stored.
func (c *converter) block(x0, y, n int) {
	f := &c.frame
	var ys, us, vs [lanes.Width256]int32
	yRow := y*f.Y.RowStride + x0*f.Y.PixelStride
	cy := y / c.sub.Y
	uRow := cy * f.U.RowStride
	vRow := cy * f.V.RowStride
	for l := 0; l < n; l++ {
		cx := (x0 + l) / c.sub.X
		ys[l] = int32(f.Y.Data[yRow+l*f.Y.PixelStride])
		us[l] = int32(f.U.Data[uRow+cx*f.U.PixelStride])
		vs[l] = int32(f.V.Data[vRow+cx*f.V.PixelStride])
	}
	var rs, gs, bs [lanes.Width256]uint8
	for l := 0; l < n; l++ {
		rs[l], gs[l], bs[l] = bt601(ys[l], us[l], vs[l])
	}
	out := c.dst[y*c.stride+4*x0 : y*c.stride+4*(x0+n)]
	for l := 0; l < n; l++ {
		px := out[4*l : 4*l+4 : 4*l+4]
		px[0], px[1], px[2], px[3] = rs[l], gs[l], bs[l], 255
	}
}

func bt601(y, u, v int32) (r, g, b uint8) {
	c := 298 * (y - 16)
	d := u - 128
	e := v - 128
	return clamp255((c + 409*e + 128) >> 8),
		clamp255((c - 100*d - 208*e + 128) >> 8),
		clamp255((c + 516*d + 128) >> 8)
}

func clamp255(v int32) uint8 {
	if v < 0 {
		return 0
	} else if v > 255 {
		return 255
	}
	return uint8(v)
}
