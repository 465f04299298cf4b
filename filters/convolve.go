package filters

import (
	"sync"

	"github.com/soypat/pixfx"
	"github.com/soypat/pixfx/internal/lanes"
)

// window holds the byte offsets of the 3x3 neighbourhood of a pixel, row-major.
// Out of range coordinates are clamped to the nearest edge pixel. The same
// clamp-to-edge policy is used by every convolution in this package.
type window [9]int

func windowAt(dims pixfx.Dims, x, y int) (w window) {
	for ky := -1; ky <= 1; ky++ {
		row := clampInt(y+ky, 0, dims.Height-1) * dims.Stride
		for kx := -1; kx <= 1; kx++ {
			w[(ky+1)*3+kx+1] = row + 4*clampInt(x+kx, 0, dims.Width-1)
		}
	}
	return w
}

// stencil3 computes 3x3 neighbourhood filters.
//
// pixel writes the 4 bytes of dst from the window w over src.
// block writes n <= [lanes.Width256] consecutive pixels whose windows are w shifted by 4*i bytes;
// it is only called where no clamping is needed. Both must perform identical per-pixel arithmetic.
type stencil3 interface {
	pixel(dst, src []byte, w *window)
	block(dst, src []byte, w *window, n int)
}

// convolve3 runs st over the whole buffer. Reads come from a snapshot of buf so
// writes never feed back into neighbouring pixels.
func convolve3(buf []byte, dims pixfx.Dims, mode pixfx.ExecMode, st stencil3) {
	src := getScratch(int(dims.Size()))
	defer putScratch(src)
	copy(src, buf[:dims.Size()])

	scalarRow := func(y int) {
		off := y * dims.Stride
		for x := 0; x < dims.Width; x++ {
			w := windowAt(dims, x, y)
			st.pixel(buf[off+4*x:off+4*x+4], src, &w)
		}
	}
	if mode != pixfx.ExecSIMD {
		for y := 0; y < dims.Height; y++ {
			scalarRow(y)
		}
		return
	}

	bw := lanes.Width()
	lanes.Bands(dims.Height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			if y == 0 || y == dims.Height-1 || dims.Width < 3 {
				scalarRow(y)
				continue
			}
			off := y * dims.Stride
			w := windowAt(dims, 0, y)
			st.pixel(buf[off:off+4], src, &w)
			for x := 1; x < dims.Width-1; x += bw {
				n := min(bw, dims.Width-1-x)
				w := windowAt(dims, x, y)
				st.block(buf[off+4*x:off+4*(x+n)], src, &w, n)
			}
			last := dims.Width - 1
			w = windowAt(dims, last, y)
			st.pixel(buf[off+4*last:off+4*last+4], src, &w)
		}
	})
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var scratchPool = sync.Pool{
	New: func() any { return new([]byte) },
}

// getScratch returns a byte slice of length n from the pool. Contents are undefined.
func getScratch(n int) []byte {
	p := scratchPool.Get().(*[]byte)
	if cap(*p) < n {
		*p = make([]byte, n)
	}
	return (*p)[:n]
}

func putScratch(b []byte) {
	if cap(b) > 64<<20 {
		return
	}
	scratchPool.Put(&b)
}

var floatPool = sync.Pool{
	New: func() any { return new([]float32) },
}

// getFloats returns a float32 slice of length n from the pool. Contents are undefined.
func getFloats(n int) []float32 {
	p := floatPool.Get().(*[]float32)
	if cap(*p) < n {
		*p = make([]float32, n)
	}
	return (*p)[:n]
}

func putFloats(b []float32) {
	if cap(b) > 16<<20 {
		return
	}
	floatPool.Put(&b)
}
