package yuv

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/soypat/pixfx"
)

var modes = []pixfx.ExecMode{pixfx.ExecScalar, pixfx.ExecSIMD}

// solidI420 returns a tightly packed I420 frame of a single color.
func solidI420(t *testing.T, width, height int, y, u, v byte) Frame {
	t.Helper()
	data := make([]byte, FrameSize(width, height))
	luma := width * height
	for i := range data {
		switch {
		case i < luma:
			data[i] = y
		case i < luma+(len(data)-luma)/2:
			data[i] = u
		default:
			data[i] = v
		}
	}
	f, err := I420(data, width, height)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestSolidColors(t *testing.T) {
	tests := []struct {
		y, u, v byte
		r, g, b uint8
	}{
		{81, 90, 240, 255, 0, 0},
		{16, 128, 128, 0, 0, 0},
		{126, 128, 128, 128, 128, 128},
		{235, 128, 128, 255, 255, 255},
		{41, 240, 110, 0, 0, 255},
	}
	for _, test := range tests {
		for _, mode := range modes {
			frame := solidI420(t, 45, 7, test.y, test.u, test.v)
			dst := pixfx.NewBuffer(45, 7)
			if err := ToRGBA(frame, dst, mode); err != nil {
				t.Fatal(err)
			}
			for y := 0; y < dst.Height; y++ {
				for x := 0; x < dst.Width; x++ {
					r, g, b, a := dst.At(x, y)
					if r != test.r || g != test.g || b != test.b || a != 255 {
						t.Fatalf("%v YUV(%d,%d,%d) pixel (%d,%d): got (%d,%d,%d,%d), want (%d,%d,%d,255)",
							mode, test.y, test.u, test.v, x, y, r, g, b, a, test.r, test.g, test.b)
					}
				}
			}
		}
	}
}

// randomPlanar builds a frame with random samples and padded strides.
// padding of 0 yields tightly packed planes.
func randomPlanar(rng *rand.Rand, width, height, padding int, sub Subsampling) Frame {
	f := Frame{Width: width, Height: height, Subsampling: sub}
	cw, ch := f.ChromaSize()
	mk := func(cols, rows int) Plane {
		stride := cols + padding
		data := make([]byte, stride*rows)
		rng.Read(data)
		return Plane{Data: data, RowStride: stride, PixelStride: 1}
	}
	f.Y = mk(width, height)
	f.U = mk(cw, ch)
	f.V = mk(cw, ch)
	return f
}

// repack copies f into tightly packed planes.
func repack(f Frame) Frame {
	cw, ch := f.ChromaSize()
	cp := func(p Plane, cols, rows int) Plane {
		data := make([]byte, cols*rows)
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				data[y*cols+x] = p.Data[y*p.RowStride+x*p.PixelStride]
			}
		}
		return Plane{Data: data, RowStride: cols, PixelStride: 1}
	}
	f.Y = cp(f.Y, f.Width, f.Height)
	f.U = cp(f.U, cw, ch)
	f.V = cp(f.V, cw, ch)
	return f
}

func TestPaddedMatchesUnpadded(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, sub := range []Subsampling{{}, Sub422, Sub444} {
		padded := randomPlanar(rng, 37, 21, 11, sub)
		tight := repack(padded)
		for _, mode := range modes {
			a := pixfx.NewBuffer(37, 21)
			b := &pixfx.Buffer{Width: 37, Height: 21, Stride: 4*37 + 8, Pix: make([]byte, (4*37+8)*21)}
			if err := ToRGBA(padded, a, mode); err != nil {
				t.Fatal(err)
			}
			if err := ToRGBA(tight, b, mode); err != nil {
				t.Fatal(err)
			}
			for y := 0; y < 21; y++ {
				for x := 0; x < 37; x++ {
					ar, ag, ab, aa := a.At(x, y)
					br, bg, bb, ba := b.At(x, y)
					if ar != br || ag != bg || ab != bb || aa != ba {
						t.Fatalf("%v %+v pixel (%d,%d) differs", mode, sub, x, y)
					}
				}
			}
			// Destination padding is never written.
			for y := 0; y < 21; y++ {
				for _, v := range b.Pix[y*b.Stride+4*37 : (y+1)*b.Stride] {
					if v != 0 {
						t.Fatal("destination padding written")
					}
				}
			}
		}
	}
}

func TestScalarMatchesSIMD(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	sizes := [][2]int{{1, 1}, {2, 2}, {15, 3}, {16, 2}, {33, 5}, {64, 9}, {101, 13}}
	for _, sz := range sizes {
		frame := randomPlanar(rng, sz[0], sz[1], 3, Subsampling{})
		scalar := pixfx.NewBuffer(sz[0], sz[1])
		simd := pixfx.NewBuffer(sz[0], sz[1])
		if err := ToRGBA(frame, scalar, pixfx.ExecScalar); err != nil {
			t.Fatal(err)
		}
		if err := ToRGBA(frame, simd, pixfx.ExecSIMD); err != nil {
			t.Fatal(err)
		}
		for i := range scalar.Pix {
			if scalar.Pix[i] != simd.Pix[i] {
				t.Fatalf("%dx%d byte %d: scalar %d, simd %d", sz[0], sz[1], i, scalar.Pix[i], simd.Pix[i])
			}
		}
	}
}

func TestNV21Layout(t *testing.T) {
	const w, h = 6, 4
	data := make([]byte, FrameSize(w, h))
	for i := 0; i < w*h; i++ {
		data[i] = 81
	}
	// Interleaved V,U pairs: red.
	for i := w * h; i < len(data); i += 2 {
		data[i], data[i+1] = 240, 90
	}
	frame, err := NV21(data, w, h)
	if err != nil {
		t.Fatal(err)
	}
	if frame.U.PixelStride != 2 || frame.V.PixelStride != 2 || frame.U.RowStride != w {
		t.Fatalf("unexpected chroma geometry %+v %+v", frame.U, frame.V)
	}
	for _, mode := range modes {
		dst := pixfx.NewBuffer(w, h)
		if err := ToRGBA(frame, dst, mode); err != nil {
			t.Fatal(err)
		}
		if r, g, b, _ := dst.At(w-1, h-1); r != 255 || g != 0 || b != 0 {
			t.Fatalf("%v: got (%d,%d,%d), want red", mode, r, g, b)
		}
	}

	// Same bytes read as NV12 swap the chroma channels.
	nv12, err := NV12(data, w, h)
	if err != nil {
		t.Fatal(err)
	}
	if nv12.U.Data[0] != 240 || nv12.V.Data[0] != 90 {
		t.Fatalf("NV12 chroma order wrong: u=%d v=%d", nv12.U.Data[0], nv12.V.Data[0])
	}
}

func TestOddSizeLayouts(t *testing.T) {
	const w, h = 5, 3
	if got := FrameSize(w, h); got != 15+2*3*2 {
		t.Fatalf("FrameSize = %d", got)
	}
	data := make([]byte, FrameSize(w, h))
	for _, layout := range []func([]byte, int, int) (Frame, error){NV21, NV12, I420} {
		frame, err := layout(data, w, h)
		if err != nil {
			t.Fatal(err)
		}
		if err := frame.Validate(); err != nil {
			t.Fatal(err)
		}
		if _, err := layout(data[:len(data)-1], w, h); !errors.Is(err, pixfx.ErrPlaneSizeMismatch) {
			t.Fatalf("short data: %v", err)
		}
		if _, err := layout(data, 0, h); !errors.Is(err, pixfx.ErrInvalidDimensions) {
			t.Fatalf("zero width: %v", err)
		}
	}
}

func TestInvalidFrames(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	base := func() Frame { return randomPlanar(rng, 8, 6, 2, Subsampling{}) }
	tests := []struct {
		name   string
		mutate func(f *Frame, dst *pixfx.Buffer)
		want   error
	}{
		{"zero width", func(f *Frame, dst *pixfx.Buffer) { f.Width = 0 }, pixfx.ErrInvalidDimensions},
		{"destination size", func(f *Frame, dst *pixfx.Buffer) { dst.Width = 7 }, pixfx.ErrInvalidDimensions},
		{"zero pixel stride", func(f *Frame, dst *pixfx.Buffer) { f.U.PixelStride = 0 }, pixfx.ErrInvalidStride},
		{"row stride below extent", func(f *Frame, dst *pixfx.Buffer) { f.Y.RowStride = 7 }, pixfx.ErrInvalidStride},
		{"row stride overflow", func(f *Frame, dst *pixfx.Buffer) { f.Y.RowStride = math.MaxInt/2 + 1 }, pixfx.ErrInvalidStride},
		{"pixel stride overflow", func(f *Frame, dst *pixfx.Buffer) { f.U.PixelStride = math.MaxInt / 2 }, pixfx.ErrInvalidStride},
		{"destination stride overflow", func(f *Frame, dst *pixfx.Buffer) { dst.Stride = math.MaxInt/2 + 1 }, pixfx.ErrInvalidStride},
		{"bad subsampling", func(f *Frame, dst *pixfx.Buffer) { f.Subsampling = Subsampling{X: 2} }, pixfx.ErrInvalidStride},
		{"short luma", func(f *Frame, dst *pixfx.Buffer) { f.Y.Data = f.Y.Data[:40] }, pixfx.ErrPlaneSizeMismatch},
		{"short chroma", func(f *Frame, dst *pixfx.Buffer) { f.V.Data = f.V.Data[:10] }, pixfx.ErrPlaneSizeMismatch},
		{"short destination", func(f *Frame, dst *pixfx.Buffer) { dst.Pix = dst.Pix[:100] }, pixfx.ErrBufferTooSmall},
		{"destination stride", func(f *Frame, dst *pixfx.Buffer) { dst.Stride = 28 }, pixfx.ErrInvalidStride},
	}
	for _, test := range tests {
		for _, mode := range modes {
			frame := base()
			dst := pixfx.NewBuffer(8, 6)
			for i := range dst.Pix {
				dst.Pix[i] = 0x5a
			}
			test.mutate(&frame, dst)
			before := append([]byte(nil), dst.Pix...)
			err := ToRGBA(frame, dst, mode)
			if !errors.Is(err, test.want) {
				t.Errorf("%s %v: want %v, got %v", test.name, mode, test.want, err)
			}
			for i := range before {
				if before[i] != dst.Pix[i] {
					t.Fatalf("%s %v: destination byte %d modified", test.name, mode, i)
				}
			}
		}
	}
	if err := ToRGBA(base(), nil, pixfx.ExecScalar); !errors.Is(err, pixfx.ErrBufferTooSmall) {
		t.Errorf("nil destination: %v", err)
	}
	if err := ToRGBA(base(), pixfx.NewBuffer(8, 6), pixfx.ExecMode(7)); !errors.Is(err, pixfx.ErrInvalidParameter) {
		t.Errorf("bad mode: %v", err)
	}
}
