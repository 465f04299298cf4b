package filters

import (
	"math/rand"
	"testing"

	"github.com/soypat/pixfx"
)

const padByte = 0xa5

// randomSquares creates an image with random colored squares on an opaque black background.
// Squares get random alpha so alpha pass-through is observable.
func randomSquares(rng *rand.Rand, width, height, numSquares, minSize, maxSize int) *pixfx.Buffer {
	img := pixfx.NewBuffer(width, height)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	for i := 0; i < numSquares; i++ {
		size := minSize + rng.Intn(maxSize-minSize+1)
		x := rng.Intn(width)
		y := rng.Intn(height)
		// Avoid very dark colors so squares are visible.
		r := uint8(64 + rng.Intn(192))
		g := uint8(64 + rng.Intn(192))
		b := uint8(64 + rng.Intn(192))
		a := uint8(rng.Intn(256))
		fillRect(img, x, y, size, size, r, g, b, a)
	}
	return img
}

// randomNoise fills every byte, alpha included, with random values.
func randomNoise(rng *rand.Rand, width, height int) *pixfx.Buffer {
	img := pixfx.NewBuffer(width, height)
	rng.Read(img.Pix)
	return img
}

func fillRect(img *pixfx.Buffer, x, y, w, h int, r, g, b, a uint8) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			px, py := x+dx, y+dy
			if px >= 0 && px < img.Width && py >= 0 && py < img.Height {
				img.Set(px, py, r, g, b, a)
			}
		}
	}
}

// padded copies src into a buffer whose rows carry extra bytes of padding filled with padByte.
func padded(src *pixfx.Buffer, extra int) *pixfx.Buffer {
	stride := 4*src.Width + extra
	dst := &pixfx.Buffer{
		Pix:    make([]byte, stride*src.Height),
		Width:  src.Width,
		Height: src.Height,
		Stride: stride,
	}
	for i := range dst.Pix {
		dst.Pix[i] = padByte
	}
	for y := 0; y < src.Height; y++ {
		copy(dst.Pix[y*stride:y*stride+4*src.Width], src.Pix[y*src.Stride:])
	}
	return dst
}

func assertPaddingUntouched(t *testing.T, img *pixfx.Buffer) {
	t.Helper()
	for y := 0; y < img.Height; y++ {
		for i := y*img.Stride + 4*img.Width; i < (y+1)*img.Stride; i++ {
			if img.Pix[i] != padByte {
				t.Fatalf("row %d padding byte %d modified: %#x", y, i, img.Pix[i])
			}
		}
	}
}

// assertWithin checks every channel of every pixel differs by at most tol.
func assertWithin(t *testing.T, want, got *pixfx.Buffer, tol int) {
	t.Helper()
	if want.Width != got.Width || want.Height != got.Height {
		t.Fatalf("size mismatch: want %dx%d, got %dx%d", want.Width, want.Height, got.Width, got.Height)
	}
	for y := 0; y < want.Height; y++ {
		for x := 0; x < want.Width; x++ {
			wr, wg, wb, wa := want.At(x, y)
			gr, gg, gb, ga := got.At(x, y)
			w := [4]uint8{wr, wg, wb, wa}
			g := [4]uint8{gr, gg, gb, ga}
			for c := range w {
				d := int(w[c]) - int(g[c])
				if d < -tol || d > tol {
					t.Fatalf("pixel (%d,%d) channel %d: want %d, got %d (tolerance %d)", x, y, c, w[c], g[c], tol)
				}
			}
		}
	}
}

func assertBytesEqual(t *testing.T, want, got []byte) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("length changed: want %d, got %d", len(want), len(got))
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("byte %d modified: want %d, got %d", i, want[i], got[i])
		}
	}
}

// rgbImage reports an RGB888 shape; in-place RGBA filters must reject it.
type rgbImage struct{ b *pixfx.Buffer }

func (img rgbImage) Dims() pixfx.Dims {
	return pixfx.Dims{Width: img.b.Width, Height: img.b.Height, Stride: img.b.Stride, Shape: pixfx.ShapeRGB888}
}

func (img rgbImage) Buffer() []byte { return img.b.Pix }

func (img rgbImage) ReadAt(p []byte, off int64) (int, error) { return img.b.ReadAt(p, off) }
