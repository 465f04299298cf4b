package pixfx

import (
	"image"
	"io"
)

// Buffer is an in-memory RGBA8888 image. It implements [ImageBuffered].
// Pix holds rows of Stride bytes; pixel (x,y) starts at y*Stride + 4*x.
type Buffer struct {
	Pix    []byte
	Width  int
	Height int
	Stride int
}

var _ ImageBuffered = (*Buffer)(nil)

// NewBuffer allocates a tightly packed RGBA8888 buffer of the given size.
// Non-positive dimensions yield a buffer that fails validation.
func NewBuffer(width, height int) *Buffer {
	stride := 4 * width
	var pix []byte
	if width > 0 && height > 0 {
		pix = make([]byte, stride*height)
	}
	return &Buffer{Pix: pix, Width: width, Height: height, Stride: stride}
}

// BufferFromRGBA returns a Buffer sharing img's pixel memory.
// Writes to the Buffer are visible in img and vice versa.
func BufferFromRGBA(img *image.RGBA) *Buffer {
	b := img.Bounds()
	pix := img.Pix[img.PixOffset(b.Min.X, b.Min.Y):]
	return &Buffer{Pix: pix, Width: b.Dx(), Height: b.Dy(), Stride: img.Stride}
}

// RGBA returns an *image.RGBA view sharing the buffer memory.
func (b *Buffer) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Stride,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Dims implements [Image].
func (b *Buffer) Dims() Dims {
	return Dims{Width: b.Width, Height: b.Height, Stride: b.Stride, Shape: ShapeRGBA8888}
}

// Buffer implements [ImageBuffered].
func (b *Buffer) Buffer() []byte { return b.Pix }

// ReadAt implements [io.ReaderAt].
func (b *Buffer) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, io.ErrUnexpectedEOF
	} else if off >= int64(len(b.Pix)) {
		return 0, io.EOF
	}
	n := copy(p, b.Pix[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	c := *b
	c.Pix = append([]byte(nil), b.Pix...)
	return &c
}

// At returns the RGBA channels of pixel (x,y). It panics if out of range.
func (b *Buffer) At(x, y int) (r, g, bl, a uint8) {
	i := y*b.Stride + 4*x
	px := b.Pix[i : i+4 : i+4]
	return px[0], px[1], px[2], px[3]
}

// Set writes the RGBA channels of pixel (x,y). It panics if out of range.
func (b *Buffer) Set(x, y int, r, g, bl, a uint8) {
	i := y*b.Stride + 4*x
	px := b.Pix[i : i+4 : i+4]
	px[0], px[1], px[2], px[3] = r, g, bl, a
}
