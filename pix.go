package pixfx

import (
	"fmt"
	"io"
	"math"
)

// Image is a low-level, whole-buffer image access abstraction of raw memory.
// It does not do bounds abstraction. As made implicit by Dims signature, row spacing must be homogenous in images.
type Image interface {
	// Dims returns information on in-memory image structure.
	// Row spacing must be homogenous in entire image separated by stride bytes.
	Dims() Dims
	// ReadAt reads from the image buffer of pixels.
	io.ReaderAt
}

// ImageBuffered is an [Image] whose pixels live in memory and may be mutated in place.
//
// Filters write straight into the slice returned by Buffer. The caller must own the
// buffer exclusively for the duration of a call: concurrent calls on the same buffer are undefined,
// calls on distinct buffers are safe to run in parallel.
type ImageBuffered interface {
	Image
	// Buffer returns the raw underlying buffer or nil to signal the buffer is not available.
	Buffer() []byte
}

// Filter is an in-place transformation of an RGBA8888 image.
//
// Apply validates every precondition before the first write: on error the
// image buffer is guaranteed to be bit-identical to what it was before the call.
type Filter interface {
	// Apply runs the filter over the whole image using the requested execution strategy.
	// The strategy never changes the result beyond a ±1 per channel tolerance.
	Apply(img ImageBuffered, mode ExecMode) error
	// Controls returns the actual controls of the filter.
	// Controls should remain valid even after calling [Control.ChangeValue]
	// and their [Control.ActualValue] return the updated value.
	Controls() []Control
}

type Shape int

const (
	shapeUndefined Shape = iota // undefined
	ShapeRGB888                 // rgb888
	ShapeRGBA8888               // rgba8888
)

func (sh Shape) BitsPerPixel() (bits int) {
	switch sh {
	default:
		bits = -1
	case ShapeRGBA8888:
		bits = 32
	case ShapeRGB888:
		bits = 24
	}
	return bits
}

func (sh Shape) String() string {
	switch sh {
	case ShapeRGB888:
		return "rgb888"
	case ShapeRGBA8888:
		return "rgba8888"
	default:
		return "undefined"
	}
}

type Dims struct {
	Width  int
	Height int
	Stride int
	Shape  Shape
}

func (d Dims) Validate() error {
	pixbits := d.Shape.BitsPerPixel()
	if d.Height <= 0 || d.Width <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, d.Width, d.Height)
	} else if pixbits < 1 {
		return fmt.Errorf("%w: %v", ErrUnsupportedShape, d.Shape)
	} else if d.Width > (math.MaxInt-7)/pixbits {
		return fmt.Errorf("%w: width %d overflows row size", ErrInvalidDimensions, d.Width)
	} else if d.SizeRow() > d.Stride {
		return fmt.Errorf("%w: stride %d smaller than pixel row size %d", ErrInvalidStride, d.Stride, d.SizeRow())
	} else if d.Stride > math.MaxInt/d.Height {
		return fmt.Errorf("%w: stride %d overflows image size over %d rows", ErrInvalidStride, d.Stride, d.Height)
	}
	return nil
}

func (d Dims) NumPixels() int64 {
	return int64(d.Height) * int64(d.Width)
}

// Size returns the number of bytes a buffer must hold to back the image.
// The last row need not be padded to Stride: (Height-1)*Stride + SizeRow.
// Only meaningful for dims that pass [Dims.Validate].
func (d Dims) Size() int64 {
	if d.Height <= 0 || d.Width <= 0 {
		return 0
	}
	return int64(d.Height-1)*int64(d.Stride) + int64(d.SizeRow())
}

func (d Dims) SizeRow() int {
	return (d.Width*d.Shape.BitsPerPixel() + 7) / 8
}

// ValidateInPlace provides the guarantees every in-place RGBA filter relies on
// and returns the buffer to write to:
//   - [Dims.Validate] passes and the shape is [ShapeRGBA8888].
//   - img implements [ImageBuffered] and its buffer is non-nil and at least [Dims.Size] long.
//
// srcDims is always returned as called by img.Dims when img is not nil.
func ValidateInPlace(img ImageBuffered) (buf []byte, dims Dims, err error) {
	if img == nil {
		return nil, dims, fmt.Errorf("%w: nil image", ErrBufferTooSmall)
	}
	dims = img.Dims()
	if err = dims.Validate(); err != nil {
		return nil, dims, err
	}
	if dims.Shape != ShapeRGBA8888 {
		return nil, dims, fmt.Errorf("%w: want %v, got %v", ErrUnsupportedShape, ShapeRGBA8888, dims.Shape)
	}
	buf = img.Buffer()
	if buf == nil {
		return nil, dims, fmt.Errorf("%w: nil buffer", ErrBufferTooSmall)
	} else if int64(len(buf)) < dims.Size() {
		return nil, dims, fmt.Errorf("%w: have %d bytes, need %d", ErrBufferTooSmall, len(buf), dims.Size())
	}
	return buf, dims, nil
}
