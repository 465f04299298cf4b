// Package bridge is the binding surface exposed to host applications. It mirrors the
// native entry points of a camera application: filters report success as a bool and
// the converter reports nothing, leaving its destination untouched on failure.
// Failures are logged at warn level through [pixfx.Logger].
package bridge

import (
	"fmt"
	"image"

	"github.com/soypat/pixfx"
	"github.com/soypat/pixfx/filters"
	"github.com/soypat/pixfx/yuv"
)

// GrayscaleImage converts img to grayscale in place.
func GrayscaleImage(img *image.RGBA, optimize bool) bool {
	return apply("GrayscaleImage", img, filters.NewGrayscale(), optimize)
}

// CreateNegative inverts the color channels of img in place.
func CreateNegative(img *image.RGBA, optimize bool) bool {
	return apply("CreateNegative", img, filters.NewNegative(), optimize)
}

// BlurImage applies a Gaussian blur of the given radius and sigma to img in place.
func BlurImage(img *image.RGBA, radius, sigma int, optimize bool) bool {
	return apply("BlurImage", img, filters.NewBlur(radius, float32(sigma)), optimize)
}

// Emboss replaces img with its gray relief lit from the top left.
func Emboss(img *image.RGBA, optimize bool) bool {
	return apply("Emboss", img, filters.NewEmboss(), optimize)
}

// Sharpen sharpens img in place.
func Sharpen(img *image.RGBA, optimize bool) bool {
	return apply("Sharpen", img, filters.NewSharpen(), optimize)
}

// EdgeDetection replaces img with its Sobel gradient magnitude.
func EdgeDetection(img *image.RGBA, optimize bool) bool {
	return apply("EdgeDetection", img, filters.NewEdgeDetect(filters.OperatorSobel), optimize)
}

// ConvertYUVToRGBA converts a 4:2:0 camera frame made of three planes into out.
// The luma plane has a pixel stride of 1. Note the V plane precedes the U plane in the argument list.
// dstStride must equal out.Stride. On failure out is left untouched.
func ConvertYUVToRGBA(yPix, vPix, uPix []byte, out *image.RGBA, width, height, yStride, dstStride,
	uRowStride, vRowStride, uPixelStride, vPixelStride int, optimize bool) {
	frame := yuv.Frame{
		Width:  width,
		Height: height,
		Y:      yuv.Plane{Data: yPix, RowStride: yStride, PixelStride: 1},
		U:      yuv.Plane{Data: uPix, RowStride: uRowStride, PixelStride: uPixelStride},
		V:      yuv.Plane{Data: vPix, RowStride: vRowStride, PixelStride: vPixelStride},
	}
	if out == nil {
		warn("ConvertYUVToRGBA", errNilImage)
		return
	}
	dst := pixfx.BufferFromRGBA(out)
	if dstStride != dst.Stride {
		warn("ConvertYUVToRGBA", errStrideMismatch)
		return
	}
	err := yuv.ToRGBA(frame, dst, pixfx.ExecModeFor(optimize))
	if !pixfx.OK(err) {
		warn("ConvertYUVToRGBA", err)
	}
}

var (
	errNilImage       = fmt.Errorf("%w: nil image", pixfx.ErrBufferTooSmall)
	errStrideMismatch = fmt.Errorf("%w: destination stride does not match image", pixfx.ErrInvalidStride)
)

func apply(name string, img *image.RGBA, f pixfx.Filter, optimize bool) bool {
	if img == nil {
		warn(name, errNilImage)
		return false
	}
	err := filters.Apply(pixfx.BufferFromRGBA(img), f, pixfx.ExecModeFor(optimize))
	if !pixfx.OK(err) {
		warn(name, err)
		return false
	}
	return true
}

func warn(name string, err error) {
	pixfx.Logger().Warn("bridge call failed", "func", name, "err", err)
}
