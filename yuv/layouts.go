package yuv

import (
	"fmt"

	"github.com/soypat/pixfx"
)

// FrameSize returns the number of bytes of a tightly packed 4:2:0 frame
// (NV21, NV12 or I420) of the given size.
func FrameSize(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	cw, ch := (width+1)/2, (height+1)/2
	return width*height + 2*cw*ch
}

// NV21 returns the frame stored in data as a luma plane followed by interleaved V/U
// samples, the default Android camera preview format.
func NV21(data []byte, width, height int) (Frame, error) {
	return semiPlanar(data, width, height, true)
}

// NV12 returns the frame stored in data as a luma plane followed by interleaved U/V samples.
func NV12(data []byte, width, height int) (Frame, error) {
	return semiPlanar(data, width, height, false)
}

// I420 returns the frame stored in data as consecutive Y, U and V planes.
func I420(data []byte, width, height int) (Frame, error) {
	if err := checkPacked(data, width, height); err != nil {
		return Frame{}, err
	}
	cw, ch := (width+1)/2, (height+1)/2
	lumaLen := width * height
	chromaLen := cw * ch
	return Frame{
		Width:       width,
		Height:      height,
		Y:           Plane{Data: data[:lumaLen], RowStride: width, PixelStride: 1},
		U:           Plane{Data: data[lumaLen : lumaLen+chromaLen], RowStride: cw, PixelStride: 1},
		V:           Plane{Data: data[lumaLen+chromaLen : lumaLen+2*chromaLen], RowStride: cw, PixelStride: 1},
		Subsampling: Sub420,
	}, nil
}

func semiPlanar(data []byte, width, height int, vFirst bool) (Frame, error) {
	if err := checkPacked(data, width, height); err != nil {
		return Frame{}, err
	}
	lumaLen := width * height
	cw := (width + 1) / 2
	chroma := data[lumaLen:FrameSize(width, height)]
	first := Plane{Data: chroma, RowStride: 2 * cw, PixelStride: 2}
	second := Plane{Data: chroma[1:], RowStride: 2 * cw, PixelStride: 2}
	f := Frame{
		Width:       width,
		Height:      height,
		Y:           Plane{Data: data[:lumaLen], RowStride: width, PixelStride: 1},
		U:           first,
		V:           second,
		Subsampling: Sub420,
	}
	if vFirst {
		f.U, f.V = second, first
	}
	return f, nil
}

func checkPacked(data []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: frame %dx%d", pixfx.ErrInvalidDimensions, width, height)
	}
	if need := FrameSize(width, height); len(data) < need {
		return fmt.Errorf("%w: have %d bytes, need %d", pixfx.ErrPlaneSizeMismatch, len(data), need)
	}
	return nil
}
