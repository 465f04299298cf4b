package filters

import "github.com/soypat/pixfx/internal/lanes"

// luma is the ITU-R BT.601 luminance in 8-bit fixed point: 0.299R + 0.587G + 0.114B
// with weights 77+150+29 = 256, rounded to nearest. A gray pixel maps to itself.
func luma(r, g, b uint8) uint8 {
	return uint8((77*uint32(r) + 150*uint32(g) + 29*uint32(b) + 128) >> 8)
}

// NewGrayscale creates a filter replacing R, G and B by the pixel luminance.
// Alpha is unchanged. Applying it twice equals applying it once.
func NewGrayscale() *PointFilter {
	return &PointFilter{
		Name:  KindGrayscale.String(),
		Fn:    grayscaleRun,
		Block: grayscaleBlock,
	}
}

func grayscaleRun(dst, src []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		gray := luma(src[i], src[i+1], src[i+2])
		dst[i], dst[i+1], dst[i+2], dst[i+3] = gray, gray, gray, src[i+3]
	}
}

func grayscaleBlock(dst, src []byte) {
	var y, a [lanes.Width256]uint8
	n := len(src) / 4
	for i := 0; i < n; i++ {
		px := src[4*i : 4*i+4 : 4*i+4]
		y[i] = luma(px[0], px[1], px[2])
		a[i] = px[3]
	}
	for i := 0; i < n; i++ {
		px := dst[4*i : 4*i+4 : 4*i+4]
		px[0], px[1], px[2], px[3] = y[i], y[i], y[i], a[i]
	}
}
