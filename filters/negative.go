package filters

import "github.com/soypat/pixfx/internal/lanes"

// NewNegative creates a filter that inverts RGB values: v -> 255-v.
// Alpha is unchanged. Applying it twice is the identity.
func NewNegative() *PointFilter {
	return &PointFilter{
		Name:  KindNegative.String(),
		Fn:    negativeRun,
		Block: negativeBlock,
	}
}

func negativeRun(dst, src []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		dst[i] = 255 - src[i]
		dst[i+1] = 255 - src[i+1]
		dst[i+2] = 255 - src[i+2]
		dst[i+3] = src[i+3]
	}
}

func negativeBlock(dst, src []byte) {
	var px [4 * lanes.Width256]byte
	n := copy(px[:], src)
	for i := 0; i < n; i += 4 {
		px[i] = 255 - px[i]
		px[i+1] = 255 - px[i+1]
		px[i+2] = 255 - px[i+2]
	}
	copy(dst, px[:n])
}
