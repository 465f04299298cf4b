package filters

import (
	"fmt"
	"strings"

	"github.com/soypat/pixfx"
)

// Kind enumerates the filters of the engine.
type Kind uint8

const (
	KindGrayscale Kind = iota
	KindNegative
	KindBlur
	KindEmboss
	KindSharpen
	KindEdgeDetection
)

// Kinds lists every filter kind in declaration order.
var Kinds = []Kind{KindGrayscale, KindNegative, KindBlur, KindEmboss, KindSharpen, KindEdgeDetection}

func (k Kind) String() string {
	switch k {
	case KindGrayscale:
		return "grayscale"
	case KindNegative:
		return "negative"
	case KindBlur:
		return "blur"
	case KindEmboss:
		return "emboss"
	case KindSharpen:
		return "sharpen"
	case KindEdgeDetection:
		return "edge"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind parses the String form of a Kind, case insensitive.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(s)
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown filter %q", pixfx.ErrInvalidParameter, s)
}

// New returns a filter of the given kind with default parameters.
// Blur defaults to radius 3, sigma 5.
func New(k Kind) (pixfx.Filter, error) {
	switch k {
	case KindGrayscale:
		return NewGrayscale(), nil
	case KindNegative:
		return NewNegative(), nil
	case KindBlur:
		return NewBlur(DefaultBlurRadius, DefaultBlurSigma), nil
	case KindEmboss:
		return NewEmboss(), nil
	case KindSharpen:
		return NewSharpen(), nil
	case KindEdgeDetection:
		return NewEdgeDetect(OperatorSobel), nil
	}
	return nil, fmt.Errorf("%w: unknown filter %v", pixfx.ErrInvalidParameter, k)
}

// Apply runs f over img in place. On error img is left untouched.
func Apply(img pixfx.ImageBuffered, f pixfx.Filter, mode pixfx.ExecMode) error {
	if f == nil {
		return fmt.Errorf("%w: nil filter", pixfx.ErrInvalidParameter)
	}
	return f.Apply(img, mode)
}
