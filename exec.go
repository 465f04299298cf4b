package pixfx

import "fmt"

// ExecMode selects the execution strategy of a filter or conversion.
// It is a performance hint: every mode computes the same per-pixel arithmetic.
type ExecMode uint8

const (
	// ExecScalar processes one pixel at a time on the calling goroutine.
	ExecScalar ExecMode = iota
	// ExecSIMD processes fixed-width pixel blocks over row bands fanned out
	// across goroutines.
	ExecSIMD
)

// ExecModeFor maps the boolean "optimize" flag of the binding surface to an [ExecMode].
func ExecModeFor(optimize bool) ExecMode {
	if optimize {
		return ExecSIMD
	}
	return ExecScalar
}

func (m ExecMode) String() string {
	switch m {
	case ExecScalar:
		return "scalar"
	case ExecSIMD:
		return "simd"
	default:
		return "ExecMode(" + fmt.Sprint(uint8(m)) + ")"
	}
}

// ParseExecMode parses the String form of an [ExecMode].
func ParseExecMode(s string) (ExecMode, error) {
	switch s {
	case "scalar":
		return ExecScalar, nil
	case "simd":
		return ExecSIMD, nil
	}
	return 0, fmt.Errorf("%w: unknown execution mode %q", ErrInvalidParameter, s)
}
