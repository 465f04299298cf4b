package pixfx

// Precondition failures. Every error returned by filters and converters wraps
// exactly one of these, so callers match them with [errors.Is].
// They are detected before any pixel is written and are never retried by this package.
var (
	ErrInvalidDimensions = errorString("invalid dimensions")
	ErrBufferTooSmall    = errorString("buffer too small")
	ErrInvalidParameter  = errorString("invalid parameter")
	ErrPlaneSizeMismatch = errorString("plane size mismatch")
	ErrInvalidStride     = errorString("invalid stride")
	ErrUnsupportedShape  = errorString("unsupported pixel shape")
)

// OK reduces an error to the boolean success signal used at binding boundaries.
func OK(err error) bool { return err == nil }

type errorString string

func (e errorString) Error() string { return string(e) }
