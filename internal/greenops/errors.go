package greenops

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors, comparable with errors.Is.
var (
	// ErrMissingFactor indicates a category has no emissions factor.
	ErrMissingFactor = constError("missing emissions factor")

	// ErrInvalidFactor indicates a negative, NaN or infinite emissions factor.
	ErrInvalidFactor = constError("invalid emissions factor")

	// ErrNegativeValue indicates a negative carbon value.
	ErrNegativeValue = constError("negative carbon value")

	// ErrCalculationOverflow indicates a value too large to calculate safely.
	ErrCalculationOverflow = constError("calculation overflow")
)
