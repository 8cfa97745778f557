package bisection

import "errors"

var (
	// ErrInvalidBracket is returned when the bounds are unordered or the
	// function does not change sign across them.
	ErrInvalidBracket = errors.New("invalid bracket")
	// ErrInvalidTolerance is returned for a non-positive epsilon or a negative
	// iteration cap.
	ErrInvalidTolerance = errors.New("invalid tolerance")
	// ErrNotFinite is returned when the function evaluates to NaN.
	ErrNotFinite = errors.New("function is not finite")
	// ErrNoConvergence is returned when the iteration cap is hit first.
	ErrNoConvergence = errors.New("no convergence")
)
