// Package bisection finds roots of scalar functions by repeated halving of a
// bracket that contains a sign change.
package bisection

import (
	"fmt"
	"math"
)

// Spec holds the parameters of a single root search.
type Spec struct {
	Lower         float64
	Upper         float64
	Epsilon       float64
	MaxIterations int
}

// Result describes where a search stopped.
type Result struct {
	Root       float64
	Distance   float64
	Iterations int
}

// New returns a Spec searching [lower, upper] until the bracket is no wider
// than epsilon or maxIterations halvings have been made.
func New(lower, upper, epsilon float64, maxIterations int) Spec {
	return Spec{
		Lower:         lower,
		Upper:         upper,
		Epsilon:       epsilon,
		MaxIterations: maxIterations,
	}
}

// Find searches for x with f(x) ≈ 0 inside the bracket.
//
// Each iteration evaluates f at the midpoint and keeps the half whose lower
// end has a different sign (or a zero). f may return ±Inf at the bracket ends;
// a NaN anywhere aborts the search with ErrNotFinite.
//
// When the iteration cap is reached before the bracket is narrower than
// Epsilon the populated Result is returned together with ErrNoConvergence.
func (s Spec) Find(f func(float64) float64) (Result, error) {
	if err := s.validate(); err != nil {
		return Result{}, err
	}

	lo, hi := s.Lower, s.Upper
	flo, fhi := f(lo), f(hi)
	if math.IsNaN(flo) || math.IsNaN(fhi) {
		return Result{}, fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrNotFinite, lo, flo, hi, fhi)
	}
	if !straddles(flo, fhi) {
		return Result{}, fmt.Errorf("%w: f(%g)=%g and f(%g)=%g share a sign", ErrInvalidBracket, lo, flo, hi, fhi)
	}

	res := Result{
		Root:     (lo + hi) / 2,
		Distance: hi - lo,
	}
	for res.Distance > s.Epsilon && res.Iterations < s.MaxIterations {
		mid := (lo + hi) / 2
		fmid := f(mid)
		if math.IsNaN(fmid) {
			return res, fmt.Errorf("%w: f(%g) is NaN after %d iterations", ErrNotFinite, mid, res.Iterations)
		}

		if straddles(fmid, flo) {
			hi = mid
		} else {
			lo, flo = mid, fmid
		}

		res.Root = mid
		res.Distance = hi - lo
		res.Iterations++
	}

	if res.Distance > s.Epsilon {
		return res, fmt.Errorf("%w: distance %g > epsilon %g after %d iterations",
			ErrNoConvergence, res.Distance, s.Epsilon, res.Iterations)
	}
	return res, nil
}

func (s Spec) validate() error {
	if math.IsNaN(s.Lower) || math.IsNaN(s.Upper) || s.Lower >= s.Upper {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidBracket, s.Lower, s.Upper)
	}
	if math.IsNaN(s.Epsilon) || s.Epsilon <= 0 {
		return fmt.Errorf("%w: epsilon %g", ErrInvalidTolerance, s.Epsilon)
	}
	if s.MaxIterations < 0 {
		return fmt.Errorf("%w: max iterations %d", ErrInvalidTolerance, s.MaxIterations)
	}
	return nil
}

// straddles reports whether a and b are on opposite sides of zero or either
// is zero, i.e. a*b <= 0 without forming the product.
func straddles(a, b float64) bool {
	if a == 0 || b == 0 {
		return true
	}
	return (a < 0) != (b < 0)
}
