package normalcurve

import (
	"iter"
	"math"
)

// DefaultStep is the x spacing used for plotting the curve.
const DefaultStep = 0.01

// MaxPoints caps how many points one sweep of x over [0, 1) may produce.
const MaxPoints = 1_000_000

// MinStep is the smallest x spacing accepted for a sweep.
const MinStep = 1.0 / MaxPoints

// ValidStep reports whether step is a sweep spacing in [MinStep, 1).
func ValidStep(step float64) bool {
	return step >= MinStep && step < 1
}

// Points returns the number of points Coordinates yields for step, or 0 when
// it yields none.
func Points(step float64) int {
	if !(step >= MinStep) || math.IsInf(step, 1) {
		return 0
	}
	n := 0
	for float64(n)*step < 1 {
		n++
	}
	return n
}

// Coordinates yields (x, y) points of the zero-invariant curve for
// x = 0, step, 2·step, ... while x < 1. At x = 0 the curve takes its limit
// value y = K. Invalid pool parameters, a non-finite step or one below
// MinStep yield nothing.
//
// The sequence can be ranged over any number of times.
func (c Curve) Coordinates(step float64) iter.Seq2[float64, float64] {
	return func(yield func(float64, float64) bool) {
		if !(step >= MinStep) || math.IsInf(step, 1) || c.ValidateParams() != nil {
			return
		}
		strike, vt := c.StrikePrice, c.VolTime()
		for i := 0; ; i++ {
			x := float64(i) * step
			if x >= 1 {
				return
			}
			if !yield(x, yGivenX(x, strike, vt, 0)) {
				return
			}
		}
	}
}
