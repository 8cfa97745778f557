package normalcurve

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var stdNormal = distuv.UnitNormal

// quantile is Φ⁻¹ extended to the closed interval: 0 and 1 map to ∓Inf and
// anything beyond saturates, so bisection never panics on them.
func quantile(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return math.NaN()
	case p <= 0:
		return math.Inf(-1)
	case p >= 1:
		return math.Inf(1)
	}
	return stdNormal.Quantile(p)
}

func cdf(z float64) float64 {
	return stdNormal.CDF(z)
}

func volTime(volatility, timeRemainingSeconds float64) float64 {
	return volatility * math.Sqrt(timeRemainingSeconds/SecondsPerYear)
}

// k = Φ⁻¹(y/K) − Φ⁻¹(1−x) + σ√τ
func tradingFunction(x, y, strike, vt float64) float64 {
	return quantile(y/strike) - quantile(1-x) + vt
}

// y = K·Φ(Φ⁻¹(1−x) − σ√τ + k)
func yGivenX(x, strike, vt, k float64) float64 {
	return strike * cdf(quantile(1-x)-vt+k)
}

// x = 1 − Φ(Φ⁻¹(y/K) + σ√τ − k)
func xGivenY(y, strike, vt, k float64) float64 {
	return 1 - cdf(quantile(y/strike)+vt-k)
}
