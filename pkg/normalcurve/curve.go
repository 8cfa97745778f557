// Package normalcurve implements the floating-point trading function of a
// normal-distribution AMM and the solvers built on it.
//
// With x and y the reserves per unit of liquidity, K the strike price and
// σ√τ the vol-time, the adjusted trading function is
//
//	k = Φ⁻¹(y/K) − Φ⁻¹(1−x) + σ√τ
//
// which rearranges to
//
//	y = K·Φ(Φ⁻¹(1−x) − σ√τ + k)
//	x = 1 − Φ(Φ⁻¹(y/K) + σ√τ − k)
//
// The results are meant as a reference for fixed-point implementations of
// the same curve, so every entry point rejects states outside the domain of
// Φ⁻¹ instead of returning infinities or NaN.
package normalcurve

import (
	"fmt"
	"math"
)

// SecondsPerYear is the year length used by the on-chain strategy.
const SecondsPerYear = 31556953.0

// Curve is a snapshot of one pool on the normal curve.
type Curve struct {
	ReserveXPerLiquidity float64
	ReserveYPerLiquidity float64
	StrikePrice          float64
	Volatility           float64
	TimeRemainingSeconds float64
	// Invariant is the pre-trade invariant that swaps are solved against.
	Invariant float64
}

// VolTime returns σ·sqrt(τ / SecondsPerYear).
func (c Curve) VolTime() float64 {
	return volTime(c.Volatility, c.TimeRemainingSeconds)
}

// ValidateParams checks the pool parameters that stay fixed across a trade.
func (c Curve) ValidateParams() error {
	if !isFinite(c.StrikePrice) || c.StrikePrice <= 0 {
		return domainErr("StrikePrice", c.StrikePrice, "must be positive and finite")
	}
	if !isFinite(c.Volatility) || c.Volatility < 0 {
		return domainErr("Volatility", c.Volatility, "must be non-negative and finite")
	}
	if !isFinite(c.TimeRemainingSeconds) || c.TimeRemainingSeconds < 0 {
		return domainErr("TimeRemainingSeconds", c.TimeRemainingSeconds, "must be non-negative and finite")
	}
	if !isFinite(c.Invariant) {
		return domainErr("Invariant", c.Invariant, "must be finite")
	}
	return nil
}

// Validate checks the parameters and both reserves.
func (c Curve) Validate() error {
	if err := c.ValidateParams(); err != nil {
		return err
	}
	if err := checkX(c.ReserveXPerLiquidity); err != nil {
		return err
	}
	return checkY(c.ReserveYPerLiquidity, c.StrikePrice)
}

// TradingFunction returns the invariant k implied by the reserves.
func (c Curve) TradingFunction() (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	k := tradingFunction(c.ReserveXPerLiquidity, c.ReserveYPerLiquidity, c.StrikePrice, c.VolTime())
	return finite("TradingFunction", k)
}

// YGivenX returns the y reserve that puts the current x reserve on the curve
// with a zero invariant. The stored y reserve is ignored.
func (c Curve) YGivenX() (float64, error) {
	if err := c.ValidateParams(); err != nil {
		return 0, err
	}
	if err := checkX(c.ReserveXPerLiquidity); err != nil {
		return 0, err
	}
	y := yGivenX(c.ReserveXPerLiquidity, c.StrikePrice, c.VolTime(), 0)
	return finite("YGivenX", y)
}

// XGivenY returns the x reserve for the current y reserve, holding the
// invariant at the value the current reserves imply.
func (c Curve) XGivenY() (float64, error) {
	k, err := c.TradingFunction()
	if err != nil {
		return 0, err
	}
	x := xGivenY(c.ReserveYPerLiquidity, c.StrikePrice, c.VolTime(), k)
	return finite("XGivenY", x)
}

func checkX(x float64) error {
	if !(x > 0 && x < 1) {
		return domainErr("ReserveXPerLiquidity", x, "must be in (0, 1)")
	}
	return nil
}

func checkY(y, strike float64) error {
	if r := y / strike; !(r > 0 && r < 1) {
		return domainErr("ReserveYPerLiquidity", y, fmt.Sprintf("must be in (0, %g)", strike))
	}
	return nil
}

func finite(op string, v float64) (float64, error) {
	if !isFinite(v) {
		return 0, domainErr(op, v, "result is not finite")
	}
	return v, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
