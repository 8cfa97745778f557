package normalcurve

import (
	"fmt"
	"math"

	"github.com/nulln0ne/normal-curve-oracle/pkg/bisection"
)

const (
	// DefaultNudge offsets the target invariant of a swap search: up when
	// selling x, down when selling y. It keeps the searched root off the exact
	// pre-trade invariant.
	DefaultNudge = 1e-18
	// DefaultEpsilon is the bracket width at which a swap search stops.
	DefaultEpsilon = 0.0001
	// DefaultMaxIterations caps a swap search.
	DefaultMaxIterations = 1000
)

// SearchOptions parameterizes the bisection behind OtherReserve and AmountOut.
type SearchOptions struct {
	Lower         float64
	Upper         float64
	Epsilon       float64
	MaxIterations int
	Nudge         float64
}

// DefaultSearchOptions searches [0, 1].
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Lower:         0,
		Upper:         1,
		Epsilon:       DefaultEpsilon,
		MaxIterations: DefaultMaxIterations,
		Nudge:         DefaultNudge,
	}
}

func resolve(opts []SearchOptions) SearchOptions {
	if len(opts) == 0 {
		return DefaultSearchOptions()
	}
	return opts[0]
}

// Search solves for the reserve a swap leaves on the other side.
//
// When sellAsset is true reserveIn is the new x reserve and the result is the
// y reserve whose invariant equals Invariant + Nudge. Otherwise reserveIn is
// the new y reserve and the result is the x reserve at Invariant − Nudge.
func (c Curve) Search(sellAsset bool, reserveIn float64, opts ...SearchOptions) (bisection.Result, error) {
	o := resolve(opts)
	if err := c.ValidateParams(); err != nil {
		return bisection.Result{}, err
	}

	strike, vt := c.StrikePrice, c.VolTime()
	var fx func(float64) float64
	if sellAsset {
		if err := checkX(reserveIn); err != nil {
			return bisection.Result{}, err
		}
		target := c.Invariant + o.Nudge
		fx = func(y float64) float64 {
			return tradingFunction(reserveIn, y, strike, vt) - target
		}
	} else {
		if err := checkY(reserveIn, strike); err != nil {
			return bisection.Result{}, err
		}
		target := c.Invariant - o.Nudge
		fx = func(x float64) float64 {
			return tradingFunction(x, reserveIn, strike, vt) - target
		}
	}

	res, err := bisection.New(o.Lower, o.Upper, o.Epsilon, o.MaxIterations).Find(fx)
	if err != nil {
		return res, fmt.Errorf("solve other reserve: %w", err)
	}
	return res, nil
}

// OtherReserve returns the root found by Search.
func (c Curve) OtherReserve(sellAsset bool, reserveIn float64, opts ...SearchOptions) (float64, error) {
	res, err := c.Search(sellAsset, reserveIn, opts...)
	if err != nil {
		return 0, err
	}
	return res.Root, nil
}

// AmountOut approximates how much of the other asset a swap of amountIn
// releases while the invariant is held at its pre-trade value.
func (c Curve) AmountOut(sellAsset bool, amountIn float64, opts ...SearchOptions) (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	if math.IsNaN(amountIn) || math.IsInf(amountIn, 0) || amountIn < 0 {
		return 0, fmt.Errorf("%w: %g", ErrInvalidAmount, amountIn)
	}

	if sellAsset {
		reserveOut, err := c.OtherReserve(true, c.ReserveXPerLiquidity+amountIn, opts...)
		if err != nil {
			return 0, err
		}
		return c.ReserveYPerLiquidity - reserveOut, nil
	}

	reserveOut, err := c.OtherReserve(false, c.ReserveYPerLiquidity+amountIn, opts...)
	if err != nil {
		return 0, err
	}
	return c.ReserveXPerLiquidity - reserveOut, nil
}
