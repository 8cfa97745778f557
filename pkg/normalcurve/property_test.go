package normalcurve

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func drawCurve(t *rapid.T) Curve {
	return Curve{
		ReserveXPerLiquidity: rapid.Float64Range(0.05, 0.95).Draw(t, "x"),
		StrikePrice:          rapid.Float64Range(0.5, 2).Draw(t, "strike"),
		Volatility:           rapid.Float64Range(0.05, 1.5).Draw(t, "vol"),
		TimeRemainingSeconds: rapid.Float64Range(0, SecondsPerYear).Draw(t, "tau"),
	}
}

func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := drawCurve(t)
		y, err := c.YGivenX()
		if err != nil {
			t.Fatalf("YGivenX error: %v", err)
		}
		c.ReserveYPerLiquidity = y

		x, err := c.XGivenY()
		if err != nil {
			t.Fatalf("XGivenY error: %v", err)
		}
		if math.Abs(x-c.ReserveXPerLiquidity) > 1e-3 {
			t.Fatalf("round trip drifted: %v -> %v", c.ReserveXPerLiquidity, x)
		}
	})
}

func TestMonotonicityProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := drawCurve(t)
		c.Volatility = rapid.Float64Range(0.05, 1).Draw(t, "vol_cap")
		delta := rapid.Float64Range(1e-4, 0.04).Draw(t, "delta")

		y1, err := c.YGivenX()
		if err != nil {
			t.Fatalf("YGivenX error: %v", err)
		}
		c.ReserveXPerLiquidity += delta
		y2, err := c.YGivenX()
		if err != nil {
			t.Fatalf("YGivenX error: %v", err)
		}
		if y2 >= y1 {
			t.Fatalf("y not decreasing: y(%v)=%v, y(+%v)=%v", c.ReserveXPerLiquidity-delta, y1, delta, y2)
		}
	})
}

func TestAmountOutBelowReserveProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := drawCurve(t)
		y, err := c.YGivenX()
		if err != nil {
			t.Fatalf("YGivenX error: %v", err)
		}
		c.ReserveYPerLiquidity = y

		amountIn := rapid.Float64Range(1e-3, 0.9*(1-c.ReserveXPerLiquidity)).Draw(t, "amount_in")
		opts := DefaultSearchOptions()
		opts.Upper = c.StrikePrice

		out, err := c.AmountOut(true, amountIn, opts)
		if err != nil {
			t.Fatalf("AmountOut error: %v", err)
		}
		if out >= c.ReserveYPerLiquidity {
			t.Fatalf("amount out %v not below reserve %v", out, c.ReserveYPerLiquidity)
		}
	})
}

func TestIdempotenceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := drawCurve(t)
		c.ReserveYPerLiquidity = c.StrikePrice * rapid.Float64Range(0.01, 0.99).Draw(t, "y_ratio")

		k1, err := c.TradingFunction()
		if err != nil {
			t.Fatalf("TradingFunction error: %v", err)
		}
		k2, _ := c.TradingFunction()
		if math.Float64bits(k1) != math.Float64bits(k2) {
			t.Fatalf("not bit-identical: %v vs %v", k1, k2)
		}
	})
}
