// Package wad converts between 18-decimal fixed-point integers and floats.
package wad

import (
	"errors"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimals is the fixed-point precision used by the contracts.
const Decimals = 18

// ErrNotFinite is returned when a NaN or infinity would be scaled.
var ErrNotFinite = errors.New("wad: value is not finite")

// ToFloat descales a wad integer. A nil value is zero.
func ToFloat(v *big.Int) float64 {
	if v == nil {
		return 0
	}
	return decimal.NewFromBigInt(v, -Decimals).InexactFloat64()
}

// FromFloat scales f by 1e18 using its shortest decimal representation and
// truncates toward zero.
func FromFloat(f float64) (*big.Int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, ErrNotFinite
	}
	return decimal.NewFromFloat(f).Shift(Decimals).BigInt(), nil
}
