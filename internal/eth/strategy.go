package eth

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/nulln0ne/normal-curve-oracle/internal/wad"
	"github.com/nulln0ne/normal-curve-oracle/pkg/normalcurve"
)

// ErrNegativeInput is returned when a curve field cannot be encoded as uint256.
var ErrNegativeInput = errors.New("negative value for unsigned curve field")

// StrategyLibABI covers the pure functions of the normal strategy library
// that have a floating-point counterpart in pkg/normalcurve.
const StrategyLibABI = `[
  {"type":"function","name":"tradingFunction","stateMutability":"pure",
   "inputs":[{"name":"self","type":"tuple","internalType":"struct NormalCurve","components":[
     {"name":"reserveXPerWad","type":"uint256"},
     {"name":"reserveYPerWad","type":"uint256"},
     {"name":"strikePriceWad","type":"uint256"},
     {"name":"standardDeviationWad","type":"uint256"},
     {"name":"timeRemainingSeconds","type":"uint256"},
     {"name":"invariant","type":"int256"}]}],
   "outputs":[{"name":"","type":"int256"}]},
  {"type":"function","name":"approximateYGivenX","stateMutability":"pure",
   "inputs":[{"name":"self","type":"tuple","internalType":"struct NormalCurve","components":[
     {"name":"reserveXPerWad","type":"uint256"},
     {"name":"reserveYPerWad","type":"uint256"},
     {"name":"strikePriceWad","type":"uint256"},
     {"name":"standardDeviationWad","type":"uint256"},
     {"name":"timeRemainingSeconds","type":"uint256"},
     {"name":"invariant","type":"int256"}]}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"approximateXGivenY","stateMutability":"pure",
   "inputs":[{"name":"self","type":"tuple","internalType":"struct NormalCurve","components":[
     {"name":"reserveXPerWad","type":"uint256"},
     {"name":"reserveYPerWad","type":"uint256"},
     {"name":"strikePriceWad","type":"uint256"},
     {"name":"standardDeviationWad","type":"uint256"},
     {"name":"timeRemainingSeconds","type":"uint256"},
     {"name":"invariant","type":"int256"}]}],
   "outputs":[{"name":"","type":"uint256"}]}
]`

// CurveWad mirrors the solidity NormalCurve struct. Field names follow the
// ABI component names so the tuple packs by name.
type CurveWad struct {
	ReserveXPerWad       *big.Int
	ReserveYPerWad       *big.Int
	StrikePriceWad       *big.Int
	StandardDeviationWad *big.Int
	TimeRemainingSeconds *big.Int
	Invariant            *big.Int
}

// NewCurveWad scales a float curve to the contract's representation. Time is
// truncated to whole seconds.
func NewCurveWad(c normalcurve.Curve) (CurveWad, error) {
	fields := []struct {
		name string
		v    float64
	}{
		{"reserveXPerWad", c.ReserveXPerLiquidity},
		{"reserveYPerWad", c.ReserveYPerLiquidity},
		{"strikePriceWad", c.StrikePrice},
		{"standardDeviationWad", c.Volatility},
		{"timeRemainingSeconds", c.TimeRemainingSeconds},
	}
	for _, f := range fields {
		if f.v < 0 {
			return CurveWad{}, fmt.Errorf("%w: %s = %g", ErrNegativeInput, f.name, f.v)
		}
	}
	if math.IsNaN(c.TimeRemainingSeconds) || math.IsInf(c.TimeRemainingSeconds, 0) {
		return CurveWad{}, fmt.Errorf("timeRemainingSeconds: %w", wad.ErrNotFinite)
	}

	var (
		out CurveWad
		err error
	)
	scale := func(name string, v float64) *big.Int {
		if err != nil {
			return nil
		}
		var w *big.Int
		if w, err = wad.FromFloat(v); err != nil {
			err = fmt.Errorf("%s: %w", name, err)
		}
		return w
	}
	out.ReserveXPerWad = scale("reserveXPerWad", c.ReserveXPerLiquidity)
	out.ReserveYPerWad = scale("reserveYPerWad", c.ReserveYPerLiquidity)
	out.StrikePriceWad = scale("strikePriceWad", c.StrikePrice)
	out.StandardDeviationWad = scale("standardDeviationWad", c.Volatility)
	out.Invariant = scale("invariant", c.Invariant)
	if err != nil {
		return CurveWad{}, err
	}
	out.TimeRemainingSeconds = new(big.Int).SetUint64(uint64(c.TimeRemainingSeconds))
	return out, nil
}

// StrategyLib evaluates the deployed strategy library through eth_call.
type StrategyLib struct {
	caller  ethereum.ContractCaller
	address common.Address
	abi     gethabi.ABI
}

// NewStrategyLib binds the library at address. *ethclient.Client satisfies
// ethereum.ContractCaller.
func NewStrategyLib(caller ethereum.ContractCaller, address common.Address) (*StrategyLib, error) {
	parsed, err := gethabi.JSON(strings.NewReader(StrategyLibABI))
	if err != nil {
		return nil, fmt.Errorf("parse strategy abi: %w", err)
	}
	return &StrategyLib{caller: caller, address: address, abi: parsed}, nil
}

// Address returns the bound contract address.
func (l *StrategyLib) Address() common.Address {
	return l.address
}

// TradingFunction returns the contract's invariant for c, descaled.
func (l *StrategyLib) TradingFunction(ctx context.Context, c normalcurve.Curve) (float64, error) {
	v, err := l.call(ctx, "tradingFunction", c)
	if err != nil {
		return 0, err
	}
	return wad.ToFloat(v), nil
}

// ApproximateYGivenX returns the contract's y reserve for c's x reserve.
func (l *StrategyLib) ApproximateYGivenX(ctx context.Context, c normalcurve.Curve) (float64, error) {
	v, err := l.call(ctx, "approximateYGivenX", c)
	if err != nil {
		return 0, err
	}
	return wad.ToFloat(v), nil
}

// ApproximateXGivenY returns the contract's x reserve for c's y reserve.
func (l *StrategyLib) ApproximateXGivenY(ctx context.Context, c normalcurve.Curve) (float64, error) {
	v, err := l.call(ctx, "approximateXGivenY", c)
	if err != nil {
		return 0, err
	}
	return wad.ToFloat(v), nil
}

func (l *StrategyLib) call(ctx context.Context, method string, c normalcurve.Curve) (*big.Int, error) {
	in, err := NewCurveWad(c)
	if err != nil {
		return nil, err
	}
	input, err := l.abi.Pack(method, in)
	if err != nil {
		return nil, fmt.Errorf("abi pack %s: %w", method, err)
	}

	out, err := l.caller.CallContract(ctx, ethereum.CallMsg{To: &l.address, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("eth_call %s: %w", method, err)
	}

	values, err := l.abi.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("abi unpack %s: %w", method, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("%s: unexpected outputs: %d", method, len(values))
	}
	v, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected output type: %T", method, values[0])
	}
	return v, nil
}
