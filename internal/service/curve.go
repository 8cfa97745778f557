package service

import (
	"fmt"
	"log/slog"

	"github.com/nulln0ne/normal-curve-oracle/internal/metrics"
	"github.com/nulln0ne/normal-curve-oracle/pkg/normalcurve"
)

// Point is one (x, y) coordinate of the curve.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CurveService runs curve operations with logging and metrics.
type CurveService struct {
	BaseService
	search normalcurve.SearchOptions
}

// NewCurveService constructs a CurveService whose reserve searches use the
// provided options.
func NewCurveService(logger *slog.Logger, m *metrics.SolverMetrics, search normalcurve.SearchOptions) *CurveService {
	return &CurveService{
		BaseService: BaseService{logger: logger, metrics: m},
		search:      search,
	}
}

// Invariant evaluates the trading function.
func (s *CurveService) Invariant(c normalcurve.Curve) (float64, error) {
	k, err := c.TradingFunction()
	s.observe("invariant", c, err, "invariant", k)
	return k, err
}

// SolveY returns the y reserve on the zero-invariant curve for c's x reserve.
func (s *CurveService) SolveY(c normalcurve.Curve) (float64, error) {
	y, err := c.YGivenX()
	s.observe("solve_y", c, err, "y", y)
	return y, err
}

// SolveX returns the x reserve for c's y reserve at c's current invariant.
func (s *CurveService) SolveX(c normalcurve.Curve) (float64, error) {
	x, err := c.XGivenY()
	s.observe("solve_x", c, err, "x", x)
	return x, err
}

// OtherReserve solves for the reserve on the other side of a swap.
func (s *CurveService) OtherReserve(c normalcurve.Curve, sellAsset bool, reserveIn float64) (float64, error) {
	res, err := c.Search(sellAsset, reserveIn, s.search)
	if res.Iterations > 0 {
		s.metrics.BisectionIterations.Observe(float64(res.Iterations))
	}
	if err == nil {
		s.logger.Debug("found root",
			"distance", res.Distance, "epsilon", s.search.Epsilon, "iterations", res.Iterations)
	}
	s.observe("other_reserve", c, err, "reserve_out", res.Root)
	if err != nil {
		return 0, err
	}
	return res.Root, nil
}

// AmountOut approximates the output of a swap of amountIn.
func (s *CurveService) AmountOut(c normalcurve.Curve, sellAsset bool, amountIn float64) (float64, error) {
	out, err := c.AmountOut(sellAsset, amountIn, s.search)
	s.observe("amount_out", c, err, "sell_asset", sellAsset, "in", amountIn, "out", out)
	return out, err
}

// Coordinates collects the curve's plot points at the given x spacing.
func (s *CurveService) Coordinates(c normalcurve.Curve, step float64) ([]Point, error) {
	if !normalcurve.ValidStep(step) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidStep, step)
	}
	if err := c.ValidateParams(); err != nil {
		s.observe("coordinates", c, err)
		return nil, err
	}

	points := make([]Point, 0, normalcurve.Points(step))
	for x, y := range c.Coordinates(step) {
		points = append(points, Point{X: x, Y: y})
	}
	s.observe("coordinates", c, nil, "points", len(points))
	return points, nil
}

func (s *CurveService) observe(op string, c normalcurve.Curve, err error, attrs ...any) {
	s.metrics.ObserveSolve(op, err)
	if err != nil {
		s.logger.Debug("curve operation failed", "op", op, "curve", curveAttr(c), "err", err)
		return
	}
	s.logger.Debug("curve operation", append([]any{"op", op, "curve", curveAttr(c)}, attrs...)...)
}

func curveAttr(c normalcurve.Curve) slog.Value {
	return slog.GroupValue(
		slog.Float64("x", c.ReserveXPerLiquidity),
		slog.Float64("y", c.ReserveYPerLiquidity),
		slog.Float64("strike", c.StrikePrice),
		slog.Float64("vol", c.Volatility),
		slog.Float64("tau", c.TimeRemainingSeconds),
		slog.Float64("k", c.Invariant),
	)
}
