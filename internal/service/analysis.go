package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/nulln0ne/normal-curve-oracle/internal/metrics"
	"github.com/nulln0ne/normal-curve-oracle/pkg/normalcurve"
)

// Analyses comparing the float curve to the contract executor.
const (
	// AnalysisTradingFunction compares approximateYGivenX to YGivenX.
	AnalysisTradingFunction = "trading_function"
	// AnalysisInvariant compares the contract's tradingFunction to
	// TradingFunction on points of the zero-invariant curve.
	AnalysisInvariant = "invariant"
	// AnalysisXGivenY compares approximateXGivenY to XGivenY.
	AnalysisXGivenY = "x_given_y"
)

// DefaultStep is the x spacing of the analysis sweep.
const DefaultStep = 0.001

// DefaultAnalysisCurve is the reference state the sweep starts from.
var DefaultAnalysisCurve = normalcurve.Curve{
	ReserveXPerLiquidity: 0.308537538726,
	ReserveYPerLiquidity: 0.308537538726,
	StrikePrice:          1.0,
	Volatility:           1.0,
	TimeRemainingSeconds: 31556953.0,
}

// Subtype selects which series of an analysis is reported.
type Subtype string

const (
	// SubtypeError reports contract minus float per point.
	SubtypeError Subtype = "error"
	// SubtypeCurve reports both curves side by side.
	SubtypeCurve Subtype = "curve"
)

// ParseSubtype accepts "error", "curve" or an empty string (error).
func ParseSubtype(s string) (Subtype, error) {
	switch Subtype(strings.ToLower(strings.TrimSpace(s))) {
	case "", SubtypeError:
		return SubtypeError, nil
	case SubtypeCurve:
		return SubtypeCurve, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSubtype, s)
	}
}

// Oracle is the contract executor's view of the strategy library.
type Oracle interface {
	TradingFunction(ctx context.Context, c normalcurve.Curve) (float64, error)
	ApproximateYGivenX(ctx context.Context, c normalcurve.Curve) (float64, error)
	ApproximateXGivenY(ctx context.Context, c normalcurve.Curve) (float64, error)
}

// pointFunc evaluates one point of an analysis. c carries the swept x and the
// float y for it.
type pointFunc func(ctx context.Context, o Oracle, c normalcurve.Curve) (float, contract float64, err error)

var analyses = map[string]pointFunc{
	AnalysisTradingFunction: func(ctx context.Context, o Oracle, c normalcurve.Curve) (float64, float64, error) {
		contract, err := o.ApproximateYGivenX(ctx, c)
		return c.ReserveYPerLiquidity, contract, err
	},
	AnalysisInvariant: func(ctx context.Context, o Oracle, c normalcurve.Curve) (float64, float64, error) {
		k, err := c.TradingFunction()
		if err != nil {
			return 0, 0, err
		}
		contract, err := o.TradingFunction(ctx, c)
		return k, contract, err
	},
	AnalysisXGivenY: func(ctx context.Context, o Oracle, c normalcurve.Curve) (float64, float64, error) {
		x, err := c.XGivenY()
		if err != nil {
			return 0, 0, err
		}
		contract, err := o.ApproximateXGivenY(ctx, c)
		return x, contract, err
	},
}

// Analyses lists the names Run accepts.
func Analyses() []string {
	return []string{AnalysisTradingFunction, AnalysisInvariant, AnalysisXGivenY}
}

// DataPoint pairs the float and contract answers for one swept x.
type DataPoint struct {
	X        float64 `json:"x"`
	Float    float64 `json:"float"`
	Contract float64 `json:"contract"`
	Error    float64 `json:"error"`
}

// Report is the result of one trading function analysis.
type Report struct {
	Name        string               `json:"name"`
	Subtype     Subtype              `json:"subtype"`
	Step        float64              `json:"step"`
	Points      []DataPoint          `json:"points"`
	Series      map[string][]float64 `json:"series"`
	MaxAbsError float64              `json:"max_abs_error"`
	Elapsed     time.Duration        `json:"elapsed_ns"`
}

// AnalysisService compares the float curve to the contract executor.
type AnalysisService struct {
	BaseService
	oracle Oracle
	base   normalcurve.Curve
	step   float64
}

// NewAnalysisService constructs an AnalysisService. oracle may be nil, in
// which case every analysis fails with ErrNoOracle.
func NewAnalysisService(logger *slog.Logger, m *metrics.SolverMetrics, oracle Oracle, base normalcurve.Curve, step float64) *AnalysisService {
	return &AnalysisService{
		BaseService: BaseService{logger: logger, metrics: m},
		oracle:      oracle,
		base:        base,
		step:        step,
	}
}

// Run sweeps x over step, 2·step, ... below 1 along the zero-invariant curve
// and records the float and contract answers of the named analysis at each
// point. x = 1 is never sent: it is outside the domain of both
// implementations.
func (a *AnalysisService) Run(ctx context.Context, name string, subtype Subtype) (*Report, error) {
	eval, ok := analyses[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnalysis, name)
	}

	report, err := a.sweep(ctx, name, subtype, eval)
	if err != nil {
		a.metrics.AnalysisRunsTotal.WithLabelValues(metrics.StatusError).Inc()
		a.logger.Error("analysis failed", "name", name, "subtype", subtype, "err", err)
		return nil, err
	}
	a.metrics.AnalysisRunsTotal.WithLabelValues(metrics.StatusOK).Inc()
	a.metrics.AnalysisPointsTotal.Add(float64(len(report.Points)))
	a.metrics.AnalysisMaxAbsError.Set(report.MaxAbsError)
	a.logger.Info("analysis complete",
		"name", name, "subtype", subtype, "points", len(report.Points),
		"max_abs_error", report.MaxAbsError, "elapsed", report.Elapsed)
	return report, nil
}

// TradingFunction runs the trading function analysis.
func (a *AnalysisService) TradingFunction(ctx context.Context, subtype Subtype) (*Report, error) {
	return a.Run(ctx, AnalysisTradingFunction, subtype)
}

func (a *AnalysisService) sweep(ctx context.Context, name string, subtype Subtype, eval pointFunc) (*Report, error) {
	if a.oracle == nil {
		return nil, ErrNoOracle
	}
	if !normalcurve.ValidStep(a.step) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidStep, a.step)
	}
	if subtype != SubtypeError && subtype != SubtypeCurve {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubtype, subtype)
	}

	start := time.Now()
	c := a.base
	points := make([]DataPoint, 0, normalcurve.Points(a.step))
	for i := 1; ; i++ {
		x := float64(i) * a.step
		if x >= 1 {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c.ReserveXPerLiquidity = x
		y, err := c.YGivenX()
		if err != nil {
			return nil, fmt.Errorf("float y at x=%g: %w", x, err)
		}
		c.ReserveYPerLiquidity = y

		float, contract, err := eval(ctx, a.oracle, c)
		if err != nil {
			return nil, fmt.Errorf("%s at x=%g: %w", name, x, err)
		}
		points = append(points, DataPoint{X: x, Float: float, Contract: contract, Error: contract - float})
	}

	report := &Report{
		Name:    name,
		Subtype: subtype,
		Step:    a.step,
		Points:  points,
		Series:  series(subtype, points),
		Elapsed: time.Since(start),
	}
	for _, pt := range points {
		report.MaxAbsError = math.Max(report.MaxAbsError, math.Abs(pt.Error))
	}
	return report, nil
}

func series(subtype Subtype, points []DataPoint) map[string][]float64 {
	pick := func(f func(DataPoint) float64) []float64 {
		out := make([]float64, len(points))
		for i, p := range points {
			out[i] = f(p)
		}
		return out
	}
	if subtype == SubtypeCurve {
		return map[string][]float64{
			"contract": pick(func(p DataPoint) float64 { return p.Contract }),
			"float":    pick(func(p DataPoint) float64 { return p.Float }),
		}
	}
	return map[string][]float64{
		"error": pick(func(p DataPoint) float64 { return p.Error }),
	}
}
