package service

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/nulln0ne/normal-curve-oracle/internal/metrics"
	"github.com/nulln0ne/normal-curve-oracle/pkg/bisection"
	"github.com/nulln0ne/normal-curve-oracle/pkg/normalcurve"
)

func newCurveService() *CurveService {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewCurveService(logger, metrics.New(), normalcurve.DefaultSearchOptions())
}

func TestCurveService_Invariant(t *testing.T) {
	t.Parallel()

	k, err := newCurveService().Invariant(DefaultAnalysisCurve)
	if err != nil {
		t.Fatalf("Invariant error: %v", err)
	}
	if math.Abs(k-7.427392034742297e-14) > 1e-14 {
		t.Fatalf("unexpected invariant %v", k)
	}
}

func TestCurveService_SolveRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newCurveService()
	c := DefaultAnalysisCurve
	c.ReserveXPerLiquidity = 0.42

	y, err := svc.SolveY(c)
	if err != nil {
		t.Fatalf("SolveY error: %v", err)
	}
	c.ReserveYPerLiquidity = y
	x, err := svc.SolveX(c)
	if err != nil {
		t.Fatalf("SolveX error: %v", err)
	}
	if math.Abs(x-0.42) > 1e-3 {
		t.Fatalf("round trip x %v, want 0.42", x)
	}
}

func TestCurveService_OtherReserve(t *testing.T) {
	t.Parallel()

	svc := newCurveService()
	y, err := svc.OtherReserve(DefaultAnalysisCurve, true, 0.4)
	if err != nil {
		t.Fatalf("OtherReserve error: %v", err)
	}
	c := DefaultAnalysisCurve
	c.ReserveXPerLiquidity = 0.4
	want, _ := c.YGivenX()
	if math.Abs(y-want) > normalcurve.DefaultEpsilon {
		t.Fatalf("reserve %v, want %v", y, want)
	}
}

func TestCurveService_OtherReserveNoConvergence(t *testing.T) {
	t.Parallel()

	opts := normalcurve.DefaultSearchOptions()
	opts.MaxIterations = 2
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewCurveService(logger, metrics.New(), opts)

	if _, err := svc.OtherReserve(DefaultAnalysisCurve, true, 0.4); !errors.Is(err, bisection.ErrNoConvergence) {
		t.Fatalf("expected ErrNoConvergence, got %v", err)
	}
}

func TestCurveService_AmountOut(t *testing.T) {
	t.Parallel()

	out, err := newCurveService().AmountOut(DefaultAnalysisCurve, true, 0.1)
	if err != nil {
		t.Fatalf("AmountOut error: %v", err)
	}
	if out <= 0 || out >= DefaultAnalysisCurve.ReserveYPerLiquidity {
		t.Fatalf("amount out %v out of range", out)
	}
}

func TestCurveService_Coordinates(t *testing.T) {
	t.Parallel()

	svc := newCurveService()
	points, err := svc.Coordinates(DefaultAnalysisCurve, normalcurve.DefaultStep)
	if err != nil {
		t.Fatalf("Coordinates error: %v", err)
	}
	if len(points) != 100 {
		t.Fatalf("expected 100 points, got %d", len(points))
	}
	if points[0].X != 0 || points[0].Y != DefaultAnalysisCurve.StrikePrice {
		t.Fatalf("first point %+v, want (0, K)", points[0])
	}
	for i := 1; i < len(points); i++ {
		if points[i].Y >= points[i-1].Y {
			t.Fatalf("y not decreasing at %d: %+v after %+v", i, points[i], points[i-1])
		}
	}

	for _, step := range []float64{0, 1, 1e-9, 1e-300, math.NaN()} {
		if _, err := svc.Coordinates(DefaultAnalysisCurve, step); !errors.Is(err, ErrInvalidStep) {
			t.Fatalf("step %v: expected ErrInvalidStep, got %v", step, err)
		}
	}
	bad := DefaultAnalysisCurve
	bad.StrikePrice = -1
	if _, err := svc.Coordinates(bad, 0.1); !errors.Is(err, normalcurve.ErrDomain) {
		t.Fatalf("expected ErrDomain, got %v", err)
	}
}
