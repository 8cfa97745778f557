package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nulln0ne/normal-curve-oracle/internal/eth"
	"github.com/nulln0ne/normal-curve-oracle/internal/eth/ethtest"
	"github.com/nulln0ne/normal-curve-oracle/internal/metrics"
)

const testStrategyLib = "0x0000000000000000000000000000000000000b0b"

func newAnalysisService(t *testing.T, ledger *ethtest.Ledger, step float64) *AnalysisService {
	t.Helper()
	lib, err := eth.NewStrategyLib(ledger.Client(t), common.HexToAddress(testStrategyLib))
	if err != nil {
		t.Fatalf("NewStrategyLib error: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAnalysisService(logger, metrics.New(), lib, DefaultAnalysisCurve, step)
}

func TestParseSubtype(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Subtype
		wantErr bool
	}{
		{"", SubtypeError, false},
		{"error", SubtypeError, false},
		{" Curve ", SubtypeCurve, false},
		{"surface", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSubtype(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownSubtype) {
				t.Fatalf("ParseSubtype(%q) expected ErrUnknownSubtype, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseSubtype(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestAnalysisService_TradingFunctionError(t *testing.T) {
	t.Parallel()

	ledger := ethtest.NewLedger(t)
	ledger.Skew = 1e-6
	svc := newAnalysisService(t, ledger, 0.01)

	report, err := svc.TradingFunction(context.Background(), SubtypeError)
	if err != nil {
		t.Fatalf("TradingFunction error: %v", err)
	}
	if len(report.Points) != 99 {
		t.Fatalf("expected 99 points, got %d", len(report.Points))
	}
	if ledger.Calls() != 99 {
		t.Fatalf("expected 99 eth_call requests, got %d", ledger.Calls())
	}
	if report.Points[0].X != 0.01 || report.Points[98].X >= 1 {
		t.Fatalf("unexpected sweep bounds %v..%v", report.Points[0].X, report.Points[98].X)
	}
	if math.Abs(report.MaxAbsError-1e-6) > 1e-12 {
		t.Fatalf("max abs error %v, want ~1e-6", report.MaxAbsError)
	}
	errs, ok := report.Series["error"]
	if !ok || len(errs) != len(report.Points) {
		t.Fatalf("missing error series: %v", report.Series)
	}
	if _, ok := report.Series["float"]; ok {
		t.Fatalf("error subtype should not carry the float series")
	}
}

func TestAnalysisService_TradingFunctionCurve(t *testing.T) {
	t.Parallel()

	svc := newAnalysisService(t, ethtest.NewLedger(t), 0.1)

	report, err := svc.Run(context.Background(), AnalysisTradingFunction, SubtypeCurve)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	floats, contracts := report.Series["float"], report.Series["contract"]
	if len(floats) != len(report.Points) || len(contracts) != len(report.Points) {
		t.Fatalf("unexpected series lengths: %d %d", len(floats), len(contracts))
	}
	for i := range floats {
		if math.Abs(floats[i]-contracts[i]) > 1e-15 {
			t.Fatalf("point %d: float %v contract %v", i, floats[i], contracts[i])
		}
	}
}

func TestAnalysisService_Errors(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	noOracle := NewAnalysisService(logger, metrics.New(), nil, DefaultAnalysisCurve, DefaultStep)
	if _, err := noOracle.TradingFunction(context.Background(), SubtypeError); !errors.Is(err, ErrNoOracle) {
		t.Fatalf("expected ErrNoOracle, got %v", err)
	}

	svc := newAnalysisService(t, ethtest.NewLedger(t), 0.1)
	if _, err := svc.Run(context.Background(), "surface", SubtypeError); !errors.Is(err, ErrUnknownAnalysis) {
		t.Fatalf("expected ErrUnknownAnalysis, got %v", err)
	}
	if _, err := svc.TradingFunction(context.Background(), "surface"); !errors.Is(err, ErrUnknownSubtype) {
		t.Fatalf("expected ErrUnknownSubtype, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.TradingFunction(ctx, SubtypeError); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	badStep := newAnalysisService(t, ethtest.NewLedger(t), 1)
	if _, err := badStep.TradingFunction(context.Background(), SubtypeError); !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("expected ErrInvalidStep, got %v", err)
	}
}

func TestAnalysisService_LedgerFailure(t *testing.T) {
	t.Parallel()

	ledger := ethtest.NewLedger(t)
	ledger.Fail = errors.New("node unavailable")
	svc := newAnalysisService(t, ledger, 0.1)

	if _, err := svc.TradingFunction(context.Background(), SubtypeError); err == nil {
		t.Fatalf("expected error from failing ledger")
	}
	if ledger.Calls() != 1 {
		t.Fatalf("sweep should stop at the first failure, got %d calls", ledger.Calls())
	}
}

func TestAnalysisService_Invariant(t *testing.T) {
	t.Parallel()

	ledger := ethtest.NewLedger(t)
	ledger.Skew = -3e-7
	svc := newAnalysisService(t, ledger, 0.1)

	report, err := svc.Run(context.Background(), AnalysisInvariant, SubtypeCurve)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.Name != AnalysisInvariant || len(report.Points) != 9 {
		t.Fatalf("unexpected report: name %q, %d points", report.Name, len(report.Points))
	}
	for _, p := range report.Points {
		if math.Abs(p.Float) > 1e-12 {
			t.Fatalf("float invariant %v at x=%v, want about 0", p.Float, p.X)
		}
	}
	if math.Abs(report.MaxAbsError-3e-7) > 1e-12 {
		t.Fatalf("max abs error %v, want ~3e-7", report.MaxAbsError)
	}
}

func TestAnalysisService_XGivenY(t *testing.T) {
	t.Parallel()

	svc := newAnalysisService(t, ethtest.NewLedger(t), 0.1)

	report, err := svc.Run(context.Background(), AnalysisXGivenY, SubtypeError)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	for _, p := range report.Points {
		if math.Abs(p.Float-p.X) > 1e-9 {
			t.Fatalf("float x %v, want %v", p.Float, p.X)
		}
	}
	if report.MaxAbsError > 1e-12 {
		t.Fatalf("max abs error %v, want ~0", report.MaxAbsError)
	}
}

func TestAnalysisService_TinyStep(t *testing.T) {
	t.Parallel()

	for _, step := range []float64{1e-300, 1e-9} {
		ledger := ethtest.NewLedger(t)
		svc := newAnalysisService(t, ledger, step)
		if _, err := svc.TradingFunction(context.Background(), SubtypeError); !errors.Is(err, ErrInvalidStep) {
			t.Fatalf("step %v: expected ErrInvalidStep, got %v", step, err)
		}
		if ledger.Calls() != 0 {
			t.Fatalf("step %v: no eth_call expected, got %d", step, ledger.Calls())
		}
	}
}
