package config

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/nulln0ne/normal-curve-oracle/pkg/normalcurve"
)

var configEnv = []string{
	"ADDR", "LOG_LEVEL", "LOG_FORMAT", "ETH_RPC_URL", "NORMAL_STRATEGY_LIB",
	"ANALYSIS_STEP", "BISECTION_EPSILON", "BISECTION_MAX_ITER", "INVARIANT_NUDGE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}
	if cfg.Addr != ":1337" || cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.AnalysisEnabled() {
		t.Fatalf("analysis should be disabled without ETH_RPC_URL")
	}
	if cfg.SearchOptions() != normalcurve.DefaultSearchOptions() {
		t.Fatalf("search options %+v, want defaults", cfg.SearchOptions())
	}
	if cfg.AnalysisStep != 0.001 {
		t.Fatalf("analysis step %v, want 0.001", cfg.AnalysisStep)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ETH_RPC_URL", "http://localhost:8545")
	t.Setenv("NORMAL_STRATEGY_LIB", "0x00000000000000000000000000000000000000aa")
	t.Setenv("BISECTION_EPSILON", "1e-9")
	t.Setenv("BISECTION_MAX_ITER", "64")
	t.Setenv("INVARIANT_NUDGE", "0")
	t.Setenv("ANALYSIS_STEP", "0.05")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}
	if !cfg.AnalysisEnabled() {
		t.Fatalf("analysis should be enabled")
	}
	if cfg.StrategyLibAddress() != common.HexToAddress("0xaa") {
		t.Fatalf("unexpected address %s", cfg.StrategyLibAddress().Hex())
	}
	opts := cfg.SearchOptions()
	if opts.Epsilon != 1e-9 || opts.MaxIterations != 64 || opts.Nudge != 0 {
		t.Fatalf("unexpected search options %+v", opts)
	}
	if opts.Lower != 0 || opts.Upper != 1 {
		t.Fatalf("unexpected bracket [%v, %v]", opts.Lower, opts.Upper)
	}
	if cfg.AnalysisStep != 0.05 {
		t.Fatalf("analysis step %v, want 0.05", cfg.AnalysisStep)
	}
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want error
	}{
		{"rpc without library", map[string]string{"ETH_RPC_URL": "http://localhost:8545"}, ErrMissingStrategyLib},
		{"bad library", map[string]string{"ETH_RPC_URL": "http://localhost:8545", "NORMAL_STRATEGY_LIB": "nope"}, ErrInvalidStrategyLib},
		{"bad epsilon", map[string]string{"BISECTION_EPSILON": "tiny"}, ErrInvalidNumber},
		{"bad max iter", map[string]string{"BISECTION_MAX_ITER": "many"}, ErrInvalidNumber},
		{"zero epsilon", map[string]string{"BISECTION_EPSILON": "0"}, ErrOutOfRange},
		{"negative max iter", map[string]string{"BISECTION_MAX_ITER": "-1"}, ErrOutOfRange},
		{"negative nudge", map[string]string{"INVARIANT_NUDGE": "-1e-18"}, ErrOutOfRange},
		{"step of one", map[string]string{"ANALYSIS_STEP": "1"}, ErrOutOfRange},
		{"step below minimum", map[string]string{"ANALYSIS_STEP": "1e-9"}, ErrOutOfRange},
		{"vanishing step", map[string]string{"ANALYSIS_STEP": "1e-300"}, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := FromEnv(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
