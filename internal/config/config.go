// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cast"

	"github.com/nulln0ne/normal-curve-oracle/pkg/normalcurve"
)

type Config struct {
	Addr      string
	LogLevel  string
	LogFormat string

	// RPCEndpoint is optional. Without it the oracle analysis is disabled.
	RPCEndpoint string
	StrategyLib string

	AnalysisStep float64

	BisectionEpsilon float64
	BisectionMaxIter int
	InvariantNudge   float64
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Addr:        getenv("ADDR", ":1337"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFormat:   getenv("LOG_FORMAT", "text"),
		RPCEndpoint: os.Getenv("ETH_RPC_URL"),
		StrategyLib: os.Getenv("NORMAL_STRATEGY_LIB"),
	}

	var err error
	if cfg.AnalysisStep, err = floatEnv("ANALYSIS_STEP", 0.001); err != nil {
		return nil, err
	}
	if cfg.BisectionEpsilon, err = floatEnv("BISECTION_EPSILON", normalcurve.DefaultEpsilon); err != nil {
		return nil, err
	}
	if cfg.InvariantNudge, err = floatEnv("INVARIANT_NUDGE", normalcurve.DefaultNudge); err != nil {
		return nil, err
	}
	if raw := strings.TrimSpace(os.Getenv("BISECTION_MAX_ITER")); raw != "" {
		if cfg.BisectionMaxIter, err = cast.ToIntE(raw); err != nil {
			return nil, fmt.Errorf("%w: BISECTION_MAX_ITER=%q", ErrInvalidNumber, raw)
		}
	} else {
		cfg.BisectionMaxIter = normalcurve.DefaultMaxIterations
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values FromEnv cannot check while parsing.
func (c *Config) Validate() error {
	if c.RPCEndpoint != "" {
		if c.StrategyLib == "" {
			return ErrMissingStrategyLib
		}
		if !common.IsHexAddress(c.StrategyLib) {
			return fmt.Errorf("%w: %q", ErrInvalidStrategyLib, c.StrategyLib)
		}
	}
	if !normalcurve.ValidStep(c.AnalysisStep) {
		return fmt.Errorf("%w: ANALYSIS_STEP must be in [%g, 1), got %g", ErrOutOfRange, normalcurve.MinStep, c.AnalysisStep)
	}
	if !(c.BisectionEpsilon > 0) {
		return fmt.Errorf("%w: BISECTION_EPSILON must be positive, got %g", ErrOutOfRange, c.BisectionEpsilon)
	}
	if c.BisectionMaxIter < 0 {
		return fmt.Errorf("%w: BISECTION_MAX_ITER must not be negative, got %d", ErrOutOfRange, c.BisectionMaxIter)
	}
	if !(c.InvariantNudge >= 0) {
		return fmt.Errorf("%w: INVARIANT_NUDGE must not be negative, got %g", ErrOutOfRange, c.InvariantNudge)
	}
	return nil
}

// AnalysisEnabled reports whether a ledger executor is configured.
func (c *Config) AnalysisEnabled() bool {
	return c.RPCEndpoint != ""
}

// StrategyLibAddress returns the parsed strategy library address.
func (c *Config) StrategyLibAddress() common.Address {
	return common.HexToAddress(c.StrategyLib)
}

// SearchOptions returns the reserve search settings on the default [0, 1]
// bracket.
func (c *Config) SearchOptions() normalcurve.SearchOptions {
	opts := normalcurve.DefaultSearchOptions()
	opts.Epsilon = c.BisectionEpsilon
	opts.MaxIterations = c.BisectionMaxIter
	opts.Nudge = c.InvariantNudge
	return opts
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func floatEnv(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidNumber, key, raw)
	}
	return v, nil
}
