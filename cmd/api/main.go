package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"

	"github.com/nulln0ne/normal-curve-oracle/internal/config"
	"github.com/nulln0ne/normal-curve-oracle/internal/eth"
	"github.com/nulln0ne/normal-curve-oracle/internal/logging"
	"github.com/nulln0ne/normal-curve-oracle/internal/metrics"
	"github.com/nulln0ne/normal-curve-oracle/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		ethereumClient *ethclient.Client
		oracle         service.Oracle
	)
	if cfg.AnalysisEnabled() {
		var lib *eth.StrategyLib
		lib, ethereumClient, err = eth.DialStrategyLib(ctx, cfg.RPCEndpoint, cfg.StrategyLibAddress())
		if err != nil {
			return fmt.Errorf("failed to connect to Ethereum node: %w", err)
		}
		defer ethereumClient.Close()
		oracle = lib
		logger.Info("contract analysis enabled", "strategy_lib", lib.Address().Hex())
	} else {
		logger.Info("contract analysis disabled, ETH_RPC_URL is not set")
	}

	curveService := service.NewCurveService(logger, m, cfg.SearchOptions())
	analysisService := service.NewAnalysisService(logger, m, oracle, service.DefaultAnalysisCurve, cfg.AnalysisStep)
	app := newApp(logger, curveService, analysisService)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			_ = app.Shutdown()
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("shutdown did not complete", "err", err)
	}
	return nil
}
