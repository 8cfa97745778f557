package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nulln0ne/normal-curve-oracle/internal/config"
	"github.com/nulln0ne/normal-curve-oracle/internal/eth"
	"github.com/nulln0ne/normal-curve-oracle/internal/logging"
	"github.com/nulln0ne/normal-curve-oracle/internal/metrics"
	"github.com/nulln0ne/normal-curve-oracle/internal/service"
	"github.com/nulln0ne/normal-curve-oracle/pkg/normalcurve"
)

func newAnalyzeCmd(opts *options) *cobra.Command {
	var (
		name    string
		subtype string
		step    float64
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compare the float curve to the deployed strategy library",
		Long: `Compare the float curve to the deployed strategy library.

Analyses: trading_function (approximateYGivenX), invariant (tradingFunction)
and x_given_y (approximateXGivenY).

Requires ETH_RPC_URL and NORMAL_STRATEGY_LIB. The sweep always starts from the
reference curve; the persistent curve flags do not apply.

Example:
  $ normalcurve analyze --subtype curve --step 0.01
  $ normalcurve analyze --name invariant`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if !cfg.AnalysisEnabled() {
				return fmt.Errorf("%w: set ETH_RPC_URL", service.ErrNoOracle)
			}
			st, err := service.ParseSubtype(subtype)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("step") {
				step = cfg.AnalysisStep
			}
			if !normalcurve.ValidStep(step) {
				return fmt.Errorf("%w: %g", service.ErrInvalidStep, step)
			}

			ctx := cmd.Context()
			lib, client, err := eth.DialStrategyLib(ctx, cfg.RPCEndpoint, cfg.StrategyLibAddress())
			if err != nil {
				return fmt.Errorf("failed to connect to Ethereum node: %w", err)
			}
			defer client.Close()

			logger := logging.NewLoggerTo(cmd.ErrOrStderr(), opts.logLevel, "text")
			svc := service.NewAnalysisService(logger, metrics.New(), lib, service.DefaultAnalysisCurve, step)
			report, err := svc.Run(ctx, name, st)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			for _, p := range report.Points {
				if st == service.SubtypeCurve {
					fmt.Fprintln(w, p.X, p.Float, p.Contract)
				} else {
					fmt.Fprintln(w, p.X, p.Error)
				}
			}
			_, err = fmt.Fprintln(w, "max_abs_error", report.MaxAbsError)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", service.AnalysisTradingFunction, "analysis to run: "+strings.Join(service.Analyses(), ", "))
	cmd.Flags().StringVar(&subtype, "subtype", string(service.SubtypeError), "series to print (error, curve)")
	cmd.Flags().Float64Var(&step, "step", service.DefaultStep, "x spacing of the sweep, defaults to ANALYSIS_STEP")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")
	return cmd
}
