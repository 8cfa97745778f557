package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nulln0ne/normal-curve-oracle/internal/logging"
	"github.com/nulln0ne/normal-curve-oracle/internal/metrics"
	"github.com/nulln0ne/normal-curve-oracle/internal/service"
	"github.com/nulln0ne/normal-curve-oracle/pkg/normalcurve"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	curve    normalcurve.Curve
	search   normalcurve.SearchOptions
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &options{
		curve:  service.DefaultAnalysisCurve,
		search: normalcurve.DefaultSearchOptions(),
	}

	root := &cobra.Command{
		Use:   "normalcurve",
		Short: "Evaluate and solve the normal-CDF trading curve",
		Long: `Evaluate and solve the normal-CDF trading curve.

The curve state defaults to x = y = 0.308537538726, strike 1, volatility 1 and
one year to maturity. Override any field with the persistent flags.

Example:
  $ normalcurve invariant
  $ normalcurve amount-out --x 0.3 --y 0.3 --sell --amount-in 0.1`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addCurveFlags(root.PersistentFlags(), &opts.curve)
	addSearchFlags(root.PersistentFlags(), &opts.search)
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr (debug, info, warn, error)")

	root.AddCommand(
		newInvariantCmd(opts),
		newSolveYCmd(opts),
		newSolveXCmd(opts),
		newAmountOutCmd(opts),
		newCoordinatesCmd(opts),
		newAnalyzeCmd(opts),
	)
	return root
}

func addCurveFlags(fs *pflag.FlagSet, c *normalcurve.Curve) {
	fs.Float64Var(&c.ReserveXPerLiquidity, "x", c.ReserveXPerLiquidity, "x reserve per unit of liquidity")
	fs.Float64Var(&c.ReserveYPerLiquidity, "y", c.ReserveYPerLiquidity, "y reserve per unit of liquidity")
	fs.Float64Var(&c.StrikePrice, "strike", c.StrikePrice, "strike price K")
	fs.Float64Var(&c.Volatility, "vol", c.Volatility, "annualized volatility")
	fs.Float64Var(&c.TimeRemainingSeconds, "tau", c.TimeRemainingSeconds, "seconds to maturity")
	fs.Float64Var(&c.Invariant, "k", c.Invariant, "current invariant")
}

func addSearchFlags(fs *pflag.FlagSet, s *normalcurve.SearchOptions) {
	fs.Float64Var(&s.Lower, "lower", s.Lower, "lower end of the reserve search bracket")
	fs.Float64Var(&s.Upper, "upper", s.Upper, "upper end of the reserve search bracket")
	fs.Float64Var(&s.Epsilon, "epsilon", s.Epsilon, "reserve search tolerance")
	fs.IntVar(&s.MaxIterations, "max-iter", s.MaxIterations, "reserve search iteration cap")
	fs.Float64Var(&s.Nudge, "nudge", s.Nudge, "offset added to the target invariant")
}

func (o *options) curveService(cmd *cobra.Command) *service.CurveService {
	logger := logging.NewLoggerTo(cmd.ErrOrStderr(), o.logLevel, "text")
	return service.NewCurveService(logger, metrics.New(), o.search)
}
