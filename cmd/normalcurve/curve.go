package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInvariantCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "invariant",
		Short: "Print the invariant implied by the reserves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := opts.curveService(cmd).Invariant(opts.curve)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), k)
			return err
		},
	}
}

func newSolveYCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "solve-y",
		Short: "Print the y reserve on the zero-invariant curve for --x",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			y, err := opts.curveService(cmd).SolveY(opts.curve)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), y)
			return err
		},
	}
}

func newSolveXCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "solve-x",
		Short: "Print the x reserve for --y at the invariant of --x and --y",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := opts.curveService(cmd).SolveX(opts.curve)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), x)
			return err
		},
	}
}

func newAmountOutCmd(opts *options) *cobra.Command {
	var (
		sell     bool
		amountIn float64
	)
	cmd := &cobra.Command{
		Use:   "amount-out",
		Short: "Print the output of a swap",
		Long: `Print the output of a swap.

With --sell the amount is added to the x reserve and y is paid out; without it
the amount is added to the y reserve and x is paid out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := opts.curveService(cmd).AmountOut(opts.curve, sell, amountIn)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&sell, "sell", false, "sell x for y")
	cmd.Flags().Float64Var(&amountIn, "amount-in", 0, "amount of the input asset per unit of liquidity")
	_ = cmd.MarkFlagRequired("amount-in")
	return cmd
}

func newCoordinatesCmd(opts *options) *cobra.Command {
	var step float64
	cmd := &cobra.Command{
		Use:   "coordinates",
		Short: "Print x y pairs of the zero-invariant curve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := opts.curveService(cmd).Coordinates(opts.curve, step)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, p := range points {
				if _, err := fmt.Fprintln(w, p.X, p.Y); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&step, "step", 0.01, "x spacing in [1e-6, 1)")
	return cmd
}
