package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njchilds90/metnum/expr"
	"github.com/njchilds90/metnum/internal/report"
	"github.com/njchilds90/metnum/newton"
	"github.com/njchilds90/metnum/plotdata"
)

func newSampleCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print the data behind the integration and system plots",
	}
	cmd.AddCommand(newSampleCurveCommand(a), newSampleSurfaceCommand(a), newSampleContoursCommand(a))
	return cmd
}

func newSampleCurveCommand(a *app) *cobra.Command {
	var nodes bool
	cmd := &cobra.Command{
		Use:   "curve [FORMULA]",
		Short: "Sample the integrand over its padded range, starring points inside [a, b]",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ic := a.cfg.Integrate
			if len(args) == 1 {
				ic.Function = args[0]
			}
			fn, err := expr.CompileString(ic.Function, ic.Variable)
			if err != nil {
				return err
			}
			var c plotdata.Curve
			if nodes {
				c, err = plotdata.TrapezoidNodes(fn.Func1(), ic.A, ic.B, ic.N)
			} else {
				c, err = plotdata.IntegrationCurve(fn.Func1(), ic.A, ic.B, ic.Points)
			}
			if err != nil {
				return err
			}
			return report.WriteCurve(cmd.OutOrStdout(), a.format, c)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&nodes, "nodes", false, "print the n+1 trapezoid vertices instead")
	f.String("var", "x", "variable")
	f.Float64("a", 0, "lower integration bound")
	f.Float64("b", 1, "upper integration bound")
	f.IntP("partitions", "n", 10, "number of trapezoids (with --nodes)")
	f.Int("points", 100, "number of samples")
	bindOnRun(cmd, "var", "integrate.variable")
	bindOnRun(cmd, "a", "integrate.a")
	bindOnRun(cmd, "b", "integrate.b")
	bindOnRun(cmd, "partitions", "integrate.n")
	bindOnRun(cmd, "points", "integrate.points")
	return cmd
}

func newSampleSurfaceCommand(a *app) *cobra.Command {
	var (
		equation int
		points   int
		z        float64
	)
	cmd := &cobra.Command{
		Use:   "surface [FORMULA]",
		Short: "Sample an equation in x, y, z on a grid at fixed z",
		Long: `surface evaluates FORMULA, or the chosen configured equation, on a
grid over [-1.5, 1.5]² with z held fixed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := ""
			switch {
			case len(args) == 1:
				src = args[0]
			case equation >= 1 && equation <= len(a.cfg.Solve.Equations):
				src = a.cfg.Solve.Equations[equation-1]
			default:
				return fmt.Errorf("equation must be between 1 and %d, got %d", len(a.cfg.Solve.Equations), equation)
			}
			fn, err := expr.CompileString(src, newton.Variables...)
			if err != nil {
				return err
			}
			r := plotdata.DefaultSurfaceRange
			s, err := plotdata.SampleSurface(fn, r, r, points, z)
			if err != nil {
				return err
			}
			return report.WriteSurface(cmd.OutOrStdout(), a.format, s)
		},
	}
	f := cmd.Flags()
	f.IntVar(&equation, "equation", 1, "configured equation to sample (1-3)")
	f.IntVar(&points, "points", plotdata.DefaultSurfacePoints, "grid points per axis")
	f.Float64Var(&z, "z", 0, "fixed z value")
	return cmd
}

func newSampleContoursCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "contours",
		Short: "Sample the first two configured equations on the default grid at z = 0",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := newton.ParseSystem(a.cfg.Solve.Equations3())
			if err != nil {
				return err
			}
			surfaces, err := plotdata.SystemContours(sys.Equations())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.format == report.JSON {
				return report.WriteJSON(w, surfaces)
			}
			for k, s := range surfaces {
				if k > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "f%d = %s\n", k+1, sys.Equations()[k])
				if err := report.WriteSurface(w, a.format, s); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
