package cli

import (
	"github.com/spf13/cobra"

	"github.com/njchilds90/metnum/internal/report"
	"github.com/njchilds90/metnum/quadrature"
)

func newIntegrateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "integrate [FORMULA]",
		Short: "Approximate a definite integral with the trapezoidal rule",
		Example: `  metnum integrate "x**2 + 3*x + 2" --a 0 --b 1 -n 10
  metnum integrate "sin(t)" --var t --b 3.14159 -n 100`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ic := a.cfg.Integrate
			if len(args) == 1 {
				ic.Function = args[0]
			}
			val, err := quadrature.IntegrateString(ic.Function, ic.Variable, ic.A, ic.B, ic.N)
			if err != nil {
				return err
			}
			a.log.Debug("integrated", "function", ic.Function, "a", ic.A, "b", ic.B, "n", ic.N, "value", val)
			return report.WriteIntegral(cmd.OutOrStdout(), a.format, report.Integral{
				Function: ic.Function,
				Variable: ic.Variable,
				A:        ic.A,
				B:        ic.B,
				N:        ic.N,
				Value:    val,
			})
		},
	}
	f := cmd.Flags()
	f.String("var", "x", "integration variable")
	f.Float64("a", 0, "lower bound")
	f.Float64("b", 1, "upper bound")
	f.IntP("partitions", "n", 10, "number of trapezoids")
	bindOnRun(cmd, "var", "integrate.variable")
	bindOnRun(cmd, "a", "integrate.a")
	bindOnRun(cmd, "b", "integrate.b")
	bindOnRun(cmd, "partitions", "integrate.n")
	return cmd
}
