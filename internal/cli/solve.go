package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njchilds90/metnum/internal/report"
	"github.com/njchilds90/metnum/newton"
)

func newSolveCommand(a *app) *cobra.Command {
	var (
		equations []string
		guess     []float64
	)
	cmd := &cobra.Command{
		Use:   "solve [F1 F2 F3]",
		Short: "Solve three nonlinear equations in x, y, z with Newton–Raphson",
		Long: `solve finds x, y, z with F1 = F2 = F3 = 0. The Jacobian is derived
symbolically; every step solves J·δ = −F and the run stops once ‖δ‖₂ is at
most --tol or after --max-iter steps. A singular Jacobian stops the run and
prints the iterations completed so far.`,
		Example: `  metnum solve "x**2 + y**2 + z**2 - 1" "x**2 - y**2 + z - 0.5" "x - y + z - 0.5" --guess 0.6,0.6,0.4`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 3 {
				return fmt.Errorf("solve takes 0 or 3 equations, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := a.cfg.Solve
			if len(args) == 3 {
				sc.Equations = args
			} else if changed(cmd, "eq") {
				sc.Equations = equations
			}
			if changed(cmd, "guess") {
				sc.Guess = guess
			}
			if len(sc.Equations) != 3 || len(sc.Guess) != 3 {
				return fmt.Errorf("need 3 equations and a 3-component guess, got %d and %d", len(sc.Equations), len(sc.Guess))
			}

			sys, err := newton.ParseSystem(sc.Equations3())
			if err != nil {
				return err
			}
			opts := newton.Options{MaxIter: sc.MaxIter, Tol: sc.Tol, CondLimit: sc.CondLimit}
			res, solveErr := newton.Solve(sys, sc.Guess3(), opts)
			if errors.Is(solveErr, newton.ErrInvalidOptions) {
				return solveErr
			}
			a.log.Debug("newton finished", "status", res.Status, "iterations", res.Iterations)

			out := report.Solution{
				Equations: sc.Equations3(),
				Jacobian:  sys.Jacobian().Strings(),
				Guess:     sc.Guess3(),
				Result:    res,
			}
			if r, err := sys.Residual(res.Solution); err == nil {
				out.Residual = &r
			}
			if solveErr != nil {
				out.Error = solveErr.Error()
			}
			if err := report.WriteSolution(cmd.OutOrStdout(), a.format, out); err != nil {
				return err
			}
			return solveErr
		},
	}
	f := cmd.Flags()
	f.StringArrayVar(&equations, "eq", nil, "equation, repeat three times (default from config)")
	f.Float64SliceVar(&guess, "guess", nil, "initial guess x,y,z (default from config)")
	f.Int("max-iter", 10, "maximum number of Newton steps")
	f.Float64("tol", 1e-6, "convergence threshold on the step norm")
	f.Float64("cond-limit", 0, "largest accepted Jacobian condition number (0 for the default)")
	bindOnRun(cmd, "max-iter", "solve.max_iter")
	bindOnRun(cmd, "tol", "solve.tol")
	bindOnRun(cmd, "cond-limit", "solve.cond_limit")
	return cmd
}
