package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njchilds90/metnum/expr"
	"github.com/njchilds90/metnum/internal/report"
)

func newDiffCommand(a *app) *cobra.Command {
	var (
		variable string
		order    int
	)
	cmd := &cobra.Command{
		Use:     "diff FORMULA",
		Short:   "Differentiate a formula symbolically",
		Example: `  metnum diff "sin(x)*exp(-x)" --var x -n 2`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if order < 0 {
				return fmt.Errorf("order must be non-negative, got %d", order)
			}
			e, err := expr.Parse(args[0])
			if err != nil {
				return err
			}
			d := expr.DiffN(e, variable, order)
			w := cmd.OutOrStdout()
			if a.format == report.JSON {
				return report.WriteJSON(w, map[string]interface{}{
					"expr":       e.String(),
					"derivative": d.String(),
					"tree":       expr.Tree(d),
				})
			}
			_, err = fmt.Fprintln(w, d)
			return err
		},
	}
	cmd.Flags().StringVar(&variable, "var", "x", "differentiation variable")
	cmd.Flags().IntVarP(&order, "order", "n", 1, "order of the derivative")
	return cmd
}
