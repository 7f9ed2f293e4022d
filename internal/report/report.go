// Package report renders results as aligned text or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/njchilds90/metnum/newton"
	"github.com/njchilds90/metnum/plotdata"
)

type Format string

const (
	Text Format = "text"
	JSON Format = "json"
)

// ParseFormat accepts "text" or "json".
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case Text, JSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("report: unknown format %q", s)
}

// Integral describes one quadrature run.
type Integral struct {
	Function string  `json:"function"`
	Variable string  `json:"variable"`
	A        float64 `json:"a"`
	B        float64 `json:"b"`
	N        int     `json:"n"`
	Value    float64 `json:"value"`
}

// Solution describes one Newton run. Residual is omitted when the
// solution could not be evaluated.
type Solution struct {
	Equations [3]string     `json:"equations"`
	Jacobian  [][]string    `json:"jacobian,omitempty"`
	Guess     [3]float64    `json:"guess"`
	Result    newton.Result `json:"result"`
	Residual  *[3]float64   `json:"residual,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// WriteIntegral prints the value to six decimals in text mode.
func WriteIntegral(w io.Writer, f Format, r Integral) error {
	if f == JSON {
		return WriteJSON(w, r)
	}
	_, err := fmt.Fprintf(w, "∫ %s d%s over [%g, %g], n = %d: %.6f\n", r.Function, r.Variable, r.A, r.B, r.N, r.Value)
	return err
}

// WriteSolution prints the Jacobian, the iteration table and the outcome.
func WriteSolution(w io.Writer, f Format, s Solution) error {
	if f == JSON {
		return WriteJSON(w, s)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if len(s.Jacobian) > 0 {
		fmt.Fprintln(tw, "Jacobian:")
		for _, row := range s.Jacobian {
			for _, cell := range row {
				fmt.Fprintf(tw, "  %s\t", cell)
			}
			fmt.Fprintln(tw)
		}
		fmt.Fprintln(tw)
	}
	if len(s.Result.History) == 0 {
		fmt.Fprintln(tw, "No iterations recorded.")
	} else {
		fmt.Fprintln(tw, "Iteration\tx\ty\tz\tError\t")
		for _, r := range s.Result.History {
			fmt.Fprintf(tw, "%d\t%.6f\t%.6f\t%.6f\t%.3e\t\n", r.Iteration, r.X, r.Y, r.Z, r.Error)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	sol := s.Result.Solution
	fmt.Fprintf(w, "\nStatus: %s after %d iteration(s)\n", s.Result.Status, s.Result.Iterations)
	fmt.Fprintf(w, "Solution: x = %.6f, y = %.6f, z = %.6f\n", sol[0], sol[1], sol[2])
	if s.Residual != nil {
		r := *s.Residual
		fmt.Fprintf(w, "Residual: %.3e, %.3e, %.3e\n", r[0], r[1], r[2])
	}
	if s.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", s.Error)
	}
	return nil
}

// WriteCurve prints one x, y pair per line; shaded points are starred.
func WriteCurve(w io.Writer, f Format, c plotdata.Curve) error {
	if f == JSON {
		return WriteJSON(w, c)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "x\ty\t")
	for _, p := range c.Points {
		mark := ""
		if p.Shaded {
			mark = "*"
		}
		fmt.Fprintf(tw, "%.6g\t%.6g\t%s\n", p.X, p.Y, mark)
	}
	return tw.Flush()
}

// WriteSurface prints the grid with x along the columns.
func WriteSurface(w io.Writer, f Format, s plotdata.Surface) error {
	if f == JSON {
		return WriteJSON(w, s)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "y \\ x\t")
	for _, x := range s.X {
		fmt.Fprintf(tw, "%.4g\t", x)
	}
	fmt.Fprintln(tw)
	for i, y := range s.Y {
		fmt.Fprintf(tw, "%.4g\t", y)
		for _, z := range s.Z[i] {
			fmt.Fprintf(tw, "%.4g\t", z)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
