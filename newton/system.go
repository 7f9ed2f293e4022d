// Package newton solves three nonlinear equations in x, y and z with the
// Newton–Raphson method.
//
// The Jacobian is derived symbolically once per system; each iteration
// evaluates the compiled equations and partials, factorizes the Jacobian
// and solves J·δ = −F.
package newton

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/njchilds90/metnum/expr"
)

// Variables is the coordinate order of every iterate, equation argument
// list and Jacobian column.
var Variables = []string{"x", "y", "z"}

// System is a preprocessed 3×3 nonlinear system. It is immutable and may
// be solved repeatedly, also concurrently.
type System struct {
	equations [3]expr.Expr
	jacobian  *expr.Matrix
	f         [3]*expr.Numeric
	j         *expr.NumericMatrix
}

// NewSystem differentiates the equations with respect to x, y and z and
// compiles equations and partials. Every free symbol must be one of x, y
// or z.
func NewSystem(f1, f2, f3 expr.Expr) (*System, error) {
	sys := &System{equations: [3]expr.Expr{f1.Simplify(), f2.Simplify(), f3.Simplify()}}
	for i, eq := range sys.equations {
		fn, err := expr.Compile(eq, Variables...)
		if err != nil {
			return nil, fmt.Errorf("newton: equation %d: %w", i+1, err)
		}
		sys.f[i] = fn
	}
	sys.jacobian = expr.Jacobian(sys.equations[:], Variables)
	j, err := expr.CompileMatrix(sys.jacobian, Variables...)
	if err != nil {
		return nil, fmt.Errorf("newton: jacobian: %w", err)
	}
	sys.j = j
	return sys, nil
}

// ParseSystem parses three formulas and builds a System.
func ParseSystem(src [3]string) (*System, error) {
	var eqs [3]expr.Expr
	for i, s := range src {
		e, err := expr.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("newton: equation %d: %w", i+1, err)
		}
		eqs[i] = e
	}
	return NewSystem(eqs[0], eqs[1], eqs[2])
}

// Equations returns the simplified equations.
func (s *System) Equations() [3]expr.Expr { return s.equations }

// Jacobian returns the symbolic 3×3 Jacobian; entry (i, j) is
// ∂f_i/∂Variables[j].
func (s *System) Jacobian() *expr.Matrix { return s.jacobian }

// Residual evaluates the three equations at p.
func (s *System) Residual(p [3]float64) ([3]float64, error) {
	var out [3]float64
	for i, fn := range s.f {
		v, err := fn.Eval(p[0], p[1], p[2])
		if err != nil {
			return out, fmt.Errorf("equation %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

// JacobianAt evaluates the Jacobian at p into dst, which must be 3×3.
func (s *System) JacobianAt(dst *mat.Dense, p [3]float64) error {
	return s.j.EvalInto(dst, p[0], p[1], p[2])
}
