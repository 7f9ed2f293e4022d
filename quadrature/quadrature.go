// Package quadrature approximates definite integrals with the composite
// trapezoidal rule.
package quadrature

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/njchilds90/metnum/expr"
)

// ErrInvalidPartition reports a non-positive partition count.
var ErrInvalidPartition = errors.New("quadrature: partition count must be positive")

// Integrand is a real function of one variable. A non-nil error aborts the
// integration.
type Integrand func(x float64) (float64, error)

// SampleError reports the sample point at which the integrand failed.
type SampleError struct {
	Index int
	X     float64
	Err   error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("quadrature: integrand failed at sample %d (x=%g): %v", e.Index, e.X, e.Err)
}

func (e *SampleError) Unwrap() error { return e.Err }

// Integrate approximates the integral of f over [a, b] using n trapezoids:
//
//	h * (f(x0)/2 + f(x1) + ... + f(x_{n-1}) + f(xn)/2),  h = (b-a)/n
//
// The bounds may be given in either order; a > b negates the result. When
// a == b the result is 0 and f is not called. The first failing sample is
// returned as a *SampleError wrapping the integrand's error.
func Integrate(f Integrand, a, b float64, n int) (float64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: got n=%d", ErrInvalidPartition, n)
	}
	if a == b {
		return 0, nil
	}

	xs := floats.Span(make([]float64, n+1), a, b)
	ys := make([]float64, n+1)
	for i, x := range xs {
		y, err := f(x)
		if err != nil {
			return 0, &SampleError{Index: i, X: x, Err: err}
		}
		ys[i] = y
	}

	h := (b - a) / float64(n)
	interior := floats.Sum(ys[1:n])
	return h * (0.5*ys[0] + 0.5*ys[n] + interior), nil
}

// FromExpr compiles a one-variable expression into an Integrand. Symbols
// other than variable are rejected.
func FromExpr(e expr.Expr, variable string) (Integrand, error) {
	fn, err := expr.Compile(e, variable)
	if err != nil {
		return nil, err
	}
	return fn.Func1(), nil
}

// IntegrateString parses src, compiles it over variable and integrates.
func IntegrateString(src, variable string, a, b float64, n int) (float64, error) {
	e, err := expr.Parse(src)
	if err != nil {
		return 0, err
	}
	f, err := FromExpr(e, variable)
	if err != nil {
		return 0, err
	}
	return Integrate(f, a, b, n)
}
