package quadrature_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"github.com/njchilds90/metnum/expr"
	"github.com/njchilds90/metnum/quadrature"
)

func poly(x float64) (float64, error) { return x*x + 3*x + 2, nil }

func TestIntegrate_Polynomial(t *testing.T) {
	got, err := quadrature.Integrate(poly, 0, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if s := fmt.Sprintf("%.6f", got); s != "3.835000" {
		t.Errorf("want 3.835000, got %s", s)
	}
}

func TestIntegrate_ErrorShrinksQuadratically(t *testing.T) {
	exact := 1.0/3 + 1.5 + 2
	for _, n := range []int{10, 20, 40, 80} {
		got, err := quadrature.Integrate(poly, 0, 1, n)
		if err != nil {
			t.Fatal(err)
		}
		// Trapezoid error for x^2 on [0,1] is h^2/6.
		want := 1 / (6 * float64(n*n))
		if e := got - exact; math.Abs(e-want) > 1e-12 {
			t.Errorf("n=%d: want error %g, got %g", n, want, e)
		}
	}
}

func TestIntegrate_InvalidPartition(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		_, err := quadrature.Integrate(poly, 0, 1, n)
		if !errors.Is(err, quadrature.ErrInvalidPartition) {
			t.Errorf("n=%d: want ErrInvalidPartition, got %v", n, err)
		}
	}
}

func TestIntegrate_EmptyInterval(t *testing.T) {
	calls := 0
	f := func(float64) (float64, error) {
		calls++
		return math.NaN(), errors.New("should not be called")
	}
	for _, n := range []int{1, 10, 1000} {
		got, err := quadrature.Integrate(f, 2.5, 2.5, n)
		if err != nil || got != 0 {
			t.Errorf("n=%d: want 0, got %g (%v)", n, got, err)
		}
	}
	if calls != 0 {
		t.Errorf("integrand should not be sampled, got %d calls", calls)
	}
}

func TestIntegrate_ReversedBounds(t *testing.T) {
	fwd, _ := quadrature.Integrate(poly, 0, 1, 10)
	rev, err := quadrature.Integrate(poly, 1, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(fwd+rev) > 1e-12 {
		t.Errorf("want %g, got %g", -fwd, rev)
	}
}

func TestIntegrate_SingleTrapezoid(t *testing.T) {
	got, err := quadrature.Integrate(poly, 0, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	// (f(0) + f(1)) / 2 = (2 + 6) / 2
	if got != 4 {
		t.Errorf("want 4, got %g", got)
	}
}

func TestIntegrate_SampleErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	f := func(x float64) (float64, error) {
		if x > 0.5 {
			return 0, boom
		}
		return x, nil
	}
	_, err := quadrature.Integrate(f, 0, 1, 4)
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped integrand error, got %v", err)
	}
	var se *quadrature.SampleError
	if !errors.As(err, &se) {
		t.Fatalf("want *SampleError, got %T", err)
	}
	if se.Index != 3 || se.X != 0.75 {
		t.Errorf("want failure at sample 3 (x=0.75), got %d (x=%g)", se.Index, se.X)
	}
}

func TestIntegrate_MatchesGonum(t *testing.T) {
	const n = 64
	f := func(x float64) (float64, error) { return math.Sin(x) * math.Exp(-x), nil }
	got, err := quadrature.Integrate(f, 0, math.Pi, n)
	if err != nil {
		t.Fatal(err)
	}
	xs := floats.Span(make([]float64, n+1), 0, math.Pi)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i], _ = f(x)
	}
	want := integrate.Trapezoidal(xs, ys)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("want %g, got %g", want, got)
	}
}

func TestFromExpr(t *testing.T) {
	f, err := quadrature.FromExpr(expr.MustParse("x**2 + 3*x + 2"), "x")
	if err != nil {
		t.Fatal(err)
	}
	got, err := quadrature.Integrate(f, 0, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-3.835) > 1e-12 {
		t.Errorf("want 3.835, got %g", got)
	}
}

func TestFromExpr_ForeignSymbol(t *testing.T) {
	_, err := quadrature.FromExpr(expr.MustParse("x*y"), "x")
	if !errors.Is(err, expr.ErrUnboundSymbol) {
		t.Errorf("want ErrUnboundSymbol, got %v", err)
	}
}

func TestIntegrateString_EvaluationError(t *testing.T) {
	_, err := quadrature.IntegrateString("1/x", "x", 0, 1, 10)
	if !errors.Is(err, expr.ErrEvaluation) {
		t.Fatalf("want ErrEvaluation, got %v", err)
	}
	var se *quadrature.SampleError
	if !errors.As(err, &se) || se.Index != 0 {
		t.Errorf("want failure at sample 0, got %v", err)
	}
}

func TestIntegrateString_OverflowingPower(t *testing.T) {
	v, err := quadrature.IntegrateString("2^18446744073709551617", "x", 0, 1, 10)
	if !errors.Is(err, expr.ErrEvaluation) {
		t.Errorf("want ErrEvaluation, got value %g and error %v", v, err)
	}
}

func TestIntegrateString_ParseError(t *testing.T) {
	_, err := quadrature.IntegrateString("x +* 2", "x", 0, 1, 10)
	if !errors.Is(err, expr.ErrParse) {
		t.Errorf("want ErrParse, got %v", err)
	}
}
