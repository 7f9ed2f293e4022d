package expr_test

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/njchilds90/metnum/expr"
)

func TestCompile_Polynomial(t *testing.T) {
	f, err := expr.CompileString("x**2 + 3*x + 2", "x")
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range []struct{ x, want float64 }{{0, 2}, {1, 6}, {2, 12}, {-1, 0}} {
		got, err := f.Eval(c.x)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Errorf("f(%g): want %g, got %g", c.x, c.want, got)
		}
	}
}

func TestCompile_VariableOrder(t *testing.T) {
	f, err := expr.CompileString("x - y", "y", "x")
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.Eval(1, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got != 4 {
		t.Errorf("want 4, got %g", got)
	}
}

func TestCompile_UnusedVariablesAllowed(t *testing.T) {
	f, err := expr.CompileString("2*y", "x", "y", "z")
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.Eval(9, 3, 9)
	if err != nil {
		t.Fatal(err)
	}
	if got != 6 {
		t.Errorf("want 6, got %g", got)
	}
}

func TestCompile_Transcendental(t *testing.T) {
	f, err := expr.CompileString("sin(pi/2) + exp(0) + ln(E)", "x")
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.Eval(0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-3) > 1e-12 {
		t.Errorf("want 3, got %g", got)
	}
}

func TestCompile_UnboundSymbol(t *testing.T) {
	_, err := expr.CompileString("x + w", "x")
	if !errors.Is(err, expr.ErrUnboundSymbol) {
		t.Fatalf("want ErrUnboundSymbol, got %v", err)
	}
}

func TestCompile_DuplicateVariable(t *testing.T) {
	if _, err := expr.CompileString("x", "x", "x"); err == nil {
		t.Error("duplicate variable should be rejected")
	}
}

func TestCompile_ParseErrorPassesThrough(t *testing.T) {
	_, err := expr.CompileString("x +", "x")
	if !errors.Is(err, expr.ErrParse) {
		t.Fatalf("want ErrParse, got %v", err)
	}
}

func TestEval_Arity(t *testing.T) {
	f, _ := expr.CompileString("x*y", "x", "y")
	if _, err := f.Eval(1); !errors.Is(err, expr.ErrArity) {
		t.Errorf("want ErrArity, got %v", err)
	}
}

func TestEval_NonFinite(t *testing.T) {
	cases := []struct {
		src string
		at  float64
	}{
		{"1/x", 0},
		{"sqrt(x)", -1},
		{"ln(x)", 0},
		{"exp(x)", 1000},
	}
	for _, c := range cases {
		f, err := expr.CompileString(c.src, "x")
		if err != nil {
			t.Fatalf("%s: %v", c.src, err)
		}
		_, err = f.Eval(c.at)
		if !errors.Is(err, expr.ErrEvaluation) {
			t.Errorf("%s at %g: want ErrEvaluation, got %v", c.src, c.at, err)
			continue
		}
		var ee *expr.EvalError
		if !errors.As(err, &ee) {
			t.Errorf("%s: want *EvalError, got %T", c.src, err)
			continue
		}
		if len(ee.Args) != 1 || ee.Args[0] != c.at {
			t.Errorf("%s: error should record the argument, got %v", c.src, ee.Args)
		}
	}
}

func TestFunc1(t *testing.T) {
	f, _ := expr.CompileString("x^3", "x")
	g := f.Func1()
	got, err := g(2)
	if err != nil || got != 8 {
		t.Errorf("want 8, got %g (%v)", got, err)
	}
}

func TestNumeric_Vars(t *testing.T) {
	f, _ := expr.CompileString("x + y", "x", "y")
	vars := f.Vars()
	vars[0] = "mutated"
	if f.Vars()[0] != "x" {
		t.Error("Vars should return a copy")
	}
}

// ============================================================
// Jacobian / compiled matrices
// ============================================================

func TestJacobian_Symbolic(t *testing.T) {
	fs := []expr.Expr{
		expr.MustParse("x^2 + y^2 + z^2 - 1"),
		expr.MustParse("x^2 + z^2 - 0.25"),
		expr.MustParse("x^2 - y^2 + z - 0.5"),
	}
	j := expr.Jacobian(fs, []string{"x", "y", "z"})
	want := [][]string{
		{"2*x", "2*y", "2*z"},
		{"2*x", "0", "2*z"},
		{"2*x", "-2*y", "1"},
	}
	got := j.Strings()
	for r := range want {
		for c := range want[r] {
			if got[r][c] != want[r][c] {
				t.Errorf("J[%d][%d]: want %s, got %s", r, c, want[r][c], got[r][c])
			}
		}
	}
}

func TestCompileMatrix_EvalInto(t *testing.T) {
	fs := []expr.Expr{
		expr.MustParse("x*y"),
		expr.MustParse("sin(x) + y"),
	}
	j := expr.Jacobian(fs, []string{"x", "y"})
	nm, err := expr.CompileMatrix(j, "x", "y")
	if err != nil {
		t.Fatal(err)
	}
	if r, c := nm.Dims(); r != 2 || c != 2 {
		t.Fatalf("want 2x2, got %dx%d", r, c)
	}
	dst := mat.NewDense(2, 2, nil)
	if err := nm.EvalInto(dst, 2, 3); err != nil {
		t.Fatal(err)
	}
	want := mat.NewDense(2, 2, []float64{3, 2, math.Cos(2), 1})
	if !mat.EqualApprox(dst, want, 1e-12) {
		t.Errorf("want %v, got %v", mat.Formatted(want), mat.Formatted(dst))
	}
}

func TestCompileMatrix_ShapeMismatch(t *testing.T) {
	m := expr.NewMatrix(2, 2)
	nm, err := expr.CompileMatrix(m, "x")
	if err != nil {
		t.Fatal(err)
	}
	if err := nm.EvalInto(mat.NewDense(3, 3, nil), 0); err == nil {
		t.Error("shape mismatch should be an error")
	}
}

func TestCompileMatrix_EntryError(t *testing.T) {
	m := expr.NewMatrix(1, 2)
	m.Set(0, 1, expr.MustParse("1/x"))
	nm, err := expr.CompileMatrix(m, "x")
	if err != nil {
		t.Fatal(err)
	}
	err = nm.EvalInto(mat.NewDense(1, 2, nil), 0)
	if !errors.Is(err, expr.ErrEvaluation) {
		t.Errorf("want ErrEvaluation, got %v", err)
	}
}
