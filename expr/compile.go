package expr

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ============================================================
// Compilation to float64 closures
// ============================================================

type evalFunc func(x []float64) float64

// Numeric is an expression compiled to float64 arithmetic over a fixed
// variable order. It holds no mutable state and may be shared.
type Numeric struct {
	src  string
	vars []string
	fn   evalFunc
}

// Compile turns e into a Numeric whose arguments are vars, in order. Every
// free symbol of e must appear in vars; vars may list unused names.
func Compile(e Expr, vars ...string) (*Numeric, error) {
	index := make(map[string]int, len(vars))
	for i, v := range vars {
		if _, dup := index[v]; dup {
			return nil, fmt.Errorf("expr: variable %q listed twice", v)
		}
		index[v] = i
	}
	e = e.Simplify()
	fn, err := compile(e, index)
	if err != nil {
		return nil, err
	}
	return &Numeric{src: e.String(), vars: append([]string(nil), vars...), fn: fn}, nil
}

// CompileString parses src and compiles it over vars.
func CompileString(src string, vars ...string) (*Numeric, error) {
	e, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return Compile(e, vars...)
}

func compile(e Expr, index map[string]int) (evalFunc, error) {
	if c, ok := e.Constant(); ok {
		v := c.Float64()
		return func([]float64) float64 { return v }, nil
	}
	switch n := e.(type) {
	case *Const:
		v := n.val
		return func([]float64) float64 { return v }, nil

	case *Sym:
		i, ok := index[n.name]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnboundSymbol, n.name)
		}
		return func(x []float64) float64 { return x[i] }, nil

	case *Add:
		terms, err := compileAll(n.terms, index)
		if err != nil {
			return nil, err
		}
		return func(x []float64) float64 {
			s := 0.0
			for _, t := range terms {
				s += t(x)
			}
			return s
		}, nil

	case *Mul:
		factors, err := compileAll(n.factors, index)
		if err != nil {
			return nil, err
		}
		return func(x []float64) float64 {
			p := 1.0
			for _, f := range factors {
				p *= f(x)
			}
			return p
		}, nil

	case *Pow:
		base, err := compile(n.base, index)
		if err != nil {
			return nil, err
		}
		exp, err := compile(n.exp, index)
		if err != nil {
			return nil, err
		}
		return func(x []float64) float64 { return math.Pow(base(x), exp(x)) }, nil

	case *Call:
		arg, err := compile(n.arg, index)
		if err != nil {
			return nil, err
		}
		f := functions[n.name].eval
		return func(x []float64) float64 { return f(arg(x)) }, nil
	}
	return nil, fmt.Errorf("expr: cannot compile %s node", e.kind())
}

func compileAll(es []Expr, index map[string]int) ([]evalFunc, error) {
	out := make([]evalFunc, len(es))
	for i, e := range es {
		fn, err := compile(e, index)
		if err != nil {
			return nil, err
		}
		out[i] = fn
	}
	return out, nil
}

// Eval evaluates at args, given in the compiled variable order. A NaN or
// infinite result is returned together with an *EvalError.
func (n *Numeric) Eval(args ...float64) (float64, error) {
	if len(args) != len(n.vars) {
		return 0, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, n.src, len(n.vars), len(args))
	}
	v := n.fn(args)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v, &EvalError{Expr: n.src, Vars: n.vars, Args: append([]float64(nil), args...), Value: v}
	}
	return v, nil
}

// Func1 adapts a one-variable Numeric to a plain function.
func (n *Numeric) Func1() func(float64) (float64, error) {
	return func(x float64) (float64, error) { return n.Eval(x) }
}

func (n *Numeric) Vars() []string  { return append([]string(nil), n.vars...) }
func (n *Numeric) String() string  { return n.src }

// ============================================================
// Compiled matrices
// ============================================================

// NumericMatrix is a symbolic matrix compiled entry by entry.
type NumericMatrix struct {
	rows, cols int
	entries    []*Numeric
}

// CompileMatrix compiles every entry of m over vars.
func CompileMatrix(m *Matrix, vars ...string) (*NumericMatrix, error) {
	nm := &NumericMatrix{rows: m.rows, cols: m.cols, entries: make([]*Numeric, 0, m.rows*m.cols)}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			c, err := Compile(m.data[i][j], vars...)
			if err != nil {
				return nil, fmt.Errorf("entry [%d,%d]: %w", i, j, err)
			}
			nm.entries = append(nm.entries, c)
		}
	}
	return nm, nil
}

func (nm *NumericMatrix) Dims() (r, c int) { return nm.rows, nm.cols }

// At returns the compiled entry (i, j).
func (nm *NumericMatrix) At(i, j int) *Numeric { return nm.entries[i*nm.cols+j] }

// EvalInto writes every entry evaluated at args into dst, which must have
// the same shape. It stops at the first failing entry.
func (nm *NumericMatrix) EvalInto(dst *mat.Dense, args ...float64) error {
	if r, c := dst.Dims(); r != nm.rows || c != nm.cols {
		return fmt.Errorf("expr: destination is %dx%d, want %dx%d", r, c, nm.rows, nm.cols)
	}
	for i := 0; i < nm.rows; i++ {
		for j := 0; j < nm.cols; j++ {
			v, err := nm.At(i, j).Eval(args...)
			if err != nil {
				return fmt.Errorf("entry [%d,%d]: %w", i, j, err)
			}
			dst.Set(i, j, v)
		}
	}
	return nil
}
