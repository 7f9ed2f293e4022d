package expr

import "sort"

// ============================================================
// Differentiation and substitution
// ============================================================

// Diff returns the simplified derivative d/dname of e.
func Diff(e Expr, name string) Expr { return e.Diff(name).Simplify() }

// DiffN applies Diff n times.
func DiffN(e Expr, name string, n int) Expr {
	for i := 0; i < n; i++ {
		e = Diff(e, name)
	}
	return e
}

// Subs replaces every occurrence of name by value.
func Subs(e Expr, name string, value Expr) Expr { return e.Subs(name, value).Simplify() }

// Gradient returns the partial derivatives of e, one per name, in order.
func Gradient(e Expr, names []string) []Expr {
	out := make([]Expr, len(names))
	for i, v := range names {
		out[i] = Diff(e, v)
	}
	return out
}

// Jacobian returns the len(exprs)×len(names) matrix whose entry (i, j) is
// ∂exprs[i]/∂names[j]. Column order follows names exactly.
func Jacobian(exprs []Expr, names []string) *Matrix {
	m := NewMatrix(len(exprs), len(names))
	for i, e := range exprs {
		for j, v := range names {
			m.Set(i, j, Diff(e, v))
		}
	}
	return m
}

// ============================================================
// Free Symbols
// ============================================================

// FreeSymbols returns the sorted names of the symbols in e.
func FreeSymbols(e Expr) []string {
	set := map[string]struct{}{}
	collectSymbols(e, set)
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Call:
		collectSymbols(v.arg, out)
	}
}
