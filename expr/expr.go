// Package expr is the symbolic expression engine behind metnum.
//
// Design goals:
//   - Exact rational constants (math/big.Rat)
//   - Deterministic simplification and stable output
//   - Text formulas in, compiled float64 functions out
//   - Symbolic differentiation for Jacobian assembly
//
// Every formula the rest of the module evaluates goes through Parse and
// Compile; nothing substitutes text or evaluates generated code.
package expr

import (
	"fmt"
	"math"
	"math/big"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is an immutable symbolic expression.
type Expr interface {
	Simplify() Expr
	String() string
	Subs(name string, value Expr) Expr
	Diff(name string) Expr
	// Constant folds the expression to an exact number when it has no
	// free symbols.
	Constant() (*Num, bool)
	Equal(other Expr) bool
	kind() string
	tree() map[string]interface{}
}

// ============================================================
// Num: exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

// F returns the rational p/q. It panics if q is zero.
func F(p, q int64) *Num {
	if q == 0 {
		panic("expr: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat converts f exactly. It panics on NaN or ±Inf, which have no
// rational value.
func NFloat(f float64) *Num {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(fmt.Sprintf("expr: %v is not a finite number", f))
	}
	return &Num{val: new(big.Rat).SetFloat64(f)}
}

func (n *Num) Simplify() Expr          { return n }
func (n *Num) Subs(string, Expr) Expr  { return n }
func (n *Num) Diff(string) Expr        { return N(0) }
func (n *Num) Constant() (*Num, bool)  { return n, true }
func (n *Num) Equal(other Expr) bool   { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) kind() string            { return "num" }
func (n *Num) Float64() float64        { f, _ := n.val.Float64(); return f }
func (n *Num) Rat() *big.Rat           { return new(big.Rat).Set(n.val) }
func (n *Num) IsZero() bool            { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool             { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool          { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool         { return n.val.IsInt() }
func (n *Num) IsNegative() bool        { return n.val.Sign() < 0 }
func (n *Num) tree() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.String()}
}

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }

func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("expr: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

// numPowInt raises a to a small integer power exactly.
func numPowInt(a *Num, e int64) *Num {
	neg := e < 0
	if neg {
		e = -e
	}
	r := N(1)
	for i := int64(0); i < e; i++ {
		r = numMul(r, a)
	}
	if neg {
		return numRecip(r)
	}
	return r
}

// ============================================================
// Const: named irrational constant
// ============================================================

// Const is pi or E. It prints by name and is only turned into a float64
// by Compile, so it never folds into a rational approximation.
type Const struct {
	name string
	val  float64
}

var (
	Pi = &Const{name: "pi", val: math.Pi}
	E  = &Const{name: "E", val: math.E}
)

func (c *Const) Simplify() Expr         { return c }
func (c *Const) String() string         { return c.name }
func (c *Const) Name() string           { return c.name }
func (c *Const) Float64() float64       { return c.val }
func (c *Const) Subs(string, Expr) Expr { return c }
func (c *Const) Diff(string) Expr       { return N(0) }
func (c *Const) Constant() (*Num, bool) { return nil, false }
func (c *Const) Equal(other Expr) bool  { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) kind() string           { return "const" }
func (c *Const) tree() map[string]interface{} {
	return map[string]interface{}{"type": "const", "name": c.name}
}

// ============================================================
// Sym: symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym               { return &Sym{name: name} }
func (s *Sym) Simplify() Expr          { return s }
func (s *Sym) String() string          { return s.name }
func (s *Sym) Name() string            { return s.name }
func (s *Sym) Constant() (*Num, bool)  { return nil, false }
func (s *Sym) Equal(other Expr) bool   { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) kind() string            { return "sym" }
func (s *Sym) tree() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": s.name}
}

func (s *Sym) Subs(name string, value Expr) Expr {
	if s.name == name {
		return value
	}
	return s
}

func (s *Sym) Diff(name string) Expr {
	if s.name == name {
		return N(1)
	}
	return N(0)
}

func isNum(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.Equal(N(v))
}
