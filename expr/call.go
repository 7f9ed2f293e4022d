package expr

import (
	"fmt"
	"math"
	"sort"
)

// ============================================================
// Call: named function application
// ============================================================

type Call struct {
	name string
	arg  Expr
}

type function struct {
	eval func(float64) float64
	// outer returns f'(u) for the chain rule.
	outer func(u Expr) Expr
}

var functions map[string]function

func init() {
	functions = map[string]function{
		"sin":  {math.Sin, func(u Expr) Expr { return CosOf(u) }},
		"cos":  {math.Cos, func(u Expr) Expr { return NegOf(SinOf(u)) }},
		"tan":  {math.Tan, func(u Expr) Expr { return AddOf(N(1), PowOf(TanOf(u), N(2))) }},
		"exp":  {math.Exp, func(u Expr) Expr { return ExpOf(u) }},
		"ln":   {math.Log, func(u Expr) Expr { return PowOf(u, N(-1)) }},
		"abs":  {math.Abs, func(u Expr) Expr { return Apply("sign", u) }},
		"sign": {sign, func(Expr) Expr { return N(0) }},
		"asin": {math.Asin, func(u Expr) Expr { return PowOf(SubOf(N(1), PowOf(u, N(2))), F(-1, 2)) }},
		"acos": {math.Acos, func(u Expr) Expr { return NegOf(PowOf(SubOf(N(1), PowOf(u, N(2))), F(-1, 2))) }},
		"atan": {math.Atan, func(u Expr) Expr { return PowOf(AddOf(N(1), PowOf(u, N(2))), N(-1)) }},
		"sinh": {math.Sinh, func(u Expr) Expr { return Apply("cosh", u) }},
		"cosh": {math.Cosh, func(u Expr) Expr { return Apply("sinh", u) }},
		"tanh": {math.Tanh, func(u Expr) Expr { return SubOf(N(1), PowOf(Apply("tanh", u), N(2))) }},
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Functions lists the function names Apply and Parse accept.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsFunction reports whether name is a known function.
func IsFunction(name string) bool {
	_, ok := functions[name]
	return ok
}

// Apply builds name(arg). It panics on an unknown function name; Parse
// checks names before calling it.
func Apply(name string, arg Expr) Expr {
	if !IsFunction(name) {
		panic(fmt.Sprintf("expr: unknown function %q", name))
	}
	return (&Call{name: name, arg: arg}).Simplify()
}

func SinOf(arg Expr) Expr { return Apply("sin", arg) }
func CosOf(arg Expr) Expr { return Apply("cos", arg) }
func TanOf(arg Expr) Expr { return Apply("tan", arg) }
func ExpOf(arg Expr) Expr { return Apply("exp", arg) }
func LnOf(arg Expr) Expr  { return Apply("ln", arg) }
func AbsOf(arg Expr) Expr { return Apply("abs", arg) }

func (c *Call) Simplify() Expr {
	arg := c.arg.Simplify()
	if n, ok := arg.(*Num); ok {
		switch {
		case c.name == "ln" && n.IsOne():
			return N(0)
		case n.IsZero() || c.name == "abs" || c.name == "sign":
			// ln(0) and similar stay symbolic for evaluation to reject.
			if v := functions[c.name].eval(n.Float64()); !math.IsNaN(v) && !math.IsInf(v, 0) {
				return NFloat(v)
			}
		}
	}
	switch c.name {
	case "ln":
		if arg == E {
			return N(1)
		}
		if inner, ok := arg.(*Call); ok && inner.name == "exp" {
			return inner.arg
		}
	case "exp":
		if inner, ok := arg.(*Call); ok && inner.name == "ln" {
			return inner.arg
		}
	}
	return &Call{name: c.name, arg: arg}
}

func (c *Call) String() string { return c.name + "(" + c.arg.String() + ")" }

func (c *Call) Subs(name string, value Expr) Expr {
	return (&Call{name: c.name, arg: c.arg.Subs(name, value)}).Simplify()
}

// Diff applies the chain rule.
func (c *Call) Diff(name string) Expr {
	du := c.arg.Diff(name)
	if isNum(du, 0) {
		return N(0)
	}
	return MulOf(functions[c.name].outer(c.arg), du)
}

// Constant never folds transcendental values; they are not rational.
func (c *Call) Constant() (*Num, bool) { return nil, false }

func (c *Call) Equal(other Expr) bool {
	o, ok := other.(*Call)
	return ok && c.name == o.name && c.arg.Equal(o.arg)
}

func (c *Call) kind() string { return "call" }
func (c *Call) Name() string { return c.name }
func (c *Call) Arg() Expr    { return c.arg }
func (c *Call) tree() map[string]interface{} {
	return map[string]interface{}{"type": "call", "name": c.name, "arg": c.arg.tree()}
}
