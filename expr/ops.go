package expr

import (
	"sort"
	"strings"
)

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// SubOf returns a - b.
func SubOf(a, b Expr) Expr { return AddOf(a, NegOf(b)) }

// NegOf returns -a.
func NegOf(a Expr) Expr { return MulOf(N(-1), a) }

// Simplify flattens nested sums, folds numeric terms and merges repeated
// bare symbols and numeric multiples of the same term.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}

	constant := N(0)
	coeffs := map[string]*Num{}
	bases := map[string]Expr{}
	order := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			constant = numAdd(constant, v)
			continue
		}
		c, base := splitCoefficient(t)
		key := base.String()
		if _, seen := coeffs[key]; !seen {
			order = append(order, key)
			coeffs[key] = N(0)
			bases[key] = base
		}
		coeffs[key] = numAdd(coeffs[key], c)
	}

	sort.Strings(order)
	out := make([]Expr, 0, len(order)+1)
	nested := false
	for _, key := range order {
		c := coeffs[key]
		switch {
		case c.IsZero():
		case c.IsOne():
			_, isAdd := bases[key].(*Add)
			nested = nested || isAdd
			out = append(out, bases[key])
		default:
			out = append(out, MulOf(c, bases[key]))
		}
	}
	if !constant.IsZero() {
		out = append(out, constant)
	}
	if nested {
		return (&Add{terms: out}).Simplify()
	}
	switch len(out) {
	case 0:
		return N(0)
	case 1:
		return out[0]
	}
	return &Add{terms: out}
}

// splitCoefficient separates a leading numeric factor: 3*x^2 -> (3, x^2).
func splitCoefficient(e Expr) (*Num, Expr) {
	m, ok := e.(*Mul)
	if !ok || len(m.factors) < 2 {
		return N(1), e
	}
	c, ok := m.factors[0].(*Num)
	if !ok {
		return N(1), e
	}
	if len(m.factors) == 2 {
		return c, m.factors[1]
	}
	return c, &Mul{factors: m.factors[1:]}
}

func (a *Add) String() string {
	var sb strings.Builder
	for i, t := range a.terms {
		s := t.String()
		if i > 0 {
			if strings.HasPrefix(s, "-") {
				sb.WriteString(" - ")
				s = s[1:]
			} else {
				sb.WriteString(" + ")
			}
		}
		sb.WriteString(s)
	}
	return sb.String()
}

func (a *Add) Subs(name string, value Expr) Expr {
	out := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		out[i] = t.Subs(name, value)
	}
	return AddOf(out...)
}

func (a *Add) Diff(name string) Expr {
	out := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		out[i] = t.Diff(name)
	}
	return AddOf(out...)
}

func (a *Add) Constant() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Constant()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	return ok && equalAll(a.terms, o.terms)
}

func (a *Add) kind() string  { return "add" }
func (a *Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }
func (a *Add) tree() map[string]interface{} {
	return map[string]interface{}{"type": "add", "terms": trees(a.terms)}
}

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// DivOf returns a / b as a * b^-1.
func DivOf(a, b Expr) Expr { return MulOf(a, PowOf(b, N(-1))) }

// Simplify flattens nested products, folds the numeric coefficient to the
// front, merges powers of a common base (x*x^-1 -> 1) and orders the
// remaining factors by their printed form.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}

	coeff := N(1)
	exps := map[string]*Num{}
	bases := map[string]Expr{}
	order := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, e := f, N(1)
		if p, ok := f.(*Pow); ok {
			if en, ok := p.exp.(*Num); ok {
				base, e = p.base, en
			}
		}
		key := base.String()
		if _, seen := exps[key]; !seen {
			order = append(order, key)
			exps[key] = N(0)
			bases[key] = base
		}
		exps[key] = numAdd(exps[key], e)
	}
	if coeff.IsZero() {
		return N(0)
	}

	rest := make([]Expr, 0, len(order))
	nested := false
	for _, key := range order {
		f := PowOf(bases[key], exps[key])
		switch v := f.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			nested = true
			rest = append(rest, v)
		default:
			rest = append(rest, f)
		}
	}
	if nested {
		return (&Mul{factors: append(rest, coeff)}).Simplify()
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(rest) == 0 {
		return coeff
	}

	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(rest))
	for i, e := range rest {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	for i := range ks {
		rest[i] = ks[i].e
	}

	if coeff.IsOne() {
		if len(rest) == 1 {
			return rest[0]
		}
		return &Mul{factors: rest}
	}
	return &Mul{factors: append([]Expr{coeff}, rest...)}
}

func (m *Mul) String() string {
	factors := m.factors
	prefix := ""
	if c, ok := factors[0].(*Num); ok && c.IsNegOne() && len(factors) > 1 {
		prefix = "-"
		factors = factors[1:]
	}
	parts := make([]string, len(factors))
	for i, f := range factors {
		if _, isAdd := f.(*Add); isAdd {
			parts[i] = "(" + f.String() + ")"
		} else {
			parts[i] = f.String()
		}
	}
	return prefix + strings.Join(parts, "*")
}

func (m *Mul) Subs(name string, value Expr) Expr {
	out := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		out[i] = f.Subs(name, value)
	}
	return MulOf(out...)
}

// Diff applies the product rule.
func (m *Mul) Diff(name string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		factors := make([]Expr, 0, len(m.factors))
		factors = append(factors, fi.Diff(name))
		for j, fj := range m.factors {
			if j != i {
				factors = append(factors, fj)
			}
		}
		terms[i] = MulOf(factors...)
	}
	return AddOf(terms...)
}

func (m *Mul) Constant() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Constant()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	return ok && equalAll(m.factors, o.factors)
}

func (m *Mul) kind() string    { return "mul" }
func (m *Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }
func (m *Mul) tree() map[string]interface{} {
	return map[string]interface{}{"type": "mul", "factors": trees(m.factors)}
}

// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

// SqrtOf returns arg^(1/2).
func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }

// maxFoldExponent bounds exact folding of numeric powers.
const maxFoldExponent = 20

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	if en, ok := exp.(*Num); ok {
		if en.IsZero() {
			return N(1)
		}
		if en.IsOne() {
			return base
		}
	}
	if bn, ok := base.(*Num); ok {
		en, expIsNum := exp.(*Num)
		switch {
		case bn.IsZero():
			// 0^-k and 0^u stay symbolic so evaluation can report them.
			if expIsNum && !en.IsNegative() {
				return N(0)
			}
			return &Pow{base: base, exp: exp}
		case bn.IsOne():
			return N(1)
		case expIsNum && en.IsInteger() && en.val.Num().IsInt64():
			e := en.val.Num().Int64()
			if e >= -maxFoldExponent && e <= maxFoldExponent {
				return numPowInt(bn, e)
			}
		}
	}
	if inner, ok := base.(*Pow); ok {
		if _, innerInt := inner.exp.(*Num); innerInt {
			if en, ok := exp.(*Num); ok && en.IsInteger() {
				return PowOf(inner.base, MulOf(inner.exp, exp))
			}
		}
	}
	return &Pow{base: base, exp: exp}
}

func (p *Pow) String() string {
	base := p.base.String()
	exp := p.exp.String()
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		base = "(" + base + ")"
	case *Num:
		if !b.IsInteger() || b.IsNegative() {
			base = "(" + base + ")"
		}
	}
	switch e := p.exp.(type) {
	case *Add, *Mul, *Pow:
		exp = "(" + exp + ")"
	case *Num:
		if !e.IsInteger() || e.IsNegative() {
			exp = "(" + exp + ")"
		}
	}
	return base + "^" + exp
}

func (p *Pow) Subs(name string, value Expr) Expr {
	return PowOf(p.base.Subs(name, value), p.exp.Subs(name, value))
}

// Diff uses the power rule for numeric exponents, the exponential rule
// for bases free of name and the general rule u^v*(v'*ln(u) + v*u'/u) otherwise.
func (p *Pow) Diff(name string) Expr {
	du := p.base.Diff(name)
	dv := p.exp.Diff(name)
	if _, ok := p.exp.(*Num); ok {
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), du)
	}
	if isNum(du, 0) {
		return MulOf(PowOf(p.base, p.exp), LnOf(p.base), dv)
	}
	return MulOf(
		PowOf(p.base, p.exp),
		AddOf(MulOf(dv, LnOf(p.base)), MulOf(p.exp, du, PowOf(p.base, N(-1)))),
	)
}

// Constant folds only exact integer powers; irrational results stay
// symbolic and are left to compiled evaluation.
func (p *Pow) Constant() (*Num, bool) {
	b, ok := p.base.Constant()
	if !ok {
		return nil, false
	}
	e, ok := p.exp.Constant()
	if !ok || !e.IsInteger() || !e.val.Num().IsInt64() {
		return nil, false
	}
	k := e.val.Num().Int64()
	if k < -maxFoldExponent || k > maxFoldExponent || (b.IsZero() && k < 0) {
		return nil, false
	}
	return numPowInt(b, k), true
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) kind() string  { return "pow" }
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }
func (p *Pow) tree() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.tree(), "exp": p.exp.tree()}
}

func equalAll(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func trees(es []Expr) []map[string]interface{} {
	out := make([]map[string]interface{}, len(es))
	for i, e := range es {
		out[i] = e.tree()
	}
	return out
}
