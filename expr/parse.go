package expr

import (
	"fmt"
	"math/big"
	"strings"
)

// ============================================================
// Lexer
// ============================================================

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPow // "**" or "^"
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) describe() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.text)
}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			for i < len(src) && isDigit(src[i]) {
				i++
			}
			if i < len(src) && src[i] == '.' {
				i++
				for i < len(src) && isDigit(src[i]) {
					i++
				}
			}
			if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
				j := i + 1
				if j < len(src) && (src[j] == '+' || src[j] == '-') {
					j++
				}
				if j < len(src) && isDigit(src[j]) {
					for j < len(src) && isDigit(src[j]) {
						j++
					}
					i = j
				}
			}
			toks = append(toks, token{kind: tokNumber, text: src[start:i], pos: start})
		case isLetter(c):
			start := i
			for i < len(src) && (isLetter(src[i]) || isDigit(src[i])) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		case c == '*' && i+1 < len(src) && src[i+1] == '*':
			toks = append(toks, token{kind: tokPow, text: "**", pos: i})
			i += 2
		default:
			kind, ok := punct[c]
			if !ok {
				return nil, &ParseError{Src: src, Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
			}
			toks = append(toks, token{kind: kind, text: string(c), pos: i})
			i++
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

var punct = map[byte]tokenKind{
	'+': tokPlus,
	'-': tokMinus,
	'*': tokStar,
	'/': tokSlash,
	'^': tokPow,
	'(': tokLParen,
	')': tokRParen,
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool { return c == '_' || (c|0x20 >= 'a' && c|0x20 <= 'z') }

// ============================================================
// Parser
// ============================================================

// Parse reads a formula such as "x**2 + 3*x + 2" or "sin(x)*exp(-y/2)".
//
// Numbers are exact rationals ("0.5" is 1/2). Both "**" and "^" mean power
// and associate to the right; unary minus binds looser than power, so
// "-x^2" is -(x^2). sqrt(u) becomes u^(1/2) and log is the natural log.
// The constants pi and E are recognised; every other identifier is a
// symbol.
func Parse(src string) (Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	if p.peek().kind == tokEOF {
		return nil, &ParseError{Src: src, Pos: 0, Msg: "empty expression"}
	}
	e, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		msg := fmt.Sprintf("unexpected %s", t.describe())
		if t.kind == tokIdent || t.kind == tokNumber || t.kind == tokLParen {
			msg += " (missing operator?)"
		}
		return nil, &ParseError{Src: src, Pos: t.pos, Msg: msg}
	}
	return e.Simplify(), nil
}

// MustParse is Parse for formulas known to be valid; it panics otherwise.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	src  string
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) fail(t token, format string, args ...interface{}) error {
	return &ParseError{Src: p.src, Pos: t.pos, Msg: fmt.Sprintf(format, args...)}
}

// ───────────────────────── precedence / associativity ──────────────────────

const unaryBP = 30

// infixBP returns left and right binding powers; lbp > rbp makes an
// operator right associative.
func infixBP(k tokenKind) (lbp, rbp int, ok bool) {
	switch k {
	case tokPlus, tokMinus:
		return 10, 11, true
	case tokStar, tokSlash:
		return 20, 21, true
	case tokPow:
		return 41, 40, true
	}
	return 0, 0, false
}

func (p *parser) expr(minBP int) (Expr, error) {
	left, err := p.prefix()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		lbp, rbp, ok := infixBP(op.kind)
		if !ok || lbp < minBP {
			return left, nil
		}
		p.next()
		right, err := p.expr(rbp)
		if err != nil {
			return nil, err
		}
		switch op.kind {
		case tokPlus:
			left = AddOf(left, right)
		case tokMinus:
			left = SubOf(left, right)
		case tokStar:
			left = MulOf(left, right)
		case tokSlash:
			left = DivOf(left, right)
		case tokPow:
			left = PowOf(left, right)
		}
	}
}

func (p *parser) prefix() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		text := t.text
		if strings.HasPrefix(text, ".") {
			text = "0" + text
		}
		if dot := strings.IndexByte(text, '.'); dot >= 0 && (dot+1 == len(text) || !isDigit(text[dot+1])) {
			text = text[:dot+1] + "0" + text[dot+1:]
		}
		r, ok := new(big.Rat).SetString(text)
		if !ok {
			return nil, p.fail(t, "invalid number %q", t.text)
		}
		return &Num{val: r}, nil

	case tokMinus:
		operand, err := p.expr(unaryBP)
		if err != nil {
			return nil, err
		}
		return NegOf(operand), nil

	case tokPlus:
		return p.expr(unaryBP)

	case tokLParen:
		inner, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, p.fail(closing, "expected \")\", got %s", closing.describe())
		}
		return inner, nil

	case tokIdent:
		return p.identifier(t)

	case tokEOF:
		return nil, p.fail(t, "unexpected end of input")
	}
	return nil, p.fail(t, "unexpected %s", t.describe())
}

var constants = map[string]*Const{
	"pi": Pi,
	"E":  E,
}

var aliases = map[string]string{
	"log": "ln",
}

func (p *parser) identifier(t token) (Expr, error) {
	name := t.text
	if p.peek().kind != tokLParen {
		if c, ok := constants[name]; ok {
			return c, nil
		}
		if name == "sqrt" || IsFunction(name) || aliases[name] != "" {
			return nil, p.fail(t, "function %s needs an argument in parentheses", name)
		}
		return S(name), nil
	}

	p.next()
	arg, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if closing := p.next(); closing.kind != tokRParen {
		return nil, p.fail(closing, "expected \")\" to close %s(, got %s", name, closing.describe())
	}
	if name == "sqrt" {
		return SqrtOf(arg), nil
	}
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	if !IsFunction(name) {
		return nil, p.fail(t, "unknown function %q", t.text)
	}
	return Apply(name, arg), nil
}
