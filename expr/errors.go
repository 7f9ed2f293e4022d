package expr

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds reported by the engine. Use errors.Is to test for them.
var (
	// ErrParse indicates malformed formula text.
	ErrParse = errors.New("expr: parse error")

	// ErrUnboundSymbol indicates a symbol that is not among the variables
	// an expression was compiled for.
	ErrUnboundSymbol = errors.New("expr: unbound symbol")

	// ErrArity indicates a compiled function called with the wrong number
	// of arguments.
	ErrArity = errors.New("expr: wrong number of arguments")

	// ErrEvaluation indicates a non-finite result (domain error, division
	// by zero, overflow).
	ErrEvaluation = errors.New("expr: evaluation failed")
)

// ParseError locates a syntax error in the source text.
type ParseError struct {
	Src string
	Pos int // byte offset of the offending token
	Msg string
}

// Error renders the message followed by the source line and a caret under
// the offending column.
func (e *ParseError) Error() string {
	pos := e.Pos
	if pos < 0 {
		pos = 0
	}
	if pos > len(e.Src) {
		pos = len(e.Src)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "expr: parse error at column %d: %s", pos+1, e.Msg)
	if e.Src != "" {
		sb.WriteString("\n  " + e.Src + "\n  " + strings.Repeat(" ", pos) + "^")
	}
	return sb.String()
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// EvalError reports a compiled expression that produced NaN or ±Inf.
type EvalError struct {
	Expr  string
	Vars  []string
	Args  []float64
	Value float64
}

func (e *EvalError) Error() string {
	parts := make([]string, len(e.Vars))
	for i, v := range e.Vars {
		parts[i] = fmt.Sprintf("%s=%g", v, e.Args[i])
	}
	return fmt.Sprintf("expr: %s evaluates to %g at (%s)", e.Expr, e.Value, strings.Join(parts, ", "))
}

func (e *EvalError) Is(target error) bool { return target == ErrEvaluation }
