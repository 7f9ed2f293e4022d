// Package api exposes metnum as JSON tool calls, the interface agent
// frameworks use, and serves them over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/njchilds90/metnum/expr"
	"github.com/njchilds90/metnum/newton"
	"github.com/njchilds90/metnum/plotdata"
	"github.com/njchilds90/metnum/quadrature"
)

// ============================================================
// Tool interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Upper bounds on the size parameters a tool call may request.
const (
	MaxPartitions    = 10_000_000
	MaxCurvePoints   = 10_000
	MaxSurfacePoints = 500 // per axis
	MaxIterations    = 100_000
	MaxDiffOrder     = 20
)

// params reads typed values out of a decoded JSON object.
type params map[string]interface{}

func (p params) has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p params) str(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", fmt.Errorf("missing param: %s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("param %s must be a string", key)
	}
	return s, nil
}

func (p params) strOr(key, def string) (string, error) {
	if !p.has(key) {
		return def, nil
	}
	return p.str(key)
}

func (p params) strings(key string) ([]string, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("missing param: %s", key)
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("param %s must be array", key)
	}
	out := make([]string, len(raw))
	for i, r := range raw {
		s, ok := r.(string)
		if !ok {
			return nil, fmt.Errorf("param %s[%d] must be string", key, i)
		}
		out[i] = s
	}
	return out, nil
}

func (p params) number(key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("missing param: %s", key)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("param %s must be a number", key)
	}
	return f, nil
}

func (p params) numberOr(key string, def float64) (float64, error) {
	if !p.has(key) {
		return def, nil
	}
	return p.number(key)
}

// intOr reads an integer no larger than limit, defaulting to def.
func (p params) intOr(key string, def, limit int) (int, error) {
	if !p.has(key) {
		return def, nil
	}
	f, err := p.number(key)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("param %s must be an integer", key)
	}
	if int(f) > limit {
		return 0, fmt.Errorf("param %s must be at most %d, got %d", key, limit, int(f))
	}
	return int(f), nil
}

func (p params) vector(key string, n int) ([]float64, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("missing param: %s", key)
	}
	raw, ok := v.([]interface{})
	if !ok || len(raw) != n {
		return nil, fmt.Errorf("param %s must be an array of %d numbers", key, n)
	}
	out := make([]float64, n)
	for i, r := range raw {
		f, ok := r.(float64)
		if !ok {
			return nil, fmt.Errorf("param %s[%d] must be a number", key, i)
		}
		out[i] = f
	}
	return out, nil
}

func (p params) rangeOr(key string, def [2]float64) ([2]float64, error) {
	if !p.has(key) {
		return def, nil
	}
	v, err := p.vector(key, 2)
	if err != nil {
		return def, err
	}
	return [2]float64{v[0], v[1]}, nil
}

func fail(err error) ToolResponse { return ToolResponse{Error: err.Error()} }

func respondExpr(e expr.Expr) ToolResponse {
	return ToolResponse{Result: expr.Tree(e), String: e.String()}
}

// HandleToolCall runs one tool. Failures are reported in the Error field;
// a solve that stops early also carries its partial Result.
func HandleToolCall(req ToolRequest) ToolResponse {
	p := params(req.Params)

	switch req.Tool {
	case "parse":
		src, err := p.str("expr")
		if err != nil {
			return fail(err)
		}
		e, err := expr.Parse(src)
		if err != nil {
			return fail(err)
		}
		return respondExpr(e)

	case "free_symbols":
		src, err := p.str("expr")
		if err != nil {
			return fail(err)
		}
		e, err := expr.Parse(src)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: expr.FreeSymbols(e)}

	case "diff":
		src, err := p.str("expr")
		if err != nil {
			return fail(err)
		}
		v, err := p.strOr("var", "x")
		if err != nil {
			return fail(err)
		}
		n, err := p.intOr("n", 1, MaxDiffOrder)
		if err != nil {
			return fail(err)
		}
		if n < 0 {
			return fail(fmt.Errorf("param n must be non-negative"))
		}
		e, err := expr.Parse(src)
		if err != nil {
			return fail(err)
		}
		return respondExpr(expr.DiffN(e, v, n))

	case "jacobian":
		srcs, err := p.strings("exprs")
		if err != nil {
			return fail(err)
		}
		vars, err := p.strings("vars")
		if err != nil {
			return fail(err)
		}
		exprs := make([]expr.Expr, len(srcs))
		for i, s := range srcs {
			if exprs[i], err = expr.Parse(s); err != nil {
				return fail(fmt.Errorf("exprs[%d]: %w", i, err))
			}
		}
		m := expr.Jacobian(exprs, vars)
		return ToolResponse{Result: m.Strings(), String: m.String()}

	case "integrate":
		src, err := p.str("expr")
		if err != nil {
			return fail(err)
		}
		v, err := p.strOr("var", "x")
		if err != nil {
			return fail(err)
		}
		a, err := p.number("a")
		if err != nil {
			return fail(err)
		}
		b, err := p.number("b")
		if err != nil {
			return fail(err)
		}
		n, err := p.intOr("n", 10, MaxPartitions)
		if err != nil {
			return fail(err)
		}
		val, err := quadrature.IntegrateString(src, v, a, b, n)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: map[string]float64{"value": val}, String: fmt.Sprintf("%.6f", val)}

	case "solve":
		return solve(p)

	case "sample_curve":
		return sampleCurve(p)

	case "sample_surface":
		return sampleSurface(p)

	case "tool_spec":
		return ToolResponse{Result: ToolSpec(), String: "tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// SolveResult is the payload of the solve tool.
type SolveResult struct {
	Jacobian [][]string    `json:"jacobian"`
	Result   newton.Result `json:"result"`
	Residual *[3]float64   `json:"residual,omitempty"`
}

func solve(p params) ToolResponse {
	eqs, err := p.strings("equations")
	if err != nil {
		return fail(err)
	}
	if len(eqs) != 3 {
		return fail(fmt.Errorf("param equations must hold 3 formulas, got %d", len(eqs)))
	}
	guess, err := p.vector("guess", 3)
	if err != nil {
		return fail(err)
	}
	def := newton.DefaultOptions()
	var opts newton.Options
	if opts.MaxIter, err = p.intOr("max_iter", def.MaxIter, MaxIterations); err != nil {
		return fail(err)
	}
	if opts.Tol, err = p.numberOr("tol", def.Tol); err != nil {
		return fail(err)
	}
	if opts.CondLimit, err = p.numberOr("cond_limit", def.CondLimit); err != nil {
		return fail(err)
	}

	sys, err := newton.ParseSystem([3]string{eqs[0], eqs[1], eqs[2]})
	if err != nil {
		return fail(err)
	}
	res, err := newton.Solve(sys, [3]float64{guess[0], guess[1], guess[2]}, opts)
	if errors.Is(err, newton.ErrInvalidOptions) {
		return fail(err)
	}
	out := SolveResult{Jacobian: sys.Jacobian().Strings(), Result: res}
	if r, rerr := sys.Residual(res.Solution); rerr == nil {
		out.Residual = &r
	}
	resp := ToolResponse{Result: out, String: fmt.Sprintf("%s after %d iteration(s)", res.Status, res.Iterations)}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

func sampleCurve(p params) ToolResponse {
	src, err := p.str("expr")
	if err != nil {
		return fail(err)
	}
	v, err := p.strOr("var", "x")
	if err != nil {
		return fail(err)
	}
	a, err := p.number("a")
	if err != nil {
		return fail(err)
	}
	b, err := p.number("b")
	if err != nil {
		return fail(err)
	}
	points, err := p.intOr("points", 100, MaxCurvePoints)
	if err != nil {
		return fail(err)
	}
	fn, err := expr.CompileString(src, v)
	if err != nil {
		return fail(err)
	}
	c, err := plotdata.IntegrationCurve(fn.Func1(), a, b, points)
	if err != nil {
		return fail(err)
	}
	return ToolResponse{Result: c}
}

func sampleSurface(p params) ToolResponse {
	src, err := p.str("expr")
	if err != nil {
		return fail(err)
	}
	xr, err := p.rangeOr("x_range", plotdata.DefaultSurfaceRange)
	if err != nil {
		return fail(err)
	}
	yr, err := p.rangeOr("y_range", plotdata.DefaultSurfaceRange)
	if err != nil {
		return fail(err)
	}
	points, err := p.intOr("points", plotdata.DefaultSurfacePoints, MaxSurfacePoints)
	if err != nil {
		return fail(err)
	}
	z, err := p.numberOr("z", 0)
	if err != nil {
		return fail(err)
	}
	fn, err := expr.CompileString(src, newton.Variables...)
	if err != nil {
		return fail(err)
	}
	s, err := plotdata.SampleSurface(fn, xr, yr, points, z)
	if err != nil {
		return fail(err)
	}
	return ToolResponse{Result: s}
}

// ============================================================
// Tool schema
// ============================================================

// ToolSpec returns the JSON schema of every tool, for agent registration.
func ToolSpec() string {
	tools := []map[string]interface{}{
		ts("parse", "Parse a formula and return its simplified form and expression tree", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("free_symbols", "Return the sorted symbol names of a formula", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("diff", "Derivative of expr with respect to var (default x), n times (default 1)", []string{"expr"}, map[string]string{"expr": "string", "var": "string", "n": "integer"}),
		ts("jacobian", "Symbolic Jacobian of exprs with respect to vars", []string{"exprs", "vars"}, map[string]string{"exprs": "array", "vars": "array"}),
		ts("integrate", "Composite trapezoidal rule over [a, b] with n trapezoids (default 10)", []string{"expr", "a", "b"}, map[string]string{"expr": "string", "var": "string", "a": "number", "b": "number", "n": "integer"}),
		ts("solve", "Newton-Raphson for 3 equations in x, y, z. Optional: max_iter, tol, cond_limit", []string{"equations", "guess"}, map[string]string{"equations": "array", "guess": "array", "max_iter": "integer", "tol": "number", "cond_limit": "number"}),
		ts("sample_curve", "Sample expr over the padded range of [a, b], marking points inside the bounds", []string{"expr", "a", "b"}, map[string]string{"expr": "string", "var": "string", "a": "number", "b": "number", "points": "integer"}),
		ts("sample_surface", "Sample an (x, y, z) formula on a grid at fixed z", []string{"expr"}, map[string]string{"expr": "string", "x_range": "array", "y_range": "array", "points": "integer", "z": "number"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
