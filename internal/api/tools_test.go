package api_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/njchilds90/metnum/internal/api"
	"github.com/njchilds90/metnum/newton"
	"github.com/njchilds90/metnum/plotdata"
)

func call(tool string, params map[string]interface{}) api.ToolResponse {
	return api.HandleToolCall(api.ToolRequest{Tool: tool, Params: params})
}

func TestTool_Parse(t *testing.T) {
	resp := call("parse", map[string]interface{}{"expr": "x + x"})
	if resp.Error != "" {
		t.Fatal(resp.Error)
	}
	if resp.String != "2*x" {
		t.Errorf("want 2*x, got %s", resp.String)
	}
}

func TestTool_ParseError(t *testing.T) {
	resp := call("parse", map[string]interface{}{"expr": "x +"})
	if !strings.Contains(resp.Error, "parse error") {
		t.Errorf("want parse error, got %q", resp.Error)
	}
}

func TestTool_MissingParam(t *testing.T) {
	resp := call("diff", map[string]interface{}{})
	if resp.Error != "missing param: expr" {
		t.Errorf("want missing param error, got %q", resp.Error)
	}
}

func TestTool_Diff(t *testing.T) {
	resp := call("diff", map[string]interface{}{"expr": "x^3", "var": "x", "n": 2.0})
	if resp.Error != "" || resp.String != "6*x" {
		t.Errorf("want 6*x, got %q (%s)", resp.String, resp.Error)
	}
}

func TestTool_DiffRejectsFractionalOrder(t *testing.T) {
	resp := call("diff", map[string]interface{}{"expr": "x", "n": 1.5})
	if resp.Error == "" {
		t.Error("fractional n should be rejected")
	}
}

func TestTool_FreeSymbols(t *testing.T) {
	resp := call("free_symbols", map[string]interface{}{"expr": "y*sin(x)"})
	got, ok := resp.Result.([]string)
	if !ok || len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf("want [x y], got %v", resp.Result)
	}
}

func TestTool_Jacobian(t *testing.T) {
	resp := call("jacobian", map[string]interface{}{
		"exprs": []interface{}{"x*y", "x + y"},
		"vars":  []interface{}{"x", "y"},
	})
	if resp.Error != "" {
		t.Fatal(resp.Error)
	}
	if resp.String != "[[y, x], [1, 1]]" {
		t.Errorf("want [[y, x], [1, 1]], got %s", resp.String)
	}
}

func TestTool_Integrate(t *testing.T) {
	resp := call("integrate", map[string]interface{}{"expr": "x**2 + 3*x + 2", "a": 0.0, "b": 1.0, "n": 10.0})
	if resp.Error != "" {
		t.Fatal(resp.Error)
	}
	if resp.String != "3.835000" {
		t.Errorf("want 3.835000, got %s", resp.String)
	}
}

func TestTool_IntegrateInvalidPartition(t *testing.T) {
	resp := call("integrate", map[string]interface{}{"expr": "x", "a": 0.0, "b": 1.0, "n": 0.0})
	if !strings.Contains(resp.Error, "partition") {
		t.Errorf("want partition error, got %q", resp.Error)
	}
}

func TestTool_Solve(t *testing.T) {
	resp := call("solve", map[string]interface{}{
		"equations": []interface{}{"x**2 + y**2 + z**2 - 1", "x**2 - y**2 + z - 0.5", "x - y + z - 0.5"},
		"guess":     []interface{}{0.6, 0.6, 0.4},
	})
	if resp.Error != "" {
		t.Fatal(resp.Error)
	}
	out, ok := resp.Result.(api.SolveResult)
	if !ok {
		t.Fatalf("want SolveResult, got %T", resp.Result)
	}
	if out.Result.Status != newton.StatusConverged {
		t.Errorf("want converged, got %s", out.Result.Status)
	}
	if out.Residual == nil || math.Abs(out.Residual[0]) > 1e-6 {
		t.Errorf("want small residual, got %v", out.Residual)
	}
}

func TestTool_SolveSingularKeepsResult(t *testing.T) {
	resp := call("solve", map[string]interface{}{
		"equations": []interface{}{"x**2 + y**2 + z**2 - 1", "x**2 - y**2 + z - 0.5", "x - y + z - 0.5"},
		"guess":     []interface{}{0.5, 0.5, 0.5},
	})
	if !strings.Contains(resp.Error, "singular") {
		t.Fatalf("want singular error, got %q", resp.Error)
	}
	out, ok := resp.Result.(api.SolveResult)
	if !ok || out.Result.Status != newton.StatusSingular {
		t.Errorf("want partial result with singular status, got %+v", resp.Result)
	}
}

func TestTool_SolveBadGuess(t *testing.T) {
	resp := call("solve", map[string]interface{}{
		"equations": []interface{}{"x", "y", "z"},
		"guess":     []interface{}{0.5, 0.5},
	})
	if resp.Error == "" || resp.Result != nil {
		t.Errorf("want error only, got %+v", resp)
	}
}

func TestTool_SolveInvalidOptions(t *testing.T) {
	resp := call("solve", map[string]interface{}{
		"equations": []interface{}{"x", "y", "z"},
		"guess":     []interface{}{0.0, 0.0, 0.0},
		"tol":       -1.0,
	})
	if !strings.Contains(resp.Error, "invalid options") || resp.Result != nil {
		t.Errorf("want invalid options error, got %+v", resp)
	}
}

func TestTool_SampleCurve(t *testing.T) {
	resp := call("sample_curve", map[string]interface{}{"expr": "x^2", "a": 0.0, "b": 1.0, "points": 13.0})
	if resp.Error != "" {
		t.Fatal(resp.Error)
	}
	c, ok := resp.Result.(plotdata.Curve)
	if !ok || len(c.Points) != 13 {
		t.Errorf("want 13 points, got %+v", resp.Result)
	}
}

func TestTool_SampleSurface(t *testing.T) {
	resp := call("sample_surface", map[string]interface{}{"expr": "x^2 + y^2 + z^2 - 1", "points": 4.0, "z": 1.0})
	if resp.Error != "" {
		t.Fatal(resp.Error)
	}
	s, ok := resp.Result.(plotdata.Surface)
	if !ok || len(s.Z) != 4 {
		t.Fatalf("want 4x4 grid, got %+v", resp.Result)
	}
	// Corner (-1.5, -1.5) at z = 1: 2.25 + 2.25 + 1 - 1
	if s.Z[0][0] != 4.5 {
		t.Errorf("want 4.5, got %g", s.Z[0][0])
	}
}

func TestTool_SampleSurfaceForeignSymbol(t *testing.T) {
	resp := call("sample_surface", map[string]interface{}{"expr": "w"})
	if !strings.Contains(resp.Error, "unbound symbol") {
		t.Errorf("want unbound symbol error, got %q", resp.Error)
	}
}

func TestTool_SizeLimits(t *testing.T) {
	cases := []struct {
		tool   string
		params map[string]interface{}
		key    string
	}{
		{"sample_surface", map[string]interface{}{"expr": "x", "points": 2e9}, "points"},
		{"sample_surface", map[string]interface{}{"expr": "x", "points": float64(api.MaxSurfacePoints + 1)}, "points"},
		{"sample_curve", map[string]interface{}{"expr": "x", "a": 0.0, "b": 1.0, "points": float64(api.MaxCurvePoints + 1)}, "points"},
		{"integrate", map[string]interface{}{"expr": "x", "a": 0.0, "b": 1.0, "n": 2e9}, "n"},
		{"diff", map[string]interface{}{"expr": "x^x", "n": float64(api.MaxDiffOrder + 1)}, "n"},
		{"solve", map[string]interface{}{
			"equations": []interface{}{"x", "y", "z"},
			"guess":     []interface{}{0.0, 0.0, 0.0},
			"max_iter":  float64(api.MaxIterations + 1),
		}, "max_iter"},
	}
	for _, c := range cases {
		resp := call(c.tool, c.params)
		if !strings.Contains(resp.Error, "param "+c.key+" must be at most") {
			t.Errorf("%s: want a limit error on %s, got %q", c.tool, c.key, resp.Error)
		}
		if resp.Result != nil {
			t.Errorf("%s: oversized request should not produce a result", c.tool)
		}
	}
}

func TestTool_SizeLimitsAllowMaximum(t *testing.T) {
	resp := call("sample_curve", map[string]interface{}{"expr": "x", "a": 0.0, "b": 1.0, "points": float64(api.MaxCurvePoints)})
	if resp.Error != "" {
		t.Fatal(resp.Error)
	}
}

func TestTool_Unknown(t *testing.T) {
	resp := call("factor", nil)
	if resp.Error != "unknown tool: factor" {
		t.Errorf("want unknown tool error, got %q", resp.Error)
	}
}

func TestToolSpec_ListsEveryTool(t *testing.T) {
	var spec struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	if err := json.Unmarshal([]byte(api.ToolSpec()), &spec); err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, tool := range spec.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"parse", "free_symbols", "diff", "jacobian", "integrate", "solve", "sample_curve", "sample_surface", "tool_spec"} {
		if !names[want] {
			t.Errorf("schema is missing %s", want)
		}
		if want == "tool_spec" {
			continue
		}
		if resp := call(want, map[string]interface{}{}); strings.HasPrefix(resp.Error, "unknown tool") {
			t.Errorf("%s is listed but not handled", want)
		}
	}
}
