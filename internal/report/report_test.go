package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/njchilds90/metnum/internal/report"
	"github.com/njchilds90/metnum/newton"
	"github.com/njchilds90/metnum/plotdata"
)

func TestParseFormat(t *testing.T) {
	if f, err := report.ParseFormat("json"); err != nil || f != report.JSON {
		t.Errorf("want json, got %q (%v)", f, err)
	}
	if _, err := report.ParseFormat("yaml"); err == nil {
		t.Error("unknown format should be an error")
	}
}

func TestWriteIntegral_SixDecimals(t *testing.T) {
	var buf bytes.Buffer
	err := report.WriteIntegral(&buf, report.Text, report.Integral{
		Function: "x^2", Variable: "x", A: 0, B: 1, N: 10, Value: 3.835,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "3.835000") {
		t.Errorf("want 3.835000 in %q", buf.String())
	}
}

func TestWriteIntegral_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := report.WriteIntegral(&buf, report.JSON, report.Integral{Function: "x", N: 4, Value: 0.5}); err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["value"] != 0.5 || m["n"] != 4.0 {
		t.Errorf("unexpected payload %v", m)
	}
}

func TestWriteSolution_Table(t *testing.T) {
	res := newton.Result{
		Solution:   [3]float64{0.612372, 0.612372, 0.5},
		Iterations: 2,
		Status:     newton.StatusConverged,
		History: []newton.Record{
			{Iteration: 1, X: 0.6, Y: 0.6, Z: 0.5, Error: 0.1},
			{Iteration: 2, X: 0.612372, Y: 0.612372, Z: 0.5, Error: 1e-7},
		},
	}
	var buf bytes.Buffer
	err := report.WriteSolution(&buf, report.Text, report.Solution{
		Jacobian: [][]string{{"2*x", "2*y", "2*z"}},
		Result:   res,
		Residual: &[3]float64{0, 0, 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Jacobian:", "Iteration", "Error", "1.000e-07", "Status: converged after 2 iteration(s)", "z = 0.500000", "Residual:"} {
		if !strings.Contains(out, want) {
			t.Errorf("want %q in output:\n%s", want, out)
		}
	}
}

func TestWriteSolution_EmptyHistory(t *testing.T) {
	var buf bytes.Buffer
	err := report.WriteSolution(&buf, report.Text, report.Solution{
		Result: newton.Result{Solution: [3]float64{0.5, 0.5, 0.5}, Status: newton.StatusSingular},
		Error:  "newton: singular jacobian",
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "No iterations recorded.") || !strings.Contains(out, "Status: singular") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "Residual") {
		t.Errorf("residual should be omitted:\n%s", out)
	}
}

func TestWriteCurve_MarksShaded(t *testing.T) {
	c := plotdata.Curve{Points: []plotdata.Point{{X: 0, Y: 1, Shaded: true}, {X: 2, Y: 3}}}
	var buf bytes.Buffer
	if err := report.WriteCurve(&buf, report.Text, c); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header and 2 rows, got %q", buf.String())
	}
	if !strings.HasSuffix(lines[1], "*") || strings.HasSuffix(lines[2], "*") {
		t.Errorf("shading marks wrong:\n%s", buf.String())
	}
}

func TestWriteSurface(t *testing.T) {
	s := plotdata.Surface{X: []float64{0, 1}, Y: []float64{0, 1}, Z: [][]float64{{0, 1}, {2, 3}}}
	var buf bytes.Buffer
	if err := report.WriteSurface(&buf, report.Text, s); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 3 {
		t.Errorf("want 3 lines, got %d:\n%s", n, buf.String())
	}
}
