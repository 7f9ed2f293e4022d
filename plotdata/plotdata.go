// Package plotdata produces the sample data behind the integration and
// system plots: a padded curve with the integration area marked, the
// trapezoid vertices, and contour grids of the equations on a z-slice.
// Drawing is left to the caller.
package plotdata

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/njchilds90/metnum/expr"
	"github.com/njchilds90/metnum/quadrature"
)

// ErrTooFewPoints reports a sample count below two.
var ErrTooFewPoints = errors.New("plotdata: need at least 2 points")

// DefaultPadding widens a curve's range by 20% of each bound's magnitude.
const DefaultPadding = 0.2

// Func is a real function of one variable.
type Func func(x float64) (float64, error)

// Point is one sample. Shaded marks points inside the integration bounds.
type Point struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Shaded bool    `json:"shaded,omitempty"`
}

// Curve is an evenly sampled function.
type Curve struct {
	Points []Point `json:"points"`
}

// Xs returns the abscissae.
func (c Curve) Xs() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.X
	}
	return out
}

// Ys returns the ordinates.
func (c Curve) Ys() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.Y
	}
	return out
}

// PaddedRange returns [a - frac*|a|, b + frac*|b|].
func PaddedRange(a, b, frac float64) (lo, hi float64) {
	return a - frac*math.Abs(a), b + frac*math.Abs(b)
}

// SampleCurve evaluates f at points evenly spaced values in [lo, hi].
// The first failing sample aborts with its error.
func SampleCurve(f Func, lo, hi float64, points int) (Curve, error) {
	if points < 2 {
		return Curve{}, fmt.Errorf("%w: got %d", ErrTooFewPoints, points)
	}
	xs := floats.Span(make([]float64, points), lo, hi)
	c := Curve{Points: make([]Point, points)}
	for i, x := range xs {
		y, err := f(x)
		if err != nil {
			return Curve{}, fmt.Errorf("plotdata: sample %d (x=%g): %w", i, x, err)
		}
		c.Points[i] = Point{X: x, Y: y}
	}
	return c, nil
}

// IntegrationCurve samples f over the padded range of [a, b] and marks the
// points that lie between the bounds.
func IntegrationCurve(f Func, a, b float64, points int) (Curve, error) {
	lo, hi := PaddedRange(math.Min(a, b), math.Max(a, b), DefaultPadding)
	c, err := SampleCurve(f, lo, hi, points)
	if err != nil {
		return Curve{}, err
	}
	Shade(c, a, b)
	return c, nil
}

// Shade marks the points of c whose abscissa lies between a and b.
func Shade(c Curve, a, b float64) {
	lo, hi := math.Min(a, b), math.Max(a, b)
	for i := range c.Points {
		c.Points[i].Shaded = c.Points[i].X >= lo && c.Points[i].X <= hi
	}
}

// TrapezoidNodes returns the n+1 vertices the trapezoidal rule joins on
// [a, b]. n is validated like quadrature.Integrate does.
func TrapezoidNodes(f Func, a, b float64, n int) (Curve, error) {
	if n <= 0 {
		return Curve{}, fmt.Errorf("%w: got n=%d", quadrature.ErrInvalidPartition, n)
	}
	return SampleCurve(f, a, b, n+1)
}

// Surface is a grid of values: Z[i][j] = f(X[j], Y[i]).
type Surface struct {
	X []float64   `json:"x"`
	Y []float64   `json:"y"`
	Z [][]float64 `json:"z"`
}

// SampleSurface evaluates f, compiled over (x, y, z), on a points×points
// grid spanning xr × yr with z held at z0.
func SampleSurface(f *expr.Numeric, xr, yr [2]float64, points int, z0 float64) (Surface, error) {
	if points < 2 {
		return Surface{}, fmt.Errorf("%w: got %d", ErrTooFewPoints, points)
	}
	s := Surface{
		X: floats.Span(make([]float64, points), xr[0], xr[1]),
		Y: floats.Span(make([]float64, points), yr[0], yr[1]),
		Z: make([][]float64, points),
	}
	for i, y := range s.Y {
		row := make([]float64, points)
		for j, x := range s.X {
			v, err := f.Eval(x, y, z0)
			if err != nil {
				return Surface{}, fmt.Errorf("plotdata: grid (%d, %d): %w", i, j, err)
			}
			row[j] = v
		}
		s.Z[i] = row
	}
	return s, nil
}

// DefaultSurfaceRange and DefaultSurfacePoints describe the 30×30 grid on
// [-1.5, 1.5]² used for the system contours.
var DefaultSurfaceRange = [2]float64{-1.5, 1.5}

const DefaultSurfacePoints = 30

// SystemContours samples the first two equations of a system on the
// default grid at z = 0.
func SystemContours(eqs [3]expr.Expr) ([2]Surface, error) {
	var out [2]Surface
	for k := 0; k < 2; k++ {
		fn, err := expr.Compile(eqs[k], "x", "y", "z")
		if err != nil {
			return out, fmt.Errorf("plotdata: equation %d: %w", k+1, err)
		}
		s, err := SampleSurface(fn, DefaultSurfaceRange, DefaultSurfaceRange, DefaultSurfacePoints, 0)
		if err != nil {
			return out, fmt.Errorf("equation %d: %w", k+1, err)
		}
		out[k] = s
	}
	return out, nil
}
