package newton

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Options control the iteration.
type Options struct {
	// MaxIter caps the number of Newton steps. Zero returns the initial
	// guess untouched.
	MaxIter int
	// Tol is the convergence threshold on the Euclidean step norm.
	Tol float64
	// CondLimit is the largest Jacobian condition number accepted. Zero
	// means mat.ConditionTolerance.
	CondLimit float64
}

// DefaultOptions are the settings of the interactive tool: ten steps and
// a tolerance of 1e-6.
func DefaultOptions() Options {
	return Options{MaxIter: 10, Tol: 1e-6, CondLimit: mat.ConditionTolerance}
}

func (o Options) validate() (Options, error) {
	switch {
	case o.MaxIter < 0:
		return o, fmt.Errorf("%w: max iterations %d is negative", ErrInvalidOptions, o.MaxIter)
	case !(o.Tol > 0) || math.IsInf(o.Tol, 0):
		return o, fmt.Errorf("%w: tolerance %g must be positive and finite", ErrInvalidOptions, o.Tol)
	case o.CondLimit < 0 || math.IsNaN(o.CondLimit):
		return o, fmt.Errorf("%w: condition limit %g", ErrInvalidOptions, o.CondLimit)
	}
	if o.CondLimit == 0 {
		o.CondLimit = mat.ConditionTolerance
	}
	return o, nil
}

// Status tells how a run ended.
type Status int

const (
	// StatusMaxIterations: the cap was reached before the step norm fell
	// to the tolerance. Not an error.
	StatusMaxIterations Status = iota
	StatusConverged
	StatusSingular
	StatusEvalFailed
)

var statusNames = map[Status]string{
	StatusMaxIterations: "max_iterations",
	StatusConverged:     "converged",
	StatusSingular:      "singular",
	StatusEvalFailed:    "eval_failed",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Record is one row of the iteration history: the iterate after step
// Iteration and the norm of that step.
type Record struct {
	Iteration int     `json:"iteration"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Error     float64 `json:"error"`
}

// Result is the outcome of Solve.
type Result struct {
	Solution   [3]float64 `json:"solution"`
	History    []Record   `json:"history"`
	Iterations int        `json:"iterations"`
	Status     Status     `json:"status"`
}

// Converged reports whether the last step met the tolerance.
func (r Result) Converged() bool { return r.Status == StatusConverged }

// Solve runs Newton–Raphson from x0.
//
// Each step evaluates F and J at the iterate, solves J·δ = −F, adds δ and
// records ‖δ‖₂. The run stops when ‖δ‖₂ <= opts.Tol (StatusConverged) or
// after opts.MaxIter steps (StatusMaxIterations, nil error).
//
// A singular Jacobian or a non-finite evaluation stops the run at once.
// The returned Result then holds the history so far and the last good
// iterate, and the error is a *SingularJacobianError or an
// *IterationError respectively.
func Solve(sys *System, x0 [3]float64, opts Options) (Result, error) {
	opts, err := opts.validate()
	if err != nil {
		return Result{}, err
	}

	res := Result{Solution: x0, History: []Record{}, Status: StatusMaxIterations}
	p := x0
	jac := mat.NewDense(3, 3, nil)
	rhs := mat.NewVecDense(3, nil)
	delta := mat.NewVecDense(3, nil)
	var lu mat.LU

	for it := 1; it <= opts.MaxIter; it++ {
		fv, err := sys.Residual(p)
		if err == nil {
			err = sys.JacobianAt(jac, p)
		}
		if err != nil {
			res.Status = StatusEvalFailed
			return res, &IterationError{Iteration: it, Point: p, Err: err}
		}

		lu.Factorize(jac)
		if cond := lu.Cond(); lu.Det() == 0 || !(cond <= opts.CondLimit) {
			res.Status = StatusSingular
			return res, &SingularJacobianError{Iteration: it, Point: p, Cond: cond}
		}
		for i, v := range fv {
			rhs.SetVec(i, -v)
		}
		if err := lu.SolveVecTo(delta, false, rhs); err != nil && !isConditionWarning(err) {
			res.Status = StatusSingular
			return res, &SingularJacobianError{Iteration: it, Point: p, Cond: lu.Cond()}
		}

		step := delta.RawVector().Data
		for i := range p {
			p[i] += step[i]
		}
		norm := floats.Norm(step, 2)
		res.History = append(res.History, Record{Iteration: it, X: p[0], Y: p[1], Z: p[2], Error: norm})
		res.Iterations = it
		res.Solution = p

		if norm <= opts.Tol {
			res.Status = StatusConverged
			return res, nil
		}
	}
	return res, nil
}

// isConditionWarning reports gonum's ill-conditioning warning, which still
// comes with a solution. The condition limit has already been applied.
func isConditionWarning(err error) bool {
	var c mat.Condition
	return errors.As(err, &c)
}

// SolveStrings parses the three equations and solves them.
func SolveStrings(src [3]string, x0 [3]float64, opts Options) (Result, error) {
	sys, err := ParseSystem(src)
	if err != nil {
		return Result{}, err
	}
	return Solve(sys, x0, opts)
}
