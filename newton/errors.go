package newton

import (
	"errors"
	"fmt"
)

var (
	// ErrSingularJacobian indicates a Jacobian that is singular or too
	// ill-conditioned to solve.
	ErrSingularJacobian = errors.New("newton: singular jacobian")

	// ErrInvalidOptions indicates an out-of-range iteration cap, tolerance
	// or condition limit.
	ErrInvalidOptions = errors.New("newton: invalid options")
)

// SingularJacobianError records where the Jacobian could not be solved.
type SingularJacobianError struct {
	Iteration int
	Point     [3]float64
	Cond      float64
}

func (e *SingularJacobianError) Error() string {
	return fmt.Sprintf("newton: singular jacobian at iteration %d, (x, y, z) = (%g, %g, %g), condition number %g",
		e.Iteration, e.Point[0], e.Point[1], e.Point[2], e.Cond)
}

func (e *SingularJacobianError) Is(target error) bool { return target == ErrSingularJacobian }

// IterationError wraps an evaluation failure with the iteration it
// happened in.
type IterationError struct {
	Iteration int
	Point     [3]float64
	Err       error
}

func (e *IterationError) Error() string {
	return fmt.Sprintf("newton: iteration %d: %v", e.Iteration, e.Err)
}

func (e *IterationError) Unwrap() error { return e.Err }
