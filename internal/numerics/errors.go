package numerics

import "fmt"

// ConvergenceError indicates an iterative solver exhausted its iteration
// budget without satisfying its tolerances. The last iterate and residual
// are preserved for diagnostics.
type ConvergenceError struct {
	// Solver is the name of the routine that failed (e.g. "secant").
	Solver string
	// Iterations is the number of iterations performed.
	Iterations int
	// X is the last iterate.
	X float64
	// F is the residual at the last iterate.
	F float64
}

// Error returns a formatted message describing the convergence failure.
func (e ConvergenceError) Error() string {
	return fmt.Sprintf("%s failed to converge after %d iterations (x=%g, f=%g)", e.Solver, e.Iterations, e.X, e.F)
}

// BracketError indicates a bracketing solver was given an interval whose
// endpoints do not straddle a root.
type BracketError struct {
	// A and B are the interval endpoints.
	A, B float64
	// FA and FB are the function values at the endpoints.
	FA, FB float64
}

// Error returns a formatted message describing the invalid bracket.
func (e BracketError) Error() string {
	return fmt.Sprintf("f(a) and f(b) must have different signs: f(%g)=%g, f(%g)=%g", e.A, e.FA, e.B, e.FB)
}
