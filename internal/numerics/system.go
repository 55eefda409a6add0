package numerics

import "math"

// ─────────────────────────────────────────────────────────────────────────────
// Multivariate Newton
// ─────────────────────────────────────────────────────────────────────────────

// SystemFunc evaluates a vector objective and its Jacobian at x.
type SystemFunc func(x []float64) (fs []float64, jac [][]float64)

// SolveFunc solves the linear system a·x = b for one Newton step.
type SolveFunc func(a [][]float64, b []float64) ([]float64, error)

// DampingFunc constructs the next iterate from the current iterate, the raw
// Newton step and the initial damping factor. Implementations may shorten
// the step to keep the iterate feasible; they return an error when no
// feasible step can be found.
type DampingFunc func(x, dx []float64, damping float64) ([]float64, error)

// SystemParams configures NewtonSystem.
type SystemParams struct {
	// Xtol is the convergence tolerance on the largest step component.
	// A non-positive value selects DefaultXtol.
	Xtol float64
	// Maxiter caps the iteration count. A non-positive value selects
	// DefaultMaxiter.
	Maxiter int
	// Damping is the initial step scale. A non-positive value selects 1.
	Damping float64
	// Solve is the linear solver for the Newton step. Nil selects
	// GaussSolve.
	Solve SolveFunc
	// Damp, when non-nil, replaces the plain damped update.
	Damp DampingFunc
}

// NewtonSystem solves the vector equation f(x) = 0 by damped Newton
// iteration with an analytical Jacobian.
//
// Returns:
//   - []float64: The converged iterate.
//   - int: The number of iterations performed.
//   - error: An error from the linear solver or damping callback, or a
//     ConvergenceError if the iteration budget is exhausted.
func NewtonSystem(f SystemFunc, x0 []float64, p SystemParams) ([]float64, int, error) {
	xtol := p.Xtol
	if xtol <= 0.0 {
		xtol = DefaultXtol
	}
	maxiter := p.Maxiter
	if maxiter <= 0 {
		maxiter = DefaultMaxiter
	}
	damping := p.Damping
	if damping <= 0.0 {
		damping = 1.0
	}
	solve := p.Solve
	if solve == nil {
		solve = GaussSolve
	}

	n := len(x0)
	x := make([]float64, n)
	copy(x, x0)
	negFs := make([]float64, n)

	for it := 1; it <= maxiter; it++ {
		fs, jac := f(x)
		for i := 0; i < n; i++ {
			negFs[i] = -fs[i]
		}
		dx, err := solve(jac, negFs)
		if err != nil {
			return x, it, err
		}

		var xNew []float64
		if p.Damp != nil {
			xNew, err = p.Damp(x, dx, damping)
			if err != nil {
				return x, it, err
			}
		} else {
			xNew = make([]float64, n)
			for i := 0; i < n; i++ {
				xNew[i] = x[i] + dx[i]*damping
			}
		}

		maxStep := 0.0
		for i := 0; i < n; i++ {
			if step := math.Abs(xNew[i] - x[i]); step > maxStep {
				maxStep = step
			}
		}
		copy(x, xNew)
		if maxStep < xtol {
			return x, it, nil
		}
	}
	return x, maxiter, ConvergenceError{Solver: "newton_system", Iterations: maxiter}
}
