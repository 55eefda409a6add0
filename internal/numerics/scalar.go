package numerics

import "math"

// ─────────────────────────────────────────────────────────────────────────────
// Scalar Root Finding
// ─────────────────────────────────────────────────────────────────────────────

// Params configures the scalar iterative solvers (Secant, Newton, Halley).
// The zero value of Low, High and X1 is a valid coordinate, so NewParams
// should be used to construct a Params with those fields unset.
type Params struct {
	// Xtol is the step-size tolerance. A non-positive value selects
	// DefaultXtol.
	Xtol float64
	// Ytol is the residual tolerance. A non-positive value disables the
	// residual requirement.
	Ytol float64
	// Low and High bound the iterates. NaN disables a bound.
	Low  float64
	High float64
	// Bisection enables bisection fallback steps using the tightest
	// bracket seen so far whenever an iterate leaves [Low, High].
	Bisection bool
	// Maxiter caps the iteration count. A non-positive value selects
	// DefaultMaxiter.
	Maxiter int
	// X1 is the second starting point for the secant method. NaN selects
	// a small perturbation of x0.
	X1 float64
}

// NewParams returns a Params with the bounds and secant second point unset.
func NewParams() Params {
	return Params{Low: math.NaN(), High: math.NaN(), X1: math.NaN()}
}

// bracket tracks the tightest sign-change interval observed by a solver.
// It backs the bisection fallback steps.
type bracket struct {
	xPos, xNeg float64
	hasPos     bool
	hasNeg     bool
}

func (b *bracket) record(x, f float64) {
	if f > 0.0 {
		b.xPos, b.hasPos = x, true
	} else if f < 0.0 {
		b.xNeg, b.hasNeg = x, true
	}
}

func (b *bracket) full() bool { return b.hasPos && b.hasNeg }

func (b *bracket) mid() float64 { return 0.5 * (b.xPos + b.xNeg) }

// constrain returns the next iterate, replaced by a bisection step or
// clamped to the bounds when it has left the permitted interval.
func constrain(x float64, p Params, b *bracket) float64 {
	lowViolated := !math.IsNaN(p.Low) && x < p.Low
	highViolated := !math.IsNaN(p.High) && x > p.High
	if !lowViolated && !highViolated {
		return x
	}
	if p.Bisection && b.full() {
		return b.mid()
	}
	if lowViolated {
		return p.Low
	}
	return p.High
}

func converged(dx, x, f float64, p Params) bool {
	xtol := p.Xtol
	if xtol <= 0.0 {
		xtol = DefaultXtol
	}
	if math.Abs(dx) > xtol*(1.0+math.Abs(x)) {
		return false
	}
	if p.Ytol > 0.0 && math.Abs(f) > p.Ytol {
		return false
	}
	return true
}

func maxiterOf(p Params) int {
	if p.Maxiter > 0 {
		return p.Maxiter
	}
	return DefaultMaxiter
}

// Secant finds a root of f starting from x0 using the secant method.
//
// Parameters:
//   - f: The objective function.
//   - x0: The initial guess.
//   - p: Solver configuration.
//
// Returns:
//   - float64: The converged root.
//   - error: A ConvergenceError if the iteration budget is exhausted or the
//     secant step degenerates without a usable bracket.
func Secant(f func(float64) float64, x0 float64, p Params) (float64, error) {
	maxiter := maxiterOf(p)
	var br bracket

	p0 := x0
	p1 := p.X1
	if math.IsNaN(p1) {
		p1 = x0 * (1.0 + 1e-4)
		if x0 >= 0.0 {
			p1 += 1e-4
		} else {
			p1 -= 1e-4
		}
	}
	q0 := f(p0)
	if q0 == 0.0 {
		return p0, nil
	}
	br.record(p0, q0)
	q1 := f(p1)
	br.record(p1, q1)

	for it := 0; it < maxiter; it++ {
		if q1 == 0.0 {
			return p1, nil
		}
		if q1 == q0 {
			if p.Bisection && br.full() {
				x := br.mid()
				p0, q0 = p1, q1
				p1 = x
				q1 = f(p1)
				br.record(p1, q1)
				continue
			}
			return p1, ConvergenceError{Solver: "secant", Iterations: it, X: p1, F: q1}
		}
		x := p1 - q1*(p1-p0)/(q1-q0)
		x = constrain(x, p, &br)
		p0, q0 = p1, q1
		p1 = x
		q1 = f(p1)
		br.record(p1, q1)
		if converged(p1-p0, p1, q1, p) {
			return p1, nil
		}
	}
	return p1, ConvergenceError{Solver: "secant", Iterations: maxiter, X: p1, F: q1}
}

// Newton finds a root of f starting from x0 using Newton-Raphson iteration.
// The objective must return the function value and its first derivative.
func Newton(f func(float64) (float64, float64), x0 float64, p Params) (float64, error) {
	maxiter := maxiterOf(p)
	var br bracket

	x := x0
	for it := 0; it < maxiter; it++ {
		fx, fpx := f(x)
		if fx == 0.0 {
			return x, nil
		}
		br.record(x, fx)
		var xNew float64
		if fpx == 0.0 {
			if !(p.Bisection && br.full()) {
				return x, ConvergenceError{Solver: "newton", Iterations: it, X: x, F: fx}
			}
			xNew = br.mid()
		} else {
			xNew = x - fx/fpx
			xNew = constrain(xNew, p, &br)
		}
		dx := xNew - x
		x = xNew
		if converged(dx, x, fx, p) {
			// The residual check uses the value at the previous
			// iterate; evaluate once more when a Ytol is active.
			if p.Ytol > 0.0 {
				fNew, _ := f(x)
				if math.Abs(fNew) > p.Ytol {
					continue
				}
			}
			return x, nil
		}
	}
	fx, _ := f(x)
	return x, ConvergenceError{Solver: "newton", Iterations: maxiter, X: x, F: fx}
}

// Halley finds a root of f starting from x0 using Halley's method.
// The objective must return the function value and its first and second
// derivatives. When the Halley denominator vanishes a plain Newton step is
// used instead.
func Halley(f func(float64) (float64, float64, float64), x0 float64, p Params) (float64, error) {
	maxiter := maxiterOf(p)
	var br bracket

	x := x0
	for it := 0; it < maxiter; it++ {
		fx, fpx, fppx := f(x)
		if fx == 0.0 {
			return x, nil
		}
		br.record(x, fx)
		var xNew float64
		den := 2.0*fpx*fpx - fx*fppx
		switch {
		case den != 0.0:
			xNew = x - 2.0*fx*fpx/den
			xNew = constrain(xNew, p, &br)
		case fpx != 0.0:
			xNew = x - fx/fpx
			xNew = constrain(xNew, p, &br)
		case p.Bisection && br.full():
			xNew = br.mid()
		default:
			return x, ConvergenceError{Solver: "halley", Iterations: it, X: x, F: fx}
		}
		dx := xNew - x
		x = xNew
		if converged(dx, x, fx, p) {
			if p.Ytol > 0.0 {
				fNew, _, _ := f(x)
				if math.Abs(fNew) > p.Ytol {
					continue
				}
			}
			return x, nil
		}
	}
	fx, _, _ := f(x)
	return x, ConvergenceError{Solver: "halley", Iterations: maxiter, X: x, F: fx}
}
