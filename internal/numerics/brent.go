package numerics

import "math"

// Brent default tolerances, matching common practice for float64 work.
const (
	brentXtol = 2e-12
	brentRtol = 4.0 * Epsilon
)

// Brent finds a root of f within the bracketing interval [a, b] using
// Brent's method with inverse quadratic interpolation. The endpoints must
// evaluate to opposite signs.
//
// Parameters:
//   - f: The objective function.
//   - a: The lower end of the bracket.
//   - b: The upper end of the bracket.
//
// Returns:
//   - float64: The converged root.
//   - error: A BracketError for an invalid bracket, or a ConvergenceError
//     if the iteration budget is exhausted.
func Brent(f func(float64) float64, a, b float64) (float64, error) {
	fa := f(a)
	if fa == 0.0 {
		return a, nil
	}
	fb := f(b)
	if fb == 0.0 {
		return b, nil
	}
	if (fa > 0.0) == (fb > 0.0) {
		return 0.0, BracketError{A: a, B: b, FA: fa, FB: fb}
	}

	c, fc := a, fa
	d := b - a
	e := d

	for it := 0; it < DefaultMaxiter; it++ {
		if (fb > 0.0) == (fc > 0.0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol := 2.0*brentRtol*math.Abs(b) + 0.5*brentXtol
		m := 0.5 * (c - b)
		if math.Abs(m) <= tol || fb == 0.0 {
			return b, nil
		}

		if math.Abs(e) < tol || math.Abs(fa) <= math.Abs(fb) {
			// Interpolation is not making progress, bisect.
			d = m
			e = m
		} else {
			s := fb / fa
			var p, q float64
			if a == c {
				// Secant step.
				p = 2.0 * m * s
				q = 1.0 - s
			} else {
				// Inverse quadratic interpolation.
				q = fa / fc
				r := fb / fc
				p = s * (2.0*m*q*(q-r) - (b-a)*(r-1.0))
				q = (q - 1.0) * (r - 1.0) * (s - 1.0)
			}
			if p > 0.0 {
				q = -q
			} else {
				p = -p
			}
			if 2.0*p < math.Min(3.0*m*q-math.Abs(tol*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = m
				e = m
			}
		}

		a, fa = b, fb
		if math.Abs(d) > tol {
			b += d
		} else if m > 0.0 {
			b += tol
		} else {
			b -= tol
		}
		fb = f(b)
	}
	return b, ConvergenceError{Solver: "brent", Iterations: DefaultMaxiter, X: b, F: fb}
}
