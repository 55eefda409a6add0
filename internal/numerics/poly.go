package numerics

import (
	"math"
	"math/cmplx"
)

// ─────────────────────────────────────────────────────────────────────────────
// Polynomial Evaluation
// ─────────────────────────────────────────────────────────────────────────────

// Horner evaluates a polynomial at x. Coefficients are ordered from the
// highest power to the constant term.
func Horner(coeffs []float64, x float64) float64 {
	tot := 0.0
	for _, c := range coeffs {
		tot = tot*x + c
	}
	return tot
}

// HornerAndDer evaluates a polynomial and its first derivative at x.
// Coefficients are ordered from the highest power to the constant term.
func HornerAndDer(coeffs []float64, x float64) (float64, float64) {
	f := 0.0
	der := 0.0
	for _, c := range coeffs {
		der = x*der + f
		f = x*f + c
	}
	return f, der
}

// ─────────────────────────────────────────────────────────────────────────────
// Closed-Form Polynomial Roots
// ─────────────────────────────────────────────────────────────────────────────

// RootsCubic returns the roots of a*x³ + b*x² + c*x + d. Degenerate leading
// coefficients reduce the degree, so one, two, or three roots may be
// returned. Complex roots are included.
func RootsCubic(a, b, c, d float64) []complex128 {
	if a == 0.0 {
		if b == 0.0 {
			// Linear.
			return []complex128{complex(-d/c, 0.0)}
		}
		// Quadratic.
		disc := cmplx.Sqrt(complex(c*c-4.0*b*d, 0.0))
		inv := complex(0.5/b, 0.0)
		cc := complex(c, 0.0)
		return []complex128{(-cc + disc) * inv, (-cc - disc) * inv}
	}

	b1 := b / a
	c1 := c / a
	d1 := d / a

	p := c1 - b1*b1/3.0
	q := d1 - b1*c1/3.0 + 2.0*b1*b1*b1/27.0
	shift := complex(-b1/3.0, 0.0)

	if p == 0.0 && q == 0.0 {
		return []complex128{shift, shift, shift}
	}

	s := cmplx.Sqrt(complex(0.25*q*q+p*p*p/27.0, 0.0))
	u := cmplx.Pow(complex(-0.5*q, 0.0)+s, 1.0/3.0)
	if u == 0.0 {
		u = cmplx.Pow(complex(-0.5*q, 0.0)-s, 1.0/3.0)
	}

	// The three cube roots of unity generate the remaining roots.
	w := complex(-0.5, 0.5*math.Sqrt(3.0))
	pc := complex(p/3.0, 0.0)
	roots := make([]complex128, 3)
	uk := u
	for k := 0; k < 3; k++ {
		roots[k] = uk - pc/uk + shift
		uk *= w
	}
	return roots
}

// RootsQuartic returns the four roots of a*x⁴ + b*x³ + c*x² + d*x + e using
// Descartes' factorization into two quadratics. Complex roots are included.
func RootsQuartic(a, b, c, d, e float64) []complex128 {
	b1 := b / a
	c1 := c / a
	d1 := d / a
	e1 := e / a

	// Depressed quartic y⁴ + p y² + q y + r with x = y - b1/4.
	p := c1 - 0.375*b1*b1
	q := d1 - 0.5*b1*c1 + 0.125*b1*b1*b1
	r := e1 - 0.25*b1*d1 + 0.0625*b1*b1*c1 - 3.0*b1*b1*b1*b1/256.0
	shift := complex(-0.25*b1, 0.0)

	roots := make([]complex128, 0, 4)
	if q == 0.0 {
		// Biquadratic.
		disc := cmplx.Sqrt(complex(p*p-4.0*r, 0.0))
		for _, y2 := range []complex128{(complex(-p, 0.0) + disc) * 0.5, (complex(-p, 0.0) - disc) * 0.5} {
			y := cmplx.Sqrt(y2)
			roots = append(roots, y+shift, -y+shift)
		}
		return roots
	}

	// u² is a root of U³ + 2p U² + (p²-4r) U - q² = 0; the root of largest
	// magnitude keeps u well away from zero.
	us := RootsCubic(1.0, 2.0*p, p*p-4.0*r, -q*q)
	U := us[0]
	for _, cand := range us[1:] {
		if cmplx.Abs(cand) > cmplx.Abs(U) {
			U = cand
		}
	}
	u := cmplx.Sqrt(U)

	pc := complex(p, 0.0)
	qc := complex(q, 0.0)
	s := (pc + U - qc/u) * 0.5
	t := (pc + U + qc/u) * 0.5

	ds := cmplx.Sqrt(U - 4.0*s)
	dt := cmplx.Sqrt(U - 4.0*t)
	roots = append(roots,
		(-u+ds)*0.5+shift,
		(-u-ds)*0.5+shift,
		(u+dt)*0.5+shift,
		(u-dt)*0.5+shift,
	)
	return roots
}
