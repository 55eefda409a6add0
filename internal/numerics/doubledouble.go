package numerics

import "math"

// ─────────────────────────────────────────────────────────────────────────────
// Double-Double Arithmetic
// ─────────────────────────────────────────────────────────────────────────────
//
// Values are unevaluated sums (hi, lo) of two float64s with |lo| no larger
// than half an ulp of hi, giving roughly 32 significant decimal digits.
// Products lean on the hardware fused multiply-add through math.FMA.

// AddDD returns the double-double sum (x, xe) + (y, ye).
func AddDD(x, xe, y, ye float64) (float64, float64) {
	// Knuth two-sum of the leading terms.
	r := x + y
	t := r - x
	e := (x - (r - t)) + (y - t)
	e += xe + ye
	hi := r + e
	lo := e - (hi - r)
	return hi, lo
}

// MulExactDD returns the exact product of two float64s as a double-double.
func MulExactDD(x, y float64) (float64, float64) {
	hi := x * y
	lo := math.FMA(x, y, -hi)
	return hi, lo
}

// MulDD returns the double-double product (x, xe) * (y, ye).
func MulDD(x, xe, y, ye float64) (float64, float64) {
	c := x * y
	cc := math.FMA(x, y, -c) + x*ye + xe*y
	hi := c + cc
	lo := cc - (hi - c)
	return hi, lo
}

// DivDD returns the double-double quotient (x, xe) / (y, ye).
func DivDD(x, xe, y, ye float64) (float64, float64) {
	c := x / y
	p := c * y
	pe := math.FMA(c, y, -p)
	cc := (x - p - pe + xe - c*ye) / y
	hi := c + cc
	lo := cc - (hi - c)
	return hi, lo
}

// LtDD reports whether (x, xe) < (y, ye).
func LtDD(x, xe, y, ye float64) bool {
	return x < y || (x == y && xe < ye)
}

// GtDD reports whether (x, xe) > (y, ye).
func GtDD(x, xe, y, ye float64) bool {
	return x > y || (x == y && xe > ye)
}
