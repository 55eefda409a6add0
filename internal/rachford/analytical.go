package rachford

import "math"

// analytical3 evaluates the exact three-component vapor fraction from the
// quadratic closed form, derived with computer algebra and compacted through
// common subexpression elimination. It reports ok=false when the radicand is
// negative or a denominator vanishes, in which case the caller must fall back
// to an iterative solution.
func analytical3(zs, Ks []float64) (float64, bool) {
	z1, z2, z3 := zs[0], zs[1], zs[2]
	k1, k2, k3 := Ks[0], Ks[1], Ks[2]
	x0 := k1 * z1
	x1 := k1 * z2
	x2 := k1 * z3
	x3 := k2 * z1
	x4 := k2 * z2
	x5 := k2 * z3
	x6 := k3 * z1
	x7 := k3 * z2
	x8 := k3 * z3
	x9 := k2 * x0
	x10 := k2 * x1
	x11 := k2 * x2
	x12 := k3 * x0
	x13 := k3 * x1
	x14 := k3 * x2
	x15 := k3 * x4
	x16 := k3 * x5
	x17 := x0 + x0
	x18 := x17 * x4
	x19 := x5 + x5
	x20 := x0 * x19
	x21 := x1 * x19
	x22 := x17 * x7
	x23 := x17 * x8
	x24 := x8 + x8
	x25 := x1 * x24
	x26 := x3 + x3
	x27 := x26 * x7
	x28 := x24 * x3
	x29 := x24 * x4
	x30 := k1 * k1
	x31 := z2 * z2
	x32 := x30 * x31
	x33 := z3 * z3
	x34 := x30 * x33
	x35 := k2 * k2
	x36 := z1 * z1
	x37 := x35 * x36
	x38 := x33 * x35
	x39 := k3 * k3
	x40 := x36 * x39
	x41 := x31 * x39
	x42 := k1 + k1
	x43 := k2 * x33
	x44 := x42 * x43
	x45 := k3 * x31
	x46 := x42 * x45
	x47 := z2 + z2
	x48 := x30 * z3
	x49 := k2 + k2
	x50 := k3 * x36
	x51 := x49 * x50
	x52 := z1 + z1
	x53 := x35 * z3
	x54 := x39 * z2
	x55 := 4.0 * x12
	x56 := 4.0 * k1
	x57 := k2 * x56
	x58 := x35 * x47
	x59 := x1 + x1
	x60 := x39 * z3
	x61 := x30 * x47
	x62 := x4 + x4
	x63 := x6 + x6
	x64 := x7 + x7
	x65 := k3 + k3

	radicand := k3*x43*x56 - x0*x58 + 4.0*x13*x5 + x18 - x20 - x21 - x22 + x23 -
		x25 - x27 - x28 + x29 + x30*(-x27-x28+x29+x35*x52*z2+x37+x40-x51) +
		x32 + x34*(x39-x65+1.0) + x35*(-x22+x23-x25+x32+x41-x46) + x37 -
		x38*x65 + x38 + x39*(x18-x20-x21+x38-x44+x48*x52) + x4*x55 + x40 +
		x41 + x42*(-x37-x40) - x44 - x46 + x48*(x26+x47-x62-x63-x64) +
		x49*(-x32-x41) + x5*x55 - x51 + x53*(x59+x52-x17+x54+x54-x63-x64) +
		x54*(x52-x17-x26) + x57*(x45+x50) + x58*x6 + x60*(x26-x17+x59-x62) +
		x61*(x6-x3)
	if radicand < 0.0 {
		return 0, false
	}

	den := k3*(x10+x11-x3+x9) + x0 + x1 - x10 - x11 - x12 - x13 -
		x14 - x15 - x16 + x2 + x3 + x4 + x5 + x6 + x7 + x8 - x9 -
		z1 - z2 - z3
	if den == 0.0 {
		return 0, false
	}

	num := -x0 + 0.5*(-x1+x10+x12+x14+x15+x16-x2-x3-x5-x6-x7+x9) -
		x4 - x8 + z1 + z2 + z3 + math.Sqrt(radicand)*0.5
	return -num / den, true
}

// solveAnalytical solves small systems exactly. Binary systems use the
// closed-form quotient, three-component systems the quadratic closed form,
// and four and five components the analytical polynomial roots. A secant
// solve covers the degenerate cases where the closed forms break down.
func solveAnalytical(zs, Ks []float64, guess float64) (float64, []float64, []float64, error) {
	n := len(zs)
	switch n {
	case 2:
		z1, z2 := zs[0], zs[1]
		k1, k2 := Ks[0], Ks[1]
		if (k1 < 1.0 && k2 < 1.0) || (k1 > 1.0 && k2 > 1.0) {
			return 0, nil, nil, NewPhaseCountReducedError("no positive-composition solution for Ks=%v", Ks)
		}
		z1z2 := z1 + z2
		k1z1 := k1 * z1
		k2z2 := k2 * z2
		t1 := z1z2 - k1z1 - k2z2
		den := t1 + k2*k1z1 + k1*k2z2 - k1*z2 - k2*z1
		if den == 0.0 {
			return SolveStandard(zs, Ks, guess, false, false)
		}
		vf := t1 / den
		// Guard the compositions against a vanishing denominator when a
		// feed fraction is zero.
		xs := make([]float64, n)
		ys := make([]float64, n)
		for i := range zs {
			d := 1.0 + vf*Ks[i] - vf
			if d != 0.0 {
				xs[i] = zs[i] / d
			}
			ys[i] = xs[i] * Ks[i]
		}
		return vf, xs, ys, nil
	case 3:
		vf, ok := analytical3(zs, Ks)
		if !ok {
			return SolveStandard(zs, Ks, guess, false, false)
		}
		xs, ys := flashCompositions(zs, Ks, vf)
		return vf, xs, ys, nil
	case 4, 5:
		return SolvePolynomial(zs, Ks)
	case 1:
		return 0, nil, nil, NewDimensionError("one component cannot flash into two phases")
	default:
		return 0, nil, nil, NewDimensionError("analytical solutions exist only for 2 to 5 components, got %d", n)
	}
}
