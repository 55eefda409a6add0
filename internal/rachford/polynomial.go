package rachford

import (
	"math"

	"github.com/mbeaulieu/rrcalc/internal/numerics"
)

func polynomialCoeffs3(zs, cs []float64) []float64 {
	z0, z1, z2 := zs[0], zs[1], zs[2]
	c0, c1, c2 := cs[0], cs[1], cs[2]
	x0 := c0 * z0
	x1 := c1 * z1
	x2 := c2 * z2
	aInv := 1.0 / (c0 * c1 * c2 * (z0 + z1 + z2))
	return []float64{1.0,
		(c0*(x1+x2) + c1*(x0+x2) + c2*(x0+x1)) * aInv,
		(x0 + x1 + x2) * aInv}
}

func polynomialCoeffs4(zs, cs []float64) []float64 {
	z0, z1, z2, z3 := zs[0], zs[1], zs[2], zs[3]
	c0, c1, c2, c3 := cs[0], cs[1], cs[2], cs[3]
	x0 := c0 * z0
	x1 := c1 * x0
	x2 := c1 * z1
	x3 := c0 * x2
	x4 := c2 * z2
	x5 := c0 * x4
	x6 := c3 * z3
	x7 := c0 * x6
	x8 := c2 * x0
	x9 := c2 * x2
	x10 := c1 * x4
	x11 := c1 * x6
	// The feed fractions sum to one, so the leading factor is just the
	// product of the Cs.
	aInv := 1.0 / (c0 * c1 * c2 * c3)
	x0x2x4 := x0 + x2 + x4
	t1 := x1 + x10 + x3 + x5 + x8 + x9
	return []float64{1.0,
		(c1*(x5+x7) + c2*(x1+x11+x3+x7) + c3*t1) * aInv,
		(c2*x6 + c3*x0x2x4 + t1 + x11 + x7) * aInv,
		(x0x2x4 + x6) * aInv}
}

func polynomialCoeffs5(zs, cs []float64) []float64 {
	z0, z1, z2, z3, z4 := zs[0], zs[1], zs[2], zs[3], zs[4]
	c0, c1, c2, c3, c4 := cs[0], cs[1], cs[2], cs[3], cs[4]
	x0 := c0 * z0
	x1 := c1 * x0
	x2 := c2 * x1
	x3 := c1 * z1
	x4 := c0 * x3
	x5 := c2 * x4
	x6 := c2 * z2
	x7 := c0 * x6
	x8 := c1 * x7
	x9 := c3 * z3
	x10 := c0 * x9
	x11 := c1 * x10
	x12 := c4 * z4
	x13 := c0 * x12
	x14 := c1 * x13
	x15 := c3 * x1
	x16 := c3 * x4
	x17 := c2 * x0
	x18 := c3 * x17
	x19 := c3 * x7
	x20 := c2 * x10
	x21 := c2 * x13
	x22 := c2 * x3
	x23 := c3 * x22
	x24 := c1 * x6
	x25 := c3 * x24
	x26 := c1 * x9
	x27 := c2 * x26
	x28 := c1 * x12
	x29 := c2 * x28
	x30 := c3 * x0
	x31 := c3 * x3
	x32 := c3 * x6
	x33 := c2 * x9
	x34 := c2 * x12
	aInv := 1.0 / (c0 * c1 * c2 * c3 * c4 * (z0 + z1 + z2 + z3 + z4))
	b := (c2*x11 + c2*x14 + c3*x14 + c3*x2 + c3*x21 + c3*x29 + c3*x5 + c3*x8 +
		c4*x11 + c4*x15 + c4*x16 + c4*x18 + c4*x19 + c4*x2 + c4*x20 + c4*x23 +
		c4*x25 + c4*x27 + c4*x5 + c4*x8) * aInv
	c := (c3*x13 + c3*x28 + c3*x34 + c4*x1 + c4*x10 + c4*x17 + c4*x22 + c4*x24 +
		c4*x26 + c4*x30 + c4*x31 + c4*x32 + c4*x33 + c4*x4 + c4*x7 + x11 +
		x14 + x15 + x16 + x18 + x19 + x2 + x20 + x21 + x23 + x25 + x27 +
		x29 + x5 + x8) * aInv
	d := (c3*x12 + c4*x0 + c4*x3 + c4*x6 + c4*x9 + x1 + x10 + x13 + x17 + x22 +
		x24 + x26 + x28 + x30 + x31 + x32 + x33 + x34 + x4 + x7) * aInv
	e := (x0 + x12 + x3 + x6 + x9) * aInv
	return []float64{1.0, b, c, d, e}
}

// polynomialMiddleCoeff sums, over all index subsets of the given size, the
// product of the inverse Cs times one minus the subset's total feed fraction.
func polynomialMiddleCoeff(size int, zs, csInv []float64) float64 {
	n := len(zs)
	idxs := make([]int, size)
	for i := range idxs {
		idxs[i] = i
	}
	c := 0.0
	for {
		cProd := 1.0
		zTot := 1.0
		for _, i := range idxs {
			zTot -= zs[i]
			cProd *= csInv[i]
		}
		c += zTot * cProd

		// Advance to the next combination in lexicographic order.
		i := size - 1
		for i >= 0 && idxs[i] == i+n-size {
			i--
		}
		if i < 0 {
			return c
		}
		idxs[i]++
		for j := i + 1; j < size; j++ {
			idxs[j] = idxs[j-1] + 1
		}
	}
}

// PolynomialCoeffs transforms the Rachford-Rice equation into polynomial form
// and returns the coefficients, highest powers first. The leading coefficient
// is always one. Spelled-out expansions derived with computer algebra are
// used for two through five components; the general combinatorial expansion
// handles larger systems, though its cost grows violently with the component
// count.
//
// Parameters:
//   - zs: Feed mole fractions.
//   - Ks: Equilibrium K values, one per component.
//
// Returns:
//   - []float64: Polynomial coefficients of degree len(zs)-1.
//   - error: A DimensionError for fewer than two components, else nil.
func PolynomialCoeffs(zs, Ks []float64) ([]float64, error) {
	if err := checkDimensions(zs, Ks, 2); err != nil {
		return nil, err
	}
	n := len(zs)
	cs := make([]float64, n)
	for i := range Ks {
		cs[i] = Ks[i] - 1.0
	}
	switch n {
	case 2:
		c0, c1 := cs[0], cs[1]
		z0, z1 := zs[0], zs[1]
		return []float64{1.0, (c0*z0 + c1*z1) / (c0 * c1 * (z0 + z1))}, nil
	case 3:
		return polynomialCoeffs3(zs, cs), nil
	case 4:
		return polynomialCoeffs4(zs, cs), nil
	case 5:
		return polynomialCoeffs5(zs, cs), nil
	}

	csInv := make([]float64, n)
	for i := range cs {
		csInv[i] = 1.0 / cs[i]
	}
	coeffs := make([]float64, n)
	coeffs[0] = 1.0
	c := 0.0
	for i := range zs {
		c += (1.0 - zs[i]) * csInv[i]
	}
	coeffs[1] = c
	for i, v := 2, n-1; v > 2; i, v = i+1, v-1 {
		coeffs[i] = polynomialMiddleCoeff(1+n-v, zs, csInv)
	}
	c = 0.0
	for i := range zs {
		prod := 1.0
		for j, ci := range csInv {
			if j != i {
				prod *= ci
			}
		}
		c += zs[i] * prod
	}
	coeffs[n-1] = c
	return coeffs, nil
}

// SolvePolynomial solves the Rachford-Rice equation via its polynomial form.
// For up to five components the roots are computed analytically and the one
// inside the feasible vapor fraction interval is selected; larger systems are
// solved numerically with a secant iteration on the polynomial, falling back
// to Brent's method on the bounded interval. Component counts beyond about
// twenty are impractical with this formulation.
//
// Parameters:
//   - zs: Feed mole fractions.
//   - Ks: Equilibrium K values, one per component.
//
// Returns:
//   - float64: The vapor fraction solution.
//   - []float64: Liquid phase mole fractions.
//   - []float64: Vapor phase mole fractions.
//   - error: A PhaseCountReducedError, a BadRootsError, a convergence
//     failure, or nil.
func SolvePolynomial(zs, Ks []float64) (float64, []float64, []float64, error) {
	n := len(zs)
	poly, err := PolynomialCoeffs(zs, Ks)
	if err != nil {
		return 0, nil, nil, err
	}

	kmin, kmax := Ks[0], Ks[0]
	zOfKmax := zs[0]
	for i, k := range Ks {
		if k > kmax {
			kmax = k
			zOfKmax = zs[i]
		}
		if k < kmin {
			kmin = k
		}
	}
	if kmin > 1.0 || kmax < 1.0 {
		return 0, nil, nil, NewPhaseCountReducedError("no positive-composition solution for Ks=%v", Ks)
	}

	vfMin := ((kmax-kmin)*zOfKmax - (1.0 - kmin)) / ((1.0 - kmin) * (kmax - 1.0))
	vfMax := 1.0 / (1.0 - kmin)
	if vfMin < 0.0 {
		vfMin *= numerics.OneEpsilonLarger
	} else {
		vfMin *= numerics.OneEpsilonSmaller
	}
	if vfMax < 0.0 {
		vfMax *= numerics.OneEpsilonLarger
	} else {
		vfMax *= numerics.OneEpsilonSmaller
	}

	var vf float64
	if n > 5 {
		objective := func(v float64) float64 { return numerics.Horner(poly, v) }
		x0 := 0.5 * (vfMin + vfMax)
		v, solveErr := numerics.Secant(objective, x0, numerics.NewParams())
		if solveErr != nil || v < vfMin || v > vfMax {
			v, solveErr = numerics.Brent(objective, vfMin, vfMax)
			if solveErr != nil {
				return 0, nil, nil, solveErr
			}
		}
		vf = v
	} else {
		var roots []complex128
		switch n {
		case 5:
			roots = numerics.RootsQuartic(poly[0], poly[1], poly[2], poly[3], poly[4])
		case 4:
			roots = numerics.RootsCubic(poly[0], poly[1], poly[2], poly[3])
		case 3:
			roots = numerics.RootsCubic(0.0, poly[0], poly[1], poly[2])
		case 2:
			roots = numerics.RootsCubic(0.0, 0.0, poly[0], poly[1])
		}
		if n == 2 {
			vf = real(roots[0])
		} else {
			found := false
			for _, root := range roots {
				if math.Abs(imag(root)) < 1e-9 && vfMin <= real(root) && real(root) <= vfMax {
					vf = real(root)
					found = true
					break
				}
			}
			if !found {
				return 0, nil, nil, BadRootsError{Roots: roots, Low: vfMin, High: vfMax}
			}
		}
	}

	xs, ys := flashCompositions(zs, Ks, vf)
	return vf, xs, ys, nil
}
