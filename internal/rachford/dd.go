package rachford

import (
	"math"

	"github.com/mbeaulieu/rrcalc/internal/numerics"
)

// lnErrFprimeDD is the double-double counterpart of lnErrFprime. Each slice
// carries (head, tail) pairs of the precomputed coefficient arrays.
func lnErrFprimeDD(vfR, vfE float64, zsKm1R, zsKm1E, zsKm12R, zsKm12E, km1R, km1E []float64,
	alphaLR, alphaLE, alphaRR, alphaRE float64) (errR, errE, fpR, fpE float64) {
	var plainErrR, plainErrE, plainDiffR, plainDiffE float64
	for i := range zsKm1R {
		denR, denE := numerics.MulDD(vfR, vfE, km1R[i], km1E[i])
		denR, denE = numerics.AddDD(1.0, 0.0, denR, denE)
		invR, invE := numerics.DivDD(1.0, 0.0, denR, denE)

		tR, tE := numerics.MulDD(zsKm1R[i], zsKm1E[i], invR, invE)
		plainErrR, plainErrE = numerics.AddDD(plainErrR, plainErrE, tR, tE)

		tR, tE = numerics.MulDD(invR, invE, invR, invE)
		tR, tE = numerics.MulDD(zsKm12R[i], zsKm12E[i], tR, tE)
		plainDiffR, plainDiffE = numerics.AddDD(plainDiffR, plainDiffE, tR, tE)
	}

	errR, errE = numerics.AddDD(vfR, vfE, -alphaLR, -alphaLE)
	tR, tE := numerics.AddDD(alphaRR, alphaRE, -vfR, -vfE)
	errR, errE = numerics.MulDD(errR, errE, tR, tE)
	errR, errE = numerics.MulDD(errR, errE, plainErrR, plainErrE)

	fpR, fpE = numerics.AddDD(-vfR, -vfE, alphaRR, alphaRE)
	fpR, fpE = numerics.MulDD(plainDiffR, plainDiffE, fpR, fpE)
	tR, tE = numerics.AddDD(vfR, vfE, -alphaLR, -alphaLE)
	fpR, fpE = numerics.MulDD(tR, tE, fpR, fpE)

	tR, tE = numerics.AddDD(-vfR, -vfE, alphaRR, alphaRE)
	tR, tE = numerics.MulDD(tR, tE, plainErrR, plainErrE)
	fpR, fpE = numerics.AddDD(tR, tE, fpR, fpE)

	tR, tE = numerics.AddDD(-vfR, -vfE, alphaLR, alphaLE)
	tR, tE = numerics.MulDD(tR, tE, plainErrR, plainErrE)
	fpR, fpE = numerics.AddDD(tR, tE, fpR, fpE)
	return errR, errE, fpR, fpE
}

// SolveLeiboviciNeoschilDD solves the Leibovici-Neoschil transformed
// Rachford-Rice equation in double-double arithmetic. Most inputs converge to
// bit-for-bit accurate vapor fractions; trace components near the machine
// precision limit can still carry residual error. Binary systems are routed
// to the closed-form SolveBinaryDD.
//
// Parameters:
//   - zs: Feed mole fractions.
//   - Ks: Equilibrium K values, one per component.
//   - guess: Initial vapor fraction, or NaN to derive one internally.
//
// Returns:
//   - float64: The liquid fraction solution.
//   - float64: The vapor fraction solution.
//   - []float64: Liquid phase mole fractions.
//   - []float64: Vapor phase mole fractions.
//   - error: A PhaseCountReducedError, a dimension error, or nil.
func SolveLeiboviciNeoschilDD(zs, Ks []float64, guess float64) (float64, float64, []float64, []float64, error) {
	if err := checkDimensions(zs, Ks, 2); err != nil {
		return 0, 0, nil, nil, err
	}
	n := len(zs)
	if n == 2 {
		return SolveBinaryDD(zs, Ks)
	}
	kmin, kmax, zOfKmax := kRange(zs, Ks)
	if kmin > 1.0-1e-15 || kmax < 1.0+1e-15 {
		return 0, 0, nil, nil, NewPhaseCountReducedError("no positive-composition solution for Ks=%v", Ks)
	}

	numR, numE := numerics.AddDD(kmax, 0.0, -kmin, 0.0)
	numR, numE = numerics.MulDD(numR, numE, zOfKmax, 0.0)
	tR, tE := numerics.AddDD(1.0, 0.0, -kmin, 0.0)
	numR, numE = numerics.AddDD(numR, numE, -tR, -tE)

	denR, denE := numerics.AddDD(1.0, 0.0, -kmin, 0.0)
	tR, tE = numerics.AddDD(kmax, 0.0, -1.0, 0.0)
	denR, denE = numerics.MulDD(denR, denE, tR, tE)
	vfMinR, vfMinE := numerics.DivDD(numR, numE, denR, denE)

	denR, denE = numerics.AddDD(kmax, 0.0, -1.0, 0.0)
	alphaLR, alphaLE := numerics.DivDD(-1.0, 0.0, denR, denE)

	denR, denE = numerics.AddDD(1.0, 0.0, -kmin, 0.0)
	vfMaxR, vfMaxE := numerics.DivDD(1.0, 0.0, denR, denE)

	x0 := guess
	if math.IsNaN(x0) || x0 <= vfMinR || x0 >= vfMaxR {
		// A float64-precision solve gives an excellent starting point.
		if v, _, _, err := SolveLN2(zs, Ks, math.NaN()); err == nil {
			x0 = v
		} else {
			x0 = 0.5 * (vfMinR + vfMaxR)
		}
	}

	km1R := make([]float64, n)
	km1E := make([]float64, n)
	zsKm1R := make([]float64, n)
	zsKm1E := make([]float64, n)
	zsKm12R := make([]float64, n)
	zsKm12E := make([]float64, n)
	for i := range zs {
		kR, kE := numerics.AddDD(Ks[i], 0.0, -1.0, 0.0)
		km1R[i], km1E[i] = kR, kE
		zR, zE := numerics.MulDD(zs[i], 0.0, kR, kE)
		zsKm1R[i], zsKm1E[i] = zR, zE
		z2R, z2E := numerics.MulDD(zR, zE, -kR, -kE)
		zsKm12R[i], zsKm12E[i] = z2R, z2E
	}

	vfR, vfE := x0, 0.0
	loR, loE := vfMinR, vfMinE
	hiR, hiE := vfMaxR, vfMaxE
	for it := 0; it < 100; it++ {
		errR, errE, fpR, fpE := lnErrFprimeDD(vfR, vfE, zsKm1R, zsKm1E, zsKm12R, zsKm12E,
			km1R, km1E, alphaLR, alphaLE, vfMaxR, vfMaxE)
		if errR > 0.0 {
			loR, loE = vfR, vfE
		} else {
			hiR, hiE = vfR, vfE
		}
		stepR, stepE := numerics.DivDD(errR, errE, fpR, fpE)
		vfR, vfE = numerics.AddDD(vfR, vfE, -stepR, -stepE)
		if numerics.LtDD(vfR, vfE, loR, loE) || numerics.GtDD(vfR, vfE, hiR, hiE) {
			vfR, vfE = numerics.AddDD(loR, loE, hiR, hiE)
			vfR, vfE = numerics.MulDD(0.5, 0.0, vfR, vfE)
		}
		if math.Abs(errR) < 1e-25 {
			break
		}
	}

	lfR, _ := numerics.AddDD(1.0, 0.0, -vfR, -vfE)

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range zs {
		kR, kE := numerics.AddDD(Ks[i], 0.0, -1.0, 0.0)
		denR, denE = numerics.MulDD(kR, kE, vfR, vfE)
		denR, denE = numerics.AddDD(1.0, 0.0, denR, denE)
		xiR, xiE := numerics.DivDD(zs[i], 0.0, denR, denE)
		xs[i] = xiR
		yiR, _ := numerics.MulDD(xiR, xiE, Ks[i], 0.0)
		ys[i] = yiR
	}
	return lfR, vfR, xs, ys, nil
}

// SolveBinaryDD solves the two-component Rachford-Rice equation with the
// closed-form binary solution evaluated in double-double arithmetic. This
// widens the range over which trace compositions are resolved accurately,
// though it does not eliminate error entirely.
//
// Parameters:
//   - zs: Feed mole fractions of exactly two components.
//   - Ks: Equilibrium K values of exactly two components.
//
// Returns:
//   - float64: The liquid fraction solution.
//   - float64: The vapor fraction solution.
//   - []float64: Liquid phase mole fractions.
//   - []float64: Vapor phase mole fractions.
//   - error: A PhaseCountReducedError, a dimension error, or nil.
func SolveBinaryDD(zs, Ks []float64) (float64, float64, []float64, []float64, error) {
	if len(zs) != 2 || len(Ks) != 2 {
		return 0, 0, nil, nil, NewDimensionError("binary solution requires exactly two components, got %d", len(zs))
	}
	z0, z1 := zs[0], zs[1]
	k0, k1 := Ks[0], Ks[1]
	if (k0 < 1.0 && k1 < 1.0) || (k0 > 1.0 && k1 > 1.0) {
		return 0, 0, nil, nil, NewPhaseCountReducedError("no positive-composition solution for Ks=%v", Ks)
	}

	z0z1R, z0z1E := numerics.AddDD(z0, 0.0, z1, 0.0)
	k0z0R, k0z0E := numerics.MulExactDD(k0, z0)
	k1z1R, k1z1E := numerics.MulExactDD(k1, z1)

	tR, tE := numerics.AddDD(z0z1R, z0z1E, -k0z0R, -k0z0E)
	t0R, t0E := numerics.AddDD(tR, tE, -k1z1R, -k1z1E)

	tR, tE = numerics.MulDD(k1, 0.0, k0z0R, k0z0E)
	denR, denE := numerics.AddDD(t0R, t0E, tR, tE)
	tR, tE = numerics.MulDD(k0, 0.0, k1z1R, k1z1E)
	denR, denE = numerics.AddDD(denR, denE, tR, tE)
	tR, tE = numerics.MulExactDD(k0, z1)
	denR, denE = numerics.AddDD(denR, denE, -tR, -tE)
	tR, tE = numerics.MulExactDD(k1, z0)
	denR, denE = numerics.AddDD(denR, denE, -tR, -tE)
	vfR, vfE := numerics.DivDD(t0R, t0E, denR, denE)
	lfR, _ := numerics.AddDD(1.0, 0.0, -vfR, -vfE)

	denR, denE = numerics.AddDD(k0, 0.0, -1.0, 0.0)
	denR, denE = numerics.MulDD(vfR, vfE, denR, denE)
	denR, denE = numerics.AddDD(1.0, 0.0, denR, denE)
	x0R, x0E := numerics.DivDD(z0, 0.0, denR, denE)

	// The balance x1 = 1 - x0 loses precision in some regimes; recompute
	// it the slow way instead.
	denR, denE = numerics.AddDD(k1, 0.0, -1.0, 0.0)
	denR, denE = numerics.MulDD(vfR, vfE, denR, denE)
	denR, denE = numerics.AddDD(1.0, 0.0, denR, denE)
	x1R, x1E := numerics.DivDD(z1, 0.0, denR, denE)

	y0R, _ := numerics.MulDD(x0R, x0E, k0, 0.0)
	y1R, _ := numerics.MulDD(x1R, x1E, k1, 0.0)

	return lfR, vfR, []float64{x0R, x1R}, []float64{y0R, y1R}, nil
}
