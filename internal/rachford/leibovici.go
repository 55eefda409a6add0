package rachford

import (
	"math"

	"github.com/mbeaulieu/rrcalc/internal/numerics"
)

// lnErrFprime evaluates the Leibovici-Neoschil transformed objective and its
// derivative. The plain Rachford-Rice sum is multiplied by
// (VF - alphaL)*(alphaR - VF), which removes the poles just outside the
// feasible interval and keeps Newton steps well behaved near the ends.
func lnErrFprime(vf float64, zsKm1, zsKm12, km1 []float64, alphaL, alphaR float64) (float64, float64) {
	var plainErr, plainDiff float64
	for i := range zsKm1 {
		inv := 1.0 / (1.0 + vf*km1[i])
		plainErr += zsKm1[i] * inv
		plainDiff += zsKm12[i] * inv * inv
	}
	err := (vf - alphaL) * (alphaR - vf) * plainErr
	fprime := plainDiff*(alphaR-vf)*(vf-alphaL) +
		plainErr*(alphaR-vf) +
		plainErr*(alphaL-vf)
	return err, fprime
}

func lnPrecompute(zs, Ks []float64, invert bool) (km1, zsKm1, zsKm12 []float64) {
	n := len(zs)
	km1 = make([]float64, n)
	zsKm1 = make([]float64, n)
	zsKm12 = make([]float64, n)
	for i := range zs {
		k := Ks[i]
		if invert {
			k = 1.0 / k
		}
		km1[i] = k - 1.0
		zsKm1[i] = zs[i] * km1[i]
		zsKm12[i] = -zsKm1[i] * km1[i]
	}
	return km1, zsKm1, zsKm12
}

// SolveLeiboviciNeoschil solves the Rachford-Rice equation using the
// Leibovici-Neoschil transformed objective. The transform improves
// convergence near the vapor fraction boundaries at the cost of some speed
// elsewhere. After the vapor fraction converges, the equation is re-solved in
// terms of the liquid fraction so that both fractions carry full precision,
// and compositions near a vanishing denominator are evaluated from the
// liquid fraction to avoid truncation.
//
// Parameters:
//   - zs: Feed mole fractions.
//   - Ks: Equilibrium K values, one per component.
//   - guess: Initial vapor fraction, or NaN for the interval midpoint.
//
// Returns:
//   - float64: The liquid fraction solution.
//   - float64: The vapor fraction solution.
//   - []float64: Liquid phase mole fractions.
//   - []float64: Vapor phase mole fractions.
//   - error: A PhaseCountReducedError, a convergence failure, or nil.
func SolveLeiboviciNeoschil(zs, Ks []float64, guess float64) (float64, float64, []float64, []float64, error) {
	if err := checkDimensions(zs, Ks, 2); err != nil {
		return 0, 0, nil, nil, err
	}
	kmin, kmax, zOfKmax := kRange(zs, Ks)
	if kmin > 1.0-1e-15 || kmax < 1.0+1e-15 {
		return 0, 0, nil, nil, NewPhaseCountReducedError("no positive-composition solution for Ks=%v", Ks)
	}
	vfMin := ((kmax-kmin)*zOfKmax - (1.0 - kmin)) / ((1.0 - kmin) * (kmax - 1.0))
	vfMinLN := -1.0 / (kmax - 1.0)
	vfMax := 1.0 / (1.0 - kmin)

	x0 := guess
	if math.IsNaN(x0) || x0 <= vfMin || x0 >= vfMax {
		x0 = 0.5 * (vfMin + vfMax)
	}

	km1, zsKm1, zsKm12 := lnPrecompute(zs, Ks, false)

	// The derivative blows up at the boundaries; bisection handles the
	// steps there while the 10 epsilon margin keeps the limits evaluable.
	p := numerics.NewParams()
	p.Xtol = 1e-15
	p.Ytol = 1e-5
	p.Low = vfMin * numerics.One10EpsilonLarger
	p.High = vfMax * numerics.One10EpsilonSmaller
	p.Bisection = true
	vf, err := numerics.Newton(func(v float64) (float64, float64) {
		return lnErrFprime(v, zsKm1, zsKm12, km1, vfMinLN, vfMax)
	}, x0, p)
	if err != nil {
		return 0, 0, nil, nil, err
	}

	// Re-solve for the liquid fraction with inverted K values so LF is
	// accurate to full precision rather than computed as 1 - VF. The guess
	// is already excellent; only a tight local polish is permitted.
	kim1, zsKim1, zsKim12 := lnPrecompute(zs, Ks, true)
	lfGuess := 1.0 - vf
	lfMinLN := -1.0 / (1.0/kmin - 1.0)
	lfMax := 1.0 / (1.0 - 1.0/kmax)
	pl := numerics.NewParams()
	pl.Xtol = 1e-15
	pl.Ytol = 1e100
	pl.Low = lfGuess - 1e-4
	pl.High = lfGuess + 1e-4
	pl.Bisection = true
	lf, err := numerics.Newton(func(l float64) (float64, float64) {
		return lnErrFprime(l, zsKim1, zsKim12, kim1, lfMinLN, lfMax)
	}, lfGuess, pl)
	if err != nil {
		lf = 1.0 - vf
	}

	n := len(zs)
	xs := make([]float64, n)
	ys := make([]float64, n)
	iMax := 0
	for i := range zs {
		t := vf * (Ks[i] - 1.0)
		// Near t = -1 the vapor form cancels catastrophically; the
		// liquid fraction form stays well conditioned there.
		if -1.001 < t && t < -0.999 {
			xs[i] = zs[i] / (lf + (1.0-lf)*Ks[i])
		} else {
			xs[i] = zs[i] / (1.0 + t)
		}
		if xs[i] > xs[iMax] {
			iMax = i
		}
	}
	var xSum float64
	for _, x := range xs {
		xSum += x
	}
	xs[iMax] += 1.0 - xSum
	for i := range xs {
		ys[i] = xs[i] * Ks[i]
	}
	return lf, vf, xs, ys, nil
}
