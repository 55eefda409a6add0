package rachford

import (
	"math"

	"github.com/mbeaulieu/rrcalc/internal/numerics"
)

// ln2Err evaluates the Leibovici-Nichita transformed objective and its first
// two derivatives with respect to the transformed variable y, where
// VF = VFmin + (VFmax - VFmin)/(1 + exp(-y)). The sigmoid maps the feasible
// interval onto the whole real line so the function has a single zero and no
// poles, letting Halley's method converge unconditionally.
func ln2Err(y float64, zs, cis []float64, span, vfMin float64) (float64, float64, float64) {
	x1 := math.Exp(-y)
	x3 := 1.0 / (x1 + 1.0)
	x0x3 := span * x3
	x6 := x0x3 * x3
	x1x6 := x1 * x6
	t50 := vfMin + x0x3
	t51 := 1.0 - 2.0*x1*x3

	var f0, df0, ddf0 float64
	for i := range zs {
		x5 := 1.0 / (t50 - cis[i])
		zix5 := zs[i] * x5
		f0 += zix5
		x5x1x6 := x5 * x1x6
		x7 := zix5 * x5x1x6
		df0 += x7
		ddf0 += x7 * (t51 + x5x1x6 + x5x1x6)
	}
	return f0, -df0, ddf0
}

// SolveLN2 solves the Rachford-Rice equation using the Leibovici and Nichita
// (2010) transformation. The transformation makes the desired root the only
// zero of the objective, so Halley's method can be applied safely; it
// typically needs about half the iterations of the secant method on the raw
// objective. When the converged vapor fraction lands within 1e-4 of one, the
// problem is re-solved with inverted K values so the near-vanishing liquid
// phase composition is computed without cancellation.
//
// Parameters:
//   - zs: Feed mole fractions.
//   - Ks: Equilibrium K values, one per component.
//   - guess: Initial vapor fraction, or NaN for the interval midpoint.
//
// Returns:
//   - float64: The converged vapor fraction.
//   - []float64: Liquid phase mole fractions.
//   - []float64: Vapor phase mole fractions.
//   - error: A PhaseCountReducedError, a convergence failure, or nil.
func SolveLN2(zs, Ks []float64, guess float64) (float64, []float64, []float64, error) {
	if err := checkDimensions(zs, Ks, 2); err != nil {
		return 0, nil, nil, err
	}
	kmin, kmax, zOfKmax := kRange(zs, Ks)
	if kmin > 1.0-1e-15 || kmax < 1.0+1e-15 {
		return 0, nil, nil, NewPhaseCountReducedError("no positive-composition solution for Ks=%v", Ks)
	}

	oneMKmin := 1.0 - kmin
	vfMin := ((kmax-kmin)*zOfKmax - oneMKmin) / (oneMKmin * (kmax - 1.0))
	vfMax := 1.0 / oneMKmin

	if math.IsNaN(guess) {
		guess = 0.5 * (vfMin + vfMax)
	}
	n := len(zs)
	cis := make([]float64, n)
	for i := range Ks {
		cis[i] = 1.0 / (1.0 - Ks[i])
	}
	span := vfMax - vfMin

	logTransform := (vfMax - guess) / (guess - vfMin)
	if math.Abs(logTransform-1.0) < 1e-10 {
		// The derivative is huge where the transform equals one; a fixed
		// nearby start behaves better.
		logTransform = 0.8
	}
	var y0 float64
	if logTransform > 0.0 {
		y0 = -math.Log(logTransform)
	} else {
		// Guess was below the lower bound; restart from the midpoint.
		mid := 0.5 * (vfMin + vfMax)
		y0 = -math.Log((vfMax - mid) / (mid - vfMin))
	}

	// The transform cannot be evaluated exactly at the interval ends, so
	// the solver bounds sit one epsilon inside them.
	var nearHigh float64
	if vfMax > 0.0 {
		nearHigh = vfMax * numerics.OneEpsilonSmaller
	} else {
		nearHigh = vfMax * numerics.OneEpsilonLarger
	}
	if nearHigh-vfMin == 0.0 {
		return 0, nil, nil, NewPhaseCountReducedError("no positive-composition solution for Ks=%v", Ks)
	}
	solverHigh := -math.Log((vfMax - nearHigh) / (nearHigh - vfMin))

	var nearLow float64
	switch {
	case vfMin < 0.0:
		nearLow = vfMin * numerics.OneEpsilonSmaller
	case vfMin > 0.0:
		nearLow = vfMin * numerics.OneEpsilonLarger
	default:
		nearLow = math.Min(1e-20, vfMax*1e-15)
	}
	if nearLow-vfMin == 0.0 {
		return 0, nil, nil, NewPhaseCountReducedError("no positive-composition solution for Ks=%v", Ks)
	}
	solverLow := -math.Log((vfMax - nearLow) / (nearLow - vfMin))

	p := numerics.NewParams()
	p.Xtol = 1.48e-12
	p.Low, p.High = solverLow, solverHigh
	p.Bisection = true
	y, err := numerics.Halley(func(v float64) (float64, float64, float64) {
		return ln2Err(v, zs, cis, span, vfMin)
	}, y0, p)
	if err != nil {
		return 0, nil, nil, err
	}
	vf := vfMin + span/(1.0+math.Exp(-y))

	if 1.0-1e-4 < vf && vf < 1.0+1e-4 {
		// Near total vaporization the liquid compositions cancel badly.
		// Solving the inverted problem swaps the phases so they are
		// computed as the dominant phase instead.
		ksInv := cis
		for i := range Ks {
			ksInv[i] = 1.0 / Ks[i]
		}
		_, xsInv, ysInv, err := SolveLN2(zs, ksInv, 1.0-vf)
		if err != nil {
			return 0, nil, nil, err
		}
		return vf, ysInv, xsInv, nil
	}

	xs := make([]float64, n)
	ys := cis
	for i := range zs {
		xi := zs[i] / (1.0 + vf*(Ks[i]-1.0))
		xs[i] = xi
		ys[i] = Ks[i] * xi
	}
	return vf, xs, ys, nil
}
