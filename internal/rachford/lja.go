package rachford

import (
	"math"
	"sort"

	"github.com/mbeaulieu/rrcalc/internal/numerics"
)

func ljaErr(x1, t1 float64, terms2, terms3 []float64) float64 {
	err := 1.0 + t1*x1
	for i := range terms2 {
		err += x1 / (terms2[i] + terms3[i]*x1)
	}
	return err
}

func ljaErrFprime2(v, t1 float64, terms2, terms3 []float64) (float64, float64, float64) {
	err := 1.0 + t1*v
	fprime := t1
	fprime2 := 0.0
	for i := range terms2 {
		x0 := terms3[i] * v
		x1 := terms2[i] + x0
		x2 := 1.0 / x1
		x3 := x0 * x2
		err += v * x2
		fprime += x2 * (1.0 - x3)
		fprime2 += 2.0 * terms3[i] * (x3 - 1.0) * x2 * x2
	}
	return err, fprime, fprime2
}

// SolveLiJohnsAhmadi solves the Li-Johns-Ahmadi reformulation of the flash
// equations, which iterates on the liquid mole fraction of the most volatile
// component instead of the vapor fraction. That variable is naturally bounded
// in [0, 1], giving a robust bracket. Halley's method is tried first and
// Brent's method on the bracket serves as the fallback. The method requires
// at least three components.
//
// Parameters:
//   - zs: Feed mole fractions.
//   - Ks: Equilibrium K values, one per component.
//   - guess: Initial vapor fraction, or NaN for the midpoint heuristic.
//
// Returns:
//   - float64: The converged vapor fraction.
//   - []float64: Liquid phase mole fractions.
//   - []float64: Vapor phase mole fractions.
//   - error: A PhaseCountReducedError, a convergence failure, or nil.
func SolveLiJohnsAhmadi(zs, Ks []float64, guess float64) (float64, []float64, []float64, error) {
	if err := checkDimensions(zs, Ks, 3); err != nil {
		return 0, nil, nil, err
	}
	n := len(zs)

	// Work on copies ordered by decreasing K value.
	ksSorted := make([]float64, n)
	zsSorted := make([]float64, n)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return Ks[idx[a]] > Ks[idx[b]] })
	for i, j := range idx {
		ksSorted[i] = Ks[j]
		zsSorted[i] = zs[j]
	}

	k1 := ksSorted[0]
	z1 := zsSorted[0]
	kn := ksSorted[n-1]
	if kn > 1.0-1e-15 || k1 < 1.0+1e-15 {
		return 0, nil, nil, NewPhaseCountReducedError("no positive-composition solution for Ks=%v", Ks)
	}

	xMax := (1.0 - kn) / (k1 - kn)
	xMin := xMax * z1
	xMin2 := math.Max(xMin, 0.0)
	xMax2 := math.Min(xMax, 1.0)

	knM1Inv := 1.0 / (kn - 1.0)
	k1M1 := k1 - 1.0
	t1 := (k1 - kn) * knM1Inv

	xGuess := 0.5 * (xMin2 + xMax2)
	if !math.IsNaN(guess) {
		xGuess = z1 / (guess*k1M1 + 1.0)
	}

	terms2 := make([]float64, n-2)
	terms3 := make([]float64, n-2)
	for i := 0; i < n-2; i++ {
		ki := ksSorted[i+1]
		zi := zsSorted[i+1]
		term1 := 1.0 / ((ki - kn) * knM1Inv * zi * k1M1)
		terms2[i] = (ki - 1.0) * z1 * term1
		terms3[i] = (k1 - ki) * term1
	}

	p := numerics.NewParams()
	p.Xtol = 1e-12
	p.Low, p.High = xMin, xMax
	p.Bisection = true
	x1, err := numerics.Halley(func(v float64) (float64, float64, float64) {
		return ljaErrFprime2(v, t1, terms2, terms3)
	}, xGuess, p)
	if err != nil {
		x1, err = numerics.Brent(func(v float64) float64 {
			return ljaErr(v, t1, terms2, terms3)
		}, xMin, xMax)
		if err != nil {
			return 0, nil, nil, err
		}
	}
	vf := (z1 - x1) / (x1 * k1M1)

	xs, ys := flashCompositions(zs, Ks, vf)
	return vf, xs, ys, nil
}
