package rachford

import (
	"math"

	"github.com/mbeaulieu/rrcalc/internal/numerics"
)

// FlashError evaluates the Rachford-Rice objective function at a given vapor
// fraction. A root of this function is a valid two-phase flash solution.
//
// Parameters:
//   - vf: The vapor fraction at which to evaluate the objective.
//   - zs: Feed mole fractions.
//   - Ks: Equilibrium K values, one per component.
//
// Returns:
//   - float64: The value of sum(zs[i]*(Ks[i]-1)/(1 + vf*(Ks[i]-1))).
func FlashError(vf float64, zs, Ks []float64) float64 {
	var sum float64
	for i := range zs {
		km1 := Ks[i] - 1.0
		sum += zs[i] * km1 / (1.0 + vf*km1)
	}
	return sum
}

func checkDimensions(zs, Ks []float64, minComponents int) error {
	if len(zs) != len(Ks) {
		return NewDimensionError("zs has %d components but Ks has %d", len(zs), len(Ks))
	}
	if len(zs) < minComponents {
		return NewDimensionError("at least %d components required, got %d", minComponents, len(zs))
	}
	return nil
}

// flashCompositions computes the liquid and vapor compositions at a converged
// vapor fraction.
func flashCompositions(zs, Ks []float64, vf float64) (xs, ys []float64) {
	n := len(zs)
	xs = make([]float64, n)
	ys = make([]float64, n)
	for i := range zs {
		xs[i] = zs[i] / (1.0 + vf*(Ks[i]-1.0))
		ys[i] = xs[i] * Ks[i]
	}
	return xs, ys
}

// SolveStandard solves the two-phase Rachford-Rice equation with a damped
// root finder on the raw objective function, falling back to Brent's method
// on the bounded interval if the open iteration fails.
//
// The derivative order controls the scheme: secant by default, Newton when
// useFprime is set, and Halley when useFprime2 is also set. Pass math.NaN()
// as guess to start from the midpoint of the feasible interval.
//
// Parameters:
//   - zs: Feed mole fractions.
//   - Ks: Equilibrium K values, one per component.
//   - guess: Initial vapor fraction, or NaN for the interval midpoint.
//   - useFprime: Use the analytical first derivative (Newton's method).
//   - useFprime2: Use the second derivative as well (Halley's method).
//
// Returns:
//   - float64: The converged vapor fraction.
//   - []float64: Liquid phase mole fractions.
//   - []float64: Vapor phase mole fractions.
//   - error: A PhaseCountReducedError, a convergence failure, or nil.
func SolveStandard(zs, Ks []float64, guess float64, useFprime, useFprime2 bool) (float64, []float64, []float64, error) {
	if err := checkDimensions(zs, Ks, 2); err != nil {
		return 0, nil, nil, err
	}
	vfMin, vfMax, err := vfBounds(zs, Ks)
	if err != nil {
		return 0, nil, nil, err
	}

	n := len(zs)
	km1 := make([]float64, n)
	zsKm1 := make([]float64, n)
	zsKm12 := make([]float64, n)
	zsKm13 := make([]float64, n)
	for i := range zs {
		km1[i] = Ks[i] - 1.0
		zsKm1[i] = zs[i] * km1[i]
		zsKm12[i] = -zsKm1[i] * km1[i]
		zsKm13[i] = -2.0 * zsKm12[i] * km1[i]
	}

	x0 := guess
	if math.IsNaN(x0) || x0 <= vfMin || x0 >= vfMax {
		x0 = 0.5 * (vfMin + vfMax)
	}
	low := vfMin * numerics.OneEpsilonLarger
	high := vfMax * numerics.OneEpsilonSmaller

	objective := func(vf float64) float64 {
		var sum float64
		for i := range zsKm1 {
			sum += zsKm1[i] / (1.0 + vf*km1[i])
		}
		return sum
	}

	var vf float64
	var solveErr error
	switch {
	case useFprime2:
		f := func(v float64) (float64, float64, float64) {
			var f0, f1, f2 float64
			for i := range zsKm1 {
				inv := 1.0 / (1.0 + v*km1[i])
				inv2 := inv * inv
				f0 += zsKm1[i] * inv
				f1 += zsKm12[i] * inv2
				f2 += zsKm13[i] * inv2 * inv
			}
			return f0, f1, f2
		}
		p := numerics.NewParams()
		p.Ytol = 1e-5
		p.Low, p.High = low, high
		p.Bisection = true
		vf, solveErr = numerics.Halley(f, x0, p)
	case useFprime:
		f := func(v float64) (float64, float64) {
			var f0, f1 float64
			for i := range zsKm1 {
				inv := 1.0 / (1.0 + v*km1[i])
				f0 += zsKm1[i] * inv
				f1 += zsKm12[i] * inv * inv
			}
			return f0, f1
		}
		p := numerics.NewParams()
		p.Ytol = 1e-12
		p.Low, p.High = low, high
		p.Bisection = true
		vf, solveErr = numerics.Newton(f, x0, p)
	default:
		p := numerics.NewParams()
		p.Ytol = 1e-5
		p.Low, p.High = low, high
		p.Bisection = true
		vf, solveErr = numerics.Secant(objective, x0, p)
	}

	if solveErr != nil {
		vf, solveErr = numerics.Brent(objective, low, high)
		if solveErr != nil {
			return 0, nil, nil, solveErr
		}
	}

	xs, ys := flashCompositions(zs, Ks, vf)
	return vf, xs, ys, nil
}
