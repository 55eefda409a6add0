package rachford

import "github.com/mbeaulieu/rrcalc/internal/numerics"

// validSplit reports whether the phase fractions keep every component's
// reference-phase denominator non-negative, so all compositions stay
// positive. Phase fractions themselves are not restricted to [0, 1]; negative
// fractions are legitimate intermediate states for the Newton iteration.
func validSplit(ns, betas []float64, Ks [][]float64) bool {
	for i := range ns {
		sum := 1.0
		for j, beta := range betas {
			sum += beta * (Ks[j][i] - 1.0)
		}
		if sum < 0.0 {
			return false
		}
	}
	return true
}

// nphaseDamping returns a damping function that halves the Newton step until
// the trial phase fractions keep all compositions positive. Twenty halvings
// without success means the iteration left the feasible region entirely.
func nphaseDamping(ns []float64, Ks [][]float64) numerics.DampingFunc {
	return func(betas, dBetas []float64, damping float64) ([]float64, error) {
		n := len(betas)
		trial := make([]float64, n)
		for i := range trial {
			trial[i] = betas[i] + dBetas[i]*damping
		}
		for it := 0; it < 20; it++ {
			if validSplit(ns, trial, Ks) {
				return trial, nil
			}
			damping *= 0.5
			for i := range trial {
				trial[i] = betas[i] + dBetas[i]*damping
			}
		}
		return nil, NoFeasibleStepError{Betas: betas, Step: dBetas}
	}
}

// nphaseFJac evaluates the N-phase Rachford-Rice residuals and their
// analytical Jacobian. The Jacobian is symmetric.
func nphaseFJac(betas []float64, ksm1, zsKsm1 [][]float64) ([]float64, [][]float64) {
	np := len(betas)
	nc := len(zsKsm1[0])
	fs := make([]float64, np)
	jac := make([][]float64, np)
	for j := range jac {
		jac[j] = make([]float64, np)
	}
	for i := 0; i < nc; i++ {
		denom := 1.0
		for j, beta := range betas {
			denom += beta * ksm1[j][i]
		}
		denomInv := 1.0 / denom
		denomInv2 := denomInv * denomInv

		for j := 0; j < np; j++ {
			fs[j] += zsKsm1[j][i] * denomInv
		}
		for j := 0; j < np; j++ {
			f := zsKsm1[j][i] * denomInv2
			for k := 0; k < j; k++ {
				term := f * ksm1[k][i]
				jac[k][j] -= term
				jac[j][k] -= term
			}
			jac[j][j] -= f * ksm1[j][i]
		}
	}
	return fs, jac
}

// SolveNPhase solves the phase-count-minus-one coupled Rachford-Rice
// equations of a multiphase flash with Newton's method and an analytical
// Jacobian. Initial guesses are required for the phase fractions of every
// phase except the reference phase; a guess supplied for the reference phase
// as well is ignored. The scheme has been exercised without trouble on four
// and five phase systems.
//
// Parameters:
//   - ns: Overall mole fractions of all species.
//   - Ks: One K value slice per non-reference phase, each relative to the
//     reference phase.
//   - betas: Initial phase fraction guesses for the non-reference phases.
//
// Returns:
//   - []float64: Phase fractions for every phase, reference phase last.
//   - [][]float64: Phase compositions in the same order.
//   - error: An InvalidGuessError, a NoFeasibleStepError, a
//     NonphysicalConvergenceError, a convergence failure, or nil.
func SolveNPhase(ns []float64, Ks [][]float64, betas []float64) ([]float64, [][]float64, error) {
	if !validSplit(ns, betas, Ks) {
		return nil, nil, InvalidGuessError{Betas: betas}
	}

	phaseCountM1 := len(Ks)
	if len(betas) > phaseCountM1 {
		betas = betas[:phaseCountM1]
	}
	phaseCount := phaseCountM1 + 1

	var solve numerics.SolveFunc
	switch phaseCountM1 {
	case 2:
		solve = numerics.Solve2Direct
	case 3:
		solve = numerics.Solve3Direct
	case 4:
		solve = numerics.Solve4Direct
	default:
		solve = numerics.GaussSolve
	}

	nc := len(ns)
	ksm1 := make([][]float64, phaseCountM1)
	zsKsm1 := make([][]float64, phaseCountM1)
	for j, ksj := range Ks {
		ksm1[j] = make([]float64, nc)
		zsKsm1[j] = make([]float64, nc)
		for i, k := range ksj {
			ksm1[j][i] = k - 1.0
			zsKsm1[j][i] = ns[i] * ksm1[j][i]
		}
	}

	p := numerics.SystemParams{
		Xtol:    1e-12,
		Maxiter: numerics.DefaultMaxiter,
		Damping: 1.0,
		Solve:   solve,
		Damp:    nphaseDamping(ns, Ks),
	}
	betas, _, err := numerics.NewtonSystem(func(b []float64) ([]float64, [][]float64) {
		return nphaseFJac(b, ksm1, zsKsm1)
	}, betas, p)
	if err != nil {
		return nil, nil, err
	}

	allBetas := make([]float64, phaseCount)
	betaSum := 0.0
	for i := 0; i < phaseCountM1; i++ {
		betaSum += betas[i]
		allBetas[i] = betas[i]
	}
	allBetas[phaseCount-1] = 1.0 - betaSum

	refComp := make([]float64, nc)
	refCompSum := 0.0
	for i := range ns {
		denom := 1.0
		for j := 0; j < phaseCountM1; j++ {
			denom += betas[j] * (Ks[j][i] - 1.0)
		}
		refComp[i] = ns[i] / denom
		refCompSum += refComp[i]
	}

	comps := make([][]float64, 0, phaseCount)
	for j := 0; j < phaseCountM1; j++ {
		comp := make([]float64, nc)
		for i := range refComp {
			comp[i] = refComp[i] * Ks[j][i]
		}
		comps = append(comps, comp)
	}
	comps = append(comps, refComp)

	if 1.0-refCompSum > 1e-10 {
		return nil, nil, NonphysicalConvergenceError{Message: "reference phase composition does not sum to one"}
	}
	return allBetas, comps, nil
}

// threePhaseFJac is the specialized two-equation residual and Jacobian for a
// three-phase flash. It runs well over twice as fast as the generic N-phase
// evaluation and must not be replaced by it.
func threePhaseFJac(betas, ns, ksY, ksZ []float64) ([]float64, [][]float64) {
	betaY := betas[0]
	betaZ := betas[1]
	var f0, f1, df0dy, df0dz, df1dz float64
	for i := range ns {
		zi := ns[i]
		kyM1 := ksY[i] - 1.0
		kzM1 := ksZ[i] - 1.0
		denomInv := 1.0 / (1.0 + betaY*kyM1 + betaZ*kzM1)
		deltaF0 := zi * kyM1 * denomInv
		deltaF1 := zi * kzM1 * denomInv
		f0 += deltaF0
		f1 += deltaF1
		c0 := kzM1 * denomInv
		df0dy -= deltaF0 * kyM1 * denomInv
		df0dz -= deltaF0 * c0
		df1dz -= deltaF1 * c0
	}
	return []float64{f0, f1}, [][]float64{{df0dy, df0dz}, {df0dz, df1dz}}
}

// SolveThreePhase solves the two coupled Rachford-Rice equations of a
// three-phase flash. Initial guesses are required for both non-reference
// phase fractions. Newton's method may converge to an undesired root in
// general; the damping constrains each step to the region of positive
// compositions for all components in all phases, which is believed to match
// the feasible polygon of Okuno and guarantees the correct solution is
// reached from any starting point inside it.
//
// Parameters:
//   - ns: Overall mole fractions of all species.
//   - KsY: K values of the y phase relative to the x (reference) phase.
//   - KsZ: K values of the z phase relative to the x phase.
//   - betaY: Initial guess for the y phase fraction.
//   - betaZ: Initial guess for the z phase fraction.
//
// Returns:
//   - float64: Converged y phase fraction.
//   - float64: Converged z phase fraction.
//   - []float64: Mole fractions in the x phase.
//   - []float64: Mole fractions in the y phase.
//   - []float64: Mole fractions in the z phase.
//   - error: An InvalidGuessError, a NoFeasibleStepError, a
//     NonphysicalConvergenceError, a convergence failure, or nil.
func SolveThreePhase(ns, KsY, KsZ []float64, betaY, betaZ float64) (float64, float64, []float64, []float64, []float64, error) {
	Ks := [][]float64{KsY, KsZ}
	betas := []float64{betaY, betaZ}
	if !validSplit(ns, betas, Ks) {
		return 0, 0, nil, nil, nil, InvalidGuessError{Betas: betas}
	}

	p := numerics.SystemParams{
		Xtol:    1e-11,
		Maxiter: 100,
		Damping: 1.0,
		Solve:   numerics.Solve2Direct,
		Damp:    nphaseDamping(ns, Ks),
	}
	betas, _, err := numerics.NewtonSystem(func(b []float64) ([]float64, [][]float64) {
		return threePhaseFJac(b, ns, KsY, KsZ)
	}, betas, p)
	if err != nil {
		return 0, 0, nil, nil, nil, err
	}
	betaY, betaZ = betas[0], betas[1]

	nc := len(ns)
	xs := make([]float64, nc)
	ys := make([]float64, nc)
	zs := make([]float64, nc)
	zTot := 0.0
	for i := range ns {
		xi := ns[i] / (1.0 + betaY*(KsY[i]-1.0) + betaZ*(KsZ[i]-1.0))
		xs[i] = xi
		ys[i] = xi * KsY[i]
		zs[i] = xi * KsZ[i]
		zTot += zs[i]
	}
	if 1.0-zTot > 1e-10 {
		return 0, 0, nil, nil, nil, NonphysicalConvergenceError{Message: "z phase composition does not sum to one"}
	}
	return betaY, betaZ, xs, ys, zs, nil
}
