package rachford

import (
	"errors"
	"math"
)

// Method selects the flash algorithm used by Solve.
type Method int

const (
	// MethodAuto picks the analytical solution for binary systems and the
	// Leibovici-Nichita transformation otherwise.
	MethodAuto Method = iota
	// MethodAnalytical uses exact closed-form solutions, available for two
	// through five components.
	MethodAnalytical
	// MethodSecant iterates on the raw objective with the secant method.
	MethodSecant
	// MethodNewton iterates on the raw objective with Newton's method.
	MethodNewton
	// MethodHalley iterates on the raw objective with Halley's method.
	MethodHalley
	// MethodLN2 solves the Leibovici-Nichita (2010) transformed objective.
	MethodLN2
	// MethodLeiboviciNeoschil solves the Leibovici-Neoschil transformed
	// objective.
	MethodLeiboviciNeoschil
	// MethodLJA solves the Li-Johns-Ahmadi reformulation.
	MethodLJA
	// MethodPolynomial solves the polynomial form of the equation.
	MethodPolynomial
)

var methodNames = map[Method]string{
	MethodAuto:              "auto",
	MethodAnalytical:        "analytical",
	MethodSecant:            "secant",
	MethodNewton:            "newton",
	MethodHalley:            "halley",
	MethodLN2:               "ln2",
	MethodLeiboviciNeoschil: "leibovici-neoschil",
	MethodLJA:               "lja",
	MethodPolynomial:        "polynomial",
}

// String returns the canonical name of the method.
func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseMethod maps a method name to its Method value.
//
// Parameters:
//   - s: The method name, as produced by Method.String.
//
// Returns:
//   - Method: The parsed method.
//   - error: An UnknownMethodError if the name is not recognized.
func ParseMethod(s string) (Method, error) {
	for m, name := range methodNames {
		if name == s {
			return m, nil
		}
	}
	return MethodAuto, UnknownMethodError{Method: s}
}

// Methods returns the algorithms able to solve a system of n components, in
// rough order of preference.
//
// Parameters:
//   - n: Number of components.
//
// Returns:
//   - []Method: The applicable methods.
func Methods(n int) []Method {
	var methods []Method
	if n >= 2 && n <= 5 {
		methods = append(methods, MethodAnalytical)
	}
	if n >= 2 {
		methods = append(methods, MethodLN2, MethodSecant, MethodNewton,
			MethodHalley, MethodLeiboviciNeoschil)
	}
	if n >= 3 {
		methods = append(methods, MethodLJA)
	}
	if n >= 2 && n < 20 {
		methods = append(methods, MethodPolynomial)
	}
	return methods
}

// Options controls the behavior of Solve.
type Options struct {
	// Method selects the algorithm; MethodAuto picks one based on the
	// component count.
	Method Method
	// Guess is an optional initial vapor fraction; NaN or zero value
	// semantics are handled by Solve (use math.NaN() to decline).
	Guess float64
	// Check validates the K values up front and strips zero-feed
	// components before solving.
	Check bool
}

// Solve computes the vapor fraction and phase compositions for a two-phase
// flash. K values are weak functions of composition, so an outer equilibrium
// loop typically calls this repeatedly with updated Ks. When opts is nil the
// method is selected automatically and no up-front check is performed.
//
// If the selected method fails for a reason other than the phase count being
// reduced, the standard secant solution is attempted once before giving up.
//
// Parameters:
//   - zs: Feed mole fractions.
//   - Ks: Equilibrium K values, one per component.
//   - opts: Optional method selection, initial guess, and input checking.
//
// Returns:
//   - float64: The vapor fraction solution.
//   - []float64: Liquid phase mole fractions.
//   - []float64: Vapor phase mole fractions.
//   - error: A PhaseCountReducedError, an UnknownMethodError, a convergence
//     failure, or nil.
func Solve(zs, Ks []float64, opts *Options) (float64, []float64, []float64, error) {
	if err := checkDimensions(zs, Ks, 2); err != nil {
		return 0, nil, nil, err
	}
	n := len(zs)

	method := MethodAuto
	guess := math.NaN()
	check := false
	if opts != nil {
		method = opts.Method
		guess = opts.Guess
		check = opts.Check
	}
	if method == MethodAuto {
		if n < 3 {
			method = MethodAnalytical
		} else {
			method = MethodLN2
		}
	}

	if check {
		kLow, kHigh := false, false
		for i, k := range Ks {
			if zs[i] != 0.0 {
				if k > 1.0 {
					kHigh = true
				} else {
					kLow = true
				}
				if kHigh && kLow {
					break
				}
			}
		}
		if !kLow || !kHigh {
			return 0, nil, nil, NewPhaseCountReducedError("no positive-composition solution for Ks=%v", Ks)
		}

		hasZero := false
		for _, z := range zs {
			if z == 0.0 {
				hasZero = true
				break
			}
		}
		if hasZero {
			// Zero-feed components contribute nothing to the split but
			// break several solvers; strip them, solve the reduced
			// system, and restore zeros in the compositions.
			zs2 := make([]float64, 0, n)
			ks2 := make([]float64, 0, n)
			for i := range zs {
				if zs[i] != 0.0 {
					zs2 = append(zs2, zs[i])
					ks2 = append(ks2, Ks[i])
				}
			}
			vf, xsR, ysR, err := SolveStandard(zs2, ks2, guess, false, false)
			if err != nil {
				return 0, nil, nil, err
			}
			xs := make([]float64, n)
			ys := make([]float64, n)
			j := 0
			for i := range zs {
				if zs[i] != 0.0 {
					xs[i] = xsR[j]
					ys[i] = ysR[j]
					j++
				}
			}
			return vf, xs, ys, nil
		}
	}

	vf, xs, ys, err := solveWithMethod(zs, Ks, method, guess)
	if err != nil {
		var reduced PhaseCountReducedError
		if errors.As(err, &reduced) {
			return 0, nil, nil, err
		}
		if method != MethodSecant {
			return SolveStandard(zs, Ks, guess, false, false)
		}
		return 0, nil, nil, err
	}
	return vf, xs, ys, nil
}

func solveWithMethod(zs, Ks []float64, method Method, guess float64) (float64, []float64, []float64, error) {
	switch method {
	case MethodAnalytical:
		return solveAnalytical(zs, Ks, guess)
	case MethodSecant:
		return SolveStandard(zs, Ks, guess, false, false)
	case MethodNewton:
		return SolveStandard(zs, Ks, guess, true, false)
	case MethodHalley:
		return SolveStandard(zs, Ks, guess, true, true)
	case MethodLN2:
		return SolveLN2(zs, Ks, guess)
	case MethodLeiboviciNeoschil:
		_, vf, xs, ys, err := SolveLeiboviciNeoschil(zs, Ks, guess)
		return vf, xs, ys, err
	case MethodLJA:
		return SolveLiJohnsAhmadi(zs, Ks, guess)
	case MethodPolynomial:
		return SolvePolynomial(zs, Ks)
	default:
		return 0, nil, nil, UnknownMethodError{Method: method.String()}
	}
}
