package numerics

// Epsilon is the spacing between 1.0 and the next representable float64.
const Epsilon = 2.220446049250313e-16

// Multiplicative nudges used to keep iterates strictly inside open
// intervals whose endpoints cannot be evaluated.
const (
	OneEpsilonLarger    = 1.0 + Epsilon
	OneEpsilonSmaller   = 1.0 - Epsilon
	One10EpsilonLarger  = 1.0 + 10.0*Epsilon
	One10EpsilonSmaller = 1.0 - 10.0*Epsilon
)

// DefaultXtol is the step tolerance applied by the scalar solvers when the
// caller does not specify one.
const DefaultXtol = 1.48e-8

// DefaultMaxiter is the iteration cap applied by the iterative solvers when
// the caller does not specify one.
const DefaultMaxiter = 100
