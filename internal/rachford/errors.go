package rachford

import "fmt"

// PhaseCountReducedError signals that the K values describe a system which
// cannot split into the requested number of phases. The solution is trivial:
// the mixture collapses to a single phase (all liquid or all vapor).
type PhaseCountReducedError struct {
	// Message explains which K-value condition triggered the reduction.
	Message string
}

// Error returns the error message for a PhaseCountReducedError.
//
// Returns:
//   - string: The error message string.
func (e PhaseCountReducedError) Error() string { return e.Message }

// NewPhaseCountReducedError creates a PhaseCountReducedError with a formatted
// message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new PhaseCountReducedError instance.
func NewPhaseCountReducedError(format string, a ...any) error {
	return PhaseCountReducedError{Message: fmt.Sprintf(format, a...)}
}

// NonphysicalConvergenceError signals that a solver iterated to a numerical
// answer whose phase fractions or compositions violate a material balance.
type NonphysicalConvergenceError struct {
	// Message describes the violated condition.
	Message string
}

// Error returns the error message for a NonphysicalConvergenceError.
//
// Returns:
//   - string: The error message string.
func (e NonphysicalConvergenceError) Error() string { return e.Message }

// NoFeasibleStepError signals that the multiphase damping loop could not find
// any step length keeping all phase compositions non-negative.
type NoFeasibleStepError struct {
	// Betas holds the phase fractions at the point of failure.
	Betas []float64
	// Step holds the rejected full Newton step.
	Step []float64
}

// Error returns a formatted message describing the infeasible step.
//
// Returns:
//   - string: The error message string.
func (e NoFeasibleStepError) Error() string {
	return fmt.Sprintf("no feasible step from betas %v with step %v", e.Betas, e.Step)
}

// InvalidGuessError signals that a caller-supplied initial point is outside
// the feasible region and iteration cannot start from it.
type InvalidGuessError struct {
	// Betas holds the rejected initial phase fractions.
	Betas []float64
}

// Error returns a formatted message describing the rejected guess.
//
// Returns:
//   - string: The error message string.
func (e InvalidGuessError) Error() string {
	return fmt.Sprintf("initial guess %v is not a valid phase split", e.Betas)
}

// BadRootsError signals that a polynomial companion solve produced no root
// inside the feasible vapor fraction interval.
type BadRootsError struct {
	// Roots holds the candidate roots that were all rejected.
	Roots []complex128
	// Low and High delimit the feasible interval that no root fell into.
	Low, High float64
}

// Error returns a formatted message listing the rejected roots.
//
// Returns:
//   - string: The error message string.
func (e BadRootsError) Error() string {
	return fmt.Sprintf("no polynomial root in [%g, %g]: %v", e.Low, e.High, e.Roots)
}

// DimensionError signals that the component or phase counts of the inputs are
// inconsistent or below the minimum a solver supports.
type DimensionError struct {
	// Message explains the dimensional problem.
	Message string
}

// Error returns the error message for a DimensionError.
//
// Returns:
//   - string: The error message string.
func (e DimensionError) Error() string { return e.Message }

// NewDimensionError creates a DimensionError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new DimensionError instance.
func NewDimensionError(format string, a ...any) error {
	return DimensionError{Message: fmt.Sprintf(format, a...)}
}

// UnknownMethodError signals that a method name or value does not correspond
// to any implemented flash algorithm.
type UnknownMethodError struct {
	// Method is the unrecognized method name.
	Method string
}

// Error returns a formatted message naming the unknown method.
//
// Returns:
//   - string: The error message string.
func (e UnknownMethodError) Error() string {
	return fmt.Sprintf("unknown method %q", e.Method)
}
