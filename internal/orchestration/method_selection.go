package orchestration

import (
	apperrors "github.com/mbeaulieu/rrcalc/internal/errors"
	"github.com/mbeaulieu/rrcalc/internal/rachford"
)

// MethodsToRun determines which solver methods should be executed for a
// problem of n components, based on the configuration. In comparison mode
// every method applicable at that component count runs; otherwise the single
// named method does.
//
// Parameters:
//   - methodName: The method named on the command line, or "auto".
//   - all: Whether every applicable method should run.
//   - n: The number of components in the problem.
//
// Returns:
//   - []rachford.Method: The methods to execute, in a stable order.
//   - error: A ConfigError when the method name is unknown.
func MethodsToRun(methodName string, all bool, n int) ([]rachford.Method, error) {
	if all {
		return rachford.Methods(n), nil
	}
	method, err := rachford.ParseMethod(methodName)
	if err != nil {
		return nil, apperrors.NewConfigError("unknown method %q", methodName)
	}
	return []rachford.Method{method}, nil
}
