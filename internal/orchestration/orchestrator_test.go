package orchestration

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	apperrors "github.com/mbeaulieu/rrcalc/internal/errors"
	"github.com/mbeaulieu/rrcalc/internal/rachford"
)

// MockResultPresenter is a mock implementation of ResultPresenter for testing.
type MockResultPresenter struct {
	tableCalled  bool
	resultCalled bool
	handledErr   error
}

func (m *MockResultPresenter) PresentComparisonTable(results []SolveResult, out io.Writer) {
	m.tableCalled = true
}

func (m *MockResultPresenter) PresentResult(result SolveResult, verbose bool, out io.Writer) {
	m.resultCalled = true
}

func (m *MockResultPresenter) HandleError(err error, out io.Writer) int {
	m.handledErr = err
	var mismatch apperrors.MismatchError
	if errors.As(err, &mismatch) {
		return apperrors.ExitErrorMismatch
	}
	return apperrors.ExitErrorGeneric
}

var (
	testZs = []float64{0.5, 0.3, 0.2}
	testKs = []float64{1.685, 0.742, 0.532}
	testVF = 0.6907302627738544
)

// TestExecuteMethods verifies that the orchestrator runs every method and
// aggregates their results in method order.
func TestExecuteMethods(t *testing.T) {
	t.Parallel()
	o := New(nil, nil)

	methods := rachford.Methods(len(testZs))
	results := o.ExecuteMethods(context.Background(), testZs, testKs, rachford.Options{Guess: math.NaN()}, methods)

	if len(results) != len(methods) {
		t.Fatalf("got %d results, want %d", len(results), len(methods))
	}
	for i, res := range results {
		if res.Method != methods[i] {
			t.Errorf("results[%d].Method = %s, want %s", i, res.Method, methods[i])
		}
		if res.Err != nil {
			t.Errorf("%s failed: %v", res.Method, res.Err)
			continue
		}
		if diff := math.Abs(res.VF - testVF); diff > 1e-9 {
			t.Errorf("%s VF = %v, want %v", res.Method, res.VF, testVF)
		}
	}
}

// TestExecuteMethodsCanceledContext verifies that a canceled context surfaces
// as per-method errors rather than a hang.
func TestExecuteMethodsCanceledContext(t *testing.T) {
	t.Parallel()
	o := New(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := o.ExecuteMethods(ctx, testZs, testKs, rachford.Options{Guess: math.NaN()}, rachford.Methods(len(testZs)))
	for _, res := range results {
		if res.Err == nil {
			// A goroutine may have started before observing cancellation;
			// a valid result is acceptable, a hang is not.
			continue
		}
		if !errors.Is(res.Err, context.Canceled) {
			t.Errorf("unexpected error: %v", res.Err)
		}
	}
}

// TestAnalyzeComparison verifies consistency analysis and exit codes.
func TestAnalyzeComparison(t *testing.T) {
	t.Parallel()

	t.Run("consistent results succeed", func(t *testing.T) {
		t.Parallel()
		presenter := &MockResultPresenter{}
		results := []SolveResult{
			{Method: rachford.MethodSecant, VF: testVF},
			{Method: rachford.MethodNewton, VF: testVF + 1e-12},
		}

		var buf strings.Builder
		code := AnalyzeComparison(results, 1e-8, false, presenter, &buf)
		if code != apperrors.ExitSuccess {
			t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
		}
		if !presenter.tableCalled {
			t.Error("comparison table was not presented")
		}
		if !presenter.resultCalled {
			t.Error("final result was not presented")
		}
	})

	t.Run("disagreement is a mismatch", func(t *testing.T) {
		t.Parallel()
		presenter := &MockResultPresenter{}
		results := []SolveResult{
			{Method: rachford.MethodSecant, VF: 0.5},
			{Method: rachford.MethodNewton, VF: 0.6},
		}

		var buf strings.Builder
		code := AnalyzeComparison(results, 1e-8, false, presenter, &buf)
		if code != apperrors.ExitErrorMismatch {
			t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorMismatch)
		}
		var mismatch apperrors.MismatchError
		if !errors.As(presenter.handledErr, &mismatch) {
			t.Errorf("expected MismatchError, got %v", presenter.handledErr)
		}
	})

	t.Run("failed methods are tolerated when one succeeds", func(t *testing.T) {
		t.Parallel()
		presenter := &MockResultPresenter{}
		results := []SolveResult{
			{Method: rachford.MethodSecant, VF: testVF},
			{Method: rachford.MethodLJA, Err: errors.New("simulated failure")},
		}

		var buf strings.Builder
		code := AnalyzeComparison(results, 1e-8, false, presenter, &buf)
		if code != apperrors.ExitSuccess {
			t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
		}
	})

	t.Run("all failures report the first error", func(t *testing.T) {
		t.Parallel()
		presenter := &MockResultPresenter{}
		firstErr := errors.New("first failure")
		results := []SolveResult{
			{Method: rachford.MethodSecant, Err: firstErr},
			{Method: rachford.MethodNewton, Err: errors.New("second failure")},
		}

		var buf strings.Builder
		code := AnalyzeComparison(results, 1e-8, false, presenter, &buf)
		if code != apperrors.ExitErrorGeneric {
			t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorGeneric)
		}
		if presenter.handledErr == nil {
			t.Error("no error was handled")
		}
	})
}

// TestMethodsToRun verifies the method selection logic.
func TestMethodsToRun(t *testing.T) {
	t.Parallel()

	t.Run("all selects every applicable method", func(t *testing.T) {
		t.Parallel()
		methods, err := MethodsToRun("auto", true, 3)
		if err != nil {
			t.Fatalf("MethodsToRun error: %v", err)
		}
		if len(methods) != len(rachford.Methods(3)) {
			t.Errorf("got %d methods, want %d", len(methods), len(rachford.Methods(3)))
		}
	})

	t.Run("single named method", func(t *testing.T) {
		t.Parallel()
		methods, err := MethodsToRun("ln2", false, 3)
		if err != nil {
			t.Fatalf("MethodsToRun error: %v", err)
		}
		if len(methods) != 1 || methods[0] != rachford.MethodLN2 {
			t.Errorf("got %v, want [ln2]", methods)
		}
	})

	t.Run("unknown method is a config error", func(t *testing.T) {
		t.Parallel()
		_, err := MethodsToRun("bogus", false, 3)
		var configErr apperrors.ConfigError
		if !errors.As(err, &configErr) {
			t.Errorf("expected ConfigError, got %v", err)
		}
	})
}
