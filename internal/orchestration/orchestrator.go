package orchestration

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/mbeaulieu/rrcalc/internal/errors"
	"github.com/mbeaulieu/rrcalc/internal/logging"
	"github.com/mbeaulieu/rrcalc/internal/rachford"
	"github.com/mbeaulieu/rrcalc/internal/server"
)

// tracerName identifies this package's spans.
const tracerName = "github.com/mbeaulieu/rrcalc/internal/orchestration"

// SolveResult encapsulates the outcome of a single flash solve.
// It serves as the shared domain type between orchestration and presentation
// layers.
type SolveResult struct {
	// Method is the solver method that produced this result.
	Method rachford.Method
	// VF is the converged vapor fraction. Undefined if Err is non-nil.
	VF float64
	// Xs is the liquid composition.
	Xs []float64
	// Ys is the vapor composition.
	Ys []float64
	// Duration is the time taken to complete the solve.
	Duration time.Duration
	// Err contains any error that occurred during the solve.
	Err error
}

// Orchestrator runs solver methods concurrently and records their outcomes.
type Orchestrator struct {
	logger  logging.Logger
	metrics *server.Metrics
	tracer  trace.Tracer
}

// New creates an Orchestrator. A nil metrics disables instrumentation.
func New(logger logging.Logger, metrics *server.Metrics) *Orchestrator {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Orchestrator{
		logger:  logger,
		metrics: metrics,
		tracer:  otel.Tracer(tracerName),
	}
}

// ExecuteMethods runs every given method on the same problem concurrently
// and collects one result per method, in method order. Each solve runs in its
// own goroutine; a canceled context aborts methods that have not started.
func (o *Orchestrator) ExecuteMethods(ctx context.Context, zs, Ks []float64, opts rachford.Options, methods []rachford.Method) []SolveResult {
	ctx, span := o.tracer.Start(ctx, "ExecuteMethods",
		trace.WithAttributes(
			attribute.Int("components", len(zs)),
			attribute.Int("methods", len(methods)),
		))
	defer span.End()

	g, ctx := errgroup.WithContext(ctx)
	results := make([]SolveResult, len(methods))

	for i, m := range methods {
		idx, method := i, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[idx] = SolveResult{Method: method, Err: err}
				return nil
			}
			_, methodSpan := o.tracer.Start(ctx, "Solve",
				trace.WithAttributes(attribute.String("method", method.String())))
			startTime := time.Now()

			methodOpts := opts
			methodOpts.Method = method
			vf, xs, ys, err := rachford.Solve(zs, Ks, &methodOpts)

			duration := time.Since(startTime)
			methodSpan.End()
			if o.metrics != nil {
				o.metrics.ObserveSolve(method.String(), false, err)
			}
			if err != nil {
				o.logger.Debug("method failed",
					logging.String("method", method.String()),
					logging.Err(err))
			}
			results[idx] = SolveResult{
				Method: method, VF: vf, Xs: xs, Ys: ys, Duration: duration, Err: err,
			}
			return nil
		})
	}

	g.Wait()
	return results
}

// AnalyzeComparison processes the results of a multi-method run and generates
// a summary report.
//
// It sorts the results by execution time, validates agreement of the vapor
// fraction across successful solves within the given relative tolerance, and
// displays a comparative table.
//
// Parameters:
//   - results: The slice of solve results to analyze.
//   - tolerance: The relative agreement tolerance between methods.
//   - verbose: Whether the presenter should show full compositions.
//   - presenter: The result presenter for display formatting.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeComparison(results []SolveResult, tolerance float64, verbose bool, presenter ResultPresenter, out io.Writer) int {
	sort.Slice(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValidResult *SolveResult
	var firstError error
	successCount := 0

	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
		} else {
			successCount++
			if firstValidResult == nil {
				firstValidResult = &results[i]
			}
		}
	}

	presenter.PresentComparisonTable(results, out)

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No method could solve the problem.\n")
		return presenter.HandleError(firstError, out)
	}

	for _, res := range results {
		if res.Err != nil || res.Method == firstValidResult.Method {
			continue
		}
		if !agree(res.VF, firstValidResult.VF, tolerance) {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! The methods disagree on the vapor fraction.\n")
			return presenter.HandleError(apperrors.MismatchError{
				MethodA: firstValidResult.Method.String(),
				MethodB: res.Method.String(),
				ValueA:  firstValidResult.VF,
				ValueB:  res.VF,
			}, out)
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	presenter.PresentResult(*firstValidResult, verbose, out)
	return apperrors.ExitSuccess
}

// agree reports whether two vapor fractions match within a relative
// tolerance.
func agree(a, b, rtol float64) bool {
	if a == b {
		return true
	}
	den := math.Abs(b)
	if den == 0 {
		den = 1
	}
	return math.Abs(a-b)/den <= rtol
}
