package orchestration

import (
	"context"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mbeaulieu/rrcalc/internal/rachford"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the
// progress channel. A larger buffer reduces the likelihood of blocking
// worker goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

// Problem is one flash problem in a batch.
type Problem struct {
	// Zs are the overall feed mole fractions.
	Zs []float64
	// Ks are the equilibrium ratios.
	Ks []float64
	// Guess is the initial vapor fraction estimate; NaN means none.
	Guess float64
}

// BatchResult pairs a solve outcome with the index of its problem.
type BatchResult struct {
	// Index is the position of the problem in the input batch.
	Index int
	// Result holds the solve outcome.
	Result SolveResult
}

// ExecuteBatch solves a batch of problems concurrently with a bounded worker
// pool, reporting completion progress as it goes. Results are returned in
// input order. This function is the core of the application's concurrency
// model for batch runs.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - problems: The problems to solve.
//   - opts: Solve options shared by the whole batch; a problem-level guess
//     overrides the option's.
//   - workers: The maximum number of concurrent solves (minimum one).
//   - progressReporter: The progress reporter for displaying updates (use
//     NullProgressReporter for quiet mode).
//   - out: The io.Writer for displaying progress updates.
//
// Returns:
//   - []BatchResult: One entry per problem, in input order.
func (o *Orchestrator) ExecuteBatch(ctx context.Context, problems []Problem, opts rachford.Options, workers int, progressReporter ProgressReporter, out io.Writer) []BatchResult {
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	results := make([]BatchResult, len(problems))
	progressChan := make(chan ProgressUpdate, workers*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, workers, out)

	var done int64
	var doneMu sync.Mutex
	total := float64(len(problems))

	for i, p := range problems {
		idx, problem := i, p
		g.Go(func() error {
			var res SolveResult
			if err := ctx.Err(); err != nil {
				res = SolveResult{Method: opts.Method, Err: err}
			} else {
				res = o.solveOne(problem, opts)
			}
			results[idx] = BatchResult{Index: idx, Result: res}

			doneMu.Lock()
			done++
			fraction := float64(done) / total
			doneMu.Unlock()
			select {
			case progressChan <- ProgressUpdate{SolverIndex: idx % workers, Value: fraction}:
			default: // never block a worker on a slow UI
			}
			return nil
		})
	}

	g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// solveOne runs a single problem with batch options, honoring a per-problem
// guess.
func (o *Orchestrator) solveOne(p Problem, opts rachford.Options) SolveResult {
	solveOpts := opts
	if p.Guess == p.Guess { // not NaN
		solveOpts.Guess = p.Guess
	}
	startTime := time.Now()
	vf, xs, ys, err := rachford.Solve(p.Zs, p.Ks, &solveOpts)
	duration := time.Since(startTime)
	if o.metrics != nil {
		o.metrics.ObserveSolve(solveOpts.Method.String(), false, err)
	}
	return SolveResult{
		Method: solveOpts.Method, VF: vf, Xs: xs, Ys: ys, Duration: duration, Err: err,
	}
}
