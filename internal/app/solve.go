package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/mbeaulieu/rrcalc/internal/cli"
	apperrors "github.com/mbeaulieu/rrcalc/internal/errors"
	"github.com/mbeaulieu/rrcalc/internal/logging"
	runtimemetrics "github.com/mbeaulieu/rrcalc/internal/metrics"
	"github.com/mbeaulieu/rrcalc/internal/orchestration"
	"github.com/mbeaulieu/rrcalc/internal/rachford"
	"github.com/mbeaulieu/rrcalc/internal/server"
	"github.com/mbeaulieu/rrcalc/internal/ui"
)

// runSolve orchestrates the execution of the solve command: lifecycle setup,
// optional metrics exposure, problem loading, and result analysis.
func (a *Application) runSolve(ctx context.Context, out io.Writer) int {
	// Setup lifecycle (timeout + signals)
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	// Optional Prometheus endpoint, alive for the duration of the run
	var metrics *server.Metrics
	if a.Config.MetricsAddr != "" {
		metrics = server.NewMetrics()
		srv := server.New(a.Config.MetricsAddr, metrics, a.Logger)
		go func() {
			if err := srv.Start(ctx); err != nil {
				a.Logger.Error("metrics server stopped", err,
					logging.String("addr", a.Config.MetricsAddr))
			}
		}()
	}

	problems, err := cli.ReadProblems(a.Config.InputFile)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return cli.ExitCodeForError(err)
	}

	var code int
	if len(problems) == 1 {
		code = a.solveSingle(ctx, problems[0], metrics, out)
	} else {
		code = a.solveBatch(ctx, problems, metrics, out)
	}

	if a.Config.Verbose {
		a.logMemoryStats()
	}
	return code
}

// logMemoryStats emits a debug line with runtime memory usage after the run.
func (a *Application) logMemoryStats() {
	snap := runtimemetrics.NewMemoryCollector().Snapshot()
	a.Logger.Debug("runtime memory",
		logging.Uint64("heap_alloc", snap.HeapAlloc),
		logging.Uint64("heap_sys", snap.HeapSys),
		logging.Uint64("gc_cycles", uint64(snap.NumGC)),
		logging.Uint64("gc_pause_ns", snap.PauseTotalNs))
}

// solverOptions builds the per-solve options from the configuration.
func (a *Application) solverOptions() rachford.Options {
	return rachford.Options{
		Guess: a.Config.Guess,
		Check: a.Config.Check,
	}
}

// solveSingle runs one problem through the selected method, or through every
// applicable method when comparison mode is enabled.
func (a *Application) solveSingle(ctx context.Context, problem orchestration.Problem, metrics *server.Metrics, out io.Writer) int {
	methods, err := orchestration.MethodsToRun(a.Config.Method, a.Config.All, len(problem.Zs))
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return cli.ExitCodeForError(err)
	}

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, 1, out)
		cli.PrintExecutionMode(methods, out)
	}

	opts := a.solverOptions()
	if problem.Guess == problem.Guess { // per-problem guess overrides the flag
		opts.Guess = problem.Guess
	}

	orch := orchestration.New(a.Logger, metrics)
	results := orch.ExecuteMethods(ctx, problem.Zs, problem.Ks, opts, methods)

	if len(results) > 1 {
		exitCode := orchestration.AnalyzeComparison(results, a.Config.Tolerance,
			a.Config.Verbose, cli.CLIResultPresenter{}, out)
		if exitCode == apperrors.ExitSuccess {
			if err := a.saveResultIfNeeded(bestResult(results), out); err != nil {
				return apperrors.ExitErrorGeneric
			}
		}
		return exitCode
	}

	res := results[0]
	if res.Err != nil {
		return cli.CLIResultPresenter{}.HandleError(res.Err, a.ErrWriter)
	}
	if err := cli.DisplayResultWithConfig(out, res, a.outputConfig()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// solveBatch runs a multi-problem document through the worker pool with the
// single selected method.
func (a *Application) solveBatch(ctx context.Context, problems []orchestration.Problem, metrics *server.Metrics, out io.Writer) int {
	if a.Config.All {
		fmt.Fprintf(a.ErrWriter, "Error: -all compares methods on a single problem; batch input selects one method\n")
		return apperrors.ExitErrorConfig
	}

	method, err := rachford.ParseMethod(a.Config.Method)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: unknown method %q\n", a.Config.Method)
		return apperrors.ExitErrorConfig
	}

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, len(problems), out)
		cli.PrintExecutionMode([]rachford.Method{method}, out)
	}

	// Choose progress reporter based on quiet mode
	var progressReporter orchestration.ProgressReporter
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
		progressReporter = orchestration.NullProgressReporter{}
	} else {
		progressReporter = cli.CLIProgressReporter{}
	}

	opts := a.solverOptions()
	opts.Method = method

	orch := orchestration.New(a.Logger, metrics)
	results := orch.ExecuteBatch(ctx, problems, opts, a.Config.Workers, progressReporter, progressOut)

	return a.presentBatch(results, out)
}

// presentBatch reports batch results in input order and derives the exit
// code from the worst individual outcome.
func (a *Application) presentBatch(results []orchestration.BatchResult, out io.Writer) int {
	failures := 0
	var firstErr error

	for _, br := range results {
		res := br.Result
		if res.Err != nil {
			failures++
			if firstErr == nil {
				firstErr = res.Err
			}
			fmt.Fprintf(out, "[%d] %serror: %v%s\n", br.Index, ui.ColorRed(), res.Err, ui.ColorReset())
			continue
		}
		if a.Config.Quiet {
			cli.DisplayQuietResult(out, res)
		} else {
			fmt.Fprintf(out, "[%d] VF = %s%.15g%s  (%s, %s)\n", br.Index,
				ui.ColorGreen(), res.VF, ui.ColorReset(),
				res.Method, cli.CLIResultPresenter{}.FormatDuration(res.Duration))
		}
	}

	if failures > 0 {
		if apperrors.IsContextError(firstErr) {
			fmt.Fprintf(out, "\nRun interrupted: %d of %d problems unfinished.\n", failures, len(results))
		} else {
			fmt.Fprintf(out, "\n%d of %d problems failed.\n", failures, len(results))
		}
		return cli.ExitCodeForError(firstErr)
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "\nAll %d problems solved.\n", len(results))
	}
	return apperrors.ExitSuccess
}

// bestResult returns the fastest successful result, or nil when all failed.
func bestResult(results []orchestration.SolveResult) *orchestration.SolveResult {
	var best *orchestration.SolveResult
	for i := range results {
		if results[i].Err == nil {
			if best == nil || results[i].Duration < best.Duration {
				best = &results[i]
			}
		}
	}
	return best
}

// outputConfig builds the CLI output configuration.
func (a *Application) outputConfig() cli.OutputConfig {
	return cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
	}
}

// saveResultIfNeeded writes the result file after a successful comparison run.
func (a *Application) saveResultIfNeeded(res *orchestration.SolveResult, out io.Writer) error {
	if res == nil || a.Config.OutputFile == "" {
		return nil
	}
	cfg := a.outputConfig()
	if err := cli.WriteResultToFile(*res, cfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return err
	}
	fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
		ui.ColorGreen(), ui.ColorCyan(), cfg.OutputFile, ui.ColorReset())
	return nil
}
