package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	apperrors "github.com/mbeaulieu/rrcalc/internal/errors"
	"github.com/mbeaulieu/rrcalc/internal/orchestration"
	"github.com/mbeaulieu/rrcalc/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter for CLI output.
// It wraps the DisplayProgress function to provide a spinner and progress bar
// display during batch solves.
type CLIProgressReporter struct{}

// Verify that CLIProgressReporter implements orchestration.ProgressReporter.
var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for ongoing solves.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numSolvers int, out io.Writer) {
	DisplayProgress(wg, progressChan, numSolvers, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter for CLI output.
// It provides formatted, colorized output for flash results in the
// command-line interface.
type CLIResultPresenter struct{}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
)

// PresentComparisonTable displays the comparison summary table with
// method names, durations, and status in a formatted tabular layout.
// Uses manual padding to correctly handle ANSI color codes.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.SolveResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	// Find the maximum method name width for proper alignment
	maxNameLen := 6     // "Method" header length
	maxDurationLen := 8 // "Duration" header length
	for _, res := range results {
		name := res.Method.String()
		if len(name) > maxNameLen {
			maxNameLen = len(name)
		}
		duration := FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		if len(duration) > maxDurationLen {
			maxDurationLen = len(duration)
		}
	}

	// Print header with proper padding
	fmt.Fprintf(out, "%sMethod%s%s   %sDuration%s%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxNameLen-6),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxDurationLen-8),
		ui.ColorUnderline(), ui.ColorReset())

	// Print each result row
	for _, res := range results {
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		} else {
			status = fmt.Sprintf("%s✅ VF = %.12f%s", ui.ColorGreen(), res.VF, ui.ColorReset())
		}
		name := res.Method.String()
		duration := FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s\n",
			ui.ColorBlue(), name, ui.ColorReset(), padRight("", maxNameLen-len(name)),
			ui.ColorYellow(), duration, ui.ColorReset(), padRight("", maxDurationLen-len(duration)),
			status)
	}
}

// padRight returns a string of spaces with the given length.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PresentResult displays the final flash result. Verbose mode adds the full
// phase compositions.
func (CLIResultPresenter) PresentResult(result orchestration.SolveResult, verbose bool, out io.Writer) {
	fmt.Fprintf(out, "\n%sResult%s (%s%s%s, %s%s%s):\n",
		ui.ColorBold(), ui.ColorReset(),
		ui.ColorCyan(), result.Method, ui.ColorReset(),
		ui.ColorYellow(), FormatExecutionDuration(result.Duration), ui.ColorReset())
	fmt.Fprintf(out, "  Vapor fraction:  %s%.15g%s\n", ui.ColorGreen(), result.VF, ui.ColorReset())
	fmt.Fprintf(out, "  Liquid fraction: %s%.15g%s\n", ui.ColorGreen(), 1-result.VF, ui.ColorReset())
	if verbose {
		fmt.Fprintf(out, "  Liquid composition: %s%s%s\n", ui.ColorCyan(), formatComposition(result.Xs), ui.ColorReset())
		fmt.Fprintf(out, "  Vapor composition:  %s%s%s\n", ui.ColorCyan(), formatComposition(result.Ys), ui.ColorReset())
	}
}

// FormatDuration formats a duration for display using the CLI's standard
// duration formatting.
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	return FormatExecutionDuration(d)
}

// HandleError reports a terminal error with a colorized message and returns
// the process exit code mapped from the error type.
func (CLIResultPresenter) HandleError(err error, out io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}
	fmt.Fprintf(out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
	return ExitCodeForError(err)
}

// ExitCodeForError maps an error to the process exit code the application
// terminates with.
//
// Parameters:
//   - err: The terminal error, possibly wrapped.
//
// Returns:
//   - int: One of the apperrors.Exit* codes.
func ExitCodeForError(err error) int {
	if err == nil {
		return apperrors.ExitSuccess
	}

	var (
		configErr   apperrors.ConfigError
		timeoutErr  apperrors.TimeoutError
		mismatchErr apperrors.MismatchError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return apperrors.ExitErrorCanceled
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &timeoutErr):
		return apperrors.ExitErrorTimeout
	case errors.As(err, &mismatchErr):
		return apperrors.ExitErrorMismatch
	case errors.As(err, &configErr):
		return apperrors.ExitErrorConfig
	default:
		return apperrors.ExitErrorGeneric
	}
}
