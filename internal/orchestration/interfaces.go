package orchestration

import (
	"io"
	"sync"
	"time"
)

// ProgressUpdate reports the fractional completion of one worker slot.
type ProgressUpdate struct {
	// SolverIndex identifies the worker slot the update belongs to.
	SolverIndex int
	// Value is the completion fraction, 0.0 to 1.0.
	Value float64
}

// ProgressReporter defines the interface for displaying batch progress.
// This interface decouples the orchestration layer from the presentation
// layer; implementations handle the visual representation (spinner, progress
// bar) while orchestration focuses on coordinating the solves.
type ProgressReporter interface {
	// DisplayProgress starts displaying progress updates from the channel.
	// It should be called in a separate goroutine and will run until the
	// progressChan is closed.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - progressChan: Channel receiving progress updates from workers.
	//   - numSolvers: The number of concurrent worker slots being tracked.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numSolvers int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numSolvers int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numSolvers int, out io.Writer) {
	f(wg, progressChan, numSolvers, out)
}

// NullProgressReporter is a no-op implementation of ProgressReporter.
// It drains the progress channel without displaying anything.
// Useful for quiet mode or testing.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for range progressChan {
		// Drain channel silently
	}
}

// ResultPresenter defines the interface for presenting solve results.
// This interface decouples the orchestration layer from presentation
// concerns, allowing different output formats without modifying the
// orchestration logic.
type ResultPresenter interface {
	// PresentComparisonTable displays the method comparison summary table.
	PresentComparisonTable(results []SolveResult, out io.Writer)

	// PresentResult displays the final solve result.
	PresentResult(result SolveResult, verbose bool, out io.Writer)

	// HandleError reports a terminal error and returns the process exit code.
	HandleError(err error, out io.Writer) int
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}
