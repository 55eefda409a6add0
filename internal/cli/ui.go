// Package cli implements the terminal presentation layer: progress display,
// result formatting, shell completion, and the interactive session.
package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/mbeaulieu/rrcalc/internal/format"
	"github.com/mbeaulieu/rrcalc/internal/orchestration"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	// Optimized to 200ms to reduce updates and improve performance.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// This allows for the decoupling of the `DisplayProgress` function from a
// specific spinner implementation, facilitating easier testing and maintenance.
// It defines the essential controls for a spinner: starting, stopping, and
// updating its status message.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	//
	// Parameters:
	//   - suffix: The text string to display.
	UpdateSuffix(suffix string)
}

// realSpinner is a wrapper for the `spinner.Spinner` that implements the
// `Spinner` interface. This adapter allows the `spinner` library to be used
// within the application's CLI framework.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner.
//
// Parameters:
//   - suffix: The string to display.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Suffix = suffix
}

var newSpinner = func(options ...spinner.Option) Spinner {
	// Using the same interval as ProgressRefreshRate to synchronize
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress consumes progress updates from a batch run and renders a
// spinner with an aggregated progress bar and ETA. It runs until progressChan
// is closed and must be started in its own goroutine.
//
// Parameters:
//   - wg: Signaled via Done when the display loop exits.
//   - progressChan: Channel receiving updates from the worker pool.
//   - numSolvers: The number of worker slots being tracked.
//   - out: The writer for the spinner output.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numSolvers int, out io.Writer) {
	defer wg.Done()

	aggregator := orchestration.NewProgressAggregator(numSolvers)
	if aggregator == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	sp := newSpinner(spinner.WithWriter(out))
	sp.Start()
	defer sp.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	render := func() {
		avg := aggregator.CalculateAverage()
		eta := aggregator.GetETA()
		sp.UpdateSuffix(fmt.Sprintf(" %s", format.FormatProgressBarWithETA(avg, eta, ProgressBarWidth)))
	}

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				render()
				return
			}
			aggregator.Update(update)
		case <-ticker.C:
			render()
		}
	}
}

// FormatExecutionDuration delegates to format.FormatExecutionDuration.
// It is kept here for convenience within the CLI package.
func FormatExecutionDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// formatComposition renders a mole fraction vector as a bracketed list.
func formatComposition(xs []float64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprintf("%.6f", x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
