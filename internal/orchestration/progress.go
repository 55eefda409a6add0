package orchestration

import (
	"time"

	"github.com/mbeaulieu/rrcalc/internal/format"
)

// ProgressAggregator manages multi-worker progress aggregation.
// It wraps format.ProgressWithETA and provides a higher-level API for
// consuming progress updates from a channel, so presenters avoid duplicating
// the aggregation setup and update logic.
type ProgressAggregator struct {
	state      *format.ProgressWithETA
	numSolvers int
}

// NewProgressAggregator creates a new aggregator for the given number of
// worker slots. Returns nil if numSolvers <= 0.
func NewProgressAggregator(numSolvers int) *ProgressAggregator {
	if numSolvers <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:      format.NewProgressWithETA(numSolvers),
		numSolvers: numSolvers,
	}
}

// AggregatedProgress holds the result of processing a single progress update.
type AggregatedProgress struct {
	// SolverIndex is the worker slot that sent the update.
	SolverIndex int
	// Value is the raw progress value from the update (0.0 to 1.0).
	Value float64
	// AverageProgress is the aggregated average across all worker slots.
	AverageProgress float64
	// ETA is the estimated time remaining based on smoothed progress rate.
	ETA time.Duration
}

// Update processes a single progress update and returns the aggregated result.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	avgProgress, eta := a.state.UpdateWithETA(update.SolverIndex, update.Value)
	return AggregatedProgress{
		SolverIndex:     update.SolverIndex,
		Value:           update.Value,
		AverageProgress: avgProgress,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average progress without updating.
// Useful for periodic refresh between updates (e.g., CLI ticker).
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumSolvers returns the number of worker slots being tracked.
func (a *ProgressAggregator) NumSolvers() int {
	return a.numSolvers
}

// IsMultiSolver returns true if tracking more than one worker slot.
func (a *ProgressAggregator) IsMultiSolver() bool {
	return a.numSolvers > 1
}

// DrainChannel reads all updates from the channel without processing.
// Use this when numSolvers <= 0 and updates should be discarded.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
