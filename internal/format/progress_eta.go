package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// maxETA caps the displayed estimate; beyond a day the number is noise.
const maxETA = 24 * time.Hour

// etaSmoothing is the exponential smoothing factor for the progress rate.
const etaSmoothing = 0.3

// ProgressState tracks the progress of several concurrent solvers and
// aggregates them into a single average.
type ProgressState struct {
	mu         sync.Mutex
	numSolvers int
	progresses []float64
}

// NewProgressState creates a tracker for the given number of solvers.
func NewProgressState(numSolvers int) *ProgressState {
	if numSolvers < 0 {
		numSolvers = 0
	}
	return &ProgressState{
		numSolvers: numSolvers,
		progresses: make([]float64, numSolvers),
	}
}

// Update records the progress of one solver. Out-of-range indices are
// ignored and values are clamped to [0, 1].
func (p *ProgressState) Update(index int, value float64) {
	if index < 0 || index >= p.numSolvers {
		return
	}
	if value < 0 {
		value = 0
	} else if value > 1 {
		value = 1
	}
	p.mu.Lock()
	p.progresses[index] = value
	p.mu.Unlock()
}

// CalculateAverage returns the mean progress across all solvers.
func (p *ProgressState) CalculateAverage() float64 {
	if p.numSolvers <= 0 {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	sum := 0.0
	for _, v := range p.progresses {
		sum += v
	}
	return sum / float64(p.numSolvers)
}

// ProgressWithETA extends ProgressState with a smoothed progress rate and an
// estimated time to completion.
type ProgressWithETA struct {
	*ProgressState
	numSolvers   int
	progressRate float64
	startTime    time.Time
	lastUpdate   time.Time
	lastProgress float64
}

// NewProgressWithETA creates an ETA-aware tracker for the given number of
// solvers.
func NewProgressWithETA(numSolvers int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState: NewProgressState(numSolvers),
		numSolvers:    numSolvers,
		startTime:     now,
		lastUpdate:    now,
	}
}

// UpdateWithETA records a solver's progress and returns the new average
// together with the current ETA estimate.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)
	avg := p.CalculateAverage()

	now := time.Now()
	elapsed := now.Sub(p.lastUpdate).Seconds()
	if elapsed > 0 {
		instantRate := (avg - p.lastProgress) / elapsed
		if instantRate > 0 {
			if p.progressRate == 0 {
				p.progressRate = instantRate
			} else {
				p.progressRate = etaSmoothing*instantRate + (1-etaSmoothing)*p.progressRate
			}
		}
		p.lastUpdate = now
		p.lastProgress = avg
	}
	return avg, p.GetETA()
}

// GetETA returns the estimated time remaining, or zero when no rate has been
// observed yet.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1.0 - p.CalculateAverage()
	if remaining <= 0 {
		return 0
	}
	eta := time.Duration(remaining / p.progressRate * float64(time.Second))
	if eta > maxETA {
		return maxETA
	}
	return eta
}

// FormatETA renders an ETA for display. Unknown estimates render as
// "calculating...".
func FormatETA(eta time.Duration) string {
	if eta <= 0 {
		return "calculating..."
	}
	if eta < time.Second {
		return "< 1s"
	}
	eta = eta.Truncate(time.Second)
	hours := int(eta.Hours())
	minutes := int(eta.Minutes()) % 60
	seconds := int(eta.Seconds()) % 60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh%dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	case minutes > 0 && seconds > 0:
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// FormatProgressBarWithETA renders a progress bar with percentage and ETA.
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), clamp01(progress)*100, FormatETA(eta))
}

// ProgressBar renders a fixed-width bar of filled and empty blocks.
func ProgressBar(progress float64, length int) string {
	filled := int(clamp01(progress) * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
