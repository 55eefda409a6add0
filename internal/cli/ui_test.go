package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"

	"github.com/mbeaulieu/rrcalc/internal/orchestration"
)

// MockSpinner for testing
type MockSpinner struct {
	mu      sync.Mutex
	started bool
	stopped bool
	suffix  string
}

func (m *MockSpinner) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
}

func (m *MockSpinner) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}

func (m *MockSpinner) UpdateSuffix(suffix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suffix = suffix
}

func (m *MockSpinner) snapshot() (bool, bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started, m.stopped, m.suffix
}

func TestDisplayProgress(t *testing.T) {
	mock := &MockSpinner{}
	origNewSpinner := newSpinner
	newSpinner = func(options ...spinner.Option) Spinner { return mock }
	defer func() { newSpinner = origNewSpinner }()

	progressChan := make(chan orchestration.ProgressUpdate, 8)
	var wg sync.WaitGroup
	wg.Add(1)

	var buf bytes.Buffer
	go DisplayProgress(&wg, progressChan, 2, &buf)

	progressChan <- orchestration.ProgressUpdate{SolverIndex: 0, Value: 0.5}
	progressChan <- orchestration.ProgressUpdate{SolverIndex: 1, Value: 1.0}
	close(progressChan)
	wg.Wait()

	started, stopped, suffix := mock.snapshot()
	if !started {
		t.Error("spinner should have been started")
	}
	if !stopped {
		t.Error("spinner should have been stopped")
	}
	if suffix == "" {
		t.Error("spinner suffix should have been updated with a progress bar")
	}
	if !strings.Contains(suffix, "%") {
		t.Errorf("suffix should contain a percentage, got %q", suffix)
	}
}

func TestDisplayProgressZeroSolvers(t *testing.T) {
	progressChan := make(chan orchestration.ProgressUpdate, 1)
	var wg sync.WaitGroup
	wg.Add(1)

	var buf bytes.Buffer
	go DisplayProgress(&wg, progressChan, 0, &buf)

	progressChan <- orchestration.ProgressUpdate{SolverIndex: 0, Value: 0.5}
	close(progressChan)
	wg.Wait()
	// No spinner, no output; the channel must still be drained.
	if buf.Len() != 0 {
		t.Errorf("expected no output for zero solvers, got %q", buf.String())
	}
}

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"Microseconds", 500 * time.Microsecond, "500µs"},
		{"Milliseconds", 250 * time.Millisecond, "250ms"},
		{"Seconds", 2 * time.Second, "2s"},
		{"Minutes", 90 * time.Second, "1m30s"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatExecutionDuration(tt.duration); got != tt.expected {
				t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tt.duration, got, tt.expected)
			}
		})
	}
}

func TestFormatComposition(t *testing.T) {
	t.Parallel()
	got := formatComposition([]float64{0.5, 0.3, 0.2})
	want := "[0.500000, 0.300000, 0.200000]"
	if got != want {
		t.Errorf("formatComposition = %q, want %q", got, want)
	}
}
