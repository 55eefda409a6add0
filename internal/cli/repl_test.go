package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mbeaulieu/rrcalc/internal/ui"
)

func newTestREPL(input string) (*REPL, *bytes.Buffer) {
	r := NewREPL(REPLConfig{
		DefaultMethod: "auto",
		Timeout:       5 * time.Second,
		Tolerance:     1e-8,
	})
	var buf bytes.Buffer
	r.SetInput(strings.NewReader(input))
	r.SetOutput(&buf)
	return r, &buf
}

func TestREPLSolve(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	defer ui.SetCurrentTheme(ui.DarkTheme)

	r, buf := newTestREPL("solve 0.5,0.3,0.2 1.685,0.742,0.532\nexit\n")
	r.Start()

	output := buf.String()
	if !strings.Contains(output, "VF = 0.6907302627") {
		t.Errorf("expected converged vapor fraction, got:\n%s", output)
	}
	if !strings.Contains(output, "xs = [") {
		t.Errorf("expected liquid composition, got:\n%s", output)
	}
	if !strings.Contains(output, "Goodbye!") {
		t.Errorf("expected exit message, got:\n%s", output)
	}
}

func TestREPLCompare(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	defer ui.SetCurrentTheme(ui.DarkTheme)

	r, buf := newTestREPL("compare 0.5,0.3,0.2 1.685,0.742,0.532\nexit\n")
	r.Start()

	output := buf.String()
	for _, want := range []string{"secant", "newton", "ln2", "✓"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected comparison output to contain %q, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "INCONSISTENT") {
		t.Errorf("methods should agree on a well-posed flash, got:\n%s", output)
	}
}

func TestREPLMethodChange(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	defer ui.SetCurrentTheme(ui.DarkTheme)

	r, buf := newTestREPL("method newton\nstatus\nexit\n")
	r.Start()

	output := buf.String()
	if !strings.Contains(output, "Method changed to: newton") {
		t.Errorf("expected method change confirmation, got:\n%s", output)
	}
	if !strings.Contains(output, "Method:     newton") {
		t.Errorf("expected status to show newton, got:\n%s", output)
	}
}

func TestREPLInvalidInput(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	defer ui.SetCurrentTheme(ui.DarkTheme)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Unknown command", "frobnicate\nexit\n", "Unknown command"},
		{"Unknown method", "method bogus\nexit\n", "Unknown method"},
		{"Missing arguments", "solve\nexit\n", "Usage: solve"},
		{"Bad vector", "solve 0.5,abc 2.0,0.5\nexit\n", "Invalid zs"},
		{"Length mismatch", "solve 0.5,0.5 2.0\nexit\n", "zs has 2 components but ks has 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, buf := newTestREPL(tt.input)
			r.Start()
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestREPLEOF(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	defer ui.SetCurrentTheme(ui.DarkTheme)

	r, buf := newTestREPL("list\n")
	r.Start()

	output := buf.String()
	if !strings.Contains(output, "Available methods") {
		t.Errorf("expected method list, got:\n%s", output)
	}
	if !strings.Contains(output, "Goodbye!") {
		t.Errorf("expected graceful EOF exit, got:\n%s", output)
	}
}

func TestParseVector(t *testing.T) {
	t.Parallel()
	vec, err := parseVector("0.5, 0.3,0.2")
	if err != nil {
		t.Fatalf("parseVector failed: %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.5 || vec[2] != 0.2 {
		t.Errorf("parseVector = %v, want [0.5 0.3 0.2]", vec)
	}

	if _, err := parseVector(""); err == nil {
		t.Error("expected error for empty vector")
	}
	if _, err := parseVector("1.0,nope"); err == nil {
		t.Error("expected error for non-numeric entry")
	}
}
