// Package config holds the application configuration and its resolution
// chain: CLI flags take precedence over RRCALC_ environment variables, which
// take precedence over defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"time"

	apperrors "github.com/mbeaulieu/rrcalc/internal/errors"
)

// EnvPrefix is prepended to every environment variable read by this package.
const EnvPrefix = "RRCALC_"

// Default configuration values.
const (
	DefaultMethod    = "auto"
	DefaultTimeout   = 5 * time.Minute
	DefaultTolerance = 1e-8
)

// AppConfig carries every user-facing setting of the solver CLI.
type AppConfig struct {
	// InputFile is the JSON problem file; "-" or empty reads stdin.
	InputFile string
	// Method names the solver method, or "auto".
	Method string
	// All runs every applicable method concurrently and verifies agreement.
	All bool
	// Guess is the initial vapor fraction estimate; NaN means none.
	Guess float64
	// Check enables feed validation and zero-feed stripping.
	Check bool
	// Workers bounds the number of problems solved concurrently in a batch.
	// Zero selects a hardware-based estimate.
	Workers int
	// Timeout bounds the whole run.
	Timeout time.Duration
	// MetricsAddr serves Prometheus metrics during the run when non-empty.
	MetricsAddr string
	// Tolerance is the relative agreement tolerance for comparison runs.
	Tolerance float64
	// OutputFile saves the result to a file in addition to stdout.
	OutputFile string
	// Completion generates a shell completion script and exits.
	Completion string
	// Interactive starts a read-eval-print loop instead of a one-shot run.
	Interactive bool
	// NoColor disables ANSI colors in terminal output.
	NoColor bool
	// Verbose enables debug logging.
	Verbose bool
	// Quiet suppresses everything but results and errors.
	Quiet bool
	// ShowVersion prints the version and exits.
	ShowVersion bool
}

// ParseFlags parses command line arguments into an AppConfig, applying
// environment overrides for flags not set explicitly.
//
// Parameters:
//   - progname: The program name used in usage output.
//   - args: The command line arguments, without the program name.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: A ConfigError for invalid flags or values.
func ParseFlags(progname string, args []string) (AppConfig, error) {
	cfg := AppConfig{
		Method:    DefaultMethod,
		Guess:     math.NaN(),
		Timeout:   DefaultTimeout,
		Tolerance: DefaultTolerance,
	}

	fs := flag.NewFlagSet(progname, flag.ContinueOnError)
	fs.StringVar(&cfg.InputFile, "input", "", "JSON problem file ('-' for stdin)")
	fs.StringVar(&cfg.InputFile, "i", "", "shorthand for -input")
	fs.StringVar(&cfg.Method, "method", cfg.Method, "solver method (see -method list)")
	fs.BoolVar(&cfg.All, "all", false, "run every applicable method and verify agreement")
	fs.Float64Var(&cfg.Guess, "guess", cfg.Guess, "initial vapor fraction estimate")
	fs.BoolVar(&cfg.Check, "check", false, "validate the feed and strip zero components")
	fs.IntVar(&cfg.Workers, "workers", 0, "concurrent problems in a batch (0 = auto)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall run timeout")
	fs.StringVar(&cfg.MetricsAddr, "metrics", "", "serve Prometheus metrics on this address during the run")
	fs.Float64Var(&cfg.Tolerance, "tolerance", cfg.Tolerance, "relative agreement tolerance for -all")
	fs.StringVar(&cfg.OutputFile, "output", "", "also write the result to this file")
	fs.StringVar(&cfg.OutputFile, "o", "", "shorthand for -output")
	fs.StringVar(&cfg.Completion, "completion", "", "generate a completion script (bash, zsh, fish, powershell)")
	fs.BoolVar(&cfg.Interactive, "interactive", false, "start an interactive session")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "disable colored output")
	fs.BoolVar(&cfg.Verbose, "v", false, "verbose logging")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "verbose logging")
	fs.BoolVar(&cfg.Quiet, "q", false, "suppress progress output")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "suppress progress output")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, err
		}
		return cfg, apperrors.NewConfigError("invalid arguments: %v", err)
	}
	applyEnvOverrides(&cfg, fs)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks cross-field consistency of the configuration.
func (c AppConfig) Validate() error {
	if c.Workers < 0 {
		return apperrors.NewConfigError("workers must be non-negative, got %d", c.Workers)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	if c.Tolerance <= 0 {
		return apperrors.NewConfigError("tolerance must be positive, got %g", c.Tolerance)
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("quiet and verbose are mutually exclusive")
	}
	return nil
}

// String renders the configuration for debug logging.
func (c AppConfig) String() string {
	return fmt.Sprintf("method=%s all=%t check=%t workers=%d timeout=%s tolerance=%g",
		c.Method, c.All, c.Check, c.Workers, c.Timeout, c.Tolerance)
}
