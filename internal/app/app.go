// Package app wires configuration, presentation, and orchestration into the
// rrcalc application lifecycle.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/mbeaulieu/rrcalc/internal/cli"
	"github.com/mbeaulieu/rrcalc/internal/config"
	apperrors "github.com/mbeaulieu/rrcalc/internal/errors"
	"github.com/mbeaulieu/rrcalc/internal/logging"
	"github.com/mbeaulieu/rrcalc/internal/ui"
)

// Application represents the rrcalc application instance.
type Application struct {
	Config    config.AppConfig
	Logger    logging.Logger
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithLogger sets a custom logger for the application.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New creates a new Application instance by parsing command-line arguments.
//
// Parameters:
//   - args: The full argument list, including the program name.
//   - errWriter: The writer for error output.
//   - opts: Optional construction overrides.
//
// Returns:
//   - *Application: The configured application.
//   - error: A ConfigError for bad arguments, or flag.ErrHelp.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "rrcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseFlags(programName, cmdArgs)
	if err != nil {
		return nil, err
	}
	cfg = config.ApplyAdaptiveWorkers(cfg)

	app.Config = cfg
	if app.Logger == nil {
		app.Logger = logging.NewDefaultLogger()
	}
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	a.applyLogLevel()
	ui.InitTheme(a.Config.NoColor)

	if a.Config.Interactive {
		return a.runInteractive()
	}

	return a.runSolve(ctx, out)
}

// applyLogLevel maps the verbosity flags onto the global zerolog level.
func (a *Application) applyLogLevel() {
	switch {
	case a.Config.Verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case a.Config.Quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, cli.MethodNames()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runInteractive starts the read-eval-print loop.
func (a *Application) runInteractive() int {
	repl := cli.NewREPL(cli.REPLConfig{
		DefaultMethod: a.Config.Method,
		Timeout:       a.Config.Timeout,
		Tolerance:     a.Config.Tolerance,
		Check:         a.Config.Check,
	})
	repl.Start()
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
