package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/mbeaulieu/rrcalc/internal/config"
	"github.com/mbeaulieu/rrcalc/internal/rachford"
	"github.com/mbeaulieu/rrcalc/internal/ui"
)

// PrintExecutionConfig displays the current execution configuration to the user.
// It shows the solver method, timeout, environment details, and the agreement
// tolerance used for comparisons.
//
// Parameters:
//   - cfg: The application configuration.
//   - numProblems: The number of problems loaded from the input.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, numProblems int, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Solving %s%d%s flash problem(s) with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), numProblems, ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	fmt.Fprintf(out, "Agreement tolerance: %s%g%s (relative).\n",
		ui.ColorCyan(), cfg.Tolerance, ui.ColorReset())
}

// PrintExecutionMode displays the execution mode (single method vs comparison).
//
// Parameters:
//   - methods: The solver methods that will be executed.
//   - out: The writer for standard output.
func PrintExecutionMode(methods []rachford.Method, out io.Writer) {
	var modeDesc string
	if len(methods) > 1 {
		modeDesc = "Parallel comparison of all applicable methods"
	} else {
		modeDesc = fmt.Sprintf("Single solve with the %s%s%s method",
			ui.ColorGreen(), methods[0], ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
