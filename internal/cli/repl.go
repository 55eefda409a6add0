package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mbeaulieu/rrcalc/internal/rachford"
	"github.com/mbeaulieu/rrcalc/internal/ui"
)

// REPLConfig holds configuration for the interactive session.
type REPLConfig struct {
	// DefaultMethod is the default solver method.
	DefaultMethod string
	// Timeout is the maximum duration for each solve.
	Timeout time.Duration
	// Tolerance is the relative agreement tolerance for compare.
	Tolerance float64
	// Check validates the feed before each solve.
	Check bool
}

// REPL represents an interactive flash solver session.
type REPL struct {
	config        REPLConfig
	currentMethod string
	in            io.Reader
	out           io.Writer
}

// NewREPL creates a new REPL instance.
//
// Parameters:
//   - config: REPL configuration.
//
// Returns:
//   - *REPL: A new REPL instance.
func NewREPL(config REPLConfig) *REPL {
	currentMethod := config.DefaultMethod
	if currentMethod == "" || currentMethod == "all" {
		currentMethod = "auto"
	}

	return &REPL{
		config:        config,
		currentMethod: currentMethod,
		in:            os.Stdin,
		out:           os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start begins the interactive session.
// It continuously reads user input and processes commands until
// the user exits or EOF is reached.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)

	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"rr> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !r.processCommand(input) {
			return // Exit command received
		}
	}
}

// printBanner displays the welcome banner.
func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %sRachford-Rice Flash Solver - Interactive Mode%s        %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

// printHelp displays available commands.
func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %ssolve <zs> <ks>%s    - Solve a flash (comma-separated mole fractions and K values)\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %smethod <name>%s      - Change solver method (%s)\n", ui.ColorYellow(), ui.ColorReset(), r.methodList())
	fmt.Fprintf(r.out, "  %scompare <zs> <ks>%s  - Compare all applicable methods\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %slist%s               - List available methods\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %scheck%s              - Toggle feed validation\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s             - Display current configuration\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s               - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s       - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

// methodList returns a comma-separated list of selectable methods.
func (r *REPL) methodList() string {
	names := MethodNames()
	return strings.Join(names[:len(names)-1], ", ")
}

// processCommand parses and executes a user command.
// Returns false if the session should exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "solve", "s":
		r.cmdSolve(args)
	case "method", "m":
		r.cmdMethod(args)
	case "compare", "cmp":
		r.cmdCompare(args)
	case "list", "ls":
		r.cmdList()
	case "check":
		r.cmdCheck()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
	}

	return true
}

// parseVector parses a comma-separated list of floats.
func parseVector(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	vec := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		vec = append(vec, v)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("empty vector")
	}
	return vec, nil
}

// parseFlashArgs parses the zs and ks vectors from command arguments.
func (r *REPL) parseFlashArgs(args []string) ([]float64, []float64, bool) {
	if len(args) < 2 {
		fmt.Fprintf(r.out, "%sUsage: solve <zs> <ks>  (e.g. solve 0.5,0.3,0.2 1.685,0.742,0.532)%s\n",
			ui.ColorRed(), ui.ColorReset())
		return nil, nil, false
	}

	zs, err := parseVector(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid zs: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return nil, nil, false
	}
	ks, err := parseVector(args[1])
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid ks: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return nil, nil, false
	}
	if len(zs) != len(ks) {
		fmt.Fprintf(r.out, "%szs has %d components but ks has %d%s\n",
			ui.ColorRed(), len(zs), len(ks), ui.ColorReset())
		return nil, nil, false
	}
	return zs, ks, true
}

// cmdSolve handles the "solve" command.
func (r *REPL) cmdSolve(args []string) {
	zs, ks, ok := r.parseFlashArgs(args)
	if !ok {
		return
	}

	method, err := rachford.ParseMethod(r.currentMethod)
	if err != nil {
		fmt.Fprintf(r.out, "%sUnknown method: %s%s\n", ui.ColorRed(), r.currentMethod, ui.ColorReset())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	fmt.Fprintf(r.out, "Solving %s%d%s-component flash with %s%s%s...\n",
		ui.ColorMagenta(), len(zs), ui.ColorReset(),
		ui.ColorCyan(), method, ui.ColorReset())

	opts := rachford.Options{
		Method: method,
		Guess:  math.NaN(),
		Check:  r.config.Check,
	}

	start := time.Now()
	vf, xs, ys, err := solveWithContext(ctx, zs, ks, &opts)
	duration := time.Since(start)

	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}

	fmt.Fprintf(r.out, "\n%sResult:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Time: %s%s%s\n", ui.ColorGreen(), FormatExecutionDuration(duration), ui.ColorReset())
	fmt.Fprintf(r.out, "  VF = %s%.15g%s\n", ui.ColorGreen(), vf, ui.ColorReset())
	fmt.Fprintf(r.out, "  LF = %s%.15g%s\n", ui.ColorGreen(), 1-vf, ui.ColorReset())
	fmt.Fprintf(r.out, "  xs = %s%s%s\n", ui.ColorCyan(), formatComposition(xs), ui.ColorReset())
	fmt.Fprintf(r.out, "  ys = %s%s%s\n", ui.ColorCyan(), formatComposition(ys), ui.ColorReset())
	fmt.Fprintln(r.out)
}

// solveWithContext runs Solve, honoring context cancellation. The solvers
// are fast enough that the solve itself is not interruptible; the context
// only gates starting the work.
func solveWithContext(ctx context.Context, zs, ks []float64, opts *rachford.Options) (float64, []float64, []float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, nil, err
	}
	return rachford.Solve(zs, ks, opts)
}

// cmdMethod handles the "method" command.
func (r *REPL) cmdMethod(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: method <name>%s\n", ui.ColorRed(), ui.ColorReset())
		fmt.Fprintf(r.out, "Available methods: %s\n", r.methodList())
		return
	}

	name := strings.ToLower(args[0])
	if _, err := rachford.ParseMethod(name); err != nil {
		fmt.Fprintf(r.out, "%sUnknown method: %s%s\n", ui.ColorRed(), name, ui.ColorReset())
		fmt.Fprintf(r.out, "Available methods: %s\n", r.methodList())
		return
	}

	r.currentMethod = name
	fmt.Fprintf(r.out, "Method changed to: %s%s%s\n", ui.ColorGreen(), name, ui.ColorReset())
}

// cmdCompare handles the "compare" command.
func (r *REPL) cmdCompare(args []string) {
	zs, ks, ok := r.parseFlashArgs(args)
	if !ok {
		return
	}

	fmt.Fprintf(r.out, "\n%sComparison for %d components:%s\n", ui.ColorBold(), len(zs), ui.ColorReset())
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n", ui.ColorCyan(), ui.ColorReset())

	var firstVF float64
	haveFirst := false

	for _, method := range rachford.Methods(len(zs)) {
		opts := rachford.Options{Method: method, Guess: math.NaN(), Check: r.config.Check}

		start := time.Now()
		vf, _, _, err := rachford.Solve(zs, ks, &opts)
		duration := time.Since(start)

		name := method.String()
		if err != nil {
			fmt.Fprintf(r.out, "  %s%-20s%s: %sError - %v%s\n",
				ui.ColorYellow(), name, ui.ColorReset(),
				ui.ColorRed(), err, ui.ColorReset())
			continue
		}

		if !haveFirst {
			firstVF = vf
			haveFirst = true
		}

		// Check consistency
		status := ui.ColorGreen() + "✓" + ui.ColorReset()
		if math.Abs(vf-firstVF) > r.config.Tolerance*math.Max(math.Abs(firstVF), 1) {
			status = ui.ColorRed() + "✗ INCONSISTENT" + ui.ColorReset()
		}

		fmt.Fprintf(r.out, "  %s%-20s%s: VF = %s%.12f%s  %s%8s%s %s\n",
			ui.ColorYellow(), name, ui.ColorReset(),
			ui.ColorGreen(), vf, ui.ColorReset(),
			ui.ColorCyan(), FormatExecutionDuration(duration), ui.ColorReset(),
			status)
	}

	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

// cmdList handles the "list" command.
func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable methods:%s\n", ui.ColorBold(), ui.ColorReset())
	names := MethodNames()
	for _, name := range names[:len(names)-1] {
		marker := "  "
		if name == r.currentMethod {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%s%s\n", marker, ui.ColorYellow(), name, ui.ColorReset())
	}
	fmt.Fprintln(r.out)
}

// cmdCheck toggles feed validation.
func (r *REPL) cmdCheck() {
	r.config.Check = !r.config.Check
	status := "disabled"
	if r.config.Check {
		status = "enabled"
	}
	fmt.Fprintf(r.out, "Feed validation: %s%s%s\n", ui.ColorGreen(), status, ui.ColorReset())
}

// cmdStatus displays current session configuration.
func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Method:     %s%s%s\n", ui.ColorCyan(), r.currentMethod, ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:    %s%s%s\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
	fmt.Fprintf(r.out, "  Tolerance:  %s%g%s\n", ui.ColorCyan(), r.config.Tolerance, ui.ColorReset())
	checkStatus := "no"
	if r.config.Check {
		checkStatus = "yes"
	}
	fmt.Fprintf(r.out, "  Check feed: %s%s%s\n", ui.ColorCyan(), checkStatus, ui.ColorReset())
	fmt.Fprintln(r.out)
}
