package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// All shell completion functions generate from this registry, so adding
// a new flag only requires appending to flagRegistry.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "help")
	Short     string   // short flag without "-" (e.g., "h")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "number", "duration")
	IsFile    bool     // true if the flag takes a file path
	IsMethod  bool     // true if values come from the solver method list (dynamic)
}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Help: "Show version information"},
	{Long: "input", Short: "i", Help: "JSON problem file ('-' for stdin)", IsFile: true, ValueName: "file"},
	{Long: "method", Help: "Solver method to use", IsMethod: true, ValueName: "method"},
	{Long: "all", Help: "Run every applicable method and verify agreement"},
	{Long: "guess", Help: "Initial vapor fraction estimate", ValueName: "fraction"},
	{Long: "check", Help: "Validate the feed and strip zero components"},
	{Long: "workers", Help: "Concurrent problems in a batch", Values: []string{"1", "2", "4", "8", "16", "32"}, ValueName: "count"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"30s", "1m", "5m", "10m", "1h"}, ValueName: "duration"},
	{Long: "metrics", Help: "Serve Prometheus metrics on this address", ValueName: "address"},
	{Long: "tolerance", Help: "Relative agreement tolerance", Values: []string{"1e-6", "1e-8", "1e-10", "1e-12"}, ValueName: "tolerance"},
	{Long: "output", Short: "o", Help: "Also write the result to this file", IsFile: true, ValueName: "file"},
	{Long: "interactive", Help: "Start an interactive session"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "quiet", Short: "q", Help: "Quiet mode for scripts"},
	{Long: "verbose", Short: "v", Help: "Verbose output with phase compositions"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish", "powershell"}, ValueName: "shell"},
}

// GenerateCompletion generates a shell completion script for the specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish", "powershell").
//   - methods: List of available solver method names.
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, methods []string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, methods)
	case "zsh":
		return generateZshCompletion(out, methods)
	case "fish":
		return generateFishCompletion(out, methods)
	case "powershell", "ps":
		return generatePowerShellCompletion(out, methods)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
}

// formatMethodList joins method names with space separators.
func formatMethodList(methods []string) string {
	return strings.Join(methods, " ")
}

// generateBashCompletion generates a Bash completion script.
func generateBashCompletion(out io.Writer, methods []string) error {
	// Build opts string from registry
	var opts []string
	for _, f := range flagRegistry {
		if f.Long != "" {
			opts = append(opts, "--"+f.Long)
		}
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
	}

	// Build case entries from registry: method flags, static-value flags,
	// then file flags.
	type caseEntry struct {
		patterns []string
		body     string
	}
	var orderedCases []caseEntry

	for _, f := range flagRegistry {
		if f.IsMethod {
			orderedCases = append(orderedCases, caseEntry{
				patterns: []string{"--" + f.Long},
				body:     `COMPREPLY=( $(compgen -W "${methods}" -- "${cur}") )`,
			})
		}
	}

	for _, f := range flagRegistry {
		if !f.IsMethod && !f.IsFile && len(f.Values) > 0 {
			orderedCases = append(orderedCases, caseEntry{
				patterns: []string{"--" + f.Long},
				body:     fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " ")),
			})
		}
	}

	var filePatterns []string
	for _, f := range flagRegistry {
		if f.IsFile {
			if f.Long != "" {
				filePatterns = append(filePatterns, "--"+f.Long)
			}
			if f.Short != "" {
				filePatterns = append(filePatterns, "-"+f.Short)
			}
		}
	}
	if len(filePatterns) > 0 {
		orderedCases = append(orderedCases, caseEntry{
			patterns: filePatterns,
			body: `# File/directory completion
            COMPREPLY=( $(compgen -f -- "${cur}") )`,
		})
	}

	// Format case entries
	var caseBody strings.Builder
	for _, c := range orderedCases {
		caseBody.WriteString("        ")
		caseBody.WriteString(strings.Join(c.patterns, "|"))
		caseBody.WriteString(")\n")
		caseBody.WriteString("            ")
		caseBody.WriteString(c.body)
		caseBody.WriteString("\n            return 0\n            ;;\n")
	}

	methodList := formatMethodList(methods)

	script := fmt.Sprintf(`# Bash completion script for rrcalc
# Add this to your ~/.bashrc or ~/.bash_completion

_rrcalc_completions() {
    local cur prev opts methods
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Main options
    opts="%s"

    # Available solver methods
    methods="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _rrcalc_completions rrcalc
`, strings.Join(opts, " "), methodList, caseBody.String())

	_, err := fmt.Fprint(out, script)
	if err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

// generateZshCompletion generates a Zsh completion script.
func generateZshCompletion(out io.Writer, methods []string) error {
	// Build _arguments entries from registry
	var args []string
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}

	methodList := formatMethodList(methods)

	script := fmt.Sprintf(`#compdef rrcalc

# Zsh completion script for rrcalc
# Add this to your ~/.zshrc or place in $fpath

_rrcalc() {
    local -a methods
    methods=(%s)

    _arguments -s \
%s
}

_rrcalc "$@"
`, methodList, strings.Join(args, " \\\n"))

	_, err := fmt.Fprint(out, script)
	if err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	// Build the value suffix
	valueSuffix := ""
	if f.IsFile {
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	} else if f.IsMethod {
		valueSuffix = fmt.Sprintf(":%s:($methods)", f.ValueName)
	} else if len(f.Values) > 0 {
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	} else if f.ValueName != "" {
		// Value-taking flag with no suggestions (e.g., -guess)
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Long != "" && f.Short != "" {
		// Has both short and long form
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	if f.Long != "" {
		return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
	}
	// Short only
	return fmt.Sprintf("        '-%s[%s]%s'", f.Short, f.Help, valueSuffix)
}

// generateFishCompletion generates a Fish completion script.
func generateFishCompletion(out io.Writer, methods []string) error {
	var lines []string

	lines = append(lines, "# Fish completion script for rrcalc")
	lines = append(lines, "# Add this to ~/.config/fish/completions/rrcalc.fish")
	lines = append(lines, "")
	lines = append(lines, "# Disable file completion by default")
	lines = append(lines, "complete -c rrcalc -f")
	lines = append(lines, "")

	// Group flags into sections for comments.
	type section struct {
		comment string
		flags   []FlagCompletion
	}

	sections := []section{
		{comment: "# Help and version", flags: filterFlags("help", "version")},
		{comment: "# Solver options", flags: filterFlags("input", "method", "all", "guess", "check", "workers", "timeout", "tolerance")},
		{comment: "# Observability", flags: filterFlags("metrics")},
		{comment: "# Output options", flags: filterFlags("output", "interactive", "no-color", "quiet", "verbose")},
		{comment: "# Completion", flags: filterFlags("completion")},
	}

	methodList := formatMethodList(methods)

	for _, sec := range sections {
		lines = append(lines, sec.comment)
		for _, f := range sec.flags {
			lines = append(lines, fishCompleteLine(f, methodList))
		}
		lines = append(lines, "")
	}

	script := strings.Join(lines, "\n")

	_, err := fmt.Fprint(out, script)
	if err != nil {
		return fmt.Errorf("completion fish generation failed: %w", err)
	}
	return nil
}

// filterFlags returns flags from the registry matching the given long names.
func filterFlags(longs ...string) []FlagCompletion {
	var result []FlagCompletion
	for _, long := range longs {
		for _, f := range flagRegistry {
			if f.Long == long {
				result = append(result, f)
				break
			}
		}
	}
	return result
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion, methodList string) string {
	var parts []string
	parts = append(parts, "complete -c rrcalc")

	if f.Short != "" {
		parts = append(parts, fmt.Sprintf("-s %s", f.Short))
	}
	if f.Long != "" {
		parts = append(parts, fmt.Sprintf("-l %s", f.Long))
	}

	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))

	if f.IsFile {
		parts = append(parts, "-rF")
	} else if f.IsMethod {
		parts = append(parts, fmt.Sprintf("-xa '%s'", methodList))
	} else if len(f.Values) > 0 {
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	} else if f.ValueName != "" {
		// Takes a value but no suggestions (e.g., -guess)
		parts = append(parts, "-x")
	}

	return strings.Join(parts, " ")
}

// generatePowerShellCompletion generates a PowerShell completion script.
func generatePowerShellCompletion(out io.Writer, methods []string) error {
	// Build $options entries from registry
	var optionEntries []string
	for _, f := range flagRegistry {
		if f.Short != "" {
			optionEntries = append(optionEntries, fmt.Sprintf(
				"        @{Name = '-%s'; Description = '%s' }", f.Short, f.Help))
		}
		if f.Long != "" {
			optionEntries = append(optionEntries, fmt.Sprintf(
				"        @{Name = '--%s'; Description = '%s' }", f.Long, f.Help))
		}
	}

	// Build context-aware switch entries for the method flag and flags with
	// static value suggestions.
	var switchEntries []string

	for _, f := range flagRegistry {
		if f.IsMethod {
			switchEntries = append(switchEntries, fmt.Sprintf(`        '--%s' {
            $rrcalcMethods | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }`, f.Long))
		}
	}

	for _, f := range flagRegistry {
		if !f.IsMethod && !f.IsFile && len(f.Values) > 0 {
			var quotedVals []string
			for _, v := range f.Values {
				quotedVals = append(quotedVals, fmt.Sprintf("'%s'", v))
			}
			switchEntries = append(switchEntries, fmt.Sprintf(`        '--%s' {
            @(%s) | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }`, f.Long, strings.Join(quotedVals, ", ")))
		}
	}

	// Format method list for PowerShell
	psMethodList := ""
	for i, m := range methods {
		if i > 0 {
			psMethodList += ", "
		}
		psMethodList += fmt.Sprintf("'%s'", m)
	}

	script := fmt.Sprintf(`# PowerShell completion script for rrcalc
# Add this to your $PROFILE

$rrcalcMethods = @(%s)

Register-ArgumentCompleter -CommandName 'rrcalc' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
%s
    )

    $elements = $commandAst.CommandElements
    $lastElement = if ($elements.Count -gt 1) { $elements[-1].ToString() } else { '' }
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    # Context-aware completions
    switch ($prevElement) {
%s
    }

    # Default: show options
    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`, psMethodList, strings.Join(optionEntries, "\n"), strings.Join(switchEntries, "\n"))

	_, err := fmt.Fprint(out, script)
	return err
}

// MethodNames returns the solver method names offered in completion,
// including the "all" pseudo-method.
func MethodNames() []string {
	return []string{"auto", "analytical", "secant", "newton", "halley",
		"ln2", "leibovici-neoschil", "lja", "polynomial", "all"}
}
