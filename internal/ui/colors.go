package ui

// The Color* functions return the ANSI escape code from the active theme
// for a given color role. They are functions rather than variables so that
// a theme change (for example when NO_COLOR is detected after flag parsing)
// is picked up by all callers.

// ColorRed returns the escape code for error output.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen returns the escape code for success output.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow returns the escape code for warnings.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorBlue returns the escape code for primary accents.
func ColorBlue() string { return GetCurrentTheme().Primary }

// ColorMagenta returns the escape code for informational highlights.
func ColorMagenta() string { return GetCurrentTheme().Info }

// ColorCyan returns the escape code for secondary details.
func ColorCyan() string { return GetCurrentTheme().Secondary }

// ColorBold returns the escape code for bold text.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline returns the escape code for underlined text.
func ColorUnderline() string { return GetCurrentTheme().Underline }

// ColorReset returns the escape code that clears all formatting.
func ColorReset() string { return GetCurrentTheme().Reset }
