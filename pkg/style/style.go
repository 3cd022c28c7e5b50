// Package style provides terminal color helpers for the nbflow CLI.
package style

import "os"

// ANSI color codes
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"

	Red    = "\033[0;31m"
	Green  = "\033[0;32m"
	Yellow = "\033[1;33m"
	Blue   = "\033[0;34m"
	Cyan   = "\033[0;36m"
	Gray   = "\033[90m"
)

// NoColor disables colors (for non-TTY or NBFLOW_NO_COLOR)
var NoColor = false

func init() {
	if os.Getenv("NBFLOW_NO_COLOR") != "" {
		NoColor = true
	}
	if fileInfo, err := os.Stdout.Stat(); err == nil {
		if (fileInfo.Mode() & os.ModeCharDevice) == 0 {
			NoColor = true
		}
	}
}

// C wraps text with color, respecting NoColor
func C(color, text string) string {
	if NoColor {
		return text
	}
	return color + text + Reset
}

// B makes text bold
func B(text string) string {
	if NoColor {
		return text
	}
	return Bold + text + Reset
}

// Success formats a success label prefix
func Success(label string) string {
	return C(Green, label+":") + " "
}
