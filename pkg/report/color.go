package report

import (
	"os"

	"github.com/mattn/go-isatty"
)

// Colorize decides whether output should be coloured. "yes" and "no" force
// the answer, anything else colours only when stdout is a terminal.
func Colorize(mode string) bool {
	switch mode {
	case "yes", "always":
		return true
	case "no", "never":
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
}
