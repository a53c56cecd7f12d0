// Where: internal/infra/interaction/interaction.go
// What: TTY detection for unattended vs interactive runs.
// Why: Remediation messages differ between CI and a developer terminal.
package interaction

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether the file refers to a terminal device.
var IsTerminal = func(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// IsUnattended reports whether the invocation runs without a user at the keyboard:
// either CI is flagged explicitly or stdin is not a terminal.
func IsUnattended(ciFlag bool) bool {
	if ciFlag {
		return true
	}
	return !IsTerminal(os.Stdin)
}
