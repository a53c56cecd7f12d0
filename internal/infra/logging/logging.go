// Where: internal/infra/logging/logging.go
// What: Diagnostic logger construction.
// Why: One structured logger for console decisions and soft failures.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to out at the named level (default info).
func New(out io.Writer, level string) *log.Logger {
	if out == nil {
		out = os.Stderr
	}
	logger := log.NewWithOptions(out, log.Options{Prefix: "console"})
	if parsed, err := log.ParseLevel(level); err == nil && level != "" {
		logger.SetLevel(parsed)
	}
	return logger
}
