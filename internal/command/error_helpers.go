// Where: internal/command/error_helpers.go
// What: Shared CLI error output.
// Why: Keep failure output and exit codes consistent across commands.
package command

import (
	"errors"
	"fmt"
	"io"

	domain "github.com/poruru-code/fndeploy/internal/domain/console"
)

// exitWithError prints an error message to the output writer and returns
// exit code 1 for CLI error handling.
func exitWithError(out io.Writer, err error) int {
	var consoleErr *domain.Error
	if errors.As(err, &consoleErr) {
		newUI(out, false).Info(fmt.Sprintf("✗ [%s] %v", consoleErr.Code(), err))
		return 1
	}
	newUI(out, false).Info(fmt.Sprintf("✗ %v", err))
	return 1
}

var (
	errRuntimeNotConfigured = errors.New("runtime is not configured")
	errStorageNotConfigured = errors.New("artifact storage is not configured")
	errFunctionRequired     = errors.New("deploy function requires -f/--function")
)
