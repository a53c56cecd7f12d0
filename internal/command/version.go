// Where: internal/command/version.go
// What: version command adapter.
// Why: Print build information in the same UI as the other commands.
package command

import (
	"io"

	"github.com/poruru-code/fndeploy/internal/version"
)

// runVersion prints the version information of the CLI.
func runVersion(out io.Writer) int {
	newUI(out, false).Info(cliName() + " " + version.GetVersion())
	return 0
}
