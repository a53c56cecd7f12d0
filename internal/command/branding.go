// Where: internal/command/branding.go
// What: CLI naming helpers.
// Why: Keep user-facing command names consistent when the binary is wrapped or renamed.
package command

import (
	"os"
	"strings"

	"github.com/poruru-code/fndeploy/internal/constants"
	"github.com/poruru-code/fndeploy/internal/meta"
)

func cliName() string {
	name := strings.TrimSpace(os.Getenv(constants.EnvCLICmd))
	if name == "" {
		name = meta.AppName
	}
	return name
}
