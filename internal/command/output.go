// Where: internal/command/output.go
// What: Output helpers for command adapters.
// Why: Centralize UserInterface construction and emoji selection.
package command

import (
	"io"
	"os"

	"github.com/poruru-code/fndeploy/internal/infra/interaction"
	"github.com/poruru-code/fndeploy/internal/infra/ui"
)

func newUI(out io.Writer, emoji bool) ui.UserInterface {
	return ui.NewDeployUI(out, emoji)
}

// resolveEmoji enables emoji only on interactive terminals unless forced either way.
func resolveEmoji(out io.Writer, noEmoji bool) bool {
	if noEmoji {
		return false
	}
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	return interaction.IsTerminal(file)
}
