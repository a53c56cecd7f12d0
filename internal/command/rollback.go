// Where: internal/command/rollback.go
// What: rollback command adapter.
// Why: List deployments or resolve a rollback target without touching ingestion tokens.
package command

import (
	"context"
	"io"
	"strconv"

	"github.com/poruru-code/fndeploy/internal/infra/ui"
	consoleuc "github.com/poruru-code/fndeploy/internal/usecase/console"
	"github.com/poruru-code/fndeploy/internal/usecase/pipeline"
)

func runRollback(ctx context.Context, cli CLI, deps Dependencies, out io.Writer) int {
	inv, err := prepare(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}
	if _, err := consoleuc.New(ctx, inv.runtime.Console, inv.consoleRequest(cli, "rollback", nil)); err != nil {
		return exitWithError(out, err)
	}
	storage, err := inv.storage(ctx)
	if err != nil {
		return exitWithError(out, err)
	}
	result, err := pipeline.Rollback(ctx, pipeline.RollbackRequest{
		Service:   inv.service.Name,
		Stage:     inv.stage,
		Timestamp: cli.Rollback.Timestamp,
		Lister:    storage,
	})
	if err != nil {
		return exitWithError(out, err)
	}
	if result.Target != "" {
		inv.view.Success("Rollback target: " + result.Target)
		return 0
	}
	if len(result.Deployments) == 0 {
		inv.view.Warn("No deployments found")
		return 0
	}
	rows := make([]ui.KeyValue, 0, len(result.Deployments))
	for i, name := range result.Deployments {
		rows = append(rows, ui.KeyValue{Key: "#" + strconv.Itoa(i+1), Value: name})
	}
	inv.view.Block("🕘", "Deployments", rows)
	return 0
}
