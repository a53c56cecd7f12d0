// Where: internal/command/package.go
// What: package command adapter.
// Why: Build a deployable package with the console integration applied.
package command

import (
	"context"
	"io"

	"github.com/poruru-code/fndeploy/internal/infra/ui"
	consoleuc "github.com/poruru-code/fndeploy/internal/usecase/console"
	"github.com/poruru-code/fndeploy/internal/usecase/pipeline"
)

func runPackage(ctx context.Context, cli CLI, deps Dependencies, out io.Writer) int {
	inv, err := prepare(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}
	orch, err := consoleuc.New(ctx, inv.runtime.Console, inv.consoleRequest(cli, "package", nil))
	if err != nil {
		return exitWithError(out, err)
	}
	result, err := inv.packageService(ctx, orch, inv.packageDir(cli.Package.Output), deps)
	if err != nil {
		return exitWithError(out, err)
	}
	inv.view.Block("📦", "Package", packageRows(inv, result))
	inv.printConsoleSummary(orch, result.LayerPath)
	inv.view.Success("Package complete")
	return 0
}

func (inv invocation) packageService(
	ctx context.Context,
	orch *consoleuc.Orchestrator,
	dir string,
	deps Dependencies,
) (pipeline.PackageResult, error) {
	packager := pipeline.Packager{Now: deps.Now}
	return packager.Package(ctx, pipeline.PackageRequest{
		Service:   inv.service,
		Stage:     inv.stage,
		OutputDir: dir,
		Console:   orch,
	})
}

func packageRows(inv invocation, result pipeline.PackageResult) []ui.KeyValue {
	return []ui.KeyValue{
		{Key: "Service", Value: inv.service.Name},
		{Key: "Stage", Value: inv.stage},
		{Key: "Output", Value: result.OutputDir},
		{Key: "Artifacts", Value: result.State.ArtifactDirectoryName},
	}
}
