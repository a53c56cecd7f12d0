// Where: internal/command/deploy.go
// What: deploy command adapter.
// Why: Route service, package and single-function deploys through the console integration.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	domain "github.com/poruru-code/fndeploy/internal/domain/console"
	"github.com/poruru-code/fndeploy/internal/infra/ui"
	consoleuc "github.com/poruru-code/fndeploy/internal/usecase/console"
	"github.com/poruru-code/fndeploy/internal/usecase/pipeline"
)

func runDeploy(ctx context.Context, cli CLI, deps Dependencies, out io.Writer) int {
	switch strings.TrimSpace(cli.Deploy.Target) {
	case "":
	case "function":
		return runDeployFunction(ctx, cli, deps, out)
	default:
		return exitWithError(out, fmt.Errorf("unknown deploy target %q", cli.Deploy.Target))
	}
	if strings.TrimSpace(cli.Deploy.Package) != "" {
		return runDeployPackage(ctx, cli, deps, out)
	}

	inv, err := prepare(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}
	orch, err := consoleuc.New(ctx, inv.runtime.Console, inv.consoleRequest(cli, "deploy", nil))
	if err != nil {
		return exitWithError(out, err)
	}
	dir := inv.packageDir("")
	packaged, err := inv.packageService(ctx, orch, dir, deps)
	if err != nil {
		return exitWithError(out, err)
	}
	if err := inv.deployPackage(ctx, orch, dir, packaged.State); err != nil {
		return exitWithError(out, err)
	}
	inv.printConsoleSummary(orch, packaged.LayerPath)
	inv.view.Success("Deploy complete")
	return 0
}

func runDeployPackage(ctx context.Context, cli CLI, deps Dependencies, out io.Writer) int {
	dir := cli.Deploy.Package
	state, err := pipeline.ReadState(dir)
	if err != nil {
		return exitWithError(out, err)
	}
	inv, err := prepare(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}
	if cli.Stage == "" && state.Stage != "" {
		inv.stage = state.Stage
	}
	req := inv.consoleRequest(cli, "deploy", map[string]string{domain.PackageOption: dir})
	req.Persisted = state.Console
	orch, err := consoleuc.New(ctx, inv.runtime.Console, req)
	if err != nil {
		return exitWithError(out, err)
	}
	if err := inv.deployPackage(ctx, orch, dir, state); err != nil {
		return exitWithError(out, err)
	}
	inv.printConsoleSummary(orch, "")
	inv.view.Success("Deploy complete")
	return 0
}

func (inv invocation) deployPackage(
	ctx context.Context,
	orch *consoleuc.Orchestrator,
	dir string,
	state pipeline.State,
) error {
	storage, err := inv.storage(ctx)
	if err != nil {
		return fmt.Errorf("provider.deploymentBucket: %w", err)
	}
	result, err := pipeline.Deploy(ctx, pipeline.DeployRequest{
		PackageDir: dir,
		State:      state,
		Console:    orch,
		Uploader:   storage,
	})
	if err != nil {
		return err
	}
	inv.view.Block("🚀", "Deploy", []ui.KeyValue{
		{Key: "Service", Value: inv.service.Name},
		{Key: "Stage", Value: inv.stage},
		{Key: "Artifacts", Value: result.ArtifactDirectoryName},
		{Key: "Uploaded", Value: len(result.Keys)},
	})
	return nil
}

func runDeployFunction(ctx context.Context, cli CLI, deps Dependencies, out io.Writer) int {
	name := strings.TrimSpace(cli.Deploy.Function)
	if name == "" {
		return exitWithError(out, errFunctionRequired)
	}
	inv, err := prepare(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}
	orch, err := consoleuc.New(ctx, inv.runtime.Console, inv.consoleRequest(cli, "deploy function", nil))
	if err != nil {
		return exitWithError(out, err)
	}

	artifactDir := pipeline.ArtifactDirectoryName(inv.service.Name, inv.stage, deps.Now())
	if state, err := pipeline.ReadState(inv.packageDir("")); err == nil {
		artifactDir = state.ArtifactDirectoryName
	} else if !errors.Is(err, pipeline.ErrStateNotFound) {
		inv.view.Warn(fmt.Sprintf("Ignoring package state: %v", err))
	}

	result, err := pipeline.DeployFunction(ctx, pipeline.FunctionDeployRequest{
		Compile: pipeline.CompileInput{
			Service:     inv.service,
			Stage:       inv.stage,
			ArtifactDir: artifactDir,
			Console:     orch,
		},
		Function: name,
	})
	if err != nil {
		return exitWithError(out, err)
	}
	inv.view.Block("🔁", "Deploy function", []ui.KeyValue{
		{Key: "Function", Value: result.Resource.Properties.FunctionName},
		{Key: "Resource", Value: result.LogicalID},
		{Key: "Instrumented", Value: result.Resource.Properties.Environment != nil},
	})
	inv.printConsoleSummary(orch, "")
	inv.view.Success("Function deploy complete")
	return 0
}
