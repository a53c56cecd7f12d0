// Where: internal/command/runtime.go
// What: Per-invocation runtime collaborators and shared command setup.
// Why: Commands share settings, service loading and console request construction.
package command

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/poruru-code/fndeploy/internal/config"
	domain "github.com/poruru-code/fndeploy/internal/domain/console"
	"github.com/poruru-code/fndeploy/internal/infra/interaction"
	"github.com/poruru-code/fndeploy/internal/infra/platform"
	"github.com/poruru-code/fndeploy/internal/infra/ui"
	"github.com/poruru-code/fndeploy/internal/meta"
	consoleuc "github.com/poruru-code/fndeploy/internal/usecase/console"
	"github.com/poruru-code/fndeploy/internal/usecase/pipeline"
)

// Storage uploads package artifacts and lists deployments.
// *cloud.ArtifactStore implements it.
type Storage interface {
	pipeline.ArtifactUploader
	pipeline.DeploymentLister
}

// StorageFactory binds storage to a deployment bucket.
type StorageFactory func(ctx context.Context, bucket string) (Storage, error)

// Runtime bundles the collaborators built from settings.
type Runtime struct {
	Console consoleuc.Dependencies
	Storage StorageFactory
}

// RuntimeFactory builds the Runtime once settings are known.
type RuntimeFactory func(settings config.Settings, errOut io.Writer) (Runtime, error)

type invocation struct {
	settings   config.Settings
	runtime    Runtime
	service    config.Service
	stage      string
	projectDir string
	view       ui.UserInterface
}

func prepare(cli CLI, deps Dependencies, out io.Writer) (invocation, error) {
	settings := deps.LoadSettings()
	if deps.NewRuntime == nil {
		return invocation{}, errRuntimeNotConfigured
	}
	runtime, err := deps.NewRuntime(settings, deps.ErrOut)
	if err != nil {
		return invocation{}, err
	}
	runtime.Console.Unattended = interaction.IsUnattended(settings.CI)
	if runtime.Console.Now == nil {
		runtime.Console.Now = deps.Now
	}

	servicePath := cli.Config
	if servicePath == "" {
		servicePath = filepath.Join(deps.ProjectDir, meta.ServiceFile)
	}
	service, err := config.LoadService(servicePath)
	if err != nil {
		return invocation{}, err
	}
	return invocation{
		settings:   settings,
		runtime:    runtime,
		service:    service,
		stage:      platform.ResolveStage(cli.Stage, service.Provider.Stage),
		projectDir: deps.ProjectDir,
		view:       newUI(out, resolveEmoji(out, cli.NoEmoji)),
	}, nil
}

// consoleRequest describes command to the console orchestrator.
func (inv invocation) consoleRequest(cli CLI, command string, options map[string]string) consoleuc.Request {
	opts := map[string]string{domain.OrgOption: cli.Org}
	for key, value := range options {
		opts[key] = value
	}
	return consoleuc.Request{
		Integration: domain.IntegrationConfig{Enabled: inv.service.Console, Org: inv.service.Org},
		Deployment: domain.DeploymentContext{
			Command:   command,
			Options:   opts,
			Provider:  inv.service.Provider.Name,
			Functions: pipeline.Descriptors(inv.service.Functions),
		},
		Service: inv.service.Name,
		Stage:   inv.stage,
	}
}

func (inv invocation) packageDir(output string) string {
	if strings.TrimSpace(output) != "" {
		return output
	}
	return filepath.Join(inv.projectDir, meta.PackageDir)
}

func (inv invocation) storage(ctx context.Context) (Storage, error) {
	if inv.runtime.Storage == nil {
		return nil, errStorageNotConfigured
	}
	return inv.runtime.Storage(ctx, inv.service.Provider.DeploymentBucket)
}

// printConsoleSummary shows the integration state after package or deploy.
func (inv invocation) printConsoleSummary(orch *consoleuc.Orchestrator, layerPath string) {
	if !orch.Enabled() {
		return
	}
	var instrumented []string
	for _, fn := range pipeline.Descriptors(inv.service.Functions) {
		if fn.Supported() {
			instrumented = append(instrumented, fn.ID)
		}
	}
	layerFile := ""
	if layerPath != "" {
		layerFile = filepath.Base(layerPath)
	}
	body, err := ui.RenderConsoleSummary(ui.ConsoleSummary{
		Org:          orch.Org(),
		Service:      orch.ServiceID(),
		IngestionURL: orch.IngestionURL(),
		Token:        orch.Token(),
		LayerFile:    layerFile,
		Functions:    instrumented,
	})
	if err != nil {
		inv.view.Warn(err.Error())
		return
	}
	inv.view.Text("📡", "Console", body)
}
