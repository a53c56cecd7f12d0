// Where: internal/usecase/pipeline/package.go
// What: Package workflow.
// Why: Produce the template, layer archive and state file while the token is created in the background.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/poruru-code/fndeploy/internal/config"
	"github.com/poruru-code/fndeploy/internal/meta"
)

var errConsoleNotConfigured = errors.New("console integration is not configured")

// PackageRequest captures the inputs of one package run.
type PackageRequest struct {
	Service   config.Service
	Stage     string
	OutputDir string
	Console   ConsoleIntegration
}

// PackageResult describes the written package.
type PackageResult struct {
	OutputDir    string
	TemplatePath string
	StatePath    string
	LayerPath    string
	State        State
}

// Packager writes deployable packages.
type Packager struct {
	Now func() time.Time
}

// ArtifactDirectoryName returns the key prefix of one deployment's artifacts.
func ArtifactDirectoryName(service, stage string, now time.Time) string {
	now = now.UTC()
	stamp := fmt.Sprintf("%d-%s", now.UnixMilli(), now.Format("2006-01-02T15:04:05.000Z"))
	return path.Join(meta.ArtifactRootKey, service, stage, stamp)
}

// DeploymentPrefix returns the key prefix under which all deployments of a stage live.
func DeploymentPrefix(service, stage string) string {
	return path.Join(meta.ArtifactRootKey, service, stage)
}

// Package compiles the template, copies the layer archive and resolves the console
// state concurrently, then writes the state file once all three are done.
func (p Packager) Package(ctx context.Context, req PackageRequest) (PackageResult, error) {
	if req.Console == nil {
		return PackageResult{}, errConsoleNotConfigured
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return PackageResult{}, fmt.Errorf("create package dir: %w", err)
	}

	result := PackageResult{OutputDir: req.OutputDir}
	state := State{
		Service:               req.Service.Name,
		Stage:                 req.Stage,
		Region:                req.Service.Provider.Region,
		ArtifactDirectoryName: ArtifactDirectoryName(req.Service.Name, req.Stage, now()),
	}
	for _, fn := range req.Service.Functions {
		state.Functions = append(state.Functions, fn.Name)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tmpl, err := Compile(gctx, CompileInput{
			Service:     req.Service,
			Stage:       req.Stage,
			ArtifactDir: state.ArtifactDirectoryName,
			Console:     req.Console,
		})
		if err != nil {
			return err
		}
		result.TemplatePath, err = WriteTemplate(req.OutputDir, tmpl)
		return err
	})
	g.Go(func() error {
		var err error
		result.LayerPath, err = req.Console.PackageLayer(req.OutputDir)
		return err
	})
	g.Go(func() error {
		persisted, err := req.Console.PersistedState(gctx)
		if err != nil {
			return err
		}
		state.Console = &persisted
		return nil
	})
	if err := g.Wait(); err != nil {
		return PackageResult{}, err
	}

	statePath, err := WriteState(req.OutputDir, state)
	if err != nil {
		return PackageResult{}, err
	}
	result.StatePath = statePath
	result.State = state
	return result, nil
}
