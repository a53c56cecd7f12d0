// Where: internal/usecase/pipeline/deploy.go
// What: Deploy workflow for a written package.
// Why: Upload artifacts, then let the console integration activate or retire tokens.
package pipeline

import (
	"context"
	"errors"
	"fmt"
)

var errUploaderNotConfigured = errors.New("artifact uploader is not configured")

// DeployRequest captures the inputs of one deploy run.
type DeployRequest struct {
	PackageDir string
	State      State
	Console    ConsoleIntegration
	Uploader   ArtifactUploader
}

// DeployResult describes what was uploaded.
type DeployResult struct {
	ArtifactDirectoryName string
	Keys                  []string
}

// Deploy uploads the package and finalizes the console integration. The stack update
// itself is owned by the provider tooling and considered complete after upload.
func Deploy(ctx context.Context, req DeployRequest) (DeployResult, error) {
	if req.Uploader == nil {
		return DeployResult{}, errUploaderNotConfigured
	}
	if req.Console == nil {
		return DeployResult{}, errConsoleNotConfigured
	}
	keys, err := req.Uploader.UploadDir(ctx, req.PackageDir, req.State.ArtifactDirectoryName)
	if err != nil {
		return DeployResult{}, fmt.Errorf("upload package: %w", err)
	}
	if err := req.Console.Finalize(ctx); err != nil {
		return DeployResult{}, err
	}
	return DeployResult{ArtifactDirectoryName: req.State.ArtifactDirectoryName, Keys: keys}, nil
}

// FunctionDeployRequest captures a single-function update.
type FunctionDeployRequest struct {
	Compile  CompileInput
	Function string
}

// FunctionDeployResult is the updated function definition.
type FunctionDeployResult struct {
	LogicalID string
	Resource  FunctionResource
}

// DeployFunction compiles one function's definition with the console env vars. When
// the integration is enabled the token it carries is activated.
func DeployFunction(ctx context.Context, req FunctionDeployRequest) (FunctionDeployResult, error) {
	if req.Compile.Console == nil {
		return FunctionDeployResult{}, errConsoleNotConfigured
	}
	for _, fn := range req.Compile.Service.Functions {
		if fn.Name != req.Function {
			continue
		}
		id, res, err := CompileFunction(ctx, req.Compile, fn)
		if err != nil {
			return FunctionDeployResult{}, err
		}
		if req.Compile.Console.Enabled() {
			if err := req.Compile.Console.Finalize(ctx); err != nil {
				return FunctionDeployResult{}, err
			}
		}
		return FunctionDeployResult{LogicalID: id, Resource: res}, nil
	}
	return FunctionDeployResult{}, fmt.Errorf("function %q is not defined in the service", req.Function)
}
