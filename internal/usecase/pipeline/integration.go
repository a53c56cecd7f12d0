// Where: internal/usecase/pipeline/integration.go
// What: Console integration surface consumed by the pipeline.
// Why: Keep the pipeline testable without the real orchestrator and its remote calls.
package pipeline

import (
	"context"

	domain "github.com/poruru-code/fndeploy/internal/domain/console"
	"github.com/poruru-code/fndeploy/internal/infra/layer"
)

// ConsoleIntegration is implemented by *console.Orchestrator.
type ConsoleIntegration interface {
	Enabled() bool
	FunctionEnv(ctx context.Context, fn domain.FunctionDescriptor) (map[string]string, error)
	LayerResource(bucket any, keyPrefix string) (string, layer.Resource, bool)
	PackageLayer(outputDir string) (string, error)
	PersistedState(ctx context.Context) (domain.PersistedState, error)
	Finalize(ctx context.Context) error
}

// ArtifactUploader uploads a package directory. *cloud.ArtifactStore implements it.
type ArtifactUploader interface {
	UploadDir(ctx context.Context, dir, keyPrefix string) ([]string, error)
}

// DeploymentLister lists past deployments. *cloud.ArtifactStore implements it.
type DeploymentLister interface {
	ListDeployments(ctx context.Context, prefix string) ([]string, error)
}
