// Where: internal/usecase/pipeline/rollback.go
// What: Rollback target discovery.
// Why: Rollback never touches ingestion tokens; it only resolves which deployment to return to.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var errListerNotConfigured = errors.New("deployment lister is not configured")

// RollbackRequest captures the inputs of one rollback run.
type RollbackRequest struct {
	Service   string
	Stage     string
	Timestamp string
	Lister    DeploymentLister
}

// RollbackResult lists known deployments, or the resolved target when a timestamp was given.
type RollbackResult struct {
	Deployments []string
	Target      string
}

// Rollback lists deployments when no timestamp is given. With a timestamp it resolves
// the matching deployment; the stack rollback itself is owned by the provider tooling.
func Rollback(ctx context.Context, req RollbackRequest) (RollbackResult, error) {
	if req.Lister == nil {
		return RollbackResult{}, errListerNotConfigured
	}
	deployments, err := req.Lister.ListDeployments(ctx, DeploymentPrefix(req.Service, req.Stage))
	if err != nil {
		return RollbackResult{}, err
	}
	timestamp := strings.TrimSpace(req.Timestamp)
	if timestamp == "" {
		return RollbackResult{Deployments: deployments}, nil
	}
	idx := slices.IndexFunc(deployments, func(name string) bool {
		return name == timestamp || strings.HasPrefix(name, timestamp+"-")
	})
	if idx < 0 {
		return RollbackResult{}, fmt.Errorf("no deployment found for timestamp %s", timestamp)
	}
	return RollbackResult{Deployments: deployments, Target: deployments[idx]}, nil
}
