// Where: internal/usecase/console/tokens.go
// What: Ingestion token lifecycle for one invocation.
// Why: Creation must fire once no matter how many stages await the token.
package console

import (
	"context"

	"github.com/poruru-code/fndeploy/internal/deferred"
	"github.com/poruru-code/fndeploy/internal/infra/ingest"
)

// TokenAPI is the remote token surface. *ingest.Client implements it.
type TokenAPI interface {
	Create(ctx context.Context, orgID, serviceID string) (string, error)
	Activate(ctx context.Context, token, orgID, serviceID string) error
	DeactivateOthers(ctx context.Context, token, orgID, serviceID string) ingest.SoftResult
	DeactivateSingle(ctx context.Context, token string) ingest.SoftResult
}

// TokenManager owns the deferred token of one (org, service) scope.
type TokenManager struct {
	api       TokenAPI
	orgID     string
	serviceID string
	token     *deferred.Value[string]
}

// NewTokenManager creates the token lazily on first access.
func NewTokenManager(api TokenAPI, orgID, serviceID string) *TokenManager {
	m := &TokenManager{api: api, orgID: orgID, serviceID: serviceID}
	m.token = deferred.New(func(ctx context.Context) (string, error) {
		return api.Create(ctx, orgID, serviceID)
	})
	return m
}

// RehydratedTokenManager wraps a token that already exists; Create is never called.
func RehydratedTokenManager(api TokenAPI, orgID, serviceID, token string) *TokenManager {
	return &TokenManager{
		api:       api,
		orgID:     orgID,
		serviceID: serviceID,
		token:     deferred.Resolved(token),
	}
}

// Token exposes the deferred token.
func (m *TokenManager) Token() *deferred.Value[string] {
	return m.token
}

// Activate awaits the token and marks it live. Failure is fatal.
func (m *TokenManager) Activate(ctx context.Context) (string, error) {
	token, err := m.token.Get(ctx)
	if err != nil {
		return "", err
	}
	if err := m.api.Activate(ctx, token, m.orgID, m.serviceID); err != nil {
		return "", err
	}
	return token, nil
}

// RetireOthers deactivates every other token in the scope. Failure is only logged.
func (m *TokenManager) RetireOthers(ctx context.Context, token string) ingest.SoftResult {
	return m.api.DeactivateOthers(ctx, token, m.orgID, m.serviceID)
}
