// Where: internal/usecase/console/orchestrator.go
// What: Console integration facade for the package/deploy pipeline.
// Why: Compose enablement, auth, token lifecycle, validation and layer packaging per invocation.
package console

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/poruru-code/fndeploy/internal/domain/console"
	"github.com/poruru-code/fndeploy/internal/deferred"
	"github.com/poruru-code/fndeploy/internal/infra/history"
	"github.com/poruru-code/fndeploy/internal/infra/layer"
	"github.com/poruru-code/fndeploy/internal/infra/platform"
)

// layerLogicalName yields the ConsoleExtensionLambdaLayer logical id.
const layerLogicalName = "consoleExtension"

var errTokenAPINotConfigured = errors.New("ingestion token client is not configured")

// LayerPackager resolves and copies the extension archive. *layer.Resolver implements it.
type LayerPackager interface {
	Resolve() (layer.Artifact, error)
	Package(outputDir string) (string, error)
}

// Dependencies are the collaborators of one Orchestrator.
type Dependencies struct {
	Logger       domain.Logger
	Auth         platform.AuthChecker
	Orgs         platform.OrgResolver
	Tokens       TokenAPI
	Layer        LayerPackager
	History      history.Store
	IngestionURL string
	Unattended   bool
	Now          func() time.Time
}

// Request describes the invocation being orchestrated.
// Persisted is the package-time state when deploying an existing package; nil when
// the package carries no console section.
type Request struct {
	Integration domain.IntegrationConfig
	Deployment  domain.DeploymentContext
	Service     string
	Stage       string
	Persisted   *domain.PersistedState
}

// Orchestrator exposes console state to the pipeline and drives the token lifecycle.
type Orchestrator struct {
	deps     Dependencies
	req      Request
	decision domain.Decision
	orgID    string
	tokens   *TokenManager
	env      *domain.EnvInjector
	artifact layer.Artifact
}

// New evaluates enablement and performs the setup phase for the invocation shape.
// Token creation is started eagerly for package and deploy; it is never started for
// rollback or when deploying an existing package.
func New(ctx context.Context, deps Dependencies, req Request) (*Orchestrator, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	o := &Orchestrator{deps: deps, req: req}
	o.decision = domain.Evaluate(req.Integration, req.Deployment, deps.Logger)

	if req.Deployment.DeploysExistingPackage() {
		return o, o.setupFromPackage(ctx)
	}
	if !o.decision.Enabled {
		return o, nil
	}
	if err := o.authenticate(ctx); err != nil {
		return nil, err
	}
	if req.Deployment.Command != "rollback" {
		if err := o.resolveArtifact(); err != nil {
			return nil, err
		}
	}
	o.tokens = o.tokenManagerFor(ctx)
	o.env = domain.NewEnvInjector(deps.IngestionURL, o.tokens.Token())

	switch req.Deployment.Command {
	case "package", "deploy":
		o.tokens.Token().Start(ctx)
	}
	return o, nil
}

func (o *Orchestrator) setupFromPackage(ctx context.Context) error {
	persisted := domain.PersistedState{SchemaVersion: domain.SchemaVersion}
	if o.req.Persisted != nil {
		persisted = *o.req.Persisted
	}
	if !o.decision.Enabled {
		return domain.ValidatePersisted(persisted, domain.Current{Enabled: false, Service: o.req.Service})
	}
	if err := domain.ValidatePackageIdentity(persisted, o.req.Service); err != nil {
		return err
	}
	if err := o.authenticate(ctx); err != nil {
		return err
	}
	current := domain.Current{Enabled: true, OrgID: o.orgID, Service: o.req.Service}
	if err := domain.ValidatePersisted(persisted, current); err != nil {
		return err
	}
	if err := o.resolveArtifact(); err != nil {
		return err
	}
	o.tokens = RehydratedTokenManager(o.deps.Tokens, o.orgID, o.req.Service, persisted.IngestionToken)
	o.env = domain.NewEnvInjector(o.deps.IngestionURL, o.tokens.Token())
	return nil
}

// authenticate enforces the session gate and resolves the org id.
func (o *Orchestrator) authenticate(ctx context.Context) error {
	if o.deps.Auth == nil || !o.deps.Auth.IsAuthenticated() {
		return domain.NotAuthenticated(o.deps.Unattended)
	}
	if o.deps.Tokens == nil {
		return errTokenAPINotConfigured
	}
	orgID := o.decision.Org
	if o.deps.Orgs != nil {
		id, err := o.deps.Orgs.OrgID(ctx, o.decision.Org)
		if err != nil {
			return fmt.Errorf("resolve org %s: %w", o.decision.Org, err)
		}
		orgID = id
	}
	o.orgID = orgID
	return nil
}

func (o *Orchestrator) resolveArtifact() error {
	if o.deps.Layer == nil {
		return fmt.Errorf("extension layer is not configured")
	}
	artifact, err := o.deps.Layer.Resolve()
	if err != nil {
		return fmt.Errorf("resolve extension layer: %w", err)
	}
	o.artifact = artifact
	return nil
}

// tokenManagerFor reuses the last active token for single-function deploys so the
// function keeps reporting under the token its stack already carries.
func (o *Orchestrator) tokenManagerFor(ctx context.Context) *TokenManager {
	if o.req.Deployment.Command == "deploy function" && o.deps.History != nil {
		record, ok, err := o.deps.History.Last(ctx, o.req.Service, o.req.Stage)
		if err != nil {
			o.logWarn("could not read deployment history", "error", err)
		} else if ok && record.Activation && record.Token != "" && record.OrgID == o.orgID {
			return RehydratedTokenManager(o.deps.Tokens, o.orgID, o.req.Service, record.Token)
		}
	}
	return NewTokenManager(o.deps.Tokens, o.orgID, o.req.Service)
}

// Enabled reports whether the integration is active for this invocation.
func (o *Orchestrator) Enabled() bool {
	return o.decision.Enabled
}

// Org returns the resolved org name.
func (o *Orchestrator) Org() string {
	return o.decision.Org
}

// OrgID returns the resolved org id; empty when disabled.
func (o *Orchestrator) OrgID() string {
	return o.orgID
}

// ServiceID returns the service identifier.
func (o *Orchestrator) ServiceID() string {
	return o.req.Service
}

// IngestionURL returns the ingestion base URL.
func (o *Orchestrator) IngestionURL() string {
	return o.deps.IngestionURL
}

// Artifact returns the extension layer artifact resolved during setup.
func (o *Orchestrator) Artifact() layer.Artifact {
	return o.artifact
}

// EnvVars exposes the deferred environment variables; nil when disabled.
func (o *Orchestrator) EnvVars() *deferred.Value[map[string]string] {
	if o.env == nil {
		return nil
	}
	return o.env.Vars()
}

// FunctionEnv returns the variables for fn, awaiting the token for supported functions.
func (o *Orchestrator) FunctionEnv(ctx context.Context, fn domain.FunctionDescriptor) (map[string]string, error) {
	if !o.Enabled() {
		return nil, nil
	}
	return o.env.ForFunction(ctx, fn)
}

// LayerResource returns the logical id and resource for the extension layer.
func (o *Orchestrator) LayerResource(bucket any, keyPrefix string) (string, layer.Resource, bool) {
	if !o.Enabled() {
		return "", layer.Resource{}, false
	}
	return platform.LayerLogicalID(layerLogicalName), layer.NewResource(o.artifact, bucket, keyPrefix), true
}

// PackageLayer copies the extension archive into outputDir.
func (o *Orchestrator) PackageLayer(outputDir string) (string, error) {
	if !o.Enabled() {
		return "", nil
	}
	return o.deps.Layer.Package(outputDir)
}

// PersistedState returns the state to write into the build artifact. When enabled it
// awaits the token.
func (o *Orchestrator) PersistedState(ctx context.Context) (domain.PersistedState, error) {
	state := domain.PersistedState{SchemaVersion: domain.SchemaVersion}
	if !o.Enabled() {
		return state, nil
	}
	token, err := o.tokens.Token().Get(ctx)
	if err != nil {
		return domain.PersistedState{}, err
	}
	state.OrgID = o.orgID
	state.ServiceID = o.req.Service
	state.IngestionToken = token
	state.Activation = true
	return state, nil
}

// Token returns the resolved token, or "" when it is not available yet.
func (o *Orchestrator) Token() string {
	if o.tokens == nil || !o.tokens.Token().Done() {
		return ""
	}
	token, err := o.tokens.Token().Get(context.Background())
	if err != nil {
		return ""
	}
	return token
}

// Finalize runs after the external deploy succeeded. Enabled invocations activate the
// token and retire the others; disabled ones retire the token a previous deploy
// activated. Only activation failures are returned.
func (o *Orchestrator) Finalize(ctx context.Context) error {
	if o.Enabled() {
		token, err := o.tokens.Activate(ctx)
		if err != nil {
			return err
		}
		o.tokens.RetireOthers(ctx, token)
		o.record(ctx, history.Record{OrgID: o.orgID, Token: token, Activation: true})
		return nil
	}
	return o.retirePrevious(ctx)
}

func (o *Orchestrator) retirePrevious(ctx context.Context) error {
	if o.deps.History == nil {
		return nil
	}
	previous, ok, err := o.deps.History.Last(ctx, o.req.Service, o.req.Stage)
	if err != nil {
		o.logWarn("could not read deployment history", "error", err)
		return nil
	}
	if !ok || !previous.Activation {
		return nil
	}
	if previous.Token != "" {
		if o.deps.Auth == nil || !o.deps.Auth.IsAuthenticated() || o.deps.Tokens == nil {
			o.logWarn("console integration was disabled but the previous ingestion token could not be deactivated: not authenticated")
		} else {
			o.deps.Tokens.DeactivateSingle(ctx, previous.Token)
		}
	}
	o.record(ctx, history.Record{OrgID: previous.OrgID, Activation: false})
	return nil
}

func (o *Orchestrator) record(ctx context.Context, record history.Record) {
	if o.deps.History == nil {
		return
	}
	record.Service = o.req.Service
	record.Stage = o.req.Stage
	record.DeployedAt = o.deps.Now().UTC()
	if err := o.deps.History.Put(ctx, record); err != nil {
		o.logWarn("could not record deployment history", "error", err)
	}
}

func (o *Orchestrator) logWarn(msg string, keyvals ...interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.Warn(msg, keyvals...)
	}
}
