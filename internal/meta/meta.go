// Where: internal/meta/meta.go
// What: CLI-local metadata constants.
// Why: Keep product naming and artifact layout in one place.
package meta

const (
	// Project Identity
	AppName   = "fndeploy"
	EnvPrefix = "FNDEPLOY"

	// Directory Layout
	PackageDir       = ".serverless"
	ServiceFile      = "serverless.yml"
	StateFile        = "serverless-state.json"
	TemplateFile     = "cloudformation-template-update-stack.json"
	ArtifactRootKey  = "serverless"
	HistoryFileName  = "history.json"
	DefaultHomeDir   = ".fndeploy"
	DefaultStageName = "dev"

	// Provider
	ProviderAWS          = "aws"
	DeploymentBucketRef  = "ServerlessDeploymentBucket"
	LayerVersionResource = "AWS::Lambda::LayerVersion"
	FunctionResource     = "AWS::Lambda::Function"
)
