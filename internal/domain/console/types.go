// Where: internal/domain/console/types.go
// What: Console integration data model.
// Why: Share one set of types between enablement, validation and injection.
package console

import "strings"

// SchemaVersion is the revision of the persisted console state contract.
// Bump it whenever PersistedState changes shape or meaning.
const SchemaVersion = "1"

const (
	// SupportedProvider is the only provider the integration instruments.
	SupportedProvider = "aws"
	// NodeRuntimePrefix marks runtimes the extension layer can wrap.
	NodeRuntimePrefix = "nodejs"
	// PackageOption is the deploy option naming a pre-built package directory.
	PackageOption = "package"
	// OrgOption overrides the configured org.
	OrgOption = "org"
)

// IntegrationConfig is derived once per invocation from configuration and options.
type IntegrationConfig struct {
	Enabled bool
	Org     string
}

// FunctionDescriptor describes one function from the service inventory.
// Empty Handler or Runtime means the field is absent.
type FunctionDescriptor struct {
	ID      string
	Handler string
	Runtime string
}

// Supported reports whether the extension layer can instrument the function.
func (f FunctionDescriptor) Supported() bool {
	if f.Handler == "" {
		return false
	}
	return f.Runtime == "" || strings.HasPrefix(f.Runtime, NodeRuntimePrefix)
}

// DeploymentContext describes the current invocation.
type DeploymentContext struct {
	Command   string
	Options   map[string]string
	Provider  string
	Functions []FunctionDescriptor
}

// Option returns a trimmed option value.
func (c DeploymentContext) Option(name string) string {
	if c.Options == nil {
		return ""
	}
	return strings.TrimSpace(c.Options[name])
}

// DeploysExistingPackage reports whether a pre-built package is being deployed.
func (c DeploymentContext) DeploysExistingPackage() bool {
	return c.Command == "deploy" && c.Option(PackageOption) != ""
}

// PersistedState is written into the build artifact at package time and read back
// when deploying that package.
type PersistedState struct {
	SchemaVersion  string `json:"schemaVersion"`
	OrgID          string `json:"orgId"`
	ServiceID      string `json:"serviceId"`
	IngestionToken string `json:"ingestionToken"`
	Activation     bool   `json:"activation"`
}
