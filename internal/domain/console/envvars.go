// Where: internal/domain/console/envvars.go
// What: Environment variables injected into instrumented functions.
// Why: The template compiler awaits these per function once the token resolves.
package console

import (
	"context"
	"maps"
	"strings"

	"github.com/poruru-code/fndeploy/internal/constants"
	"github.com/poruru-code/fndeploy/internal/deferred"
)

// ExecWrapperPath is the wrapper script shipped in the extension layer.
const ExecWrapperPath = "/opt/otel-extension-internal-node/exec-wrapper.sh"

// IngestionEnv returns the variables for a function reporting with token.
func IngestionEnv(token, baseURL string) map[string]string {
	base := strings.TrimRight(baseURL, "/")
	return map[string]string{
		constants.EnvOtelRequestHeaders: "serverless_token=" + token,
		constants.EnvOtelMetricsURL:     base + "/v1/metrics",
		constants.EnvOtelTracesURL:      base + "/v1/traces",
		constants.EnvLambdaExecWrapper:  ExecWrapperPath,
	}
}

// EnvInjector derives per-function environment variables from a deferred token.
type EnvInjector struct {
	vars *deferred.Value[map[string]string]
}

// NewEnvInjector wires the injector to token; nothing is awaited until first use.
func NewEnvInjector(baseURL string, token *deferred.Value[string]) *EnvInjector {
	return &EnvInjector{
		vars: deferred.Then(token, func(t string) (map[string]string, error) {
			return IngestionEnv(t, baseURL), nil
		}),
	}
}

// Vars exposes the shared deferred variable set.
func (i *EnvInjector) Vars() *deferred.Value[map[string]string] {
	return i.vars
}

// ForFunction returns the variables for fn. Unsupported functions get nil and never
// wait on the token.
func (i *EnvInjector) ForFunction(ctx context.Context, fn FunctionDescriptor) (map[string]string, error) {
	if i == nil || !fn.Supported() {
		return nil, nil
	}
	vars, err := i.vars.Get(ctx)
	if err != nil {
		return nil, err
	}
	return maps.Clone(vars), nil
}
