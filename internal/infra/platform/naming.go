// Where: internal/infra/platform/naming.go
// What: Stage resolution and template logical-id naming.
// Why: Logical ids must be stable between package and deploy runs.
package platform

import (
	"strings"
	"unicode"

	"github.com/poruru-code/fndeploy/internal/meta"
)

// ResolveStage returns the option stage, else the configured stage, else the default.
func ResolveStage(option, configured string) string {
	if stage := strings.TrimSpace(option); stage != "" {
		return stage
	}
	if stage := strings.TrimSpace(configured); stage != "" {
		return stage
	}
	return meta.DefaultStageName
}

// NormalizeName turns a resource name into an alphanumeric logical-id fragment.
func NormalizeName(name string) string {
	replacer := strings.NewReplacer("-", "Dash", "_", "Underscore")
	replaced := replacer.Replace(name)
	var b strings.Builder
	for i, r := range replaced {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		if i == 0 {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LayerLogicalID names a layer version resource.
func LayerLogicalID(name string) string {
	return NormalizeName(name) + "LambdaLayer"
}

// FunctionLogicalID names a function resource.
func FunctionLogicalID(name string) string {
	return NormalizeName(name) + "LambdaFunction"
}
