// Where: internal/domain/console/enablement.go
// What: Decide whether an invocation gets the console integration.
// Why: Keep the decision pure so every command path evaluates it the same way.
package console

import "strings"

var supportedCommands = map[string]struct{}{
	"deploy":          {},
	"deploy function": {},
	"package":         {},
	"rollback":        {},
}

// Logger is the diagnostic sink used by the console core.
// *log.Logger from charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

// Decision is the outcome of Evaluate.
type Decision struct {
	Enabled bool
	Org     string
	Reason  string
}

// SupportedCommand reports whether command participates in the integration.
func SupportedCommand(command string) bool {
	_, ok := supportedCommands[strings.TrimSpace(command)]
	return ok
}

// Evaluate applies the enablement rules in order and stops at the first failure.
// It never returns an error: a failed rule only disables the integration.
func Evaluate(cfg IntegrationConfig, dc DeploymentContext, logger Logger) Decision {
	if !cfg.Enabled {
		return disabled(logger, "console integration not enabled in configuration")
	}

	org := dc.Option(OrgOption)
	if org == "" {
		org = strings.TrimSpace(cfg.Org)
	}
	if org == "" {
		if logger != nil {
			logger.Warn("console integration requires an org; set \"org\" in the service configuration")
		}
		return Decision{Reason: "org not configured"}
	}

	if !SupportedCommand(dc.Command) {
		return disabled(logger, "command not supported by console integration", "command", dc.Command)
	}

	if dc.Provider != SupportedProvider {
		if logger != nil {
			logger.Error("console integration is not supported for provider", "provider", dc.Provider)
		}
		return Decision{Reason: "unsupported provider " + dc.Provider}
	}

	// Function-level checks already ran when the package was built.
	if !dc.DeploysExistingPackage() && !hasSupportedFunction(dc.Functions) {
		if logger != nil {
			logger.Warn("console integration skipped: no function with a handler on a nodejs runtime")
		}
		return Decision{Reason: "no supported functions"}
	}

	return Decision{Enabled: true, Org: org}
}

func hasSupportedFunction(functions []FunctionDescriptor) bool {
	for _, fn := range functions {
		if fn.Supported() {
			return true
		}
	}
	return false
}

func disabled(logger Logger, reason string, keyvals ...interface{}) Decision {
	if logger != nil {
		logger.Debug(reason, keyvals...)
	}
	return Decision{Reason: reason}
}
