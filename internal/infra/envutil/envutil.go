// Package envutil provides helper functions for environment variable handling.
package envutil

import (
	"os"
	"strings"

	"github.com/poruru-code/fndeploy/internal/meta"
)

// Lookup returns the trimmed value of key, or "" when unset.
func Lookup(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// HostEnvKey constructs a CLI-scoped environment variable name.
// Example: HostEnvKey("HOME") returns "FNDEPLOY_HOME".
func HostEnvKey(suffix string) string {
	return meta.EnvPrefix + "_" + suffix
}

// GetHostEnv retrieves a CLI-scoped environment variable.
func GetHostEnv(suffix string) string {
	return Lookup(HostEnvKey(suffix))
}

// Truthy reports whether value reads as an enabled flag.
// Empty, "0", "false", "no" and "off" are treated as disabled.
func Truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}
