// Where: internal/config/settings.go
// What: Process-wide settings resolved from the environment.
// Why: Read every environment toggle once and pass the result explicitly.
package config

import (
	"os"
	"path/filepath"

	"github.com/poruru-code/fndeploy/internal/constants"
	"github.com/poruru-code/fndeploy/internal/infra/envutil"
	"github.com/poruru-code/fndeploy/internal/meta"
)

const defaultAWSRegion = "us-east-1"

// Settings captures the environment-derived configuration for one invocation.
type Settings struct {
	IngestionURLOverride string
	PlatformStage        string
	PlatformURL          string
	DevExtension         bool
	CI                   bool
	AccessKey            string
	ExtensionDir         string
	HistoryTable         string
	HomeDir              string
	AWSRegion            string
	S3Endpoint           string
	S3AccessKey          string
	S3SecretKey          string
	LogLevel             string
}

// LoadSettings reads Settings from the current process environment.
func LoadSettings() Settings {
	settings := Settings{
		IngestionURLOverride: envutil.Lookup(constants.EnvIngestionURL),
		PlatformStage:        envutil.Lookup(constants.EnvPlatformStage),
		PlatformURL:          envutil.Lookup(constants.EnvPlatformURL),
		DevExtension:         envutil.Truthy(os.Getenv(constants.EnvDevExtension)),
		CI:                   envutil.Truthy(os.Getenv(constants.EnvCI)),
		AccessKey:            envutil.Lookup(constants.EnvAccessKey),
		ExtensionDir:         envutil.Lookup(constants.EnvExtensionDir),
		HistoryTable:         envutil.Lookup(constants.EnvHistoryTable),
		HomeDir:              envutil.Lookup(constants.EnvHome),
		AWSRegion:            envutil.Lookup(constants.EnvAWSRegion),
		S3Endpoint:           envutil.Lookup(constants.EnvS3Endpoint),
		S3AccessKey:          envutil.Lookup(constants.EnvS3AccessKey),
		S3SecretKey:          envutil.Lookup(constants.EnvS3SecretKey),
		LogLevel:             envutil.Lookup(constants.EnvLogLevel),
	}
	if settings.AWSRegion == "" {
		settings.AWSRegion = defaultAWSRegion
	}
	if settings.HomeDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			settings.HomeDir = filepath.Join(home, meta.DefaultHomeDir)
		}
	}
	if settings.ExtensionDir == "" {
		settings.ExtensionDir = defaultExtensionDir()
	}
	return settings
}

// IsDevPlatform reports whether the platform stage points at the dev deployment.
func (s Settings) IsDevPlatform() bool {
	return s.PlatformStage == "dev"
}

func defaultExtensionDir() string {
	exe, err := os.Executable()
	if err != nil {
		return filepath.Join("extensions", "otel-extension-node")
	}
	return filepath.Join(filepath.Dir(exe), "extensions", "otel-extension-node")
}
