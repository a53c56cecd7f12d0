// Where: internal/constants/env.go
// What: Environment variable naming constants.
// Why: Centralize environment variable names to avoid typos and inconsistencies.
package constants

const (
	// Platform / Authentication
	EnvAccessKey     = "SERVERLESS_ACCESS_KEY"
	EnvPlatformStage = "SERVERLESS_PLATFORM_STAGE"
	EnvPlatformURL   = "SERVERLESS_PLATFORM_URL"
	EnvCI            = "CI"

	// Console Integration
	EnvIngestionURL = "SLS_INGESTION_SERVER_URL"
	EnvDevExtension = "SLS_DEV_EXTENSION"
	EnvExtensionDir = "SLS_EXTENSION_DIR"

	// CLI
	EnvCLICmd       = "FNDEPLOY_CLI_CMD"
	EnvHistoryTable = "FNDEPLOY_HISTORY_TABLE"
	EnvHome         = "FNDEPLOY_HOME"
	EnvLogLevel     = "FNDEPLOY_LOG_LEVEL"
	EnvAWSRegion    = "AWS_REGION"
	EnvS3Endpoint   = "FNDEPLOY_S3_ENDPOINT"
	EnvS3AccessKey  = "FNDEPLOY_S3_ACCESS_KEY"
	EnvS3SecretKey  = "FNDEPLOY_S3_SECRET_KEY"

	// Injected into supported functions
	EnvOtelRequestHeaders = "SLS_OTEL_REPORT_REQUEST_HEADERS"
	EnvOtelMetricsURL     = "SLS_OTEL_REPORT_METRICS_URL"
	EnvOtelTracesURL      = "SLS_OTEL_REPORT_TRACES_URL"
	EnvLambdaExecWrapper  = "AWS_LAMBDA_EXEC_WRAPPER"
)
