// Where: internal/infra/ingest/baseurl.go
// What: Ingestion endpoint selection.
// Why: Resolve the base URL once per process from Settings.
package ingest

import (
	"strings"

	"github.com/poruru-code/fndeploy/internal/config"
)

const (
	ProductionURL = "https://core.serverless.com/ingestion/kinesis"
	DevStageURL   = "https://core.serverless-dev.com/ingestion/kinesis"
)

// ResolveBaseURL returns the explicit override, else the dev-stage endpoint when the
// platform stage is dev, else production.
func ResolveBaseURL(settings config.Settings) string {
	if override := strings.TrimRight(strings.TrimSpace(settings.IngestionURLOverride), "/"); override != "" {
		return override
	}
	if settings.IsDevPlatform() {
		return DevStageURL
	}
	return ProductionURL
}
