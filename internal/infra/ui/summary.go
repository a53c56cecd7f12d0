// Where: internal/infra/ui/summary.go
// What: Console integration summary rendering.
// Why: Show what was instrumented without printing the full ingestion token.
package ui

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

const consoleSummaryTemplate = `Org:          {{ .Org | default "-" }}
Service:      {{ .Service }}
Ingestion:    {{ .IngestionURL }}
Token:        {{ if .Token }}{{ trunc 6 .Token }}…{{ else }}pending{{ end }}
Layer:        {{ .LayerFile | default "-" }}
Instrumented: {{ if .Functions }}{{ join ", " .Functions }}{{ else }}none{{ end }}
`

// ConsoleSummary is the data shown after packaging or deploying with the integration.
type ConsoleSummary struct {
	Org          string
	Service      string
	IngestionURL string
	Token        string
	LayerFile    string
	Functions    []string
}

var (
	summaryOnce sync.Once
	summaryTmpl *template.Template
	summaryErr  error
)

// RenderConsoleSummary renders summary as plain text lines.
func RenderConsoleSummary(summary ConsoleSummary) (string, error) {
	summaryOnce.Do(func() {
		summaryTmpl, summaryErr = template.New("console-summary").
			Funcs(sprig.TxtFuncMap()).
			Parse(consoleSummaryTemplate)
	})
	if summaryErr != nil {
		return "", fmt.Errorf("parse summary template: %w", summaryErr)
	}
	var buf bytes.Buffer
	if err := summaryTmpl.Execute(&buf, summary); err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return buf.String(), nil
}
