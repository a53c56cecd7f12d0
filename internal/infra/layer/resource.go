// Where: internal/infra/layer/resource.go
// What: Layer version resource contributed to the compiled template.
// Why: Deploy registers the uploaded archive as a layer the functions reference.
package layer

import (
	"path"

	"github.com/poruru-code/fndeploy/internal/meta"
)

// Resource is a template resource definition.
type Resource struct {
	Type       string             `json:"Type"`
	Properties ResourceProperties `json:"Properties"`
}

// ResourceProperties holds the layer version properties.
type ResourceProperties struct {
	LayerName          string   `json:"LayerName"`
	Description        string   `json:"Description"`
	CompatibleRuntimes []string `json:"CompatibleRuntimes,omitempty"`
	Content            Content  `json:"Content"`
}

// Content points at the uploaded archive.
type Content struct {
	S3Bucket any    `json:"S3Bucket"`
	S3Key    string `json:"S3Key"`
}

// NewResource builds the layer resource for artifact stored under keyPrefix.
// bucket is either a literal bucket name or a template reference.
func NewResource(artifact Artifact, bucket any, keyPrefix string) Resource {
	return Resource{
		Type: meta.LayerVersionResource,
		Properties: ResourceProperties{
			LayerName:          NamePrefix,
			Description:        "Console telemetry extension " + artifact.VersionPostfix,
			CompatibleRuntimes: []string{"nodejs16.x", "nodejs18.x", "nodejs20.x"},
			Content: Content{
				S3Bucket: bucket,
				S3Key:    path.Join(keyPrefix, artifact.Filename),
			},
		},
	}
}
