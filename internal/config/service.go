// Where: internal/config/service.go
// What: Service configuration loading and validation.
// Why: Parse serverless.yml once, keep function order, and reject malformed input early.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"
)

const serviceSchemaURL = "service.schema.json"

//go:embed schema/service.schema.json
var serviceSchemaSource []byte

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema

	errServiceFileEmpty = errors.New("service configuration is empty")
)

// Service is the subset of serverless.yml the deploy pipeline consumes.
type Service struct {
	Name      string
	Org       string
	Console   bool
	Provider  Provider
	Functions []Function
}

// Provider describes the cloud provider block.
type Provider struct {
	Name             string `yaml:"name"`
	Stage            string `yaml:"stage"`
	Region           string `yaml:"region"`
	Runtime          string `yaml:"runtime"`
	DeploymentBucket string `yaml:"deploymentBucket"`
}

// Function is one declared function in declaration order.
// Runtime is the effective runtime after provider defaults are applied.
type Function struct {
	Name    string
	Handler string
	Runtime string
}

type serviceDocument struct {
	Service   string    `yaml:"service"`
	Org       string    `yaml:"org"`
	Console   bool      `yaml:"console"`
	Provider  Provider  `yaml:"provider"`
	Functions yaml.Node `yaml:"functions"`
}

type functionDocument struct {
	Handler string `yaml:"handler"`
	Runtime string `yaml:"runtime"`
}

// LoadService reads and validates the service configuration at path.
func LoadService(path string) (Service, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Service{}, fmt.Errorf("read service config: %w", err)
	}
	return ParseService(content)
}

// ParseService validates content against the service schema and decodes it.
func ParseService(content []byte) (Service, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return Service{}, errServiceFileEmpty
	}
	if err := validateService(content); err != nil {
		return Service{}, fmt.Errorf("validate service config: %w", err)
	}

	var doc serviceDocument
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return Service{}, fmt.Errorf("decode service config: %w", err)
	}

	functions, err := decodeFunctions(&doc.Functions, doc.Provider.Runtime)
	if err != nil {
		return Service{}, err
	}

	return Service{
		Name:      strings.TrimSpace(doc.Service),
		Org:       strings.TrimSpace(doc.Org),
		Console:   doc.Console,
		Provider:  doc.Provider,
		Functions: functions,
	}, nil
}

// decodeFunctions walks the mapping node pairwise so declaration order survives.
func decodeFunctions(node *yaml.Node, defaultRuntime string) ([]Function, error) {
	if node == nil || node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("functions must be a mapping")
	}
	out := make([]Function, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		var fn functionDocument
		if err := node.Content[i+1].Decode(&fn); err != nil {
			return nil, fmt.Errorf("decode function %s: %w", name, err)
		}
		runtime := strings.TrimSpace(fn.Runtime)
		if runtime == "" {
			runtime = strings.TrimSpace(defaultRuntime)
		}
		out = append(out, Function{
			Name:    name,
			Handler: strings.TrimSpace(fn.Handler),
			Runtime: runtime,
		})
	}
	return out, nil
}

func validateService(content []byte) error {
	sch, err := loadServiceSchema()
	if err != nil {
		return err
	}
	jsonData, err := sigsyaml.YAMLToJSON(content)
	if err != nil {
		return fmt.Errorf("convert yaml to json: %w", err)
	}
	var document any
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}
	return sch.Validate(document)
}

func loadServiceSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(serviceSchemaURL, bytes.NewReader(serviceSchemaSource)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(serviceSchemaURL)
	})
	return compiledSchema, schemaErr
}
