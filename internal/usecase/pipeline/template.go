// Where: internal/usecase/pipeline/template.go
// What: Compile the service into a CloudFormation template.
// Why: Instrumented functions need the console env vars and layer before the template is final.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/poruru-code/fndeploy/internal/config"
	domain "github.com/poruru-code/fndeploy/internal/domain/console"
	"github.com/poruru-code/fndeploy/internal/infra/platform"
	"github.com/poruru-code/fndeploy/internal/meta"
)

const (
	templateFormatVersion = "2010-09-09"
	defaultRuntime        = "nodejs20.x"
	bucketResourceType    = "AWS::S3::Bucket"
)

// Template is the compiled stack template.
type Template struct {
	AWSTemplateFormatVersion string         `json:"AWSTemplateFormatVersion"`
	Description              string         `json:"Description"`
	Resources                map[string]any `json:"Resources"`
	Outputs                  map[string]any `json:"Outputs"`
}

// FunctionResource is one function definition.
type FunctionResource struct {
	Type       string             `json:"Type"`
	Properties FunctionProperties `json:"Properties"`
}

// FunctionProperties are the function resource properties the pipeline sets.
type FunctionProperties struct {
	FunctionName string       `json:"FunctionName"`
	Handler      string       `json:"Handler,omitempty"`
	Runtime      string       `json:"Runtime"`
	Code         CodeLocation `json:"Code"`
	Environment  *Environment `json:"Environment,omitempty"`
	Layers       []any        `json:"Layers,omitempty"`
}

// CodeLocation points at the uploaded code archive.
type CodeLocation struct {
	S3Bucket any    `json:"S3Bucket"`
	S3Key    string `json:"S3Key"`
}

// Environment holds function environment variables.
type Environment struct {
	Variables map[string]string `json:"Variables"`
}

// CompileInput carries what the compiler needs for one invocation.
type CompileInput struct {
	Service     config.Service
	Stage       string
	ArtifactDir string
	Console     ConsoleIntegration
}

// DeploymentBucket returns the configured bucket name, or a reference to the
// bucket resource the template creates.
func DeploymentBucket(provider config.Provider) any {
	if provider.DeploymentBucket != "" {
		return provider.DeploymentBucket
	}
	return map[string]string{"Ref": meta.DeploymentBucketRef}
}

// Compile builds the template. Function definitions are compiled concurrently; a
// supported function waits for the console env vars before its definition is final.
func Compile(ctx context.Context, in CompileInput) (Template, error) {
	bucket := DeploymentBucket(in.Service.Provider)
	tmpl := Template{
		AWSTemplateFormatVersion: templateFormatVersion,
		Description:              "The AWS CloudFormation template for this Serverless application",
		Resources:                map[string]any{},
		Outputs:                  map[string]any{},
	}
	if in.Service.Provider.DeploymentBucket == "" {
		tmpl.Resources[meta.DeploymentBucketRef] = map[string]string{"Type": bucketResourceType}
	}

	var layerRef any
	if in.Console != nil {
		if id, res, ok := in.Console.LayerResource(bucket, in.ArtifactDir); ok {
			tmpl.Resources[id] = res
			layerRef = map[string]string{"Ref": id}
		}
	}

	resources := make([]FunctionResource, len(in.Service.Functions))
	g, gctx := errgroup.WithContext(ctx)
	for i, fn := range in.Service.Functions {
		g.Go(func() error {
			res, err := compileFunction(gctx, in, fn, bucket, layerRef)
			if err != nil {
				return err
			}
			resources[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Template{}, err
	}
	for i, fn := range in.Service.Functions {
		tmpl.Resources[platform.FunctionLogicalID(fn.Name)] = resources[i]
	}
	return tmpl, nil
}

// CompileFunction builds the definition of a single function.
func CompileFunction(ctx context.Context, in CompileInput, fn config.Function) (string, FunctionResource, error) {
	bucket := DeploymentBucket(in.Service.Provider)
	var layerRef any
	if in.Console != nil {
		if id, _, ok := in.Console.LayerResource(bucket, in.ArtifactDir); ok {
			layerRef = map[string]string{"Ref": id}
		}
	}
	res, err := compileFunction(ctx, in, fn, bucket, layerRef)
	if err != nil {
		return "", FunctionResource{}, err
	}
	return platform.FunctionLogicalID(fn.Name), res, nil
}

func compileFunction(ctx context.Context, in CompileInput, fn config.Function, bucket, layerRef any) (FunctionResource, error) {
	runtime := fn.Runtime
	if runtime == "" {
		runtime = defaultRuntime
	}
	res := FunctionResource{
		Type: meta.FunctionResource,
		Properties: FunctionProperties{
			FunctionName: fmt.Sprintf("%s-%s-%s", in.Service.Name, in.Stage, fn.Name),
			Handler:      fn.Handler,
			Runtime:      runtime,
			Code: CodeLocation{
				S3Bucket: bucket,
				S3Key:    path.Join(in.ArtifactDir, in.Service.Name+".zip"),
			},
		},
	}
	if in.Console == nil || !in.Console.Enabled() {
		return res, nil
	}
	env, err := in.Console.FunctionEnv(ctx, descriptor(fn))
	if err != nil {
		return FunctionResource{}, fmt.Errorf("function %s: %w", fn.Name, err)
	}
	if env == nil {
		return res, nil
	}
	res.Properties.Environment = &Environment{Variables: env}
	if layerRef != nil {
		res.Properties.Layers = []any{layerRef}
	}
	return res, nil
}

// Descriptors converts configured functions into console descriptors.
func Descriptors(functions []config.Function) []domain.FunctionDescriptor {
	out := make([]domain.FunctionDescriptor, 0, len(functions))
	for _, fn := range functions {
		out = append(out, descriptor(fn))
	}
	return out
}

func descriptor(fn config.Function) domain.FunctionDescriptor {
	return domain.FunctionDescriptor{ID: fn.Name, Handler: fn.Handler, Runtime: fn.Runtime}
}

// WriteTemplate writes tmpl into dir under the fixed template file name.
func WriteTemplate(dir string, tmpl Template) (string, error) {
	data, err := json.MarshalIndent(tmpl, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode template: %w", err)
	}
	target := filepath.Join(dir, meta.TemplateFile)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write template: %w", err)
	}
	return target, nil
}
