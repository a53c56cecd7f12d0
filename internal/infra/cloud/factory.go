// Where: internal/infra/cloud/factory.go
// What: AWS client factory for artifact storage and deployment history.
// Why: Encapsulate SDK configuration, including S3-compatible local endpoints.
package cloud

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/poruru-code/fndeploy/internal/config"
)

// ClientFactory builds SDK clients on demand.
type ClientFactory interface {
	S3(ctx context.Context) (S3API, error)
	DynamoDB(ctx context.Context) (DynamoAPI, error)
}

// NewClientFactory returns a factory bound to settings.
func NewClientFactory(settings appconfig.Settings) ClientFactory {
	return awsClientFactory{settings: settings}
}

type awsClientFactory struct {
	settings appconfig.Settings
}

func (f awsClientFactory) S3(ctx context.Context) (S3API, error) {
	cfg, err := f.load(ctx, f.settings.S3Endpoint != "")
	if err != nil {
		return nil, err
	}
	endpoint := f.settings.S3Endpoint
	return s3.NewFromConfig(cfg, func(options *s3.Options) {
		if endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
			options.UsePathStyle = true
		}
	}), nil
}

func (f awsClientFactory) DynamoDB(ctx context.Context) (DynamoAPI, error) {
	cfg, err := f.load(ctx, false)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(cfg), nil
}

// load resolves the default credential chain; local endpoints use static keys.
func (f awsClientFactory) load(ctx context.Context, staticKeys bool) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(f.settings.AWSRegion)}
	if staticKeys {
		creds := credentials.NewStaticCredentialsProvider(f.settings.S3AccessKey, f.settings.S3SecretKey, "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, err
	}
	return cfg, nil
}
