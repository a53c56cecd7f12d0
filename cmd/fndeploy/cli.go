// Where: cmd/fndeploy/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/poruru-code/fndeploy/internal/command"
	"github.com/poruru-code/fndeploy/internal/config"
	"github.com/poruru-code/fndeploy/internal/infra/cloud"
	"github.com/poruru-code/fndeploy/internal/infra/history"
	"github.com/poruru-code/fndeploy/internal/infra/ingest"
	"github.com/poruru-code/fndeploy/internal/infra/layer"
	"github.com/poruru-code/fndeploy/internal/infra/logging"
	"github.com/poruru-code/fndeploy/internal/infra/platform"
	"github.com/poruru-code/fndeploy/internal/meta"
	consoleuc "github.com/poruru-code/fndeploy/internal/usecase/console"
)

var (
	getwd            = os.Getwd
	newClientFactory = cloud.NewClientFactory
)

// buildDependencies constructs the runtime dependencies required by the CLI.
// Collaborators that depend on settings are built lazily by newRuntime.
func buildDependencies() (command.Dependencies, error) {
	projectDir, err := getwd()
	if err != nil {
		return command.Dependencies{}, err
	}
	return command.Dependencies{
		Out:          os.Stdout,
		ErrOut:       os.Stderr,
		ProjectDir:   projectDir,
		LoadSettings: config.LoadSettings,
		NewRuntime:   newRuntime,
	}, nil
}

// newRuntime wires the console collaborators and artifact storage from settings.
func newRuntime(settings config.Settings, errOut io.Writer) (command.Runtime, error) {
	logger := logging.New(errOut, settings.LogLevel)
	factory := newClientFactory(settings)

	store, err := newHistoryStore(settings, factory)
	if err != nil {
		return command.Runtime{}, err
	}

	return command.Runtime{
		Console: consoleuc.Dependencies{
			Logger:       logger,
			Auth:         platform.AccessKeyAuth{AccessKey: settings.AccessKey},
			Orgs:         platform.NewAPIClient(platform.ResolveAPIURL(settings), settings.AccessKey, nil),
			Tokens:       ingest.New(ingest.ResolveBaseURL(settings), settings.AccessKey, logger),
			Layer:        layer.NewResolver(layer.Distribution{Dir: settings.ExtensionDir}, settings.DevExtension),
			History:      store,
			IngestionURL: ingest.ResolveBaseURL(settings),
		},
		Storage: func(ctx context.Context, bucket string) (command.Storage, error) {
			client, err := factory.S3(ctx)
			if err != nil {
				return nil, fmt.Errorf("create s3 client: %w", err)
			}
			store, err := cloud.NewArtifactStore(client, bucket)
			if err != nil {
				return nil, err
			}
			return store, nil
		},
	}, nil
}

// newHistoryStore uses the DynamoDB ledger when a table is configured and a file
// under the home directory otherwise.
func newHistoryStore(settings config.Settings, factory cloud.ClientFactory) (history.Store, error) {
	if settings.HistoryTable == "" {
		return history.NewFileStore(filepath.Join(settings.HomeDir, meta.HistoryFileName)), nil
	}
	client, err := factory.DynamoDB(context.Background())
	if err != nil {
		return nil, fmt.Errorf("create dynamodb client: %w", err)
	}
	return history.NewDynamoStore(client, settings.HistoryTable), nil
}
