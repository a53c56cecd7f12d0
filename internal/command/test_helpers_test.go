package command

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/poruru-code/fndeploy/internal/config"
	"github.com/poruru-code/fndeploy/internal/infra/history"
	"github.com/poruru-code/fndeploy/internal/infra/ingest"
	"github.com/poruru-code/fndeploy/internal/infra/layer"
	"github.com/poruru-code/fndeploy/internal/infra/platform"
	"github.com/poruru-code/fndeploy/internal/meta"
	consoleuc "github.com/poruru-code/fndeploy/internal/usecase/console"
)

const consoleService = `
service: orders
org: acme
console: true
provider:
  name: aws
  stage: dev
  runtime: nodejs20.x
  deploymentBucket: acme-deploys
functions:
  hello:
    handler: index.handler
`

type fakeTokens struct {
	mu          sync.Mutex
	creates     int
	activations int
	deactivated int
}

func (f *fakeTokens) Create(_ context.Context, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	return "token-abcdef123", nil
}

func (f *fakeTokens) Activate(_ context.Context, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activations++
	return nil
}

func (f *fakeTokens) DeactivateOthers(_ context.Context, _, _, _ string) ingest.SoftResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deactivated++
	return ingest.SoftResult{}
}

func (f *fakeTokens) DeactivateSingle(_ context.Context, _ string) ingest.SoftResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deactivated++
	return ingest.SoftResult{}
}

func (f *fakeTokens) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates + f.activations + f.deactivated
}

type fakeLayer struct{}

func (fakeLayer) Resolve() (layer.Artifact, error) {
	return layer.Artifact{VersionPostfix: "1-0-0", Filename: layer.FilenameFor("1-0-0")}, nil
}

func (fakeLayer) Package(outputDir string) (string, error) {
	target := filepath.Join(outputDir, layer.FilenameFor("1-0-0"))
	return target, os.WriteFile(target, []byte("zip"), 0o644)
}

type fakeStorage struct {
	bucket      string
	uploads     []string
	deployments []string
}

func (f *fakeStorage) UploadDir(_ context.Context, dir, keyPrefix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		f.uploads = append(f.uploads, keyPrefix+"/"+entry.Name())
	}
	return f.uploads, nil
}

func (f *fakeStorage) ListDeployments(_ context.Context, _ string) ([]string, error) {
	return f.deployments, nil
}

type testEnv struct {
	dir     string
	out     *bytes.Buffer
	tokens  *fakeTokens
	storage *fakeStorage
	deps    Dependencies
}

func newTestEnv(t *testing.T, serviceYAML string, settings config.Settings) *testEnv {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, meta.ServiceFile), []byte(serviceYAML), 0o644); err != nil {
		t.Fatalf("write service: %v", err)
	}
	setWorkingDir(t, dir)

	env := &testEnv{
		dir:     dir,
		out:     &bytes.Buffer{},
		tokens:  &fakeTokens{},
		storage: &fakeStorage{},
	}
	env.deps = Dependencies{
		Out:          env.out,
		ErrOut:       io.Discard,
		ProjectDir:   dir,
		LoadSettings: func() config.Settings { return settings },
		Now:          func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
		NewRuntime: func(settings config.Settings, errOut io.Writer) (Runtime, error) {
			return Runtime{
				Console: consoleuc.Dependencies{
					Logger:       log.New(errOut),
					Auth:         platform.AccessKeyAuth{AccessKey: settings.AccessKey},
					Orgs:         platform.StaticOrgs{"acme": "org-1"},
					Tokens:       env.tokens,
					Layer:        fakeLayer{},
					History:      history.NewFileStore(filepath.Join(dir, "history.json")),
					IngestionURL: "https://ingest.example.com",
				},
				Storage: func(_ context.Context, bucket string) (Storage, error) {
					env.storage.bucket = bucket
					return env.storage, nil
				},
			}, nil
		},
	}
	return env
}

func setWorkingDir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore cwd %s: %v", prev, err)
		}
	})
}
