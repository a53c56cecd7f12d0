// Where: internal/command/app_test.go
// What: Tests for CLI run behavior.
// Why: Ensure command routing and console wiring remain stable.
package command

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poruru-code/fndeploy/internal/config"
	"github.com/poruru-code/fndeploy/internal/meta"
	"github.com/poruru-code/fndeploy/internal/usecase/pipeline"
)

func TestRunNoArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	if code := Run(nil, Dependencies{Out: &out}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out.String(), "deploy function -f <name>") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	if code := Run([]string{"version"}, Dependencies{Out: &out}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.HasPrefix(out.String(), meta.AppName+" ") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunPackageWritesConsoleState(t *testing.T) {
	env := newTestEnv(t, consoleService, config.Settings{AccessKey: "key", CI: true})

	if code := Run([]string{"package", "--no-emoji"}, env.deps); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, env.out.String())
	}
	state, err := pipeline.ReadState(filepath.Join(env.dir, meta.PackageDir))
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	if state.Console == nil || state.Console.OrgID != "org-1" || state.Console.IngestionToken != "token-abcdef123" {
		t.Fatalf("unexpected console state: %+v", state.Console)
	}
	if env.tokens.creates != 1 || env.tokens.activations != 0 {
		t.Fatalf("package must create once and never activate: %+v", env.tokens)
	}
	if !strings.Contains(env.out.String(), "token-…") {
		t.Fatalf("expected masked token in summary: %q", env.out.String())
	}
}

func TestRunPackageNotAuthenticated(t *testing.T) {
	env := newTestEnv(t, consoleService, config.Settings{CI: true})

	if code := Run([]string{"package"}, env.deps); code == 0 {
		t.Fatalf("expected failure without access key")
	}
	if !strings.Contains(env.out.String(), "CONSOLE_NOT_AUTHENTICATED") {
		t.Fatalf("expected error code in output: %q", env.out.String())
	}
	if env.tokens.total() != 0 {
		t.Fatalf("expected no token calls")
	}
}

func TestRunDeployPackagesAndActivates(t *testing.T) {
	env := newTestEnv(t, consoleService, config.Settings{AccessKey: "key", CI: true})

	if code := Run([]string{"deploy"}, env.deps); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, env.out.String())
	}
	if env.storage.bucket != "acme-deploys" {
		t.Fatalf("unexpected bucket: %s", env.storage.bucket)
	}
	if len(env.storage.uploads) == 0 {
		t.Fatalf("expected uploads")
	}
	if env.tokens.creates != 1 || env.tokens.activations != 1 || env.tokens.deactivated != 1 {
		t.Fatalf("unexpected token calls: %+v", env.tokens)
	}
}

func TestRunDeployExistingPackage(t *testing.T) {
	env := newTestEnv(t, consoleService, config.Settings{AccessKey: "key", CI: true})
	if code := Run([]string{"package"}, env.deps); code != 0 {
		t.Fatalf("package failed: %s", env.out.String())
	}

	pkg := filepath.Join(env.dir, meta.PackageDir)
	if code := Run([]string{"deploy", "--package", pkg}, env.deps); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, env.out.String())
	}
	if env.tokens.creates != 1 {
		t.Fatalf("deploying a package must reuse its token, creates=%d", env.tokens.creates)
	}
	if env.tokens.activations != 1 {
		t.Fatalf("expected one activation, got %d", env.tokens.activations)
	}
}

func TestRunDeployPackageActivationMismatch(t *testing.T) {
	env := newTestEnv(t, consoleService, config.Settings{AccessKey: "key", CI: true})
	if code := Run([]string{"package"}, env.deps); code != 0 {
		t.Fatalf("package failed: %s", env.out.String())
	}
	disabled := strings.Replace(consoleService, "console: true", "console: false", 1)
	if err := os.WriteFile(filepath.Join(env.dir, meta.ServiceFile), []byte(disabled), 0o644); err != nil {
		t.Fatalf("rewrite service: %v", err)
	}

	env.out.Reset()
	pkg := filepath.Join(env.dir, meta.PackageDir)
	if code := Run([]string{"deploy", "--package", pkg}, env.deps); code == 0 {
		t.Fatalf("expected activation mismatch failure")
	}
	if !strings.Contains(env.out.String(), "CONSOLE_ACTIVATION_MISMATCH") {
		t.Fatalf("unexpected output: %q", env.out.String())
	}
	if len(env.storage.uploads) != 0 {
		t.Fatalf("mismatch must fail before upload")
	}
}

func TestRunDeployDisabledPackageWithConsoleOn(t *testing.T) {
	disabled := strings.Replace(consoleService, "console: true", "console: false", 1)
	env := newTestEnv(t, disabled, config.Settings{AccessKey: "key", CI: true})
	if code := Run([]string{"package"}, env.deps); code != 0 {
		t.Fatalf("package failed: %s", env.out.String())
	}
	if err := os.WriteFile(filepath.Join(env.dir, meta.ServiceFile), []byte(consoleService), 0o644); err != nil {
		t.Fatalf("rewrite service: %v", err)
	}

	env.out.Reset()
	pkg := filepath.Join(env.dir, meta.PackageDir)
	if code := Run([]string{"deploy", "--package", pkg}, env.deps); code == 0 {
		t.Fatalf("expected activation mismatch failure")
	}
	if !strings.Contains(env.out.String(), "CONSOLE_ACTIVATION_MISMATCH") {
		t.Fatalf("unexpected output: %q", env.out.String())
	}
	if env.tokens.creates != 0 || env.tokens.activations != 0 {
		t.Fatalf("unexpected token calls: %+v", env.tokens)
	}
}

func TestRunDeployFunctionRequiresName(t *testing.T) {
	env := newTestEnv(t, consoleService, config.Settings{AccessKey: "key", CI: true})
	if code := Run([]string{"deploy", "function"}, env.deps); code == 0 {
		t.Fatalf("expected failure without -f")
	}
	if !strings.Contains(env.out.String(), "-f/--function") {
		t.Fatalf("unexpected output: %q", env.out.String())
	}
}

func TestRunDeployFunction(t *testing.T) {
	env := newTestEnv(t, consoleService, config.Settings{AccessKey: "key", CI: true})
	if code := Run([]string{"deploy", "function", "-f", "hello"}, env.deps); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, env.out.String())
	}
	if !strings.Contains(env.out.String(), "HelloLambdaFunction") {
		t.Fatalf("unexpected output: %q", env.out.String())
	}
	if env.tokens.creates != 1 || env.tokens.activations != 1 {
		t.Fatalf("unexpected token calls: %+v", env.tokens)
	}
}

func TestRunRollbackListsWithoutTokenCalls(t *testing.T) {
	env := newTestEnv(t, consoleService, config.Settings{AccessKey: "key", CI: true})
	env.storage.deployments = []string{"1714564800000-2024-05-01T12:00:00.000Z"}

	if code := Run([]string{"rollback"}, env.deps); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, env.out.String())
	}
	if !strings.Contains(env.out.String(), "1714564800000-2024-05-01T12:00:00.000Z") {
		t.Fatalf("expected deployment listing: %q", env.out.String())
	}
	if env.tokens.total() != 0 {
		t.Fatalf("rollback must not touch tokens, got %d calls", env.tokens.total())
	}
}

func TestRunUnknownDeployTarget(t *testing.T) {
	env := newTestEnv(t, consoleService, config.Settings{AccessKey: "key", CI: true})
	if code := Run([]string{"deploy", "stack"}, env.deps); code == 0 {
		t.Fatalf("expected failure for unknown target")
	}
}
