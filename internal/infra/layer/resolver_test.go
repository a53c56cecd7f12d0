// Where: internal/infra/layer/resolver_test.go
// What: Tests for layer version resolution and packaging.
// Why: Filenames must be stable within a run and across package/deploy.
package layer

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeDistribution(t *testing.T, version string) Distribution {
	t.Helper()
	dir := t.TempDir()
	manifest := `{"name":"@serverless/aws-lambda-otel-extension","version":"` + version + `"}`
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(manifest), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "extension.zip"), []byte("zip-bytes"), 0o600); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return Distribution{Dir: dir}
}

func TestResolveUsesReleaseVersion(t *testing.T) {
	dist := writeDistribution(t, "0.4.2")
	artifact, err := NewResolver(dist, false).Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if artifact.VersionPostfix != "0.4.2" {
		t.Fatalf("unexpected postfix: %s", artifact.VersionPostfix)
	}
	if artifact.Filename != "sls-otel-extension-node.0.4.2.zip" {
		t.Fatalf("unexpected filename: %s", artifact.Filename)
	}
}

func TestResolveIsStableAcrossResolvers(t *testing.T) {
	dist := writeDistribution(t, "1.0.0")
	packageTime, err := NewResolver(dist, false).Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	deployTime, err := NewResolver(dist, false).Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if packageTime != deployTime {
		t.Fatalf("expected identical artifacts, got %+v vs %+v", packageTime, deployTime)
	}
}

func TestResolveMemoizesDevPostfix(t *testing.T) {
	dist := writeDistribution(t, "1.0.0")
	resolver := NewResolver(dist, true)
	tick := devEpoch.Add(1000 * time.Second)
	resolver.now = func() time.Time {
		tick = tick.Add(time.Hour)
		return tick
	}
	first, err := resolver.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, _ := resolver.Resolve()
	if first != second {
		t.Fatalf("expected memoized artifact, got %+v vs %+v", first, second)
	}
}

func TestDevPostfixBase32(t *testing.T) {
	if got := DevPostfix(devEpoch.Add(32 * time.Second)); got != "10" {
		t.Fatalf("unexpected postfix: %s", got)
	}
	if got := DevPostfix(devEpoch.Add(-time.Hour)); got != "0" {
		t.Fatalf("expected clamp to zero, got %s", got)
	}
}

func TestResolveRejectsInvalidVersion(t *testing.T) {
	dist := writeDistribution(t, "not-a-version")
	if _, err := NewResolver(dist, false).Resolve(); err == nil {
		t.Fatalf("expected invalid version error")
	}
	if _, err := NewResolver(Distribution{Dir: t.TempDir()}, false).Resolve(); err == nil {
		t.Fatalf("expected missing manifest error")
	}
}

func TestPackageCopiesArchive(t *testing.T) {
	dist := writeDistribution(t, "0.4.2")
	out := filepath.Join(t.TempDir(), ".serverless")
	target, err := NewResolver(dist, false).Package(out)
	if err != nil {
		t.Fatalf("package: %v", err)
	}
	if filepath.Base(target) != "sls-otel-extension-node.0.4.2.zip" {
		t.Fatalf("unexpected target: %s", target)
	}
	data, err := os.ReadFile(target)
	if err != nil || string(data) != "zip-bytes" {
		t.Fatalf("unexpected archive contents: %q %v", data, err)
	}
}

func TestNewResourceKey(t *testing.T) {
	artifact := Artifact{VersionPostfix: "0.4.2", Filename: FilenameFor("0.4.2")}
	res := NewResource(artifact, map[string]string{"Ref": "ServerlessDeploymentBucket"}, "serverless/orders/dev/123")
	if res.Type != "AWS::Lambda::LayerVersion" {
		t.Fatalf("unexpected type: %s", res.Type)
	}
	if res.Properties.Content.S3Key != "serverless/orders/dev/123/sls-otel-extension-node.0.4.2.zip" {
		t.Fatalf("unexpected key: %s", res.Properties.Content.S3Key)
	}
}
