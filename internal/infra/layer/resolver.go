// Where: internal/infra/layer/resolver.go
// What: Extension layer version and filename resolution.
// Why: Package and deploy must agree on the archive name for one distribution version.
package layer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
)

const (
	// NamePrefix prefixes both the layer name and the archive filename.
	NamePrefix = "sls-otel-extension-node"

	manifestFile = "manifest.json"
	archiveFile  = "extension.zip"
)

// devEpoch is the reference point for development-build version postfixes.
var devEpoch = time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC)

var errVersionMissing = errors.New("extension distribution manifest has no version")

// Artifact identifies the extension archive for one build.
type Artifact struct {
	VersionPostfix string
	Filename       string
}

// Distribution is the installed extension package: a manifest plus a prebuilt archive.
type Distribution struct {
	Dir string
}

type distributionManifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ArchivePath returns the prebuilt archive location.
func (d Distribution) ArchivePath() string {
	return filepath.Join(d.Dir, archiveFile)
}

// ReleaseVersion reads and validates the distribution's release version.
func (d Distribution) ReleaseVersion() (string, error) {
	data, err := os.ReadFile(filepath.Join(d.Dir, manifestFile))
	if err != nil {
		return "", fmt.Errorf("read extension manifest: %w", err)
	}
	var manifest distributionManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", fmt.Errorf("decode extension manifest: %w", err)
	}
	version := strings.TrimSpace(manifest.Version)
	if version == "" {
		return "", errVersionMissing
	}
	if _, err := semver.NewVersion(version); err != nil {
		return "", fmt.Errorf("invalid extension version %q: %w", version, err)
	}
	return version, nil
}

// Resolver computes the Artifact once and returns the memoized result afterwards.
type Resolver struct {
	dist     Distribution
	devBuild bool
	now      func() time.Time

	once     sync.Once
	artifact Artifact
	err      error
}

// NewResolver returns a Resolver for dist. devBuild switches to time-based postfixes.
func NewResolver(dist Distribution, devBuild bool) *Resolver {
	return &Resolver{dist: dist, devBuild: devBuild, now: time.Now}
}

// Resolve returns the memoized Artifact.
func (r *Resolver) Resolve() (Artifact, error) {
	r.once.Do(func() {
		postfix, err := r.versionPostfix()
		if err != nil {
			r.err = err
			return
		}
		r.artifact = Artifact{VersionPostfix: postfix, Filename: FilenameFor(postfix)}
	})
	return r.artifact, r.err
}

// Package copies the distribution archive into outputDir under the resolved filename.
func (r *Resolver) Package(outputDir string) (string, error) {
	artifact, err := r.Resolve()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	target := filepath.Join(outputDir, artifact.Filename)
	if err := copyFile(r.dist.ArchivePath(), target); err != nil {
		return "", err
	}
	return target, nil
}

func (r *Resolver) versionPostfix() (string, error) {
	if r.devBuild {
		return DevPostfix(r.now()), nil
	}
	return r.dist.ReleaseVersion()
}

// FilenameFor derives the archive filename from a version postfix.
func FilenameFor(postfix string) string {
	return NamePrefix + "." + postfix + ".zip"
}

// DevPostfix encodes whole seconds elapsed since devEpoch in base 32.
func DevPostfix(now time.Time) string {
	elapsed := int64(now.Sub(devEpoch) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	return strconv.FormatInt(elapsed, 32)
}
