// Where: internal/usecase/pipeline/statefile.go
// What: Package state file read/write.
// Why: Deploying a pre-built package needs the artifact prefix and console state recorded at package time.
package pipeline

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	domain "github.com/poruru-code/fndeploy/internal/domain/console"
	"github.com/poruru-code/fndeploy/internal/meta"
)

const stateSchemaURL = "state.schema.json"

//go:embed schema/state.schema.json
var stateSchemaSource []byte

var (
	stateSchemaOnce sync.Once
	stateSchemaErr  error
	stateSchema     *jsonschema.Schema

	// ErrStateNotFound means the package directory has no state file.
	ErrStateNotFound = errors.New("package state file not found")
)

// State is the content of the package state file.
type State struct {
	Service               string                 `json:"service"`
	Stage                 string                 `json:"stage"`
	Region                string                 `json:"region,omitempty"`
	ArtifactDirectoryName string                 `json:"artifactDirectoryName"`
	Functions             []string               `json:"functions,omitempty"`
	Console               *domain.PersistedState `json:"console,omitempty"`
}

// WriteState writes state into dir.
func WriteState(dir string, state State) (string, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	target := filepath.Join(dir, meta.StateFile)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write state: %w", err)
	}
	return target, nil
}

// ReadState loads and validates the state file in dir.
func ReadState(dir string) (State, error) {
	data, err := os.ReadFile(filepath.Join(dir, meta.StateFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, fmt.Errorf("%w: %s", ErrStateNotFound, dir)
		}
		return State{}, fmt.Errorf("read state: %w", err)
	}
	if err := validateState(data); err != nil {
		return State{}, fmt.Errorf("invalid package state: %w", err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}
	return state, nil
}

func validateState(data []byte) error {
	stateSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(stateSchemaURL, bytes.NewReader(stateSchemaSource)); err != nil {
			stateSchemaErr = err
			return
		}
		stateSchema, stateSchemaErr = compiler.Compile(stateSchemaURL)
	})
	if stateSchemaErr != nil {
		return stateSchemaErr
	}
	var document any
	if err := json.Unmarshal(data, &document); err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}
	return stateSchema.Validate(document)
}
