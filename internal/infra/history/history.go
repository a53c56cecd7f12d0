// Where: internal/infra/history/history.go
// What: Ledger of the last deployed console state per service and stage.
// Why: Turning the integration off must retire the token the previous deploy activated.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Record is the console state of the most recent successful deploy.
type Record struct {
	Service    string    `json:"service"`
	Stage      string    `json:"stage"`
	OrgID      string    `json:"orgId"`
	Token      string    `json:"token"`
	Activation bool      `json:"activation"`
	DeployedAt time.Time `json:"deployedAt"`
}

// Store reads and writes deployment records.
type Store interface {
	Last(ctx context.Context, service, stage string) (Record, bool, error)
	Put(ctx context.Context, record Record) error
}

func recordKey(service, stage string) string {
	return service + "#" + stage
}

// FileStore keeps records in a JSON file; used when no history table is configured.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore stores records at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Last(_ context.Context, service, stage string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load()
	if err != nil {
		return Record{}, false, err
	}
	record, ok := records[recordKey(service, stage)]
	return record, ok, nil
}

func (s *FileStore) Put(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load()
	if err != nil {
		return err
	}
	records[recordKey(record.Service, record.Stage)] = record
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) load() (map[string]Record, error) {
	records := map[string]Record{}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return records, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return records, nil
}
