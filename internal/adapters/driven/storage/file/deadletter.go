package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/forkful-labs/forkful-cli/internal/core/ports/driven"
)

// Ensure DeadLetterStore implements the interface.
var _ driven.DeadLetterStore = (*DeadLetterStore)(nil)

// DeadLetterStore writes each failed upsert slice to its own timestamped
// JSON file under <dataDir>/deadletter, for manual or automated
// reprocessing.
type DeadLetterStore struct {
	mu  sync.Mutex
	dir string
	seq int
}

// deadLetterRecord is the persisted envelope of one failed slice.
type deadLetterRecord struct {
	Namespace string              `json:"namespace"`
	FailedAt  time.Time           `json:"failed_at"`
	Cause     string              `json:"cause"`
	Items     []driven.VectorItem `json:"items"`
}

// NewDeadLetterStore creates the store under dataDir.
// If dataDir is empty, defaults to ~/.forkful/data.
func NewDeadLetterStore(dataDir string) (*DeadLetterStore, error) {
	dir, err := resolveDataDir(dataDir)
	if err != nil {
		return nil, err
	}
	dlDir := filepath.Join(dir, "deadletter")
	if err := os.MkdirAll(dlDir, 0700); err != nil {
		return nil, fmt.Errorf("creating dead letter directory: %w", err)
	}
	return &DeadLetterStore{dir: dlDir}, nil
}

// Record persists one failed slice together with its cause.
func (s *DeadLetterStore) Record(_ context.Context, namespace string, items []driven.VectorItem, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := deadLetterRecord{
		Namespace: namespace,
		FailedAt:  time.Now().UTC(),
		Cause:     cause.Error(),
	}
	rec.Items = items

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode dead letter: %w", err)
	}

	// Sequence number avoids collisions when two slices fail within the
	// same timestamp tick.
	s.seq++
	name := fmt.Sprintf("upsert-%s-%04d.json", rec.FailedAt.Format("20060102T150405"), s.seq)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0600); err != nil {
		return fmt.Errorf("write dead letter: %w", err)
	}
	return nil
}

// Dir returns the dead letter directory path.
func (s *DeadLetterStore) Dir() string {
	return s.dir
}
