// Package jsonfile provides JSON-file-backed persistence for small,
// single-writer state: the feed snapshot and the alert permission.
package jsonfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/careerhub/pulse/internal/core/feed"
)

// SnapshotStore implements feed.Persister using a single JSON file. The
// file holds exactly two fields, the notification list and unread counter,
// matching the feed.Snapshot shape.
type SnapshotStore struct {
	path string
	mu   sync.RWMutex
}

var _ feed.Persister = (*SnapshotStore)(nil)

// NewSnapshotStore creates a snapshot store at the given path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Load reads the snapshot from disk. A missing or empty file yields an
// empty snapshot, not an error.
func (s *SnapshotStore) Load() (feed.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return feed.Snapshot{}, nil
		}
		return feed.Snapshot{}, err
	}

	if len(data) == 0 {
		return feed.Snapshot{}, nil
	}

	var snap feed.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return feed.Snapshot{}, err
	}

	return snap, nil
}

// Save writes the snapshot to disk atomically via a temp file rename.
func (s *SnapshotStore) Save(snap feed.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return writeAtomic(s.path, snap)
}

// writeAtomic marshals v and renames a temp file over path so readers
// never observe a partial write.
func writeAtomic(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}
