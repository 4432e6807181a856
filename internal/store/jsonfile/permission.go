package jsonfile

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/careerhub/pulse/internal/alert"
)

// permissionFile is the on-disk shape of the persisted alert decision.
type permissionFile struct {
	Permission alert.Permission `json:"permission"`
}

// PermissionStore implements alert.PermissionStore using a JSON file.
type PermissionStore struct {
	path string
	mu   sync.RWMutex
}

var _ alert.PermissionStore = (*PermissionStore)(nil)

// NewPermissionStore creates a permission store at the given path.
func NewPermissionStore(path string) *PermissionStore {
	return &PermissionStore{path: path}
}

// Load reads the persisted decision. A missing file means undecided.
func (s *PermissionStore) Load() (alert.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return alert.PermissionDefault, nil
		}
		return alert.PermissionDefault, err
	}

	var file permissionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return alert.PermissionDefault, err
	}
	if file.Permission == "" {
		return alert.PermissionDefault, nil
	}

	return file.Permission, nil
}

// Save persists the decision atomically.
func (s *PermissionStore) Save(p alert.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return writeAtomic(s.path, permissionFile{Permission: p})
}
