package jsonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/pulse/internal/alert"
)

func TestPermissionStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permission.json")
	store := NewPermissionStore(path)

	require.NoError(t, store.Save(alert.PermissionGranted))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, alert.PermissionGranted, got)
}

func TestPermissionStore_MissingFile_isUndecided(t *testing.T) {
	store := NewPermissionStore(filepath.Join(t.TempDir(), "nope.json"))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, alert.PermissionDefault, got)
}

func TestPermissionStore_EmptyValue_isUndecided(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permission.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"permission": ""}`), 0o644))

	store := NewPermissionStore(path)
	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, alert.PermissionDefault, got)
}

func TestPermissionStore_CorruptFile_returnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permission.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewPermissionStore(path)
	_, err := store.Load()
	assert.Error(t, err)
}
