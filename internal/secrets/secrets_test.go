// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingDirectory(t *testing.T) {
	secrets, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, secrets)
}

func TestLoadReadsAndTrims(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "google-books-api-key"), []byte("  abc123\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty-key"), []byte("   \n"), 0o600))

	secrets, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "abc123", secrets["google-books-api-key"])
	_, ok := secrets["empty-key"]
	assert.False(t, ok, "empty secrets should be omitted")
}

func TestLoadSkipsDotfilesAndDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "subdir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real-key"), []byte("v"), 0o600))

	secrets, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"real-key": "v"}, secrets)
}
