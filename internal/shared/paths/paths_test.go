//go:build !windows

package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureOwnerOnly(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "profile")

	got, err := EnsureOwnerOnly(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}

func TestEnsureOwnerOnlyTightensPermissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "loose")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	_, err := EnsureOwnerOnly(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}
