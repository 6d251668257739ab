// Package paths provides standardized filesystem paths for the resolution
// service. The browsing profile used for target resolution must stay separate
// from any other automation profile so concurrent tools never fight over the
// same session lock.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// Directory names under the user cache root.
const (
	appDir     = "webnav"
	profileDir = "resolver-profile"
	overlayDir = "domains"
)

// CacheRoot returns the per-user cache root for the service.
func CacheRoot() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("user cache dir unavailable: %w", err)
	}
	return filepath.Join(base, appDir), nil
}

// ResolverProfile returns the browsing profile directory for the resolver,
// creating it with owner-only permissions if missing.
func ResolverProfile() (string, error) {
	root, err := CacheRoot()
	if err != nil {
		return "", err
	}
	return EnsureOwnerOnly(filepath.Join(root, profileDir))
}

// DomainOverlay returns the default location of the domain overlay file.
func DomainOverlay() (string, error) {
	root, err := CacheRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, overlayDir, "known_domains.yaml"), nil
}

// EnsureOwnerOnly creates dir with 0700 permissions and verifies that an
// existing dir is not group or world accessible.
func EnsureOwnerOnly(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		if err := os.Chmod(dir, 0o700); err != nil {
			return "", fmt.Errorf("failed to tighten permissions on %s: %w", dir, err)
		}
	}
	return dir, nil
}
