package config

import (
	"os"
	"path/filepath"
)

// defaultCacheDir resolves the per-user cache location, falling back to the
// system temp dir when the user cache dir cannot be determined.
func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "paneldesk")
}
