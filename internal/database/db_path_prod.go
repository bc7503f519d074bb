//go:build prod

package database

import (
	"os"
	"path/filepath"
)

// GetDefaultDBPath returns the database path for production builds: the
// user's config directory, falling back to the working directory.
func GetDefaultDBPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return dbFileName
	}
	appDir := filepath.Join(configDir, appDirName)
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return dbFileName
	}
	return filepath.Join(appDir, dbFileName)
}

func IsDevelopment() bool {
	return false
}
