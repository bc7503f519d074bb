package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// FindProjectRoot walks up from the working directory to the nearest go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// LoadEnv loads the project's .env into the process environment. Variables
// already set win. A missing project root or .env file is not an error.
func LoadEnv() error {
	root, err := FindProjectRoot()
	if err != nil {
		return nil
	}
	err = godotenv.Load(filepath.Join(root, ".env"))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
