package config

import (
	"errors"
	"os"
	"path/filepath"
)

func appDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if home == "" {
		return "", errors.New("home directory not found")
	}
	return filepath.Join(home, ".mine-anything"), nil
}

func DefaultConfigPath() (string, error) {
	dir, err := appDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func defaultStorePath() string {
	dir, err := appDir()
	if err != nil {
		return "mine-anything.db"
	}
	return filepath.Join(dir, "mine-anything.db")
}

func defaultLogDir() string {
	dir, err := appDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "mine-anything-logs")
	}
	return filepath.Join(dir, "logs")
}
