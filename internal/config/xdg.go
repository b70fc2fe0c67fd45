// Package config provides XDG path helpers.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const appName = "supertype"

// Environment overrides for the data and config directories.
const (
	EnvDataDir   = "SUPERTYPE_DATA_DIR"
	EnvConfigDir = "SUPERTYPE_CONFIG_DIR"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// ConfigDir returns the application config directory.
func ConfigDir() string {
	if v := os.Getenv(EnvConfigDir); v != "" {
		return v
	}
	return filepath.Join(XDGConfigHome(), appName)
}

// DataDir returns the application data directory.
func DataDir() string {
	if v := os.Getenv(EnvDataDir); v != "" {
		return v
	}
	return filepath.Join(XDGDataHome(), appName)
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), appName+".db")
}

// DefaultLogPath returns the default path for the operational log.
func DefaultLogPath() string {
	return filepath.Join(DataDir(), appName+".log")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadEnv loads .env files from the working directory and the config
// directory. Variables already set in the environment win. Missing files are skipped.
func LoadEnv() error {
	candidates := []string{".env", filepath.Join(XDGConfigHome(), appName, ".env")}
	for _, path := range candidates {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}
