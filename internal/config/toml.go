// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice    PracticeConfig    `toml:"practice"`
	Progression ProgressionConfig `toml:"progression"`
	Scoring     ScoringConfig     `toml:"scoring"`
	Log         LogConfig         `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Tier     *int    `toml:"tier"`
	Smart    *bool   `toml:"smart"`
	Seed     *int64  `toml:"seed"`
	Passages *string `toml:"passages"`
}

// ProgressionConfig maps the level curve and unlock table.
type ProgressionConfig struct {
	CurveBase    *int  `toml:"curve-base"`
	CurveGrowth  *int  `toml:"curve-growth"`
	UnlockLevels []int `toml:"unlock-levels"`
	HistoryLimit *int  `toml:"history-limit"`
}

// ScoringConfig maps the XP bonus parameters.
type ScoringConfig struct {
	SpeedThreshold     *int     `toml:"speed-threshold"`
	SpeedMultiplier    *float64 `toml:"speed-multiplier"`
	AccuracyThreshold  *int     `toml:"accuracy-threshold"`
	AccuracyMultiplier *float64 `toml:"accuracy-multiplier"`
}

// LogConfig maps operational logging settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
