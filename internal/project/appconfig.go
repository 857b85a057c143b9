package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/SquarePack/internal/model"
)

// DefaultConfigDir is ~/.squarepack, or ./.squarepack when the home
// directory is unknown. Presets and custom profiles live next to the config.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".squarepack")
}

// DefaultConfigPath is the application config file inside DefaultConfigDir.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig writes the application config as JSON.
func SaveAppConfig(path string, config model.AppConfig) error {
	return writeJSONFile(path, config)
}

// LoadAppConfig reads the application config on top of DefaultAppConfig, so
// a missing file or missing keys keep the defaults.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	if err := readJSONFile(path, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse app config: %w", err)
	}
	if config.RecentRuns == nil {
		config.RecentRuns = []string{}
	}
	return config, nil
}
