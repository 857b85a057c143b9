package project

import (
	"path/filepath"

	"github.com/piwi3910/SquarePack/internal/model"
)

// DefaultPresetPath returns the default file path for the preset store.
// This is located at ~/.squarepack/presets.json.
func DefaultPresetPath() string {
	return filepath.Join(DefaultConfigDir(), "presets.json")
}

// SavePresets writes the preset store to a JSON file.
func SavePresets(path string, store model.PresetStore) error {
	return writeJSONFile(path, store)
}

// LoadPresets reads a preset store from a JSON file.
// If the file does not exist, returns an empty store.
func LoadPresets(path string) (model.PresetStore, error) {
	store := model.NewPresetStore()
	if err := readJSONFile(path, &store); err != nil {
		return model.PresetStore{}, err
	}
	if store.Presets == nil {
		store.Presets = []model.Preset{}
	}
	return store, nil
}
