package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/piwi3910/SquarePack/internal/gcode"
)

// DefaultProfilesPath returns the default file path for custom G-code
// profiles, ~/.squarepack/profiles.json.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.json")
}

// SaveCustomProfiles saves custom profiles to a JSON file.
func SaveCustomProfiles(path string, profiles []gcode.Profile) error {
	return writeJSONFile(path, profiles)
}

// LoadCustomProfiles loads custom profiles from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomProfiles(path string) ([]gcode.Profile, error) {
	profiles := []gcode.Profile{}
	if err := readJSONFile(path, &profiles); err != nil {
		return nil, err
	}
	for i, p := range profiles {
		if p.Name == "" {
			return nil, errors.New("custom profile has no name")
		}
		profiles[i].IsBuiltIn = false
	}
	return profiles, nil
}

// ImportProfile reads a single shared profile from a JSON file.
func ImportProfile(path string) (gcode.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gcode.Profile{}, err
	}

	var profile gcode.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return gcode.Profile{}, err
	}

	if profile.Name == "" {
		return gcode.Profile{}, errors.New("imported profile has no name")
	}
	return profile, nil
}
