package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/SquarePack/internal/model"
)

// RunFileVersion is written into every saved run.
const RunFileVersion = "1.0.0"

// RunFile is the on-disk envelope of a saved run.
type RunFile struct {
	Version string    `json:"version"`
	SavedAt string    `json:"saved_at"`
	Run     model.Run `json:"run"`
}

// SaveRun writes a run and its layout to a JSON file at the specified path.
func SaveRun(path string, run model.Run) error {
	file := RunFile{
		Version: RunFileVersion,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
		Run:     run,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run file: %w", err)
	}
	return nil
}

// LoadRun reads a run file written by SaveRun.
func LoadRun(path string) (model.Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Run{}, fmt.Errorf("failed to read run file: %w", err)
	}
	var file RunFile
	if err := json.Unmarshal(data, &file); err != nil {
		return model.Run{}, fmt.Errorf("failed to parse run file: %w", err)
	}
	if file.Version == "" {
		return model.Run{}, fmt.Errorf("invalid run file: missing version field")
	}
	if err := file.Run.Config.Validate(); err != nil {
		return model.Run{}, fmt.Errorf("invalid run file: %w", err)
	}
	// Ensure Squares is never nil
	if file.Run.Squares == nil {
		file.Run.Squares = []model.Square{}
	}
	return file.Run, nil
}
