package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Preset is a named, reusable run configuration.
type Preset struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	Seed        int64  `json:"seed"`
	Config      Config `json:"config"`
}

// NewPreset creates a preset from the given configuration and seed.
func NewPreset(name, description string, seed int64, cfg Config) Preset {
	now := time.Now().UTC().Format(time.RFC3339)
	return Preset{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Seed:        seed,
		Config:      cfg,
	}
}

// ToRun creates a new empty Run from this preset.
func (p Preset) ToRun(runName string) Run {
	return NewRun(runName, p.Seed, p.Config)
}

// PresetStore holds a collection of presets.
type PresetStore struct {
	Presets []Preset `json:"presets"`
}

// NewPresetStore creates an empty preset store.
func NewPresetStore() PresetStore {
	return PresetStore{
		Presets: []Preset{},
	}
}

// Put adds a preset, replacing any existing preset with the same name.
func (ps *PresetStore) Put(p Preset) {
	for i := range ps.Presets {
		if ps.Presets[i].Name == p.Name {
			p.ID = ps.Presets[i].ID
			p.CreatedAt = ps.Presets[i].CreatedAt
			ps.Presets[i] = p
			return
		}
	}
	ps.Presets = append(ps.Presets, p)
}

// Remove removes a preset by name or ID. Returns true if found and removed.
func (ps *PresetStore) Remove(key string) bool {
	for i, p := range ps.Presets {
		if p.ID == key || p.Name == key {
			ps.Presets = append(ps.Presets[:i], ps.Presets[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns a pointer to the preset with the given name or ID, or nil.
func (ps *PresetStore) Find(key string) *Preset {
	for i := range ps.Presets {
		if ps.Presets[i].Name == key || ps.Presets[i].ID == key {
			return &ps.Presets[i]
		}
	}
	return nil
}

// Names returns the preset names in alphabetical order.
func (ps *PresetStore) Names() []string {
	names := make([]string, len(ps.Presets))
	for i, p := range ps.Presets {
		names[i] = p.Name
	}
	sort.Strings(names)
	return names
}
