package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new runs
	DefaultContainerArea    float64 `json:"default_container_area"`
	DefaultMaxFailures      int     `json:"default_max_failures"`
	DefaultAttemptsPerFrame int     `json:"default_attempts_per_frame"`
	DefaultRearrPerFrame    int     `json:"default_rearr_attempts_per_frame"`
	DefaultTransStep        float64 `json:"default_trans_step"`
	DefaultRotStep          float64 `json:"default_rot_step"`
	DefaultSeed             int64   `json:"default_seed"`

	// Application preferences
	TickIntervalMS int      `json:"tick_interval_ms"` // pacing between ticks, 0 = as fast as possible
	OutputDir      string   `json:"output_dir"`
	GCodeProfile   string   `json:"gcode_profile"`
	UnitSize       float64  `json:"unit_size"` // mm per square side for CNC export
	RecentRuns     []string `json:"recent_runs"`
}

// maxRecentRuns bounds the RecentRuns list.
const maxRecentRuns = 10

// DefaultAppConfig returns an AppConfig populated with the values from
// DefaultConfig().
func DefaultAppConfig() AppConfig {
	defaults := DefaultConfig()
	return AppConfig{
		DefaultContainerArea:    defaults.ContainerArea,
		DefaultMaxFailures:      defaults.MaxFailures,
		DefaultAttemptsPerFrame: defaults.AttemptsPerFrame,
		DefaultRearrPerFrame:    defaults.RearrAttemptsPerFrame,
		DefaultTransStep:        defaults.TransStep,
		DefaultRotStep:          defaults.RotStep,
		DefaultSeed:             42,
		TickIntervalMS:          0,
		OutputDir:               ".",
		GCodeProfile:            "Generic",
		UnitSize:                50.0,
		RecentRuns:              []string{},
	}
}

// ApplyToConfig copies the default values from AppConfig into a Config.
func (c AppConfig) ApplyToConfig(cfg *Config) {
	cfg.ContainerArea = c.DefaultContainerArea
	cfg.MaxFailures = c.DefaultMaxFailures
	cfg.AttemptsPerFrame = c.DefaultAttemptsPerFrame
	cfg.RearrAttemptsPerFrame = c.DefaultRearrPerFrame
	cfg.TransStep = c.DefaultTransStep
	cfg.RotStep = c.DefaultRotStep
}

// AddRecentRun moves path to the front of RecentRuns, dropping duplicates
// and trimming the list to its maximum length.
func (c *AppConfig) AddRecentRun(path string) {
	runs := []string{path}
	for _, r := range c.RecentRuns {
		if r != path {
			runs = append(runs, r)
		}
	}
	if len(runs) > maxRecentRuns {
		runs = runs[:maxRecentRuns]
	}
	c.RecentRuns = runs
}
