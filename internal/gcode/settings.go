package gcode

import "fmt"

// Settings controls how a packed layout is machined. Layout coordinates are
// scaled by UnitSize, so a square becomes a UnitSize x UnitSize mm part.
type Settings struct {
	Profile      string  `json:"profile"`
	UnitSize     float64 `json:"unit_size"`     // mm per square side
	ToolDiameter float64 `json:"tool_diameter"` // mm
	FeedRate     float64 `json:"feed_rate"`     // mm/min
	PlungeRate   float64 `json:"plunge_rate"`   // mm/min
	SpindleSpeed int     `json:"spindle_speed"` // RPM
	SafeZ        float64 `json:"safe_z"`
	CutDepth     float64 `json:"cut_depth"`
	PassDepth    float64 `json:"pass_depth"`

	// Holding tabs on the final pass
	TabsPerSide int     `json:"tabs_per_side"`
	TabWidth    float64 `json:"tab_width"`
	TabHeight   float64 `json:"tab_height"`

	UseClimb     bool `json:"use_climb"`     // clockwise outside cuts
	CutContainer bool `json:"cut_container"` // also trace the container boundary
}

// DefaultSettings returns settings for 18mm sheet stock on a small router.
func DefaultSettings() Settings {
	return Settings{
		Profile:      "Generic",
		UnitSize:     50.0,
		ToolDiameter: 6.0,
		FeedRate:     1500.0,
		PlungeRate:   500.0,
		SpindleSpeed: 18000,
		SafeZ:        5.0,
		CutDepth:     18.0,
		PassDepth:    6.0,
		TabsPerSide:  0,
		TabWidth:     8.0,
		TabHeight:    2.0,
		UseClimb:     true,
	}
}

// Validate reports settings that would produce an unusable program.
func (s Settings) Validate() error {
	switch {
	case s.UnitSize <= 0:
		return fmt.Errorf("unit size must be positive, got %.3f", s.UnitSize)
	case s.ToolDiameter < 0:
		return fmt.Errorf("tool diameter must not be negative, got %.3f", s.ToolDiameter)
	case s.CutDepth <= 0:
		return fmt.Errorf("cut depth must be positive, got %.3f", s.CutDepth)
	case s.PassDepth <= 0:
		return fmt.Errorf("pass depth must be positive, got %.3f", s.PassDepth)
	case s.TabsPerSide < 0:
		return fmt.Errorf("tabs per side must not be negative, got %d", s.TabsPerSide)
	}
	return nil
}
