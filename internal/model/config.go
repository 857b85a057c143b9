package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is matched by every ConfigurationError via errors.Is.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigurationError reports an out-of-domain configuration value.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%v: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidConfig) match.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Config holds the packing parameters of one run. All values are fixed
// between Start and Reset.
type Config struct {
	ContainerArea         float64 `json:"container_area" yaml:"container_area"`                     // Container area; side is its square root
	MaxFailures           int     `json:"max_failures" yaml:"max_failures"`                         // Consecutive failed insertions tolerated
	AttemptsPerFrame      int     `json:"attempts_per_frame" yaml:"attempts_per_frame"`             // Insertion attempts per tick
	RearrAttemptsPerFrame int     `json:"rearr_attempts_per_frame" yaml:"rearr_attempts_per_frame"` // Rearrangement attempts per tick
	TransStep             float64 `json:"trans_step" yaml:"trans_step"`                             // Max per-axis translation of a rearrangement
	RotStep               float64 `json:"rot_step" yaml:"rot_step"`                                 // Max rotation change of a rearrangement (radians)
}

// DefaultConfig returns the stock settings: a 10x10 container with
// 1000 rearrangements and one insertion per tick.
func DefaultConfig() Config {
	return Config{
		ContainerArea:         100.0,
		MaxFailures:           20000,
		AttemptsPerFrame:      1,
		RearrAttemptsPerFrame: 1000,
		TransStep:             0.4,
		RotStep:               0.4,
	}
}

// Validate returns a *ConfigurationError for the first out-of-domain field.
func (c Config) Validate() error {
	switch {
	case !(c.ContainerArea > 0):
		return &ConfigurationError{Field: "container_area", Value: c.ContainerArea, Reason: "must be positive"}
	case math.IsInf(c.ContainerArea, 1):
		return &ConfigurationError{Field: "container_area", Value: c.ContainerArea, Reason: "must be finite"}
	case c.MaxFailures < 0:
		return &ConfigurationError{Field: "max_failures", Value: c.MaxFailures, Reason: "must not be negative"}
	case c.AttemptsPerFrame < 0:
		return &ConfigurationError{Field: "attempts_per_frame", Value: c.AttemptsPerFrame, Reason: "must not be negative"}
	case c.RearrAttemptsPerFrame < 0:
		return &ConfigurationError{Field: "rearr_attempts_per_frame", Value: c.RearrAttemptsPerFrame, Reason: "must not be negative"}
	case !(c.TransStep >= 0):
		return &ConfigurationError{Field: "trans_step", Value: c.TransStep, Reason: "must not be negative"}
	case !(c.RotStep >= 0):
		return &ConfigurationError{Field: "rot_step", Value: c.RotStep, Reason: "must not be negative"}
	}
	return nil
}

// Container returns the container described by ContainerArea.
func (c Config) Container() Container {
	return NewContainer(c.ContainerArea)
}
