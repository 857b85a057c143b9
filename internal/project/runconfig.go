package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/SquarePack/internal/engine"
	"github.com/piwi3910/SquarePack/internal/model"
)

// RunSpec is the YAML run file accepted by the CLI. Every key is optional;
// a missing config block keeps the caller's defaults field by field.
type RunSpec struct {
	Name       string                      `yaml:"name,omitempty"`
	Seed       *int64                      `yaml:"seed,omitempty"`
	MaxTicks   int                         `yaml:"max_ticks,omitempty"`
	IntervalMS int                         `yaml:"interval_ms,omitempty"`
	Config     *model.Config               `yaml:"config,omitempty"`
	Scenarios  []engine.ComparisonScenario `yaml:"scenarios,omitempty"`
	Seeds      []int64                     `yaml:"seeds,omitempty"`
}

// LoadRunSpec reads a YAML run file. Unknown keys are rejected. Scenario and
// top-level configs start from defaults so partial blocks are allowed.
func LoadRunSpec(path string, defaults model.Config) (RunSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunSpec{}, fmt.Errorf("failed to read run spec: %w", err)
	}
	return ParseRunSpec(data, defaults)
}

// ParseRunSpec decodes a YAML run file from memory.
func ParseRunSpec(data []byte, defaults model.Config) (RunSpec, error) {
	var raw struct {
		Name       string      `yaml:"name"`
		Seed       *int64      `yaml:"seed"`
		MaxTicks   int         `yaml:"max_ticks"`
		IntervalMS int         `yaml:"interval_ms"`
		Config     *yaml.Node  `yaml:"config"`
		Scenarios  []yaml.Node `yaml:"scenarios"`
		Seeds      []int64     `yaml:"seeds"`
	}
	if err := strictDecode(bytes.NewReader(data), &raw); err != nil {
		return RunSpec{}, fmt.Errorf("failed to parse run spec: %w", err)
	}
	if raw.MaxTicks < 0 {
		return RunSpec{}, fmt.Errorf("invalid run spec: max_ticks must not be negative")
	}
	if raw.IntervalMS < 0 {
		return RunSpec{}, fmt.Errorf("invalid run spec: interval_ms must not be negative")
	}

	spec := RunSpec{
		Name:       raw.Name,
		Seed:       raw.Seed,
		MaxTicks:   raw.MaxTicks,
		IntervalMS: raw.IntervalMS,
		Seeds:      raw.Seeds,
	}
	if !isNull(raw.Config) {
		cfg, err := decodeConfig(raw.Config, defaults)
		if err != nil {
			return RunSpec{}, fmt.Errorf("failed to parse run spec config: %w", err)
		}
		spec.Config = &cfg
	}

	base := defaults
	if spec.Config != nil {
		base = *spec.Config
	}
	for i := range raw.Scenarios {
		var sc struct {
			Name   string     `yaml:"name"`
			Config *yaml.Node `yaml:"config"`
		}
		if err := decodeNode(&raw.Scenarios[i], &sc); err != nil {
			return RunSpec{}, fmt.Errorf("failed to parse scenario %d: %w", i+1, err)
		}
		if sc.Name == "" {
			sc.Name = fmt.Sprintf("Scenario %d", i+1)
		}
		cfg := base
		if !isNull(sc.Config) {
			var err error
			if cfg, err = decodeConfig(sc.Config, base); err != nil {
				return RunSpec{}, fmt.Errorf("failed to parse scenario %q: %w", sc.Name, err)
			}
		}
		spec.Scenarios = append(spec.Scenarios, engine.ComparisonScenario{Name: sc.Name, Config: cfg})
	}
	return spec, nil
}

func isNull(node *yaml.Node) bool {
	return node == nil || node.Kind == 0 || node.ShortTag() == "!!null"
}

func decodeConfig(node *yaml.Node, defaults model.Config) (model.Config, error) {
	cfg := defaults
	if err := decodeNode(node, &cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// decodeNode re-encodes a node and decodes it strictly. yaml.Node.Decode
// does not honour KnownFields.
func decodeNode(node *yaml.Node, out any) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	return strictDecode(bytes.NewReader(data), out)
}

func strictDecode(r io.Reader, out any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// SaveRunSpec writes a run file that LoadRunSpec can read back.
func SaveRunSpec(path string, spec RunSpec) error {
	data, err := yaml.Marshal(spec)
	if err != nil {
		return fmt.Errorf("failed to marshal run spec: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run spec: %w", err)
	}
	return nil
}
