package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SquarePack/internal/engine"
	"github.com/piwi3910/SquarePack/internal/model"
)

// setCompareFlags overrides the compare flag variables for one test.
func setCompareFlags(t *testing.T, spec string, seeds int, first int64, maxTicks int) {
	t.Helper()
	oldSpec, oldSeeds, oldFirst, oldTicks := compareSpecPath, compareSeeds, compareFirst, compareMaxTicks
	compareSpecPath, compareSeeds, compareFirst, compareMaxTicks = spec, seeds, first, maxTicks
	t.Cleanup(func() {
		compareSpecPath, compareSeeds, compareFirst, compareMaxTicks = oldSpec, oldSeeds, oldFirst, oldTicks
	})
}

func TestSeedRange(t *testing.T) {
	assert.Equal(t, []int64{10, 11, 12}, seedRange(10, 3))
	assert.Empty(t, seedRange(1, 0))
}

func TestResolveComparison_Defaults(t *testing.T) {
	setCompareFlags(t, "", 3, 10, 0)
	base := model.DefaultConfig()

	scenarios, seeds, err := resolveComparison(base)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11, 12}, seeds)
	assert.Equal(t, engine.BuildDefaultScenarios(base), scenarios)
}

func TestResolveComparison_InvalidSeedCount(t *testing.T) {
	setCompareFlags(t, "", 0, 1, 0)

	_, _, err := resolveComparison(model.DefaultConfig())
	assert.Error(t, err)
}

func TestResolveComparison_ScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	spec := "max_ticks: 200\nseeds: [4, 8]\nscenarios:\n  - name: tiny\n    config:\n      container_area: 4\n  - name: lazy\n    config:\n      rearr_attempts_per_frame: 0\n"
	require.NoError(t, os.WriteFile(path, []byte(spec), 0644))
	setCompareFlags(t, path, 5, 1, 0)

	scenarios, seeds, err := resolveComparison(model.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 8}, seeds)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "tiny", scenarios[0].Name)
	assert.Equal(t, 4.0, scenarios[0].Config.ContainerArea)
	assert.Equal(t, 0, scenarios[1].Config.RearrAttemptsPerFrame)
	assert.Equal(t, 200, compareMaxTicks)
}

func TestPrintComparison(t *testing.T) {
	results := []engine.ComparisonResult{
		{
			Scenario:    engine.ComparisonScenario{Name: "Current Settings"},
			MeanCount:   3.5,
			StdDevCount: 0.5,
			MinCount:    3,
			MaxCount:    4,
			MeanDensity: 87.5,
			MeanTicks:   120,
		},
		{
			Scenario: engine.ComparisonScenario{Name: "Broken"},
			Err:      errors.New("scenario \"Broken\": invalid configuration"),
		},
	}

	var buf bytes.Buffer
	printComparison(&buf, results)
	out := buf.String()
	assert.Contains(t, out, "Scenario")
	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "87.50%")
	assert.Contains(t, out, "invalid configuration")
	assert.Equal(t, 1, countFailed(results))
}
