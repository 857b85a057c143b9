package engine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/piwi3910/SquarePack/internal/model"
)

// DefaultCompareTickCap bounds each comparison run when no cap is given.
// Configurations with zero insertion attempts never terminate on their own.
const DefaultCompareTickCap = 100000

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name   string       `yaml:"name"`
	Config model.Config `yaml:"config"`
}

// SeedOutcome is the final state of one seeded run.
type SeedOutcome struct {
	Seed       int64
	Count      int
	Density    float64
	Ticks      int
	Terminated bool
}

// ComparisonResult holds per-seed outcomes and their statistics for a single
// scenario.
type ComparisonResult struct {
	Scenario    ComparisonScenario
	Outcomes    []SeedOutcome
	MeanCount   float64
	StdDevCount float64
	MinCount    int
	MaxCount    int
	MeanDensity float64
	MeanTicks   float64
	Err         error // set when the scenario configuration is invalid
}

// CompareScenarios runs every scenario once per seed, each until termination
// or tickCap ticks (DefaultCompareTickCap when tickCap <= 0), and returns the
// results in scenario order.
func CompareScenarios(scenarios []ComparisonScenario, seeds []int64, tickCap int) []ComparisonResult {
	if tickCap <= 0 {
		tickCap = DefaultCompareTickCap
	}
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		res := ComparisonResult{Scenario: scenario}
		if err := scenario.Config.Validate(); err != nil {
			res.Err = fmt.Errorf("scenario %q: %w", scenario.Name, err)
			results = append(results, res)
			continue
		}

		counts := make([]float64, 0, len(seeds))
		densities := make([]float64, 0, len(seeds))
		ticks := make([]float64, 0, len(seeds))
		for _, seed := range seeds {
			out := runSeed(scenario.Config, seed, tickCap)
			res.Outcomes = append(res.Outcomes, out)
			counts = append(counts, float64(out.Count))
			densities = append(densities, out.Density)
			ticks = append(ticks, float64(out.Ticks))
		}

		if len(counts) > 0 {
			res.MeanCount, res.StdDevCount = stat.MeanStdDev(counts, nil)
			if len(counts) < 2 || math.IsNaN(res.StdDevCount) {
				res.StdDevCount = 0
			}
			res.MeanDensity = stat.Mean(densities, nil)
			res.MeanTicks = stat.Mean(ticks, nil)
			minC, maxC := math.Inf(1), math.Inf(-1)
			for _, c := range counts {
				minC = math.Min(minC, c)
				maxC = math.Max(maxC, c)
			}
			res.MinCount, res.MaxCount = int(minC), int(maxC)
		}
		results = append(results, res)
	}

	return results
}

func runSeed(cfg model.Config, seed int64, tickCap int) SeedOutcome {
	e, err := New(cfg, NewRand(seed))
	if err != nil {
		return SeedOutcome{Seed: seed}
	}
	if err := e.Start(cfg); err != nil {
		return SeedOutcome{Seed: seed}
	}
	for e.Ticks() < tickCap && e.State() == Running {
		e.Tick()
	}
	return SeedOutcome{
		Seed:       seed,
		Count:      e.Count(),
		Density:    e.Density(),
		Ticks:      e.Ticks(),
		Terminated: e.State() == Terminated,
	}
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(base model.Config) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:   "Current Settings",
			Config: base,
		},
	}

	// Scenario: no rearrangement (pure random sequential adsorption)
	if base.RearrAttemptsPerFrame > 0 {
		noRearr := base
		noRearr.RearrAttemptsPerFrame = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "No Rearrangement",
			Config: noRearr,
		})
	}

	// Scenario: half translation step
	if base.TransStep > 0 {
		half := base
		half.TransStep = base.TransStep * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Trans Step %.2f (half)", half.TransStep),
			Config: half,
		})

		double := base
		double.TransStep = base.TransStep * 2
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Trans Step %.2f (double)", double.TransStep),
			Config: double,
		})
	}

	// Scenario: more insertion attempts per tick
	more := base
	more.AttemptsPerFrame = base.AttemptsPerFrame*4 + 1
	scenarios = append(scenarios, ComparisonScenario{
		Name:   fmt.Sprintf("%d Insertions/Tick", more.AttemptsPerFrame),
		Config: more,
	})

	return scenarios
}
