package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SquarePack/internal/driver"
	"github.com/piwi3910/SquarePack/internal/engine"
	"github.com/piwi3910/SquarePack/internal/model"
	"github.com/piwi3910/SquarePack/internal/project"
)

var (
	compareSpecPath string // YAML file with scenarios and seeds
	compareSeeds    int    // Number of seeds when the file lists none
	compareFirst    int64  // First seed of the generated range
	compareMaxTicks int    // Tick cap per seeded run
)

// compareCmd runs several configurations over a seed sweep
var compareCmd = &cobra.Command{
	Use:   "compare [key=value ...]",
	Short: "Compare configurations over several seeds",
	Long: "Run each scenario once per seed and report mean, spread and range of the final count. " +
		"Without --scenarios, what-if variants of the base configuration are compared.",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := loadAppConfig()
		base := model.DefaultConfig()
		app.ApplyToConfig(&base)

		fields, warnings := driver.ParseOverrides(args)
		base, fieldWarnings := driver.ParseFields(fields, base)
		for _, w := range append(warnings, fieldWarnings...) {
			logrus.Warn(w)
		}

		scenarios, seeds, err := resolveComparison(base)
		if err != nil {
			return err
		}

		logrus.Infof("Comparing %d scenarios over %d seeds", len(scenarios), len(seeds))
		results := engine.CompareScenarios(scenarios, seeds, compareMaxTicks)
		printComparison(cmd.OutOrStdout(), results)

		for _, r := range results {
			if r.Err != nil {
				return fmt.Errorf("%d of %d scenarios failed", countFailed(results), len(results))
			}
		}
		return nil
	},
}

// resolveComparison returns the scenarios and seeds to run.
func resolveComparison(base model.Config) ([]engine.ComparisonScenario, []int64, error) {
	var scenarios []engine.ComparisonScenario
	var seeds []int64

	if compareSpecPath != "" {
		spec, err := project.LoadRunSpec(compareSpecPath, base)
		if err != nil {
			return nil, nil, err
		}
		if spec.Config != nil {
			base = *spec.Config
		}
		scenarios = spec.Scenarios
		seeds = spec.Seeds
		if spec.MaxTicks > 0 && compareMaxTicks == 0 {
			compareMaxTicks = spec.MaxTicks
		}
	}

	if len(scenarios) == 0 {
		scenarios = engine.BuildDefaultScenarios(base)
	}
	if len(seeds) == 0 {
		if compareSeeds <= 0 {
			return nil, nil, fmt.Errorf("seeds must be positive, got %d", compareSeeds)
		}
		seeds = seedRange(compareFirst, compareSeeds)
	}
	return scenarios, seeds, nil
}

// seedRange returns n consecutive seeds starting at first.
func seedRange(first int64, n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = first + int64(i)
	}
	return seeds
}

func countFailed(results []engine.ComparisonResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// printComparison writes one row per scenario.
func printComparison(w io.Writer, results []engine.ComparisonResult) {
	fmt.Fprintf(w, "%-32s %8s %8s %6s %6s %9s %10s\n", "Scenario", "Mean", "StdDev", "Min", "Max", "Density", "Ticks")
	fmt.Fprintln(w, strings.Repeat("-", 85))
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%-32s %v\n", r.Scenario.Name, r.Err)
			continue
		}
		fmt.Fprintf(w, "%-32s %8.2f %8.2f %6d %6d %8.2f%% %10.1f\n",
			r.Scenario.Name, r.MeanCount, r.StdDevCount, r.MinCount, r.MaxCount, r.MeanDensity, r.MeanTicks)
	}
}

func init() {
	compareCmd.Flags().StringVar(&compareSpecPath, "scenarios", "", "YAML file with scenarios and seeds")
	compareCmd.Flags().IntVar(&compareSeeds, "seeds", 5, "Number of seeds to run per scenario")
	compareCmd.Flags().Int64Var(&compareFirst, "first-seed", 1, "First seed of the sweep")
	compareCmd.Flags().IntVar(&compareMaxTicks, "max-ticks", 0, "Tick cap per run (0 = engine default cap)")
}
