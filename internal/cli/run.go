package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SquarePack/internal/driver"
	"github.com/piwi3910/SquarePack/internal/engine"
	"github.com/piwi3910/SquarePack/internal/export"
	"github.com/piwi3910/SquarePack/internal/model"
	"github.com/piwi3910/SquarePack/internal/project"
)

var (
	// CLI flags for the run source
	runName     string        // Run name recorded in outputs
	runSeed     int64         // Seed of the random source
	runMaxTicks int           // Tick cap, 0 = until termination
	runInterval time.Duration // Pacing between ticks
	runSpecPath string        // YAML run file
	runPreset   string        // Saved preset name or ID
	runStamp    string        // JSON payload scanned from a PDF stamp
	runVerify   bool          // Audit the final layout
	runPaced    bool          // Tick at the animation frame rate

	// CLI flags for the packing configuration
	runArea        float64
	runMaxFailures int
	runAttempts    int
	runRearr       int
	runTransStep   float64
	runRotStep     float64

	runOutputs outputOptions
)

// runPlan is everything needed to start one packing.
type runPlan struct {
	Name     string
	Seed     int64
	MaxTicks int
	Interval time.Duration
	Config   model.Config
}

// runCmd packs squares until no free space is left
var runCmd = &cobra.Command{
	Use:   "run [key=value ...]",
	Short: "Pack squares until no free space is left",
	Long: "Pack unit squares into the container until the failure limit is exceeded. " +
		"Settings come from the app config, then --preset, --config, --stamp, flags and " +
		"finally key=value arguments (area=64 rearr=500 ...), each overriding the previous.",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := loadAppConfig()

		plan, warnings, err := resolveRunPlan(cmd, args, app)
		for _, w := range warnings {
			logrus.Warn(w)
		}
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		run, trace, err := executeRun(ctx, plan)
		if err != nil {
			return err
		}
		printRunSummary(cmd.OutOrStdout(), run)

		written, err := writeOutputs(run, trace, runOutputs, app)
		if err != nil {
			return err
		}

		if written.RunPath != "" {
			app.AddRecentRun(written.RunPath)
			if err := project.SaveAppConfig(appConfigPath, app); err != nil {
				logrus.Warnf("Could not update recent runs: %v", err)
			}
		}

		if runVerify {
			return reportViolations(cmd.OutOrStdout(), engine.Audit(run.Squares, run.Container()))
		}
		return nil
	},
}

// resolveRunPlan layers the configuration sources in increasing priority:
// app defaults, preset, run file, stamp, flags, key=value arguments.
func resolveRunPlan(cmd *cobra.Command, args []string, app model.AppConfig) (runPlan, []string, error) {
	cfg := model.DefaultConfig()
	app.ApplyToConfig(&cfg)
	plan := runPlan{
		Seed:     app.DefaultSeed,
		Interval: time.Duration(app.TickIntervalMS) * time.Millisecond,
	}

	if runPreset != "" {
		store, err := project.LoadPresets(presetStorePath)
		if err != nil {
			return runPlan{}, nil, err
		}
		p := store.Find(runPreset)
		if p == nil {
			return runPlan{}, nil, fmt.Errorf("preset %q not found", runPreset)
		}
		cfg, plan.Seed, plan.Name = p.Config, p.Seed, p.Name
	}

	if runSpecPath != "" {
		spec, err := project.LoadRunSpec(runSpecPath, cfg)
		if err != nil {
			return runPlan{}, nil, err
		}
		if spec.Config != nil {
			cfg = *spec.Config
		}
		if spec.Seed != nil {
			plan.Seed = *spec.Seed
		}
		if spec.Name != "" {
			plan.Name = spec.Name
		}
		if spec.MaxTicks > 0 {
			plan.MaxTicks = spec.MaxTicks
		}
		if spec.IntervalMS > 0 {
			plan.Interval = time.Duration(spec.IntervalMS) * time.Millisecond
		}
	}

	if runStamp != "" {
		info, err := export.ParseStamp([]byte(runStamp))
		if err != nil {
			return runPlan{}, nil, err
		}
		cfg, plan.Seed = info.Config, info.Seed
		if info.Name != "" {
			plan.Name = info.Name
		}
		if !info.Terminated && info.Ticks > 0 {
			plan.MaxTicks = info.Ticks
		}
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		plan.Name = runName
	}
	if flags.Changed("seed") {
		plan.Seed = runSeed
	}
	if flags.Changed("max-ticks") {
		plan.MaxTicks = runMaxTicks
	}
	if runPaced {
		plan.Interval = driver.DefaultInterval
	}
	if flags.Changed("interval") {
		plan.Interval = runInterval
	}
	if flags.Changed("area") {
		cfg.ContainerArea = runArea
	}
	if flags.Changed("max-failures") {
		cfg.MaxFailures = runMaxFailures
	}
	if flags.Changed("attempts") {
		cfg.AttemptsPerFrame = runAttempts
	}
	if flags.Changed("rearr") {
		cfg.RearrAttemptsPerFrame = runRearr
	}
	if flags.Changed("trans-step") {
		cfg.TransStep = runTransStep
	}
	if flags.Changed("rot-step") {
		cfg.RotStep = runRotStep
	}

	fields, warnings := driver.ParseOverrides(args)
	cfg, fieldWarnings := driver.ParseFields(fields, cfg)
	warnings = append(warnings, fieldWarnings...)

	if plan.MaxTicks < 0 {
		return runPlan{}, warnings, fmt.Errorf("max-ticks must not be negative")
	}
	if plan.Interval < 0 {
		return runPlan{}, warnings, fmt.Errorf("interval must not be negative")
	}
	if err := cfg.Validate(); err != nil {
		return runPlan{}, warnings, err
	}
	plan.Config = cfg
	return plan, warnings, nil
}

// executeRun packs one layout under the driver and records its progress.
// Cancelling ctx ends the run early; the layout reached so far is returned.
func executeRun(ctx context.Context, plan runPlan) (model.Run, *engine.Trace, error) {
	e, err := engine.New(plan.Config, engine.NewRand(plan.Seed))
	if err != nil {
		return model.Run{}, nil, err
	}
	if err := e.Start(plan.Config); err != nil {
		return model.Run{}, nil, err
	}

	logrus.Infof("Packing into container of area %.3f with seed %d", plan.Config.ContainerArea, plan.Seed)

	trace := engine.NewTrace()
	_, err = driver.Run(ctx, e, driver.Options{
		Interval: plan.Interval,
		MaxTicks: plan.MaxTicks,
		OnTick: func(res engine.TickResult) {
			trace.Record(res, plan.Config.ContainerArea)
			if res.Inserted > 0 {
				logrus.Debugf("tick %d: %d squares", res.Tick, len(res.Squares))
			}
		},
	})
	if err != nil {
		logrus.Warnf("Run interrupted: %v", err)
	}

	return e.Snapshot(plan.Name, plan.Seed), trace, nil
}

// printRunSummary writes the outcome of a run.
func printRunSummary(w io.Writer, run model.Run) {
	status := "stopped"
	if run.Terminated {
		status = "no free space"
	}
	est := run.Estimate()
	fmt.Fprintf(w, "=== %s (seed %d) ===\n", run.Name, run.Seed)
	fmt.Fprintf(w, "Final count      : %d (%s)\n", run.Count(), status)
	fmt.Fprintf(w, "Density          : %.2f%%\n", run.Density())
	fmt.Fprintf(w, "Grid count       : %d (%.1f%% reached)\n", est.GridCount, est.GridRatio)
	fmt.Fprintf(w, "Ticks            : %d\n", run.Ticks)
}

// reportViolations prints every violation and fails if there are any.
func reportViolations(w io.Writer, violations []engine.Violation) error {
	if len(violations) == 0 {
		fmt.Fprintln(w, "Layout valid: no overlaps, all squares inside the container")
		return nil
	}
	for _, v := range violations {
		fmt.Fprintln(w, v.String())
	}
	return fmt.Errorf("layout has %d violations", len(violations))
}

func initRunFlags() {
	f := runCmd.Flags()
	defaults := model.DefaultConfig()

	f.StringVar(&runName, "name", "", "Run name")
	f.Int64Var(&runSeed, "seed", 42, "Seed for the random source")
	f.IntVar(&runMaxTicks, "max-ticks", 0, "Stop after this many ticks (0 = until no free space)")
	f.DurationVar(&runInterval, "interval", 0, "Pacing between ticks, e.g. 50ms (0 = as fast as possible)")
	f.StringVar(&runSpecPath, "config", "", "YAML run file")
	f.StringVar(&runPreset, "preset", "", "Saved preset name or ID")
	f.StringVar(&runStamp, "stamp", "", "JSON payload of a PDF reproducibility stamp")
	f.BoolVar(&runVerify, "verify", false, "Audit the final layout and fail on violations")
	f.BoolVar(&runPaced, "paced", false, "Tick every 50ms like the interactive animation")

	f.Float64Var(&runArea, "area", defaults.ContainerArea, "Container area")
	f.IntVar(&runMaxFailures, "max-failures", defaults.MaxFailures, "Consecutive failed insertions before termination")
	f.IntVar(&runAttempts, "attempts", defaults.AttemptsPerFrame, "Insertion attempts per tick")
	f.IntVar(&runRearr, "rearr", defaults.RearrAttemptsPerFrame, "Rearrangement attempts per tick")
	f.Float64Var(&runTransStep, "trans-step", defaults.TransStep, "Max translation of a rearrangement")
	f.Float64Var(&runRotStep, "rot-step", defaults.RotStep, "Max rotation of a rearrangement (radians)")

	addOutputFlags(runCmd, &runOutputs)
	f.StringVar(&runOutputs.RunPath, "out", "", "Save the run as JSON")
}

func init() {
	initRunFlags()
}
