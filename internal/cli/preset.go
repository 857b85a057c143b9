package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SquarePack/internal/driver"
	"github.com/piwi3910/SquarePack/internal/model"
	"github.com/piwi3910/SquarePack/internal/project"
)

// presetStorePath is the preset store used by run --preset and preset.
var presetStorePath = project.DefaultPresetPath()

var (
	presetSeed        int64
	presetDescription string
)

// presetCmd manages saved configurations
var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage saved run configurations",
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := project.LoadPresets(presetStorePath)
		if err != nil {
			return fmt.Errorf("failed to load presets: %w", err)
		}
		w := cmd.OutOrStdout()
		if len(store.Presets) == 0 {
			fmt.Fprintln(w, "No presets saved")
			return nil
		}
		for _, name := range store.Names() {
			p := store.Find(name)
			c := p.Config
			fmt.Fprintf(w, "%-20s %s  area=%g max_failures=%d attempts=%d rearr=%d trans=%g rot=%g seed=%d\n",
				p.Name, p.ID, c.ContainerArea, c.MaxFailures, c.AttemptsPerFrame, c.RearrAttemptsPerFrame,
				c.TransStep, c.RotStep, p.Seed)
		}
		return nil
	},
}

var presetSaveCmd = &cobra.Command{
	Use:   "save NAME [key=value ...]",
	Short: "Save a configuration under a name",
	Long:  "Save the app default configuration, modified by key=value arguments, as a named preset. An existing preset with the same name is replaced.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := loadAppConfig()
		cfg := model.DefaultConfig()
		app.ApplyToConfig(&cfg)

		fields, warnings := driver.ParseOverrides(args[1:])
		cfg, fieldWarnings := driver.ParseFields(fields, cfg)
		for _, w := range append(warnings, fieldWarnings...) {
			logrus.Warn(w)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		seed := app.DefaultSeed
		if cmd.Flags().Changed("seed") {
			seed = presetSeed
		}

		store, err := project.LoadPresets(presetStorePath)
		if err != nil {
			return fmt.Errorf("failed to load presets: %w", err)
		}
		store.Put(model.NewPreset(args[0], presetDescription, seed, cfg))
		if err := project.SavePresets(presetStorePath, store); err != nil {
			return fmt.Errorf("failed to save presets: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved preset %q\n", args[0])
		return nil
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a preset by name or ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := project.LoadPresets(presetStorePath)
		if err != nil {
			return fmt.Errorf("failed to load presets: %w", err)
		}
		if !store.Remove(args[0]) {
			return fmt.Errorf("preset %q not found", args[0])
		}
		if err := project.SavePresets(presetStorePath, store); err != nil {
			return fmt.Errorf("failed to save presets: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted preset %q\n", args[0])
		return nil
	},
}

func init() {
	presetSaveCmd.Flags().Int64Var(&presetSeed, "seed", 42, "Seed stored with the preset")
	presetSaveCmd.Flags().StringVar(&presetDescription, "description", "", "Preset description")

	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetSaveCmd)
	presetCmd.AddCommand(presetDeleteCmd)
}
