package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SquarePack/internal/engine"
	"github.com/piwi3910/SquarePack/internal/export"
	"github.com/piwi3910/SquarePack/internal/gcode"
	"github.com/piwi3910/SquarePack/internal/model"
	"github.com/piwi3910/SquarePack/internal/project"
)

// outputOptions lists the files to write after a run. Empty paths are skipped.
type outputOptions struct {
	RunPath string
	PDF     string
	PNG     string
	DXF     string
	XLSX    string
	GCode   string

	GCodeProfile string  // empty = app config profile
	UnitSize     float64 // mm per square side, 0 = app config value
	ToolDiameter float64 // mm, 0 = default
	CutDepth     float64 // mm, 0 = default
	Tabs         int
	PNGSize      int
}

func addOutputFlags(cmd *cobra.Command, o *outputOptions) {
	f := cmd.Flags()
	f.StringVar(&o.PDF, "pdf", "", "Write a PDF report")
	f.StringVar(&o.PNG, "png", "", "Write a PNG snapshot")
	f.StringVar(&o.DXF, "dxf", "", "Write a DXF drawing")
	f.StringVar(&o.XLSX, "xlsx", "", "Write an Excel workbook")
	f.StringVar(&o.GCode, "gcode", "", "Write a G-code cutting program")
	f.StringVar(&o.GCodeProfile, "gcode-profile", "", "G-code profile (Grbl, Mach3, LinuxCNC, Generic or a custom profile)")
	f.Float64Var(&o.UnitSize, "unit-size", 0, "Square side in mm for DXF and G-code (0 = app config)")
	f.Float64Var(&o.ToolDiameter, "tool-diameter", 0, "End mill diameter in mm (0 = default)")
	f.Float64Var(&o.CutDepth, "cut-depth", 0, "Material thickness in mm (0 = default)")
	f.IntVar(&o.Tabs, "tabs", 0, "Holding tabs per square side")
	f.IntVar(&o.PNGSize, "png-size", export.DefaultPNGOptions().Size, "PNG drawing size in pixels")
}

// exports reports whether any export format was requested.
func (o outputOptions) exports() bool {
	return o.PDF != "" || o.PNG != "" || o.DXF != "" || o.XLSX != "" || o.GCode != ""
}

// inDir places the relative output paths under dir. Absolute paths and
// empty entries are left alone.
func (o outputOptions) inDir(dir string) outputOptions {
	if dir == "" {
		return o
	}
	for _, p := range []*string{&o.RunPath, &o.PDF, &o.PNG, &o.DXF, &o.XLSX, &o.GCode} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	return o
}

// writeOutputs writes every requested file, relative paths going to the app
// output directory. It returns the options with the paths it wrote to.
// trace may be nil.
func writeOutputs(run model.Run, trace *engine.Trace, o outputOptions, app model.AppConfig) (outputOptions, error) {
	o = o.inDir(app.OutputDir)
	if (o.RunPath != "" || o.exports()) && app.OutputDir != "" {
		if err := os.MkdirAll(app.OutputDir, 0755); err != nil {
			return o, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	unit := o.UnitSize
	if unit <= 0 {
		unit = app.UnitSize
	}

	if o.RunPath != "" {
		if err := project.SaveRun(o.RunPath, run); err != nil {
			return o, err
		}
		logrus.Infof("Saved run to %s", o.RunPath)
	}
	if o.PDF != "" {
		if err := export.ExportPDF(o.PDF, run, trace); err != nil {
			return o, fmt.Errorf("PDF export failed: %w", err)
		}
		logrus.Infof("Wrote PDF report to %s", o.PDF)
	}
	if o.PNG != "" {
		opts := export.DefaultPNGOptions()
		if o.PNGSize > 0 {
			opts.Size = o.PNGSize
		}
		if err := export.ExportPNG(o.PNG, run, opts); err != nil {
			return o, fmt.Errorf("PNG export failed: %w", err)
		}
		logrus.Infof("Wrote PNG snapshot to %s", o.PNG)
	}
	if o.DXF != "" {
		if err := export.ExportDXF(o.DXF, run, unit); err != nil {
			return o, fmt.Errorf("DXF export failed: %w", err)
		}
		logrus.Infof("Wrote DXF drawing to %s", o.DXF)
	}
	if o.XLSX != "" {
		if err := export.ExportXLSX(o.XLSX, run, trace); err != nil {
			return o, fmt.Errorf("XLSX export failed: %w", err)
		}
		logrus.Infof("Wrote workbook to %s", o.XLSX)
	}
	if o.GCode != "" {
		if err := writeGCode(o.GCode, run, o, app, unit); err != nil {
			return o, err
		}
		logrus.Infof("Wrote G-code to %s", o.GCode)
	}
	return o, nil
}

// gcodeSettings builds the machining settings from defaults, the app
// config and the output flags.
func gcodeSettings(o outputOptions, app model.AppConfig, unit float64) gcode.Settings {
	settings := gcode.DefaultSettings()
	settings.Profile = app.GCodeProfile
	if o.GCodeProfile != "" {
		settings.Profile = o.GCodeProfile
	}
	settings.UnitSize = unit
	if o.ToolDiameter > 0 {
		settings.ToolDiameter = o.ToolDiameter
	}
	if o.CutDepth > 0 {
		settings.CutDepth = o.CutDepth
	}
	settings.TabsPerSide = o.Tabs
	return settings
}

func writeGCode(path string, run model.Run, o outputOptions, app model.AppConfig, unit float64) error {
	settings := gcodeSettings(o, app, unit)
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid G-code settings: %w", err)
	}

	custom, err := project.LoadCustomProfiles(profileStorePath)
	if err != nil {
		logrus.Warnf("Ignoring custom profiles: %v", err)
		custom = nil
	}
	profile := gcode.FindProfile(settings.Profile, custom)
	if profile.Name != settings.Profile {
		logrus.Warnf("Unknown G-code profile %q, using %s", settings.Profile, profile.Name)
	}

	for _, w := range gcode.FormatClearanceWarnings(gcode.CheckToolClearance(run, settings), settings) {
		logrus.Warn(w)
	}

	code := gcode.NewWithProfile(settings, profile).Generate(run)
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		return fmt.Errorf("failed to write G-code: %w", err)
	}

	stats := gcode.Summarize(gcode.Parse(code))
	logrus.Infof("G-code: %d plunges, %d cutting moves, %.1f mm cut length, depth %.2f mm",
		stats.Plunges, stats.Feeds, stats.CutLength, stats.MaxDepth)
	if limit := run.Container().Side*unit + settings.ToolDiameter; stats.MaxX > limit || stats.MaxY > limit {
		logrus.Warnf("G-code cuts reach (%.1f, %.1f) mm, beyond the %.1f mm stock", stats.MaxX, stats.MaxY, limit)
	}
	return nil
}
