package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SquarePack/internal/engine"
	"github.com/piwi3910/SquarePack/internal/gcode"
	"github.com/piwi3910/SquarePack/internal/model"
	"github.com/piwi3910/SquarePack/internal/project"
)

func testRun() model.Run {
	cfg := model.DefaultConfig()
	cfg.ContainerArea = 16
	run := model.NewRun("outputs", 42, cfg)
	run.Squares = []model.Square{{X: 1, Y: 1}, {X: 2.5, Y: 1, Rotation: 0.2}, {X: 1.5, Y: 3, Rotation: 1.1}}
	run.Ticks = 9
	return run
}

func TestWriteOutputs_AllFormats(t *testing.T) {
	dir := useTempStores(t)
	o := outputOptions{
		RunPath: filepath.Join(dir, "run.json"),
		PDF:     filepath.Join(dir, "run.pdf"),
		PNG:     filepath.Join(dir, "run.png"),
		DXF:     filepath.Join(dir, "run.dxf"),
		XLSX:    filepath.Join(dir, "run.xlsx"),
		GCode:   filepath.Join(dir, "run.nc"),
		PNGSize: 200,
	}

	trace := engine.NewTrace()
	written, err := writeOutputs(testRun(), trace, o, model.DefaultAppConfig())
	require.NoError(t, err)
	assert.Equal(t, o, written, "absolute paths stay as given")

	for _, path := range []string{o.RunPath, o.PDF, o.PNG, o.DXF, o.XLSX, o.GCode} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Greater(t, info.Size(), int64(0), path)
	}

	loaded, err := project.LoadRun(o.RunPath)
	require.NoError(t, err)
	assert.Equal(t, testRun().Squares, loaded.Squares)

	code, err := os.ReadFile(o.GCode)
	require.NoError(t, err)
	assert.Contains(t, string(code), "G21")
}

func TestWriteOutputs_NothingRequested(t *testing.T) {
	_, err := writeOutputs(testRun(), nil, outputOptions{}, model.DefaultAppConfig())
	assert.NoError(t, err)
}

func TestWriteOutputs_RelativePathsUseOutputDir(t *testing.T) {
	dir := useTempStores(t)
	app := model.DefaultAppConfig()
	app.OutputDir = filepath.Join(dir, "out", "runs")
	abs := filepath.Join(dir, "elsewhere.png")
	o := outputOptions{RunPath: "run.json", PDF: "run.pdf", PNG: abs, GCode: "run.nc"}

	written, err := writeOutputs(testRun(), nil, o, app)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(app.OutputDir, "run.json"), written.RunPath)
	assert.Equal(t, filepath.Join(app.OutputDir, "run.pdf"), written.PDF)
	assert.Equal(t, abs, written.PNG)
	assert.Equal(t, filepath.Join(app.OutputDir, "run.nc"), written.GCode)
	for _, path := range []string{written.RunPath, written.PDF, written.PNG, written.GCode} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
	_, err = os.Stat("run.json")
	assert.True(t, os.IsNotExist(err), "relative path must not land in the working directory")
}

func TestWriteOutputs_InvalidRun(t *testing.T) {
	dir := t.TempDir()
	run := testRun()
	run.Config.ContainerArea = 0

	_, err := writeOutputs(run, nil, outputOptions{PDF: filepath.Join(dir, "bad.pdf")}, model.DefaultAppConfig())
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
}

func TestGCodeSettings(t *testing.T) {
	app := model.DefaultAppConfig()
	app.GCodeProfile = "Grbl"

	s := gcodeSettings(outputOptions{}, app, 50)
	assert.Equal(t, "Grbl", s.Profile)
	assert.Equal(t, 50.0, s.UnitSize)
	assert.Equal(t, gcode.DefaultSettings().ToolDiameter, s.ToolDiameter)

	s = gcodeSettings(outputOptions{GCodeProfile: "Mach3", ToolDiameter: 3, CutDepth: 12, Tabs: 2}, app, 20)
	assert.Equal(t, "Mach3", s.Profile)
	assert.Equal(t, 20.0, s.UnitSize)
	assert.Equal(t, 3.0, s.ToolDiameter)
	assert.Equal(t, 12.0, s.CutDepth)
	assert.Equal(t, 2, s.TabsPerSide)
}
