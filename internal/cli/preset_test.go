package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SquarePack/internal/gcode"
	"github.com/piwi3910/SquarePack/internal/project"
)

func TestPresetCommands(t *testing.T) {
	useTempStores(t)
	var out bytes.Buffer
	for _, c := range []*cobra.Command{presetListCmd, presetSaveCmd, presetDeleteCmd} {
		c.SetOut(&out)
	}

	require.NoError(t, presetListCmd.RunE(presetListCmd, nil))
	assert.Contains(t, out.String(), "No presets saved")

	out.Reset()
	require.NoError(t, presetSaveCmd.RunE(presetSaveCmd, []string{"Small", "area=49", "rearr=200"}))
	assert.Contains(t, out.String(), `Saved preset "Small"`)

	store, err := project.LoadPresets(presetStorePath)
	require.NoError(t, err)
	p := store.Find("Small")
	require.NotNil(t, p)
	assert.Equal(t, 49.0, p.Config.ContainerArea)
	assert.Equal(t, 200, p.Config.RearrAttemptsPerFrame)
	assert.Equal(t, int64(42), p.Seed)

	out.Reset()
	require.NoError(t, presetListCmd.RunE(presetListCmd, nil))
	assert.Contains(t, out.String(), "Small")
	assert.Contains(t, out.String(), "area=49")

	require.NoError(t, presetDeleteCmd.RunE(presetDeleteCmd, []string{"Small"}))
	assert.EqualError(t, presetDeleteCmd.RunE(presetDeleteCmd, []string{"Small"}), `preset "Small" not found`)
}

func TestPresetSave_RejectsInvalidConfig(t *testing.T) {
	useTempStores(t)

	err := presetSaveCmd.RunE(presetSaveCmd, []string{"Broken", "max_failures=-3"})
	assert.Error(t, err)

	_, statErr := os.Stat(presetStorePath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestProfileCommands(t *testing.T) {
	dir := useTempStores(t)
	var out bytes.Buffer
	profileListCmd.SetOut(&out)
	profileImportCmd.SetOut(&out)

	path := filepath.Join(dir, "shared.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"Shared","description":"shop router","rapid_move":"G0","feed_move":"G1","decimal_places":2}`), 0644))

	require.NoError(t, profileImportCmd.RunE(profileImportCmd, []string{path}))
	require.NoError(t, profileImportCmd.RunE(profileImportCmd, []string{path}))

	custom, err := project.LoadCustomProfiles(profileStorePath)
	require.NoError(t, err)
	require.Len(t, custom, 1, "re-importing replaces the profile")
	assert.Equal(t, "Shared", custom[0].Name)

	out.Reset()
	require.NoError(t, profileListCmd.RunE(profileListCmd, nil))
	for _, name := range gcode.ProfileNames() {
		assert.Contains(t, out.String(), name)
	}
	assert.Contains(t, out.String(), "shop router")

	missing := filepath.Join(dir, "missing.json")
	assert.Error(t, profileImportCmd.RunE(profileImportCmd, []string{missing}))
}
