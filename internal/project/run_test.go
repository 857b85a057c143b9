package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SquarePack/internal/model"
)

func TestSaveAndLoadRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "r1.json")

	run := model.NewRun("demo", 42, model.DefaultConfig())
	run.Squares = []model.Square{{X: 5, Y: 5, Rotation: 0.3}, {X: 6.2, Y: 5.1, Rotation: 1.1}}
	run.FailureCount = 20001
	run.Ticks = 900
	run.Terminated = true

	require.NoError(t, SaveRun(path, run))

	loaded, err := LoadRun(path)
	require.NoError(t, err)
	assert.Equal(t, run, loaded)
}

func TestLoadRun_EmptySquaresNeverNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.json")
	data := `{"version":"1.0.0","run":{"id":"x","config":{"container_area":4,"max_failures":1},"squares":null}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	run, err := LoadRun(path)
	require.NoError(t, err)
	assert.NotNil(t, run.Squares)
	assert.Equal(t, 0, run.Count())
}

func TestLoadRun_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadRun(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte("{{"), 0644))
	_, err = LoadRun(invalid)
	assert.ErrorContains(t, err, "failed to parse run file")

	noVersion := filepath.Join(dir, "noversion.json")
	require.NoError(t, os.WriteFile(noVersion, []byte(`{"run":{}}`), 0644))
	_, err = LoadRun(noVersion)
	assert.ErrorContains(t, err, "missing version")

	badCfg := filepath.Join(dir, "badcfg.json")
	require.NoError(t, os.WriteFile(badCfg, []byte(`{"version":"1.0.0","run":{"config":{"container_area":0}}}`), 0644))
	_, err = LoadRun(badCfg)
	assert.True(t, errors.Is(err, model.ErrInvalidConfig))
}
