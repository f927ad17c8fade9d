package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))

	require.NoError(t, err)
	assert.Equal(t, 500, cfg.SaveDelayMS)
	assert.Equal(t, 30, cfg.ReducedVolume)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NotEmpty(t, cfg.StateFile)
	assert.NotEmpty(t, cfg.AccessFile)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
stateFile: /tmp/discosaur/state.json
saveDelayMs: 250
reducedVolume: 45
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/discosaur/state.json", cfg.StateFile)
	assert.Equal(t, 250, cfg.SaveDelayMS)
	assert.Equal(t, 45, cfg.ReducedVolume)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	// Unset keys keep their defaults.
	assert.Equal(t, Default().AccessFile, cfg.AccessFile)
}

func TestLoadInvalidYAMLIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n  - ["), 0o644))

	_, err := Load(path)

	assert.Error(t, err)
}

func TestLoadNormalizesBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
saveDelayMs: -1
reducedVolume: 300
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 500, cfg.SaveDelayMS)
	assert.Equal(t, 30, cfg.ReducedVolume)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x.json"), expandHome("~/x.json"))
	assert.Equal(t, "/abs/x.json", expandHome("/abs/x.json"))
}
