package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigUsesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PTASK_LOG_LEVEL", "")
	t.Setenv("PTASK_LOG_FILE", "")
	t.Setenv("PTASK_LOG_CONSOLE", "")

	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join(home, ".ptask", "session.db"), cfg.DataFile)
	assert.Equal(t, filepath.Join(home, ".ptask", "logs", "ptask.log"), cfg.LogFile)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.False(t, cfg.LogConsole)
	assert.True(t, cfg.ConfirmDelete)
}

func TestDefaultConfigEnvOverrides(t *testing.T) {
	t.Setenv("PTASK_LOG_LEVEL", "DEBUG")
	t.Setenv("PTASK_LOG_FILE", "/tmp/custom.log")
	t.Setenv("PTASK_LOG_CONSOLE", "true")

	cfg := DefaultConfig()
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, "/tmp/custom.log", cfg.LogFile)
	assert.True(t, cfg.LogConsole)
}

func TestLoadFromMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.LatencyMinMS)
	assert.Equal(t, 500, cfg.LatencyMaxMS)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.ExportDir = "/backups"
	cfg.LatencyMinMS = 0
	cfg.LatencyMaxMS = 0
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "/backups", loaded.ExportDir)
	assert.Zero(t, loaded.LatencyMaxMS)
}

func TestLoadFromPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_color: \"#ff0000\"\n"), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", cfg.DefaultColor)
	assert.Equal(t, 500, cfg.AutosaveDelayMS)
}

func TestLoadFromInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("latency_min_ms: [oops"), 0644))

	_, err := LoadFrom(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLatencyBounds(t *testing.T) {
	cfg := &Config{LatencyMinMS: 300, LatencyMaxMS: 100}
	lo, hi := cfg.Latency()
	assert.Equal(t, 300*time.Millisecond, lo)
	assert.Equal(t, 300*time.Millisecond, hi)

	cfg = &Config{LatencyMinMS: -5, LatencyMaxMS: 50}
	lo, hi = cfg.Latency()
	assert.Zero(t, lo)
	assert.Equal(t, 50*time.Millisecond, hi)

	assert.Zero(t, (&Config{}).AutosaveDelay())
}
