package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes into dir for the duration of the test; testing.T.Chdir
// requires Go 1.24 and this module builds with Go 1.21.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "drought", cfg.Data.TargetColumn)
	assert.Equal(t, 100, cfg.Model.Trees)
	assert.Equal(t, int64(42), cfg.Model.Seed)
	assert.InDelta(t, 0.3, cfg.Model.TestFraction, 1e-12)
	assert.Equal(t, 30, cfg.Stability.Iterations)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := []byte("model:\n  trees: 250\n  seed: 7\nlog:\n  level: debug\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Model.Trees)
	assert.Equal(t, int64(7), cfg.Model.Seed)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched keys keep defaults
	assert.InDelta(t, 0.3, cfg.Model.TestFraction, 1e-12)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DROUGHT_MODEL_TREES", "17")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 17, cfg.Model.Trees)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "trees: 100")
	assert.Contains(t, string(data), "target_column: drought")

	// second write must refuse
	assert.Error(t, WriteDefault(path))
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
