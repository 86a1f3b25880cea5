package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, "openscad", cfg.OpenSCAD.Binary)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`log:
  level: debug
  format: json
batch:
  workers: 8
watch:
  debounce: 2s
openscad:
  binary: /opt/openscad/bin/openscad
`), 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	assert.Equal(t, "/opt/openscad/bin/openscad", cfg.OpenSCAD.Binary)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONVERTTO3MF_BATCH_WORKERS", "2")
	t.Setenv("CONVERTTO3MF_LOG_LEVEL", "warn")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Batch.Workers)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Log:   LogConfig{Level: "info", Format: "console"},
		Batch: BatchConfig{Workers: 1},
	}
	assert.NoError(t, valid.Validate())

	badFormat := valid
	badFormat.Log.Format = "xml"
	assert.Error(t, badFormat.Validate())

	badWorkers := valid
	badWorkers.Batch.Workers = 0
	assert.Error(t, badWorkers.Validate())

	badDebounce := valid
	badDebounce.Watch.Debounce = -time.Second
	assert.Error(t, badDebounce.Validate())
}
