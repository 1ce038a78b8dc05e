package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gothesis/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "gothesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\ncharts:\n  histogram_bins: 20\n"), 0o644))
	t.Setenv("GOTHESIS_CHARTS_FREQUENCY_TOP_N", "5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 20, cfg.Charts.HistogramBins)
	assert.Equal(t, 5, cfg.Charts.FrequencyTopN)
	assert.Equal(t, 100, cfg.Charts.CurvePoints)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load("does-not-exist.yaml")
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Charts.HistogramBins = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "charts.histogram_bins")

	cfg = Default()
	cfg.LogLevel = "loud"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Batch.Capacity = -1
	assert.Error(t, cfg.Validate())
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := Default()
	cfg.Batch.Concurrency = 9
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
