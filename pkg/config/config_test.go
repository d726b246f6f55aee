package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitaiam/warehouse-ledger/pkg/config"
)

func TestDefaultHasUsableValues(t *testing.T) {
	cfg := config.Default()
	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogJSON)
	assert.NotEmpty(t, cfg.MetricsAddr)
	assert.Greater(t, cfg.SweepBatchSize, 0)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.yaml")
	contents := "dataDir: /var/lib/ledger\nlogLevel: debug\nlogJSON: true\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/ledger", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogJSON)
	// Fields absent from the file keep their default.
	assert.Equal(t, config.Default().MetricsAddr, cfg.MetricsAddr)
	assert.Equal(t, config.Default().SweepBatchSize, cfg.SweepBatchSize)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAMLErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataDir: [unterminated"), 0600))

	_, err := config.Load(path)
	assert.Error(t, err)
}
