// Package config loads the ledger's static runtime configuration from
// a YAML file, the same read-file-then-unmarshal flow cmd/ledger's
// mutate subcommand uses for mutation manifests.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/digitaiam/warehouse-ledger/pkg/log"
)

// Config is the ledger's static runtime configuration.
type Config struct {
	// DataDir is where the embedded bbolt backend stores ledger.db.
	DataDir string `yaml:"dataDir"`

	// LogLevel is one of debug/info/warn/error.
	LogLevel string `yaml:"logLevel"`
	// LogJSON selects JSON log output over the console writer.
	LogJSON bool `yaml:"logJSON"`

	// MetricsAddr is the bind address `ledger serve` listens on for
	// /metrics, /health, /ready, and /live.
	MetricsAddr string `yaml:"metricsAddr"`

	// SweepBatchSize is loaded from the config file but not read by
	// `ledger sweep`: Sweep replays all of a store's ops inside a single
	// read transaction regardless of this value.
	SweepBatchSize int `yaml:"sweepBatchSize"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DataDir:        "./data",
		LogLevel:       "info",
		LogJSON:        false,
		MetricsAddr:    ":9090",
		SweepBatchSize: 1000,
	}
}

// Load reads path, merging its fields over Default() so a manifest
// only needs to set what it wants to override.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	return cfg, nil
}

// LogConfig translates Config's logging fields into pkg/log's Config.
func (c Config) LogConfig() log.Config {
	return log.Config{Level: log.Level(c.LogLevel), JSONOutput: c.LogJSON}
}
