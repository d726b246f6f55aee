package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/digitaiam/warehouse-ledger/pkg/config"
	"github.com/digitaiam/warehouse-ledger/pkg/log"
)

var (
	// Version information (set via ldflags during build)
	Version = "dev"
	Commit  = "unknown"
)

var cfg config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "ledger",
	Short:   "Warehouse inventory ledger",
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("ledger version %s\nCommit: %s\n", Version, Commit))

	rootCmd.PersistentFlags().String("config", "", "YAML config file (defaults applied when omitted)")
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory for the embedded backend (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug/info/warn/error (overrides config)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs as JSON (overrides config)")

	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(mutateCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	var err error

	path, _ := rootCmd.PersistentFlags().GetString("config")
	if path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg = config.Default()
	}

	if v, _ := rootCmd.PersistentFlags().GetString("data-dir"); v != "" {
		cfg.DataDir = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := rootCmd.PersistentFlags().GetBool("log-json"); v {
		cfg.LogJSON = v
	}

	log.Init(cfg.LogConfig())
}
