package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/digitaiam/warehouse-ledger/pkg/metrics"
	"github.com/digitaiam/warehouse-ledger/pkg/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve metrics and health endpoints over HTTP",
	Long: `Open the backend and serve /metrics, /health, /ready, and /live
until interrupted.

Example:
  ledger serve --metrics-addr :9090`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("metrics-addr", "", "Bind address for /metrics, /health, /ready, /live (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.MetricsAddr
	if v, _ := cmd.Flags().GetString("metrics-addr"); v != "" {
		addr = v
	}

	backend, err := storage.NewBoltBackend(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open backend: %w", err)
	}
	defer backend.Close()

	metrics.RegisterComponent("storage", true, "opened")
	metrics.RegisterComponent("sweep", false, "initializing")

	stopProbe := make(chan struct{})
	go probeSweepHealth(backend, stopProbe)
	defer close(stopProbe)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/health", metrics.HealthHandler())
	mux.Handle("/ready", metrics.ReadyHandler())
	mux.Handle("/live", metrics.LivenessHandler())

	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	fmt.Printf("listening on %s (metrics, health, ready, live)\n", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		fmt.Println("shutting down...")
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	}

	return nil
}

// probeSweepHealth marks the "sweep" component healthy once the backend
// answers a read, and keeps re-checking on an interval so a later
// backend failure flips readiness back off.
func probeSweepHealth(backend storage.Backend, stop <-chan struct{}) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	check := func() {
		err := backend.View(func(r storage.Reader) error { return nil })
		if err != nil {
			metrics.RegisterComponent("sweep", false, err.Error())
			return
		}
		metrics.RegisterComponent("sweep", true, "ready")
	}

	check()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			check()
		}
	}
}
