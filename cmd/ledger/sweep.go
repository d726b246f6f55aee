package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/digitaiam/warehouse-ledger/pkg/engine"
	"github.com/digitaiam/warehouse-ledger/pkg/storage"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Recompute a store's running balances and report divergences",
	Long: `Replay a store's op series from scratch and report every op whose
stored running balance does not match the recomputed one. Sweep never
writes anything back; a divergence is a signal to investigate.

Example:
  ledger sweep --store <uuid>`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().String("store", "", "Store UUID to sweep (required)")
	_ = sweepCmd.MarkFlagRequired("store")
}

func runSweep(cmd *cobra.Command, args []string) error {
	storeFlag, _ := cmd.Flags().GetString("store")
	store, err := uuid.Parse(storeFlag)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}

	backend, err := storage.NewBoltBackend(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open backend: %w", err)
	}
	defer backend.Close()

	divergences, err := engine.New(backend).Sweep(context.Background(), store)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	if len(divergences) == 0 {
		fmt.Println("no divergences")
		return nil
	}

	encoded, err := json.MarshalIndent(divergences, "", "  ")
	if err != nil {
		return fmt.Errorf("encode divergences: %w", err)
	}
	fmt.Println(string(encoded))
	return fmt.Errorf("%d divergence(s) found", len(divergences))
}
