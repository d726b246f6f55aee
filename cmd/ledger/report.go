package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/digitaiam/warehouse-ledger/pkg/report"
	"github.com/digitaiam/warehouse-ledger/pkg/storage"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a turnover report for a date window",
	Long: `Print a turnover report over [--from, --till).

With --store, prints the per-(goods,batch) lines for that store. Without
it, prints one cost-only rollup per store that has activity in the window.

Examples:
  ledger report --from 2024-01-01 --till 2024-02-01 --store <uuid>
  ledger report --from 2024-01-01 --till 2024-02-01`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("store", "", "Store UUID (aggregate across all stores when omitted)")
	reportCmd.Flags().String("from", "", "Window start, RFC3339 or YYYY-MM-DD (required)")
	reportCmd.Flags().String("till", "", "Window end, RFC3339 or YYYY-MM-DD (required)")
	_ = reportCmd.MarkFlagRequired("from")
	_ = reportCmd.MarkFlagRequired("till")
}

func runReport(cmd *cobra.Command, args []string) error {
	storeFlag, _ := cmd.Flags().GetString("store")
	fromFlag, _ := cmd.Flags().GetString("from")
	tillFlag, _ := cmd.Flags().GetString("till")

	from, err := parseFlexDate(fromFlag)
	if err != nil {
		return fmt.Errorf("from: %w", err)
	}
	till, err := parseFlexDate(tillFlag)
	if err != nil {
		return fmt.Errorf("till: %w", err)
	}

	backend, err := storage.NewBoltBackend(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open backend: %w", err)
	}
	defer backend.Close()

	eng := report.New()

	var out interface{}
	if storeFlag != "" {
		store, err := uuid.Parse(storeFlag)
		if err != nil {
			return fmt.Errorf("store: %w", err)
		}
		rep, err := eng.GetReport(backend, store, from, till)
		if err != nil {
			return fmt.Errorf("get report: %w", err)
		}
		out = rep
	} else {
		rep, err := eng.GetAggregateReport(backend, from, till)
		if err != nil {
			return fmt.Errorf("get aggregate report: %w", err)
		}
		out = rep
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}

// parseFlexDate accepts either a bare calendar date or a full RFC3339
// timestamp, since report windows are usually given as plain dates.
func parseFlexDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
