package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/digitaiam/warehouse-ledger/pkg/balance"
	"github.com/digitaiam/warehouse-ledger/pkg/engine"
	"github.com/digitaiam/warehouse-ledger/pkg/qty"
	"github.com/digitaiam/warehouse-ledger/pkg/storage"
	"github.com/digitaiam/warehouse-ledger/pkg/types"
)

var mutateCmd = &cobra.Command{
	Use:   "mutate",
	Short: "Apply a list of op mutations from a YAML file",
	Long: `Apply a list of op mutations to the ledger.

Examples:
  ledger mutate -f mutations.yaml
  ledger mutate -f mutations.yaml --data-dir ./data`,
	RunE: runMutate,
}

func init() {
	mutateCmd.Flags().StringP("file", "f", "", "YAML file listing op mutations to apply (required)")
	_ = mutateCmd.MarkFlagRequired("file")
}

// batchSpec is the YAML shape of a Batch identity.
type batchSpec struct {
	ID   string `yaml:"id"`
	Date string `yaml:"date"`
}

// opSpec is the YAML shape of an InternalOperation.
type opSpec struct {
	Kind string `yaml:"kind"` // receive, issue, inventory
	Qty  string `yaml:"qty"`
	Unit string `yaml:"unit"`
	Cost string `yaml:"cost"`
	Mode string `yaml:"mode,omitempty"` // manual, auto
}

// mutationSpec is the YAML shape of one OpMutation in a mutate file.
type mutationSpec struct {
	ID        string    `yaml:"id"`
	Date      string    `yaml:"date"`
	Store     string    `yaml:"store"`
	StoreInto string    `yaml:"storeInto,omitempty"`
	Goods     string    `yaml:"goods"`
	Batch     batchSpec `yaml:"batch"`
	Before    *opSpec   `yaml:"before,omitempty"`
	After     *opSpec   `yaml:"after,omitempty"`
}

func runMutate(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read mutations file: %w", err)
	}

	var specs []mutationSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return fmt.Errorf("parse mutations file: %w", err)
	}

	mutations := make([]types.OpMutation, 0, len(specs))
	for i, spec := range specs {
		m, err := spec.toMutation()
		if err != nil {
			return fmt.Errorf("mutation %d: %w", i, err)
		}
		mutations = append(mutations, m)
	}

	backend, err := storage.NewBoltBackend(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open backend: %w", err)
	}
	defer backend.Close()

	eng := engine.New(backend)
	if err := eng.Apply(mutations); err != nil {
		return fmt.Errorf("apply mutations: %w", err)
	}

	fmt.Printf("applied %d mutation(s)\n", len(mutations))
	return nil
}

func (s mutationSpec) toMutation() (types.OpMutation, error) {
	id, err := parseOrNewUUID(s.ID)
	if err != nil {
		return types.OpMutation{}, fmt.Errorf("id: %w", err)
	}
	date, err := time.Parse(time.RFC3339, s.Date)
	if err != nil {
		return types.OpMutation{}, fmt.Errorf("date: %w", err)
	}
	store, err := uuid.Parse(s.Store)
	if err != nil {
		return types.OpMutation{}, fmt.Errorf("store: %w", err)
	}
	goods, err := uuid.Parse(s.Goods)
	if err != nil {
		return types.OpMutation{}, fmt.Errorf("goods: %w", err)
	}
	batch, err := s.Batch.toBatch()
	if err != nil {
		return types.OpMutation{}, fmt.Errorf("batch: %w", err)
	}

	m := types.OpMutation{ID: id, Date: date, Store: store, Goods: goods, Batch: batch}

	if s.StoreInto != "" {
		storeInto, err := uuid.Parse(s.StoreInto)
		if err != nil {
			return types.OpMutation{}, fmt.Errorf("storeInto: %w", err)
		}
		m.StoreInto = &storeInto
	}

	if s.Before != nil {
		before, err := s.Before.toOperation()
		if err != nil {
			return types.OpMutation{}, fmt.Errorf("before: %w", err)
		}
		m.Before = &before
	}
	if s.After != nil {
		after, err := s.After.toOperation()
		if err != nil {
			return types.OpMutation{}, fmt.Errorf("after: %w", err)
		}
		m.After = &after
	}

	return m, nil
}

func (b batchSpec) toBatch() (types.Batch, error) {
	id, err := uuid.Parse(b.ID)
	if err != nil {
		return types.Batch{}, fmt.Errorf("id: %w", err)
	}
	date, err := time.Parse(time.RFC3339, b.Date)
	if err != nil {
		return types.Batch{}, fmt.Errorf("date: %w", err)
	}
	return types.Batch{ID: id, Date: date}, nil
}

func (o opSpec) toOperation() (balance.InternalOperation, error) {
	kind, err := parseOpKind(o.Kind)
	if err != nil {
		return balance.InternalOperation{}, err
	}
	unit, err := uuid.Parse(o.Unit)
	if err != nil {
		return balance.InternalOperation{}, fmt.Errorf("unit: %w", err)
	}
	number, err := decimal.NewFromString(o.Qty)
	if err != nil {
		return balance.InternalOperation{}, fmt.Errorf("qty: %w", err)
	}
	cost, err := decimal.NewFromString(o.Cost)
	if err != nil {
		return balance.InternalOperation{}, fmt.Errorf("cost: %w", err)
	}
	mode := balance.IssueManual
	if o.Mode != "" {
		mode = balance.IssueMode(o.Mode)
	}
	return balance.InternalOperation{Kind: kind, Qty: qty.New(number, unit), Cost: cost, Mode: mode}, nil
}

func parseOpKind(s string) (balance.OpKind, error) {
	switch s {
	case "receive":
		return balance.OpKindReceive, nil
	case "issue":
		return balance.OpKindIssue, nil
	case "inventory":
		return balance.OpKindInventory, nil
	default:
		return 0, fmt.Errorf("unknown op kind %q", s)
	}
}

func parseOrNewUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.New(), nil
	}
	return uuid.Parse(s)
}
