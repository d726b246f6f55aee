/*
Package types defines the core data structures shared across the ledger.

This package holds the domain model that every other package builds on:
the materialized Op, the external OpMutation a caller submits, the
monthly Balance checkpoint, and the shapes returned by the report
engine. Quantity and cost arithmetic live in pkg/qty and pkg/balance;
this package composes them into the records the storage layer persists
and the engine operates on.

# Core Types

Identity:
  - Batch: a lot id paired with its acquisition date, the unit batch-aware
    cost accounting is tracked at.

Stock events:
  - Op: a materialized, stored stock event, carrying the running balance
    immediately after it was applied.
  - OpMutation: the external unit of input — a before/after pair of
    *balance.InternalOperation describing a create, edit, or delete.

Checkpoints and queries:
  - Balance: a checkpoint snapshot at a calendar month boundary.
  - Triple: the (store, goods, batch) key a series is ordered by.

Reporting:
  - ReportLine: one (store, goods, batch) row of a turnover report.
  - AggregateStore: the cost-only rollup of a report for one store.
  - Report: the full result of a turnover query over [From, Till).

# Usage

Building a create mutation for a receive:

	op := balance.Receive(qty.New(decimal.NewFromInt(10), rollUnit), decimal.NewFromInt(500))
	mutation := types.OpMutation{
		ID:    uuid.New(),
		Date:  time.Now(),
		Store: storeID,
		Goods: goodsID,
		Batch: types.Batch{ID: uuid.New(), Date: time.Now()},
		After: &op,
	}

# Integration Points

This package is used by:

  - pkg/codec: encodes Batch and the Op and Balance key fields (values
    are JSON-encoded by pkg/operations and pkg/checkpoints).
  - pkg/operations, pkg/checkpoints: the two topologies indexed by Triple.
  - pkg/engine: classifies and applies OpMutation, producing and
    propagating Op and Balance records.
  - pkg/report: assembles Report from checkpoints and Op scans.
  - pkg/storage: persists Op and Balance as opaque encoded values.
*/
package types
