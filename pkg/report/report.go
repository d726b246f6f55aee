// Package report implements the turnover report engine: it seeds
// opening balances from the checkpoint topology and rolls the ops in
// range forward over them to produce a per-(store,goods,batch) ledger
// of open/receive/issue/close for a date window.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/digitaiam/warehouse-ledger/pkg/balance"
	"github.com/digitaiam/warehouse-ledger/pkg/checkpoints"
	"github.com/digitaiam/warehouse-ledger/pkg/metrics"
	"github.com/digitaiam/warehouse-ledger/pkg/operations"
	"github.com/digitaiam/warehouse-ledger/pkg/storage"
	"github.com/digitaiam/warehouse-ledger/pkg/types"
)

// Engine builds turnover reports against a storage.Backend's
// checkpoint and ordered-operations topologies.
type Engine struct {
	checkpoints checkpoints.Topology
	ops         operations.Topology
}

// New returns an Engine over the default bbolt-backed topologies.
func New() *Engine {
	return &Engine{checkpoints: checkpoints.New(), ops: operations.New()}
}

// GetReport returns the turnover report for store over [from, till),
// reading from a single snapshot.
func (e *Engine) GetReport(backend storage.Backend, store uuid.UUID, from, till time.Time) (types.Report, error) {
	timer := metrics.NewTimer()

	var report types.Report
	err := backend.View(func(r storage.Reader) error {
		built, buildErr := e.buildReport(r, store, from, till)
		if buildErr != nil {
			return buildErr
		}
		report = built
		return nil
	})

	metrics.ReportDuration.WithLabelValues("store").Observe(timer.Duration().Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ReportsTotal.WithLabelValues("store", outcome).Inc()
	return report, err
}

// GetAggregateReport builds the turnover report of every store that has
// ever recorded an op, with no store filter, and returns each store's
// cost-only AggregateStore (no (goods, batch) line detail), in store
// order. Stores whose report for the window has no lines are omitted.
// The per-store values are not summed into a single total.
func (e *Engine) GetAggregateReport(backend storage.Backend, from, till time.Time) ([]types.AggregateStore, error) {
	timer := metrics.NewTimer()

	var out []types.AggregateStore
	err := backend.View(func(r storage.Reader) error {
		stores, listErr := e.ops.ListStores(r)
		if listErr != nil {
			return listErr
		}
		for _, store := range stores {
			report, buildErr := e.buildReport(r, store, from, till)
			if buildErr != nil {
				return buildErr
			}
			if len(report.Lines) == 0 {
				continue
			}
			out = append(out, report.AggregateStore)
		}
		return nil
	})

	metrics.ReportDuration.WithLabelValues("aggregate").Observe(timer.Duration().Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ReportsTotal.WithLabelValues("aggregate", outcome).Inc()
	return out, err
}

func (e *Engine) buildReport(r storage.Reader, store uuid.UUID, from, till time.Time) (types.Report, error) {
	lines := map[types.Triple]*types.ReportLine{}
	var order []types.Triple

	lineFor := func(triple types.Triple) *types.ReportLine {
		line, ok := lines[triple]
		if !ok {
			line = &types.ReportLine{Store: triple.Store, Goods: triple.Goods, Batch: triple.Batch}
			lines[triple] = line
			order = append(order, triple)
		}
		return line
	}

	seeds, err := e.checkpoints.GetBefore(r, store, from)
	if err != nil {
		return types.Report{}, err
	}
	// GetBefore returns every non-zero boundary at or before
	// first_of_month(from), one per month a triple's series touched;
	// only the latest one per triple is the opening balance.
	latest := map[types.Triple]types.Balance{}
	for _, seed := range seeds {
		triple := types.Triple{Store: seed.Store, Goods: seed.Goods, Batch: seed.Batch}
		if current, ok := latest[triple]; !ok || seed.Date.After(current.Date) {
			latest[triple] = seed
		}
	}
	for triple, seed := range latest {
		line := lineFor(triple)
		line.Open = seed.Number
		line.Close = seed.Number
	}

	ops, err := e.ops.GetOps(r, store, checkpoints.FirstOfMonth(from), till)
	if err != nil {
		return types.Report{}, err
	}

	for _, op := range ops {
		triple := types.Triple{Store: op.Store, Goods: op.Goods, Batch: op.Batch}
		line := lineFor(triple)

		delta, deltaErr := line.Close.Delta(op.RunningAfter)
		if deltaErr != nil {
			return types.Report{}, deltaErr
		}
		line.Close = op.RunningAfter

		if op.Date.Before(from) {
			line.Open = op.RunningAfter
			continue
		}

		if delta.Qty.Number.Sign() >= 0 {
			line.Receive = addDelta(line.Receive, delta)
		} else {
			line.Issue = addDelta(line.Issue, delta)
		}
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.Goods != b.Goods {
			return a.Goods.String() < b.Goods.String()
		}
		if a.Batch.ID != b.Batch.ID {
			return a.Batch.ID.String() < b.Batch.ID.String()
		}
		return a.Batch.Date.Before(b.Batch.Date)
	})

	report := types.Report{Store: store, From: from, Till: till}
	for _, triple := range order {
		line := lines[triple]
		if line.IsAllZero() {
			continue
		}
		report.Lines = append(report.Lines, *line)
		report.AggregateStore.Open = report.AggregateStore.Open.Add(line.Open.Cost)
		report.AggregateStore.Receive = report.AggregateStore.Receive.Add(line.Receive.Cost)
		report.AggregateStore.Issue = report.AggregateStore.Issue.Add(line.Issue.Cost)
		report.AggregateStore.Close = report.AggregateStore.Close.Add(line.Close.Cost)
	}
	report.AggregateStore.Store = store

	return report, nil
}

// addDelta folds delta into current. A freshly zero-valued
// BalanceForGoods carries no unit information of its own, so the first
// delta folded into it is taken directly rather than merged through
// Add, which would otherwise reject the mismatched unit tree.
func addDelta(current balance.BalanceForGoods, delta balance.BalanceDelta) balance.BalanceForGoods {
	if current.IsZero() {
		return balance.BalanceForGoods{Qty: delta.Qty, Cost: delta.Cost}
	}
	return current.Add(delta)
}
