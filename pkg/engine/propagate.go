package engine

import (
	"github.com/digitaiam/warehouse-ledger/pkg/balance"
	"github.com/digitaiam/warehouse-ledger/pkg/checkpoints"
	"github.com/digitaiam/warehouse-ledger/pkg/metrics"
	"github.com/digitaiam/warehouse-ledger/pkg/storage"
	"github.com/digitaiam/warehouse-ledger/pkg/types"
)

// propagate carries the effect of writing or removing anchor forward
// through the rest of its (store, goods, batch) series and into every
// checkpoint the series has recorded past it. runningAfter is anchor's
// own new running balance.
//
// A (store, goods, batch) triple's balance is defined entirely by its
// own ops series: between any two consecutive ops (or past the last
// one) it holds constant, so every month boundary in that span can be
// set directly to the balance in effect there rather than accumulated
// from whatever a checkpoint previously held. The walk advances one
// successor at a time, closing out the checkpoint span up to each
// successor's date before recomputing that successor's own effect, and
// stops early once a successor's recomputed running balance matches
// what was already stored for it (every later successor was derived
// from that same state before, so it is unaffected too).
func (e *Engine) propagate(w storage.Writer, anchor types.Op, runningAfter balance.BalanceForGoods) error {
	segmentStart := anchor.Date
	segmentBalance := runningAfter
	cursor := anchor
	chainLength := 0
	defer func() { metrics.PropagationChainLength.Observe(float64(chainLength)) }()

	for {
		successor, ok, err := e.ops.OperationAfter(w, cursor, true)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		chainLength++

		if err := e.checkpoints.CheckpointUpdate(w, anchor.Store, anchor.Goods, anchor.Batch, segmentStart, successor.Date, segmentBalance); err != nil {
			return err
		}

		newSuccessorAfter, successorDelta, err := balance.Apply(segmentBalance, *successor.Op)
		if err != nil {
			return err
		}

		if equalBalance(successor.RunningAfter, newSuccessorAfter) {
			// Everything from successor onward was derived from a
			// running balance that hasn't changed, so it's still
			// correct as stored; the span up to successor.Date was
			// just settled above and nothing past it needs touching.
			return nil
		}

		resolved := resolvedOp(*successor.Op, successorDelta)
		updated := successor
		updated.Op = &resolved
		updated.RunningAfter = newSuccessorAfter
		if err := e.ops.Put(w, updated); err != nil {
			return err
		}

		segmentStart = successor.Date
		segmentBalance = newSuccessorAfter
		cursor = updated
	}

	// The immediate next boundary after the last point touched is always
	// settled once that point's op is written, since nothing between it
	// and that boundary can still change; a previously established
	// checkpoint further out extends the horizon past it.
	horizon := checkpoints.NextMonthBoundary(segmentStart)
	if latest, ok, err := e.checkpoints.LatestDate(w, anchor.Store, anchor.Goods, anchor.Batch); err != nil {
		return err
	} else if ok && latest.After(horizon) {
		horizon = latest
	}

	return e.checkpoints.CheckpointUpdate(w, anchor.Store, anchor.Goods, anchor.Batch, segmentStart, horizon, segmentBalance)
}
