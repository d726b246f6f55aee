package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/digitaiam/warehouse-ledger/pkg/balance"
	"github.com/digitaiam/warehouse-ledger/pkg/metrics"
	"github.com/digitaiam/warehouse-ledger/pkg/storage"
	"github.com/digitaiam/warehouse-ledger/pkg/types"
)

// Divergence reports one op whose stored running_after does not match
// what replaying its (store, goods, batch) series from scratch
// produces.
type Divergence struct {
	Op         types.Op
	Stored     balance.BalanceForGoods
	Recomputed balance.BalanceForGoods
}

// sweepFrom/sweepTill bound the series Sweep replays: wide enough to
// cover any ledger date without special-casing an open-ended scan.
var (
	sweepFrom = time.Unix(0, 0).UTC()
	sweepTill = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Sweep re-derives running_after for every op in store's series from
// scratch, grouped by (goods, batch), and reports every op whose stored
// value diverges from the recomputed one. It writes nothing back; a
// divergence is a signal for an operator to investigate, not something
// Sweep corrects itself.
func (e *Engine) Sweep(ctx context.Context, store uuid.UUID) ([]Divergence, error) {
	var divergences []Divergence
	timer := metrics.NewTimer()
	defer func() { metrics.SweepDuration.Observe(timer.Duration().Seconds()) }()

	err := e.backend.View(func(r storage.Reader) error {
		ops, err := e.ops.GetOps(r, store, sweepFrom, sweepTill)
		if err != nil {
			return err
		}

		running := map[types.Triple]balance.BalanceForGoods{}
		for _, op := range ops {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			triple := types.Triple{Store: op.Store, Goods: op.Goods, Batch: op.Batch}
			before := running[triple]

			recomputed, _, err := balance.Apply(before, *op.Op)
			if err != nil {
				return err
			}
			running[triple] = recomputed

			if !equalBalance(recomputed, op.RunningAfter) {
				divergences = append(divergences, Divergence{
					Op:         op,
					Stored:     op.RunningAfter,
					Recomputed: recomputed,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(divergences) > 0 {
		metrics.SweepDivergencesTotal.WithLabelValues(store.String()).Add(float64(len(divergences)))
	}
	return divergences, nil
}
