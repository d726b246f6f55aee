package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/digitaiam/warehouse-ledger/pkg/balance"
	"github.com/digitaiam/warehouse-ledger/pkg/codec"
	"github.com/digitaiam/warehouse-ledger/pkg/ledgererr"
	"github.com/digitaiam/warehouse-ledger/pkg/log"
	"github.com/digitaiam/warehouse-ledger/pkg/storage"
	"github.com/digitaiam/warehouse-ledger/pkg/types"
)

// legInput is one materialized op-mutation leg: a plain mutation has
// exactly one, a transfer expands into two sharing the same batch.
type legInput struct {
	id          uuid.UUID
	date        time.Time
	store       uuid.UUID
	storeInto   *uuid.UUID
	goods       uuid.UUID
	batch       types.Batch
	before      *balance.InternalOperation
	after       *balance.InternalOperation
	isDependent bool
	dependant   []uuid.UUID
}

func (li legInput) kind() balance.OpKind {
	if li.before != nil {
		return li.before.Kind
	}
	if li.after != nil {
		return li.after.Kind
	}
	return balance.OpKindNone
}

func (li legInput) key() codec.OpKey {
	return codec.OpKey{Store: li.store, Date: li.date, Kind: li.kind(), Goods: li.goods, Batch: li.batch, OpID: li.id}
}

func (li legInput) isCreate() bool { return li.before == nil && li.after != nil }
func (li legInput) isEdit() bool   { return li.before != nil && li.after != nil }
func (li legInput) isDelete() bool { return li.before != nil && li.after == nil }

func sameOperation(stored, mutationBefore *balance.InternalOperation) bool {
	if stored == nil || mutationBefore == nil {
		return stored == mutationBefore
	}
	return stored.Kind == mutationBefore.Kind &&
		stored.Mode == mutationBefore.Mode &&
		stored.Qty.Equal(mutationBefore.Qty) &&
		stored.Cost.Equal(mutationBefore.Cost)
}

func equalBalance(a, b balance.BalanceForGoods) bool {
	return a.Qty.Equal(b.Qty) && a.Cost.Equal(b.Cost)
}

// effectiveCost returns the cost an applied InternalOperation actually
// charged: for an auto-costed issue this is the derived value, not the
// zero sentinel the caller supplied.
func effectiveCost(op balance.InternalOperation, delta balance.BalanceDelta) balance.Cost {
	if op.Kind == balance.OpKindIssue {
		return delta.Cost.Neg()
	}
	return op.Cost
}

// resolvedOp copies op with Cost replaced by the value actually applied,
// so a stored record never shows the "auto" zero sentinel as its cost.
func resolvedOp(op balance.InternalOperation, delta balance.BalanceDelta) balance.InternalOperation {
	resolved := op
	resolved.Cost = effectiveCost(op, delta)
	return resolved
}

// processLeg executes steps 1-6 of the mutation protocol for one leg:
// classification and conflict detection, running-balance resolution,
// writing the op, forward propagation, and checkpoint propagation. It
// returns the op record left standing for this leg's identity (the
// newly written one for a create/edit, or the just-removed one for a
// delete, so a caller building a dependent leg can read its resolved
// cost).
func (e *Engine) processLeg(w storage.Writer, li legInput) (types.Op, error) {
	log.WithGoods(li.goods.String()).Debug().Msg("resolving leg")
	log.WithBatch(li.batch.ID.String(), li.batch.Date).Debug().Msg("resolving leg batch")

	existing, found, err := e.ops.Get(w, li.key())
	if err != nil {
		return types.Op{}, err
	}

	if err := classify(li, existing, found); err != nil {
		return types.Op{}, err
	}

	probe := types.Op{ID: li.id, Date: li.date, Store: li.store, Goods: li.goods, Batch: li.batch,
		Op: &balance.InternalOperation{Kind: li.kind()}}
	runningBefore, err := e.ops.BalanceBefore(w, probe)
	if err != nil {
		return types.Op{}, err
	}

	var resultOp types.Op
	var newRunningAfter balance.BalanceForGoods

	switch {
	case li.isDelete():
		newRunningAfter = runningBefore
		if err := e.ops.Delete(w, existing); err != nil {
			return types.Op{}, err
		}
		resultOp = existing

	default: // create or edit
		var legDelta balance.BalanceDelta
		newRunningAfter, legDelta, err = balance.Apply(runningBefore, *li.after)
		if err != nil {
			return types.Op{}, ledgererr.Wrap(ledgererr.Invariant, "apply mutation", err)
		}
		resolved := resolvedOp(*li.after, legDelta)
		resultOp = types.Op{
			ID: li.id, Date: li.date, Store: li.store, StoreInto: li.storeInto,
			Goods: li.goods, Batch: li.batch, Op: &resolved,
			IsDependent: li.isDependent, Dependant: li.dependant,
			RunningAfter: newRunningAfter,
		}
		if err := e.ops.Put(w, resultOp); err != nil {
			return types.Op{}, err
		}
	}

	if err := e.propagate(w, resultOp, newRunningAfter); err != nil {
		return types.Op{}, err
	}

	return resultOp, nil
}

func classify(li legInput, existing types.Op, found bool) error {
	switch {
	case li.isCreate():
		if found {
			return ledgererr.New(ledgererr.Conflict, "op already exists")
		}
	case li.isEdit(), li.isDelete():
		if !found {
			return ledgererr.New(ledgererr.NotFound, "op not found for mutation")
		}
		if !sameOperation(existing.Op, li.before) {
			return ledgererr.New(ledgererr.Conflict, "stored op does not match mutation.before")
		}
	default:
		return ledgererr.New(ledgererr.BadInput, "mutation has neither before nor after")
	}
	return nil
}
