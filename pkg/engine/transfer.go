package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/digitaiam/warehouse-ledger/pkg/balance"
	"github.com/digitaiam/warehouse-ledger/pkg/codec"
	"github.com/digitaiam/warehouse-ledger/pkg/ledgererr"
	"github.com/digitaiam/warehouse-ledger/pkg/storage"
	"github.com/digitaiam/warehouse-ledger/pkg/types"
)

// applyTransfer expands a mutation carrying StoreInto into its issue
// and receive legs and processes each through processLeg, in lockstep:
// the issue leg is resolved first (so its actual, possibly auto-costed,
// charge is known), then the receive leg is built from that resolved
// cost and given a stable id derived from the issue leg's id, so
// repeated edits of the same transfer always touch the same pair.
func (e *Engine) applyTransfer(w storage.Writer, m types.OpMutation) error {
	if m.StoreInto == nil {
		return ledgererr.New(ledgererr.BadInput, "applyTransfer requires StoreInto")
	}

	receiveLegID := uuid.NewSHA1(transferNamespace, m.ID[:])

	var dependant []uuid.UUID
	if m.After != nil {
		dependant = []uuid.UUID{receiveLegID}
	}

	issueResult, err := e.processLeg(w, legInput{
		id:        m.ID,
		date:      m.Date,
		store:     m.Store,
		storeInto: m.StoreInto,
		goods:     m.Goods,
		batch:     m.Batch,
		before:    m.Before,
		after:     m.After,
		dependant: dependant,
	})
	if err != nil {
		return err
	}

	receiveBefore, err := e.receiveLegBefore(w, receiveLegID, *m.StoreInto, m.Goods, m.Batch, m.Date)
	if err != nil {
		return err
	}

	var receiveAfter *balance.InternalOperation
	if m.After != nil {
		resolved := balance.Receive(issueResult.Op.Qty, issueResult.Op.Cost)
		receiveAfter = &resolved
	}

	_, err = e.processLeg(w, legInput{
		id:          receiveLegID,
		date:        m.Date,
		store:       *m.StoreInto,
		goods:       m.Goods,
		batch:       m.Batch,
		before:      receiveBefore,
		after:       receiveAfter,
		isDependent: true,
	})
	return err
}

// receiveLegBefore reads the currently stored receive leg's operation,
// if any, so it can stand as the mutation's "before" for the conflict
// check: a dependent leg's prior state is whatever the engine itself
// last wrote, never something a caller supplies.
func (e *Engine) receiveLegBefore(r storage.Reader, receiveLegID, store, goods uuid.UUID, batch types.Batch, date time.Time) (*balance.InternalOperation, error) {
	key := codec.OpKey{Store: store, Date: date, Kind: balance.OpKindReceive, Goods: goods, Batch: batch, OpID: receiveLegID}
	stored, found, err := e.ops.Get(r, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return stored.Op, nil
}
