package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitaiam/warehouse-ledger/pkg/balance"
	"github.com/digitaiam/warehouse-ledger/pkg/checkpoints"
	"github.com/digitaiam/warehouse-ledger/pkg/codec"
	"github.com/digitaiam/warehouse-ledger/pkg/engine"
	"github.com/digitaiam/warehouse-ledger/pkg/operations"
	"github.com/digitaiam/warehouse-ledger/pkg/qty"
	"github.com/digitaiam/warehouse-ledger/pkg/storage"
	"github.com/digitaiam/warehouse-ledger/pkg/types"
)

func newBackend(t *testing.T) *storage.BoltBackend {
	t.Helper()
	b, err := storage.NewBoltBackend(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func unit() uuid.UUID { return uuid.MustParse("00000000-0000-0000-0000-000000000001") }

func q(n int64) qty.Qty { return qty.New(decimal.NewFromInt(n), unit()) }

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// runningAfter reads back an op's stored running balance by scanning
// the full store interval, since tests only know the mutation id, not
// the exact stored key fields after propagation may have rewritten it.
func runningAfter(t *testing.T, backend storage.Backend, store uuid.UUID, id uuid.UUID) balance.BalanceForGoods {
	t.Helper()
	topo := operations.New()
	var found types.Op
	var ok bool
	err := backend.View(func(r storage.Reader) error {
		ops, err := topo.GetOps(r, store, date(2000, 1, 1), date(2100, 1, 1))
		if err != nil {
			return err
		}
		for _, op := range ops {
			if op.ID == id {
				found = op
				ok = true
			}
		}
		return nil
	})
	require.NoError(t, err)
	require.True(t, ok, "op %s not found", id)
	return found.RunningAfter
}

func checkpointAt(t *testing.T, backend storage.Backend, store, goods uuid.UUID, batch types.Batch, at time.Time) (balance.BalanceForGoods, bool) {
	t.Helper()
	topo := checkpoints.New()
	var bal types.Balance
	var ok bool
	err := backend.View(func(r storage.Reader) error {
		var getErr error
		bal, ok, getErr = topo.Get(r, store, goods, batch, at)
		return getErr
	})
	require.NoError(t, err)
	if !ok {
		return balance.BalanceForGoods{}, false
	}
	return bal.Number, true
}

// TestReceiveThenManualIssue covers scenario R1: a receipt followed by
// a manually-costed issue in the same batch.
func TestReceiveThenManualIssue(t *testing.T) {
	backend := newBackend(t)
	eng := engine.New(backend)
	store, goods := uuid.New(), uuid.New()
	batch := types.Batch{ID: uuid.New(), Date: date(2022, 10, 10)}

	receiveID, issueID := uuid.New(), uuid.New()
	receive := balance.Receive(q(3), decimal.NewFromInt(3000))
	issue := balance.Issue(q(1), decimal.NewFromInt(1000), balance.IssueManual)

	err := eng.Apply([]types.OpMutation{
		{ID: receiveID, Date: date(2022, 10, 10), Store: store, Goods: goods, Batch: batch, After: &receive},
		{ID: issueID, Date: date(2022, 10, 10), Store: store, Goods: goods, Batch: batch, After: &issue},
	})
	require.NoError(t, err)

	closing := runningAfter(t, backend, store, issueID)
	assert.True(t, closing.Qty.Equal(q(2)), "qty: %v", closing.Qty)
	assert.True(t, closing.Cost.Equal(decimal.NewFromInt(2000)))

	cp, ok := checkpointAt(t, backend, store, goods, batch, date(2022, 11, 1))
	require.True(t, ok)
	assert.True(t, cp.Qty.Equal(q(2)))
	assert.True(t, cp.Cost.Equal(decimal.NewFromInt(2000)))
}

// TestAutoCostIssue covers scenario A1: an auto-costed issue derives
// its cost from the running balance at the instant it applies.
func TestAutoCostIssue(t *testing.T) {
	backend := newBackend(t)
	eng := engine.New(backend)
	store, goods := uuid.New(), uuid.New()
	batch := types.Batch{ID: uuid.New(), Date: date(2022, 10, 10)}

	receiveID, issueID := uuid.New(), uuid.New()
	receive := balance.Receive(q(4), decimal.NewFromInt(2000))
	issue := balance.Issue(q(1), decimal.Zero, balance.IssueAuto)

	err := eng.Apply([]types.OpMutation{
		{ID: receiveID, Date: date(2022, 10, 10), Store: store, Goods: goods, Batch: batch, After: &receive},
		{ID: issueID, Date: date(2022, 10, 10), Store: store, Goods: goods, Batch: batch, After: &issue},
	})
	require.NoError(t, err)

	closing := runningAfter(t, backend, store, issueID)
	assert.True(t, closing.Qty.Equal(q(3)), "qty: %v", closing.Qty)
	assert.True(t, closing.Cost.Equal(decimal.NewFromInt(1500)), "cost: %v", closing.Cost)
}

// TestEditPropagatesForward covers scenario E1: editing an earlier
// receipt shifts the running balance, and the shift must reach every
// later checkpoint.
func TestEditPropagatesForward(t *testing.T) {
	backend := newBackend(t)
	eng := engine.New(backend)
	store, goods := uuid.New(), uuid.New()
	batch := types.Batch{ID: uuid.New(), Date: date(2022, 8, 25)}

	firstID, secondID := uuid.New(), uuid.New()
	firstOriginal := balance.Receive(q(3), decimal.NewFromInt(10))
	second := balance.Receive(q(1), decimal.NewFromInt(30))

	err := eng.Apply([]types.OpMutation{
		{ID: firstID, Date: date(2022, 8, 25), Store: store, Goods: goods, Batch: batch, After: &firstOriginal},
		{ID: secondID, Date: date(2022, 9, 20), Store: store, Goods: goods, Batch: batch, After: &second},
	})
	require.NoError(t, err)

	cp, ok := checkpointAt(t, backend, store, goods, batch, date(2022, 10, 1))
	require.True(t, ok)
	assert.True(t, cp.Qty.Equal(q(4)))
	assert.True(t, cp.Cost.Equal(decimal.NewFromInt(40)))

	firstEdited := balance.Receive(q(4), decimal.NewFromInt(100))
	err = eng.Apply([]types.OpMutation{
		{ID: firstID, Date: date(2022, 8, 25), Store: store, Goods: goods, Batch: batch, Before: &firstOriginal, After: &firstEdited},
	})
	require.NoError(t, err)

	cp, ok = checkpointAt(t, backend, store, goods, batch, date(2022, 10, 1))
	require.True(t, ok)
	assert.True(t, cp.Qty.Equal(q(5)), "qty: %v", cp.Qty)
	assert.True(t, cp.Cost.Equal(decimal.NewFromInt(130)), "cost: %v", cp.Cost)
}

// TestTransferSharesBatchAcrossLegs covers scenario T1: a transfer's
// issue and receive legs land in different stores but share a batch
// and move exactly inverse quantities at the same resolved cost.
func TestTransferSharesBatchAcrossLegs(t *testing.T) {
	backend := newBackend(t)
	eng := engine.New(backend)
	w1, w2, goods := uuid.New(), uuid.New(), uuid.New()
	batch := types.Batch{ID: uuid.New(), Date: date(2022, 12, 1)}

	receiveID, transferID := uuid.New(), uuid.New()
	receive := balance.Receive(q(1), decimal.NewFromInt(15))
	transferIssue := balance.Issue(q(1), decimal.Zero, balance.IssueAuto)
	w2Store := w2

	err := eng.Apply([]types.OpMutation{
		{ID: receiveID, Date: date(2022, 12, 17), Store: w1, Goods: goods, Batch: batch, After: &receive},
		{ID: transferID, Date: date(2022, 12, 18), Store: w1, StoreInto: &w2Store, Goods: goods, Batch: batch, After: &transferIssue},
	})
	require.NoError(t, err)

	w1Closing := runningAfter(t, backend, w1, transferID)
	assert.True(t, w1Closing.Qty.IsZero())
	assert.True(t, w1Closing.Cost.IsZero())

	receiveLegID := uuid.NewSHA1(uuid.MustParse("5a7c9e3a-4b1d-4f2e-9c8a-1d6e2f4b7a90"), transferID[:])
	w2Closing := runningAfter(t, backend, w2, receiveLegID)
	assert.True(t, w2Closing.Qty.Equal(q(1)), "qty: %v", w2Closing.Qty)
	assert.True(t, w2Closing.Cost.Equal(decimal.NewFromInt(15)), "cost: %v", w2Closing.Cost)
}

// TestZeroSumCheckpointIsAbsent covers scenario Z1: a receive fully
// offset by an issue in the same period leaves no checkpoint at all,
// not a zero-valued one.
func TestZeroSumCheckpointIsAbsent(t *testing.T) {
	backend := newBackend(t)
	eng := engine.New(backend)
	store, goods := uuid.New(), uuid.New()
	batch := types.Batch{ID: uuid.New(), Date: date(2022, 10, 10)}

	receiveID, issueID := uuid.New(), uuid.New()
	receive := balance.Receive(q(3), decimal.NewFromInt(3000))
	issue := balance.Issue(q(3), decimal.NewFromInt(3000), balance.IssueManual)

	err := eng.Apply([]types.OpMutation{
		{ID: receiveID, Date: date(2022, 10, 10), Store: store, Goods: goods, Batch: batch, After: &receive},
		{ID: issueID, Date: date(2022, 10, 10), Store: store, Goods: goods, Batch: batch, After: &issue},
	})
	require.NoError(t, err)

	_, ok := checkpointAt(t, backend, store, goods, batch, date(2022, 11, 1))
	assert.False(t, ok)
}

// TestNegativeBalanceFromBareIssue covers scenario N1: an issue with no
// prior receipt is allowed to drive the balance negative.
func TestNegativeBalanceFromBareIssue(t *testing.T) {
	backend := newBackend(t)
	eng := engine.New(backend)
	store, goods := uuid.New(), uuid.New()
	batch := types.Batch{ID: uuid.New(), Date: date(2022, 10, 10)}

	issueID := uuid.New()
	issue := balance.Issue(q(2), decimal.NewFromInt(2000), balance.IssueManual)

	err := eng.Apply([]types.OpMutation{
		{ID: issueID, Date: date(2022, 10, 10), Store: store, Goods: goods, Batch: batch, After: &issue},
	})
	require.NoError(t, err)

	closing := runningAfter(t, backend, store, issueID)
	assert.True(t, closing.Qty.Equal(q(-2)), "qty: %v", closing.Qty)
	assert.True(t, closing.Cost.Equal(decimal.NewFromInt(-2000)))

	cp, ok := checkpointAt(t, backend, store, goods, batch, date(2022, 11, 1))
	require.True(t, ok)
	assert.True(t, cp.Qty.Equal(q(-2)))
	assert.True(t, cp.Cost.Equal(decimal.NewFromInt(-2000)))
}

// TestEditConflictWhenBeforeDoesNotMatch covers the conflict path of
// classification: an edit whose declared "before" does not match what
// is actually stored is rejected rather than silently applied.
func TestEditConflictWhenBeforeDoesNotMatch(t *testing.T) {
	backend := newBackend(t)
	eng := engine.New(backend)
	store, goods := uuid.New(), uuid.New()
	batch := types.Batch{ID: uuid.New(), Date: date(2022, 10, 10)}

	id := uuid.New()
	original := balance.Receive(q(3), decimal.NewFromInt(3000))
	err := eng.Apply([]types.OpMutation{
		{ID: id, Date: date(2022, 10, 10), Store: store, Goods: goods, Batch: batch, After: &original},
	})
	require.NoError(t, err)

	wrongBefore := balance.Receive(q(99), decimal.NewFromInt(99))
	edited := balance.Receive(q(4), decimal.NewFromInt(4000))
	err = eng.Apply([]types.OpMutation{
		{ID: id, Date: date(2022, 10, 10), Store: store, Goods: goods, Batch: batch, Before: &wrongBefore, After: &edited},
	})
	require.Error(t, err)
}

// TestSweepDetectsDivergence confirms Sweep flags an op whose stored
// running_after has been corrupted independently of the engine.
func TestSweepDetectsDivergence(t *testing.T) {
	backend := newBackend(t)
	eng := engine.New(backend)
	store, goods := uuid.New(), uuid.New()
	batch := types.Batch{ID: uuid.New(), Date: date(2022, 10, 10)}

	id := uuid.New()
	receive := balance.Receive(q(3), decimal.NewFromInt(3000))
	err := eng.Apply([]types.OpMutation{
		{ID: id, Date: date(2022, 10, 10), Store: store, Goods: goods, Batch: batch, After: &receive},
	})
	require.NoError(t, err)

	topo := operations.New()
	err = backend.Update(func(w storage.Writer) error {
		key := codec.OpKey{Store: store, Date: date(2022, 10, 10), Kind: balance.OpKindReceive, Goods: goods, Batch: batch, OpID: id}
		stored, ok, getErr := topo.Get(w, key)
		if getErr != nil {
			return getErr
		}
		require.True(t, ok)
		stored.RunningAfter.Qty = q(999)
		return topo.Put(w, stored)
	})
	require.NoError(t, err)

	divergences, err := eng.Sweep(context.Background(), store)
	require.NoError(t, err)
	require.Len(t, divergences, 1)
	assert.Equal(t, id, divergences[0].Op.ID)
}
