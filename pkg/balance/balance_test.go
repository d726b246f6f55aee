package balance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitaiam/warehouse-ledger/pkg/qty"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestApplyReceive(t *testing.T) {
	unit := uuid.New()
	running := BalanceForGoods{Qty: qty.New(d(10), unit), Cost: d(100)}
	op := Receive(qty.New(d(5), unit), d(50))

	next, delta, err := Apply(running, op)
	require.NoError(t, err)
	assert.True(t, next.Qty.Number.Equal(d(15)))
	assert.True(t, next.Cost.Equal(d(150)))
	assert.True(t, delta.Qty.Number.Equal(d(5)))
	assert.True(t, delta.Cost.Equal(d(50)))
}

func TestApplyIssueManual(t *testing.T) {
	unit := uuid.New()
	running := BalanceForGoods{Qty: qty.New(d(15), unit), Cost: d(150)}
	op := Issue(qty.New(d(5), unit), d(50), IssueManual)

	next, delta, err := Apply(running, op)
	require.NoError(t, err)
	assert.True(t, next.Qty.Number.Equal(d(10)))
	assert.True(t, next.Cost.Equal(d(100)))
	assert.True(t, delta.Qty.Number.Equal(d(-5)))
	assert.True(t, delta.Cost.Equal(d(-50)))
}

func TestApplyIssueAutoCost(t *testing.T) {
	unit := uuid.New()
	running := BalanceForGoods{Qty: qty.New(d(10), unit), Cost: d(100)}
	op := Issue(qty.New(d(5), unit), decimal.Zero, IssueAuto)

	next, delta, err := Apply(running, op)
	require.NoError(t, err)
	// ratio = 5/10 = 0.5, cost = 0.5 * 100 = 50
	assert.True(t, next.Cost.Equal(d(50)))
	assert.True(t, delta.Cost.Equal(d(-50)))
	assert.True(t, next.Qty.Number.Equal(d(5)))
}

func TestApplyIssueAutoCostOnEmptyBalance(t *testing.T) {
	unit := uuid.New()
	running := BalanceForGoods{Qty: qty.New(decimal.Zero, unit), Cost: decimal.Zero}
	op := Issue(qty.New(d(5), unit), decimal.Zero, IssueAuto)

	next, delta, err := Apply(running, op)
	require.NoError(t, err)
	assert.True(t, next.Qty.Number.Equal(d(-5)))
	assert.True(t, next.Cost.IsZero())
	assert.True(t, delta.Cost.IsZero())
}

func TestApplyInventorySetsTarget(t *testing.T) {
	unit := uuid.New()
	running := BalanceForGoods{Qty: qty.New(d(10), unit), Cost: d(100)}
	op := Inventory(qty.New(d(8), unit), d(80), IssueManual)

	next, delta, err := Apply(running, op)
	require.NoError(t, err)
	assert.True(t, next.Qty.Number.Equal(d(8)))
	assert.True(t, next.Cost.Equal(d(80)))
	assert.True(t, delta.Qty.Number.Equal(d(-2)))
	assert.True(t, delta.Cost.Equal(d(-20)))
}

func TestBalanceIsZero(t *testing.T) {
	unit := uuid.New()
	zero := BalanceForGoods{Qty: qty.New(decimal.Zero, unit), Cost: decimal.Zero}
	assert.True(t, zero.IsZero())

	nonzero := BalanceForGoods{Qty: qty.New(d(1), unit), Cost: decimal.Zero}
	assert.False(t, nonzero.IsZero())
}
