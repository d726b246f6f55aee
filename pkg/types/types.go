package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/digitaiam/warehouse-ledger/pkg/balance"
)

// Batch identifies a specific lot of goods: a lot id paired with the
// acquisition date of that lot. Cost accounting is tracked per batch so
// that two receipts of the same goods at different prices never mix.
type Batch struct {
	ID   uuid.UUID
	Date time.Time
}

// IsZero reports whether b is the zero-value batch.
func (b Batch) IsZero() bool {
	return b.ID == uuid.Nil && b.Date.IsZero()
}

// Op is a materialized, stored stock event. Every committed Op carries
// the running balance immediately after it was applied, so propagation
// never needs to re-read a neighbor to learn it.
type Op struct {
	ID        uuid.UUID
	Date      time.Time
	Store     uuid.UUID
	StoreInto *uuid.UUID // destination store of a transfer leg, if any
	Goods     uuid.UUID
	Batch     Batch

	Op *balance.InternalOperation // nil means "no effect" (OpKindNone), an intermediate edit state

	IsDependent bool
	Dependant   []uuid.UUID

	RunningAfter balance.BalanceForGoods
}

// Kind returns the discriminator byte used for key ordering: the kind of
// the contained operation, or OpKindNone when Op carries no effect.
func (o *Op) Kind() balance.OpKind {
	if o.Op == nil {
		return balance.OpKindNone
	}
	return o.Op.Kind
}

// OpMutation is the external unit of input: a before/after pair of
// InternalOperation describing a create (before=nil), an edit
// (before, after both set), or a delete (after=nil).
type OpMutation struct {
	ID        uuid.UUID
	Date      time.Time
	Store     uuid.UUID
	StoreInto *uuid.UUID
	Goods     uuid.UUID
	Batch     Batch

	Before *balance.InternalOperation
	After  *balance.InternalOperation
}

// IsCreate reports whether this mutation introduces a new op.
func (m *OpMutation) IsCreate() bool { return m.Before == nil && m.After != nil }

// IsEdit reports whether this mutation edits an existing op.
func (m *OpMutation) IsEdit() bool { return m.Before != nil && m.After != nil }

// IsDelete reports whether this mutation removes an existing op.
func (m *OpMutation) IsDelete() bool { return m.Before != nil && m.After == nil }

// IsValid reports whether the mutation is well-formed: at least one of
// Before/After must be set.
func (m *OpMutation) IsValid() bool { return m.Before != nil || m.After != nil }

// Balance is a checkpoint snapshot: the balance of a (store,goods,batch)
// triple immediately before the first instant of the month containing
// Date. Balance is always normalized to a calendar month boundary.
type Balance struct {
	Date   time.Time
	Store  uuid.UUID
	Goods  uuid.UUID
	Batch  Batch
	Number balance.BalanceForGoods
}

// Triple identifies a (store, goods, batch) series, the unit over which
// operations are totally ordered and checkpoints are taken.
type Triple struct {
	Store uuid.UUID
	Goods uuid.UUID
	Batch Batch
}

// ReportLine is one (store,goods,batch) row of a turnover report.
type ReportLine struct {
	Store   uuid.UUID
	Goods   uuid.UUID
	Batch   Batch
	Open    balance.BalanceForGoods
	Receive balance.BalanceForGoods
	Issue   balance.BalanceForGoods
	Close   balance.BalanceForGoods
}

// IsAllZero reports whether every component of the line is zero, in
// which case the report drops the line entirely.
func (l *ReportLine) IsAllZero() bool {
	return l.Open.IsZero() && l.Receive.IsZero() && l.Issue.IsZero() && l.Close.IsZero()
}

// AggregateStore is the cost-only rollup of a report across all lines
// for one store. GetAggregateReport returns one per store.
type AggregateStore struct {
	Store   uuid.UUID
	Open    balance.Cost
	Receive balance.Cost
	Issue   balance.Cost
	Close   balance.Cost
}

// Report is the result of a turnover query over [From, Till).
type Report struct {
	Store          uuid.UUID
	From           time.Time
	Till           time.Time
	AggregateStore AggregateStore
	Lines          []ReportLine
}
