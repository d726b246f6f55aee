package balance

import "github.com/digitaiam/warehouse-ledger/pkg/qty"

// OpKind discriminates the three internal operation shapes. The numeric
// values double as the sort-order discriminator byte used by pkg/codec:
// receive sorts before issue, before inventory, before the no-op
// sentinel used for an op carrying no effect.
type OpKind byte

const (
	OpKindReceive   OpKind = 0
	OpKindIssue     OpKind = 1
	OpKindInventory OpKind = 2
	OpKindNone      OpKind = 3
)

func (k OpKind) String() string {
	switch k {
	case OpKindReceive:
		return "receive"
	case OpKindIssue:
		return "issue"
	case OpKindInventory:
		return "inventory"
	default:
		return "none"
	}
}

// IssueMode distinguishes manually-priced issues from auto-costed ones.
// It also governs how Inventory corrections record their cost origin.
type IssueMode string

const (
	IssueManual IssueMode = "manual"
	IssueAuto   IssueMode = "auto"
)

// InternalOperation is the business payload of a single stock event:
// stock entering a (store, goods, batch) via Receive, stock leaving via
// Issue, or a corrective Inventory adjustment that forces the balance to
// a target value.
type InternalOperation struct {
	Kind OpKind
	Qty  qty.Qty
	Cost Cost
	Mode IssueMode // meaningful for Issue and Inventory; ignored for Receive
}

// Receive builds an InternalOperation representing stock entering a store.
func Receive(q qty.Qty, cost Cost) InternalOperation {
	return InternalOperation{Kind: OpKindReceive, Qty: q, Cost: cost}
}

// Issue builds an InternalOperation representing stock leaving a store.
func Issue(q qty.Qty, cost Cost, mode IssueMode) InternalOperation {
	return InternalOperation{Kind: OpKindIssue, Qty: q, Cost: cost, Mode: mode}
}

// Inventory builds a corrective InternalOperation that sets the balance
// to the given target quantity and cost.
func Inventory(q qty.Qty, cost Cost, mode IssueMode) InternalOperation {
	return InternalOperation{Kind: OpKindInventory, Qty: q, Cost: cost, Mode: mode}
}
