package balance

import (
	"github.com/shopspring/decimal"

	"github.com/digitaiam/warehouse-ledger/pkg/qty"
)

// BalanceForGoods is the running {qty, cost} state of a (store, goods,
// batch) series at a point in time. A balance is zero when both
// components are zero.
type BalanceForGoods struct {
	Qty  qty.Qty
	Cost Cost
}

// IsZero reports whether both components are zero.
func (b BalanceForGoods) IsZero() bool {
	return b.Qty.IsZero() && b.Cost.IsZero()
}

// Add folds delta into b. It assumes Qty and delta.Qty share the same
// unit tree, which holds for every balance within a single (store,
// goods, batch) series since they all describe the same goods. A zero
// b.Qty whose unit tree differs (such as the zero value a series starts
// from, which has no unit of its own) takes delta.Qty as the sum.
func (b BalanceForGoods) Add(delta BalanceDelta) BalanceForGoods {
	sums := b.Qty.Add(delta.Qty)
	q := sums[0]
	if len(sums) > 1 && b.Qty.IsZero() {
		q = delta.Qty
	}
	return BalanceForGoods{Qty: q, Cost: b.Cost.Add(delta.Cost)}
}

// Delta returns the change that would bring b to target.
func (b BalanceForGoods) Delta(target BalanceForGoods) (BalanceDelta, error) {
	terms, err := target.Qty.Sub(b.Qty)
	if err != nil {
		return BalanceDelta{}, err
	}
	q := target.Qty
	q.Number = decimal.Zero
	if len(terms) > 0 {
		q = terms[0]
	}
	return BalanceDelta{Qty: q, Cost: target.Cost.Sub(b.Cost)}, nil
}

// BalanceDelta is a {qty, cost} pair allowed to be negative in either
// coordinate: the change an operation contributes to a running balance.
type BalanceDelta struct {
	Qty  qty.Qty
	Cost Cost
}

// IsZero reports whether the delta has no effect in either coordinate.
func (d BalanceDelta) IsZero() bool {
	return d.Qty.IsZero() && d.Cost.IsZero()
}

// Neg returns the inverse delta.
func (d BalanceDelta) Neg() BalanceDelta {
	return BalanceDelta{Qty: d.Qty.Neg(), Cost: d.Cost.Neg()}
}

// Apply folds op into running, returning the resulting balance and the
// delta op contributed. Auto-costed issues derive their cost from the
// running balance at the instant of application: (op.Qty / running.Qty)
// * running.Cost when running.Qty is non-zero; when running.Qty is
// zero, the cost is zero (any supplied cost is ignored) and the issue
// proceeds even if it drives the balance negative.
// Inventory sets the balance to the target (op.Qty, op.Cost) and yields
// whatever delta that requires.
func Apply(running BalanceForGoods, op InternalOperation) (BalanceForGoods, BalanceDelta, error) {
	switch op.Kind {
	case OpKindReceive:
		delta := BalanceDelta{Qty: op.Qty, Cost: op.Cost}
		return running.Add(delta), delta, nil

	case OpKindIssue:
		cost := op.Cost
		if op.Mode == IssueAuto {
			if running.Qty.IsZero() {
				cost = ZeroCost
			} else {
				ratio := op.Qty.Number.Div(running.Qty.Number)
				cost = ratio.Mul(running.Cost)
			}
		}
		delta := BalanceDelta{Qty: op.Qty, Cost: cost}.Neg()
		return running.Add(delta), delta, nil

	case OpKindInventory:
		target := BalanceForGoods{Qty: op.Qty, Cost: op.Cost}
		delta, err := running.Delta(target)
		if err != nil {
			return BalanceForGoods{}, BalanceDelta{}, err
		}
		return target, delta, nil

	default:
		return running, BalanceDelta{}, nil
	}
}
