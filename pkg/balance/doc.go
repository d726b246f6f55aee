// Package balance implements exact-decimal cost accounting over the
// nested quantity tree from pkg/qty.
//
// A BalanceForGoods is the pair {Qty, Cost} held at a (store, goods,
// batch) series at a point in time. A BalanceDelta is the same pair
// allowed to go negative in either coordinate, representing a change.
// Apply folds an InternalOperation into a running BalanceForGoods,
// producing the next balance and the delta the operation contributed —
// the single place auto-costing and inventory corrections are resolved.
package balance
