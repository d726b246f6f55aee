// Package qty implements the nested-unit-of-measure quantity type used
// throughout the ledger.
//
// A Qty pairs a decimal count with a unit of measure. The unit itself may
// carry a nested Qty describing the packaging one level down (a box of
// 24 rolls, a pallet of 3 boxes, and so on), so a single value like
// "3 boxes of 24 rolls of 500 g" is one Qty whose Unit.Nested is itself a
// Qty.
//
// Addition and subtraction are defined over the full nested structure:
// two quantities add directly only when their unit trees match exactly.
// Subtraction additionally supports "simplification" when one side is
// expressed at a shallower packaging level than the other, flattening
// the deeper side down to a common granularity before subtracting.
package qty
