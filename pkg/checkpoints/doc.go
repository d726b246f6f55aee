/*
Package checkpoints implements the checkpoint topology: month-boundary
snapshots of a (store, goods, batch) triple's running balance, held in
a mirrored pair of column families (date-store-batch and
store-batch-date), plus the normalization and propagation rules that
keep them consistent as operations are mutated.

# Checkpoint identity

The checkpoint for a triple at date D is the balance immediately
before the first instant of the month containing D. FirstOfMonth
truncates any date down to that month's boundary; checkpoints are
always stored at exactly such a boundary.

# Zero-balance deletion

A checkpoint whose balance is {0,0} carries no information a reader
needs (GetBefore only returns non-zero checkpoints), so Put deletes
rather than stores a zero checkpoint, and CheckpointUpdate deletes a
checkpoint whose target balance is zero.

# Propagation

CheckpointUpdate writes one target balance to every month boundary
strictly after an op's date up to a horizon (the next operation's
date, or the series' current latest point): since a triple's balance
between two consecutive ops in its own series never changes, every
boundary in that range takes the same value rather than being
accumulated from whatever was there before. It is the pkg/engine Step 6
primitive, called once per affected span as pkg/engine walks a
mutation's series forward.
*/
package checkpoints
