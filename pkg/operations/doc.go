/*
Package operations implements the ordered-operations topology: a
mirrored pair of column families holding the same Op records under
two complementary key orderings, plus the lookups the mutation engine
and report engine need over them.

# Mirrored indexes

Every Put writes the same JSON-encoded Op (which carries its own
RunningAfter balance) into both the store-date-type and date-store-type
buckets, under the key each layout defines; every Delete removes it
from both. GetOps range-scans store-date-type, since report queries
are always scoped to one store and a date interval.

# Series lookups

OperationAfter, BalanceBefore, and BalanceAfter resolve a position
within one (store, goods, batch) series. BalanceAfter is a point read
of the op's own record. The backend exposes only a forward Range, not
a reverse cursor, so OperationAfter and BalanceBefore walk forward over the
owning store's slice of the store-date-type index rather than seeking
backward; this is the Topology's one deliberate cost/simplicity
tradeoff, acceptable because a mutation touches one series at a time
and the walk is bounded by that store's operation count, not the whole
database.

ListStores jumps from one store prefix directly to the next by
incrementing it, rather than scanning every key in the bucket, so
discovering the distinct stores for the report engine's store-less
aggregate query costs one seek per store rather than one per op.

# Topology

Topology is the interface pkg/checkpoints mirrors with its own
checkpoint-shaped methods: both packages expose put/delete plus range
lookups over a mirrored key-ordering pair, so the mirrored-write
invariant is enforced by one shape instead of duplicated ad hoc code
in each package.
*/
package operations
