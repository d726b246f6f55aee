/*
Package engine implements the mutation engine: the seven-step protocol
that turns one OpMutation into a committed, fully propagated change
against the ordered-operations and checkpoint topologies.

# Protocol

Apply runs, per mutation: classify (create/edit/delete, conflict
check), expand transfers into an issue/receive leg pair, resolve each
leg's running balance before it from the preceding op in the same
series, write the leg, then walk its successors one at a time,
recomputing each one's own running balance against the new state and
stopping as soon as a successor's recomputed balance matches what was
already stored for it (everything later was derived from that same,
now-unchanged value). Every checkpoint boundary spanned by the walk is
set directly to the constant balance that held across it, and the
whole pass commits as one storage transaction over one snapshot.

A list of mutations is applied one at a time, each under its own
snapshot-and-commit pair; a failure on one mutation aborts only that
mutation's batch and leaves the database as it was before that
mutation began.

# Sweep

Sweep re-derives running_after for every op in a store's series from
scratch and reports any divergence from the stored value, without
writing anything back; it is the consistency check behind `ledger
sweep`.
*/
package engine
