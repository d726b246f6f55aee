// Package codec implements the ledger's fixed-layout, order-preserving
// key encoding.
//
// Every key is a byte string whose lexicographic order equals its
// intended semantic order: timestamps as big-endian uint64 millisecond
// instants, identifiers as 16 raw bytes in canonical order, and a single
// discriminator byte for operation type chosen so that, within a shared
// prefix, receive sorts before issue before inventory before the no-op
// sentinel.
//
// Four layouts are defined, two per topology so that each can be
// iterated in the ordering it needs without a secondary index:
//
//	operations by store-date-type:  store || date || type || goods || batch || op_id
//	operations by date-store-type:  date || type || store || goods || batch || op_id
//	checkpoints by date-store-batch: date || store || goods || batch
//	checkpoints by store-batch-date: store || goods || batch || date
//
// Every Encode* function has a matching Decode* inverse, used by range
// iterators and by the mutation engine to compute the parallel key in
// the sibling index without re-deriving it from scratch.
package codec
