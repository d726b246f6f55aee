/*
Package storage provides the ledger's transactional backend: an
embedded, bbolt-backed key-value store partitioned into named column
families, with snapshot reads and atomic multi-bucket write batches.

# Architecture

	┌──────────────────── TRANSACTIONAL BACKEND ───────────────────┐
	│                                                                │
	│  ┌──────────────────────────────────────────────┐            │
	│  │               BoltBackend                      │            │
	│  │  - File: <dataDir>/ledger.db                   │            │
	│  │  - Format: B+tree with MVCC                    │            │
	│  │  - Transactions: ACID with fsync               │            │
	│  └──────────────────────┬───────────────────────┘            │
	│                         │                                      │
	│  ┌──────────────────────▼───────────────────────┐            │
	│  │                Bucket Structure                  │            │
	│  │  ┌──────────────────────────────────────┐      │            │
	│  │  │ ops_store_date_type                    │      │            │
	│  │  │ ops_date_store_type                    │      │            │
	│  │  │ checkpoints_date_store_batch            │      │            │
	│  │  │ checkpoints_store_batch_date            │      │            │
	│  │  │ core               (external doc bytes) │      │            │
	│  │  └──────────────────────────────────────┘      │            │
	│  └──────────────────────┬───────────────────────┘            │
	│                         │                                      │
	│  ┌──────────────────────▼───────────────────────┐            │
	│  │            Transaction Management               │            │
	│  │  - Read:  db.View()   — point-in-time snapshot  │            │
	│  │  - Write: db.Update() — single-writer, atomic   │            │
	│  └────────────────────────────────────────────────┘            │
	└────────────────────────────────────────────────────────────────┘

The two ops buckets hold the same set of Op records, and the two
checkpoint buckets the same set of Balance records, under the key
layouts pkg/codec defines; the fifth, core, holds bytes
the ledger does not interpret, owned by an external document store.

# Snapshot reads

bbolt opens a read-only transaction over the state as of the moment it
began: concurrent writers never block or are blocked by a View, and a
long-running Range inside one View never observes a write committed
after it started. The mutation engine acquires exactly one snapshot at
the start of a mutation and performs every Step 3-6 read against it.

# Atomic multi-bucket batches

A single Update call opens one bbolt write transaction; every Put and
Delete issued through the Writer it hands to fn, across every bucket
touched, commits together when fn returns nil, or not at all if fn
returns an error. The mutation engine uses exactly one Update per
mutation, so that writes spanning both operations indexes and both
checkpoint indexes either all land or none do.

# Range iteration

Range seeks to an inclusive start key and walks forward until it
reaches a key that is lexicographically >= the exclusive end bound (or
the end of the bucket, when end is nil). Because every key layout in
pkg/codec is order-preserving by construction, a Range over raw bytes
is exactly a range query over the semantic ordering the layout encodes.

# Usage

	backend, err := storage.NewBoltBackend(dataDir)
	if err != nil { ... }
	defer backend.Close()

	err = backend.Update(func(w storage.Writer) error {
		return w.Put(storage.BucketOpsStoreDateType, key, value)
	})

# Integration Points

This package is used by:

  - pkg/operations: puts/deletes Op records in both operations buckets.
  - pkg/checkpoints: puts/deletes Balance records in both checkpoint
    buckets.
  - pkg/engine: drives one Update per mutation and one View per sweep.
  - pkg/report: drives one View per report.
*/
package storage
