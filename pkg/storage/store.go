package storage

// Bucket names the column families the backend partitions keys into:
// one per index defined by the key codec, plus core for external
// document bytes the ledger does not interpret.
type Bucket string

const (
	BucketOpsStoreDateType          Bucket = "ops_store_date_type"
	BucketOpsDateStoreType          Bucket = "ops_date_store_type"
	BucketCheckpointsDateStoreBatch Bucket = "checkpoints_date_store_batch"
	BucketCheckpointsStoreBatchDate Bucket = "checkpoints_store_batch_date"
	BucketCore                      Bucket = "core"
)

// Buckets lists every column family the backend must create on open.
var Buckets = []Bucket{
	BucketOpsStoreDateType,
	BucketOpsDateStoreType,
	BucketCheckpointsDateStoreBatch,
	BucketCheckpointsStoreBatchDate,
	BucketCore,
}

// Reader is the read surface shared by a snapshot and a write batch: a
// point-in-time view over one or more buckets.
type Reader interface {
	// Get returns the value stored at key in bucket, and whether it
	// exists at all.
	Get(bucket Bucket, key []byte) ([]byte, bool, error)

	// Range iterates bucket over [start, end) in key order, calling fn
	// for every entry. A nil end means "to the end of the bucket". fn
	// returning an error stops iteration and is returned from Range.
	Range(bucket Bucket, start, end []byte, fn func(key, value []byte) error) error
}

// Writer is a Reader that can also mutate. All writes made through a
// Writer are committed atomically, across every bucket touched, when
// the enclosing Update call returns nil.
type Writer interface {
	Reader

	Put(bucket Bucket, key, value []byte) error
	Delete(bucket Bucket, key []byte) error
}

// Backend is the embedded transactional key-value store the ledger
// persists to: snapshot reads via View, atomic multi-bucket write
// batches via Update.
type Backend interface {
	// View runs fn against a read-only, point-in-time snapshot. Every
	// read inside fn observes the same committed state regardless of
	// concurrent writers.
	View(fn func(Reader) error) error

	// Update runs fn against a Writer. If fn returns nil, every write
	// made through the Writer commits atomically; if fn returns an
	// error, none of them do.
	Update(fn func(Writer) error) error

	// Close releases the backend's resources.
	Close() error
}
