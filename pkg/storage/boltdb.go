package storage

import (
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/digitaiam/warehouse-ledger/pkg/ledgererr"
	"github.com/digitaiam/warehouse-ledger/pkg/metrics"
)

// BoltBackend implements Backend on top of an embedded bbolt database,
// one bucket per Bucket constant.
type BoltBackend struct {
	db *bolt.DB
}

// NewBoltBackend opens (creating if necessary) a bbolt database under
// dataDir and ensures every column family bucket exists.
func NewBoltBackend(dataDir string) (*BoltBackend, error) {
	dbPath := filepath.Join(dataDir, "ledger.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, ledgererr.Wrap(ledgererr.Storage, "open backend", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range Buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, ledgererr.Wrap(ledgererr.Storage, "initialize buckets", err)
	}

	return &BoltBackend{db: db}, nil
}

// Close releases the underlying database file.
func (b *BoltBackend) Close() error {
	if err := b.db.Close(); err != nil {
		return ledgererr.Wrap(ledgererr.Storage, "close backend", err)
	}
	return nil
}

// View runs fn against a read-only bbolt transaction, which is already
// a consistent, point-in-time snapshot of every bucket.
func (b *BoltBackend) View(fn func(Reader) error) error {
	timer := metrics.NewTimer()
	err := b.db.View(func(tx *bolt.Tx) error {
		return fn(&boltTx{tx: tx})
	})
	metrics.BackendCommitDuration.WithLabelValues("view").Observe(timer.Duration().Seconds())
	if err != nil {
		return wrapTxError(err)
	}
	return nil
}

// Update runs fn against a writable bbolt transaction. Every bucket
// write made through the Writer is part of the same transaction, so
// either all of them commit or none do.
func (b *BoltBackend) Update(fn func(Writer) error) error {
	timer := metrics.NewTimer()
	err := b.db.Update(func(tx *bolt.Tx) error {
		return fn(&boltTx{tx: tx})
	})
	metrics.BackendCommitDuration.WithLabelValues("update").Observe(timer.Duration().Seconds())
	if err != nil {
		return wrapTxError(err)
	}
	return nil
}

// wrapTxError leaves a *ledgererr.Error raised inside fn untouched and
// wraps any other failure (bbolt I/O, fsync) as Storage.
func wrapTxError(err error) error {
	if _, ok := err.(*ledgererr.Error); ok {
		return err
	}
	return ledgererr.Wrap(ledgererr.Storage, "transaction failed", err)
}

// boltTx adapts a *bolt.Tx to Reader/Writer.
type boltTx struct {
	tx *bolt.Tx
}

func (t *boltTx) bucket(name Bucket) (*bolt.Bucket, error) {
	b := t.tx.Bucket([]byte(name))
	if b == nil {
		return nil, ledgererr.New(ledgererr.Storage, fmt.Sprintf("bucket %s does not exist", name))
	}
	return b, nil
}

func (t *boltTx) Get(bucket Bucket, key []byte) ([]byte, bool, error) {
	b, err := t.bucket(bucket)
	if err != nil {
		return nil, false, err
	}
	v := b.Get(key)
	if v == nil {
		return nil, false, nil
	}
	// bbolt's returned slice is only valid for the lifetime of the
	// transaction; copy it so callers can hold onto it afterward.
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (t *boltTx) Range(bucket Bucket, start, end []byte, fn func(key, value []byte) error) error {
	b, err := t.bucket(bucket)
	if err != nil {
		return err
	}
	c := b.Cursor()
	for k, v := c.Seek(start); k != nil; k, v = c.Next() {
		if end != nil && compareBytes(k, end) >= 0 {
			break
		}
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}

func (t *boltTx) Put(bucket Bucket, key, value []byte) error {
	b, err := t.bucket(bucket)
	if err != nil {
		return err
	}
	if err := b.Put(key, value); err != nil {
		return ledgererr.Wrap(ledgererr.Storage, fmt.Sprintf("put into %s", bucket), err)
	}
	return nil
}

func (t *boltTx) Delete(bucket Bucket, key []byte) error {
	b, err := t.bucket(bucket)
	if err != nil {
		return err
	}
	if err := b.Delete(key); err != nil {
		return ledgererr.Wrap(ledgererr.Storage, fmt.Sprintf("delete from %s", bucket), err)
	}
	return nil
}

func compareBytes(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
