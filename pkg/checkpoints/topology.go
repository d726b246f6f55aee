package checkpoints

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/digitaiam/warehouse-ledger/pkg/balance"
	"github.com/digitaiam/warehouse-ledger/pkg/codec"
	"github.com/digitaiam/warehouse-ledger/pkg/ledgererr"
	"github.com/digitaiam/warehouse-ledger/pkg/metrics"
	"github.com/digitaiam/warehouse-ledger/pkg/storage"
	"github.com/digitaiam/warehouse-ledger/pkg/types"
)

// Topology is the checkpoint topology: a mirrored pair of column
// families holding the same Balance records under two key orderings,
// plus the seed and propagation lookups the report and mutation
// engines drive over them.
type Topology interface {
	// Put writes bal into both checkpoint buckets, deleting it instead
	// if bal.Number is zero.
	Put(w storage.Writer, bal types.Balance) error

	// Delete removes the checkpoint for (store,goods,batch) at date
	// from both buckets.
	Delete(w storage.Writer, store, goods uuid.UUID, batch types.Batch, date time.Time) error

	// Get reads the checkpoint for (store,goods,batch) at exactly date.
	Get(r storage.Reader, store, goods uuid.UUID, batch types.Batch, date time.Time) (types.Balance, bool, error)

	// GetBefore returns every non-zero checkpoint for store whose date
	// is <= FirstOfMonth(date).
	GetBefore(r storage.Reader, store uuid.UUID, date time.Time) ([]types.Balance, error)

	// LatestDate returns the date of the furthest-out checkpoint
	// currently recorded for (store,goods,batch), if any.
	LatestDate(r storage.Reader, store, goods uuid.UUID, batch types.Batch) (time.Time, bool, error)

	// CheckpointUpdate sets the checkpoint of (store,goods,batch) to
	// target at every month boundary strictly after opDate and <=
	// horizon, deleting any boundary where target is zero. Every such
	// boundary falls strictly between two ops in the series (or past
	// the last one), so the balance holds constant across the whole
	// range and can be written directly rather than accumulated.
	CheckpointUpdate(w storage.Writer, store, goods uuid.UUID, batch types.Batch, opDate, horizon time.Time, target balance.BalanceForGoods) error
}

// New returns the Topology backed by the bbolt buckets pkg/storage
// defines.
func New() Topology {
	return boltTopology{}
}

type boltTopology struct{}

func keyOf(bal types.Balance) codec.CheckpointKey {
	return codec.CheckpointKey{Date: bal.Date, Store: bal.Store, Goods: bal.Goods, Batch: bal.Batch}
}

func (boltTopology) Put(w storage.Writer, bal types.Balance) error {
	if bal.Number.IsZero() {
		metrics.CheckpointDeletesTotal.Inc()
		return boltTopology{}.Delete(w, bal.Store, bal.Goods, bal.Batch, bal.Date)
	}

	value, err := json.Marshal(bal)
	if err != nil {
		return ledgererr.Wrap(ledgererr.Decode, "encode checkpoint", err)
	}

	dsb, err := codec.EncodeCheckpointDateStoreBatch(keyOf(bal))
	if err != nil {
		return err
	}
	if err := w.Put(storage.BucketCheckpointsDateStoreBatch, dsb, value); err != nil {
		return err
	}

	sbd, err := codec.EncodeCheckpointStoreBatchDate(keyOf(bal))
	if err != nil {
		return err
	}
	if err := w.Put(storage.BucketCheckpointsStoreBatchDate, sbd, value); err != nil {
		return err
	}
	metrics.CheckpointWritesTotal.Inc()
	return nil
}

func (boltTopology) Delete(w storage.Writer, store, goods uuid.UUID, batch types.Batch, date time.Time) error {
	key := codec.CheckpointKey{Date: date, Store: store, Goods: goods, Batch: batch}

	dsb, err := codec.EncodeCheckpointDateStoreBatch(key)
	if err != nil {
		return err
	}
	if err := w.Delete(storage.BucketCheckpointsDateStoreBatch, dsb); err != nil {
		return err
	}

	sbd, err := codec.EncodeCheckpointStoreBatchDate(key)
	if err != nil {
		return err
	}
	return w.Delete(storage.BucketCheckpointsStoreBatchDate, sbd)
}

func (boltTopology) Get(r storage.Reader, store, goods uuid.UUID, batch types.Batch, date time.Time) (types.Balance, bool, error) {
	key, err := codec.EncodeCheckpointDateStoreBatch(codec.CheckpointKey{Date: date, Store: store, Goods: goods, Batch: batch})
	if err != nil {
		return types.Balance{}, false, err
	}
	value, ok, err := r.Get(storage.BucketCheckpointsDateStoreBatch, key)
	if err != nil {
		return types.Balance{}, false, err
	}
	if !ok {
		return types.Balance{}, false, nil
	}
	var bal types.Balance
	if jsonErr := json.Unmarshal(value, &bal); jsonErr != nil {
		return types.Balance{}, false, ledgererr.Wrap(ledgererr.Decode, "decode checkpoint", jsonErr)
	}
	return bal, true, nil
}

func (boltTopology) GetBefore(r storage.Reader, store uuid.UUID, date time.Time) ([]types.Balance, error) {
	threshold := FirstOfMonth(date)
	storePrefix := codec.EncodeUUID(store)
	storeEnd := prefixUpperBound(storePrefix)

	var out []types.Balance
	err := r.Range(storage.BucketCheckpointsStoreBatchDate, storePrefix, storeEnd, func(key, value []byte) error {
		decodedKey, decodeErr := codec.DecodeCheckpointStoreBatchDate(key)
		if decodeErr != nil {
			return ledgererr.Wrap(ledgererr.Decode, "decode checkpoint key", decodeErr)
		}
		if decodedKey.Date.After(threshold) {
			return nil
		}
		var bal types.Balance
		if jsonErr := json.Unmarshal(value, &bal); jsonErr != nil {
			return ledgererr.Wrap(ledgererr.Decode, "decode checkpoint", jsonErr)
		}
		if bal.Number.IsZero() {
			return nil
		}
		out = append(out, bal)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (boltTopology) LatestDate(r storage.Reader, store, goods uuid.UUID, batch types.Batch) (time.Time, bool, error) {
	prefix, err := codec.CheckpointStoreBatchBound(store, goods, batch)
	if err != nil {
		return time.Time{}, false, err
	}
	end := prefixUpperBound(prefix)

	var latest time.Time
	var found bool
	err = r.Range(storage.BucketCheckpointsStoreBatchDate, prefix, end, func(key, value []byte) error {
		decodedKey, decodeErr := codec.DecodeCheckpointStoreBatchDate(key)
		if decodeErr != nil {
			return ledgererr.Wrap(ledgererr.Decode, "decode checkpoint key", decodeErr)
		}
		latest = decodedKey.Date
		found = true
		return nil
	})
	if err != nil {
		return time.Time{}, false, err
	}
	return latest, found, nil
}

func (t boltTopology) CheckpointUpdate(w storage.Writer, store, goods uuid.UUID, batch types.Batch, opDate, horizon time.Time, target balance.BalanceForGoods) error {
	for boundary := NextMonthBoundary(opDate); !boundary.After(horizon); boundary = boundary.AddDate(0, 1, 0) {
		bal := types.Balance{Date: boundary, Store: store, Goods: goods, Batch: batch, Number: target}
		if err := t.Put(w, bal); err != nil {
			return err
		}
	}
	return nil
}
