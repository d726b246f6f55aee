package operations

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/digitaiam/warehouse-ledger/pkg/balance"
	"github.com/digitaiam/warehouse-ledger/pkg/codec"
	"github.com/digitaiam/warehouse-ledger/pkg/ledgererr"
	"github.com/digitaiam/warehouse-ledger/pkg/storage"
	"github.com/digitaiam/warehouse-ledger/pkg/types"
)

// Topology is the ordered-operations topology: a mirrored pair of
// column families holding the same Op records under two key orderings,
// plus the series lookups the mutation engine drives propagation with.
type Topology interface {
	// Put writes op into both the store-date-type and date-store-type
	// buckets.
	Put(w storage.Writer, op types.Op) error

	// Delete removes op from both buckets.
	Delete(w storage.Writer, op types.Op) error

	// Get reads the op identified by key from the store-date-type
	// bucket.
	Get(r storage.Reader, key codec.OpKey) (types.Op, bool, error)

	// GetOps returns every op for store with date in [from, till), in
	// store-date-type order.
	GetOps(r storage.Reader, store uuid.UUID, from, till time.Time) ([]types.Op, error)

	// OperationAfter locates the immediate successor of op within its
	// store. When sameBatch is true the successor must share op's
	// (goods, batch); otherwise it need only share op's goods.
	OperationAfter(r storage.Reader, op types.Op, sameBatch bool) (types.Op, bool, error)

	// BalanceBefore returns the running balance of the immediate
	// predecessor of op in its (store, goods, batch) series, or the
	// zero balance if op is the first in its series.
	BalanceBefore(r storage.Reader, op types.Op) (balance.BalanceForGoods, error)

	// BalanceAfter re-reads op's own stored record and returns its
	// running balance.
	BalanceAfter(r storage.Reader, op types.Op) (balance.BalanceForGoods, error)

	// ListStores returns every distinct store that has at least one op,
	// in ascending order.
	ListStores(r storage.Reader) ([]uuid.UUID, error)
}

// New returns the Topology backed by the bbolt buckets pkg/storage
// defines.
func New() Topology {
	return boltTopology{}
}

type boltTopology struct{}

func keyOf(op types.Op) codec.OpKey {
	return codec.OpKey{
		Store: op.Store,
		Date:  op.Date,
		Kind:  op.Kind(),
		Goods: op.Goods,
		Batch: op.Batch,
		OpID:  op.ID,
	}
}

func (boltTopology) Put(w storage.Writer, op types.Op) error {
	value, err := json.Marshal(op)
	if err != nil {
		return ledgererr.Wrap(ledgererr.Decode, "encode op", err)
	}

	sdt, err := codec.EncodeOpStoreDateType(keyOf(op))
	if err != nil {
		return err
	}
	if err := w.Put(storage.BucketOpsStoreDateType, sdt, value); err != nil {
		return err
	}

	dst, err := codec.EncodeOpDateStoreType(keyOf(op))
	if err != nil {
		return err
	}
	return w.Put(storage.BucketOpsDateStoreType, dst, value)
}

func (boltTopology) Delete(w storage.Writer, op types.Op) error {
	sdt, err := codec.EncodeOpStoreDateType(keyOf(op))
	if err != nil {
		return err
	}
	if err := w.Delete(storage.BucketOpsStoreDateType, sdt); err != nil {
		return err
	}

	dst, err := codec.EncodeOpDateStoreType(keyOf(op))
	if err != nil {
		return err
	}
	return w.Delete(storage.BucketOpsDateStoreType, dst)
}

func (boltTopology) Get(r storage.Reader, key codec.OpKey) (types.Op, bool, error) {
	raw, err := codec.EncodeOpStoreDateType(key)
	if err != nil {
		return types.Op{}, false, err
	}
	value, ok, err := r.Get(storage.BucketOpsStoreDateType, raw)
	if err != nil {
		return types.Op{}, false, err
	}
	if !ok {
		return types.Op{}, false, nil
	}
	var op types.Op
	if jsonErr := json.Unmarshal(value, &op); jsonErr != nil {
		return types.Op{}, false, ledgererr.Wrap(ledgererr.Decode, "decode op", jsonErr)
	}
	return op, true, nil
}

func (boltTopology) GetOps(r storage.Reader, store uuid.UUID, from, till time.Time) ([]types.Op, error) {
	start, err := codec.OpStoreDateBound(store, from)
	if err != nil {
		return nil, err
	}
	end, err := codec.OpStoreDateBound(store, till)
	if err != nil {
		return nil, err
	}

	var ops []types.Op
	err = r.Range(storage.BucketOpsStoreDateType, start, end, func(key, value []byte) error {
		var op types.Op
		if jsonErr := json.Unmarshal(value, &op); jsonErr != nil {
			return ledgererr.Wrap(ledgererr.Decode, "decode op", jsonErr)
		}
		ops = append(ops, op)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ops, nil
}

var errFound = errors.New("operations: match found")

func (boltTopology) OperationAfter(r storage.Reader, op types.Op, sameBatch bool) (types.Op, bool, error) {
	storePrefix := codec.EncodeUUID(op.Store)
	storeEnd := prefixUpperBound(storePrefix)

	start, err := codec.EncodeOpStoreDateType(keyOf(op))
	if err != nil {
		return types.Op{}, false, err
	}

	var found types.Op
	var ok bool
	err = r.Range(storage.BucketOpsStoreDateType, start, storeEnd, func(key, value []byte) error {
		decodedKey, decodeErr := codec.DecodeOpStoreDateType(key)
		if decodeErr != nil {
			return ledgererr.Wrap(ledgererr.Decode, "decode op key", decodeErr)
		}
		if decodedKey.OpID == op.ID && decodedKey.Kind == op.Kind() {
			return nil
		}
		if decodedKey.Goods != op.Goods {
			return nil
		}
		if sameBatch && decodedKey.Batch.ID != op.Batch.ID {
			return nil
		}
		var candidate types.Op
		if jsonErr := json.Unmarshal(value, &candidate); jsonErr != nil {
			return ledgererr.Wrap(ledgererr.Decode, "decode op", jsonErr)
		}
		found = candidate
		ok = true
		return errFound
	})
	if err != nil && !errors.Is(err, errFound) {
		return types.Op{}, false, err
	}
	return found, ok, nil
}

func (boltTopology) BalanceBefore(r storage.Reader, op types.Op) (balance.BalanceForGoods, error) {
	storePrefix := codec.EncodeUUID(op.Store)
	target, err := codec.EncodeOpStoreDateType(keyOf(op))
	if err != nil {
		return balance.BalanceForGoods{}, err
	}

	var last types.Op
	var found bool
	err = r.Range(storage.BucketOpsStoreDateType, storePrefix, target, func(key, value []byte) error {
		decodedKey, decodeErr := codec.DecodeOpStoreDateType(key)
		if decodeErr != nil {
			return ledgererr.Wrap(ledgererr.Decode, "decode op key", decodeErr)
		}
		if decodedKey.Goods != op.Goods || decodedKey.Batch.ID != op.Batch.ID {
			return nil
		}
		var candidate types.Op
		if jsonErr := json.Unmarshal(value, &candidate); jsonErr != nil {
			return ledgererr.Wrap(ledgererr.Decode, "decode op", jsonErr)
		}
		last = candidate
		found = true
		return nil
	})
	if err != nil {
		return balance.BalanceForGoods{}, err
	}
	if !found {
		return balance.BalanceForGoods{}, nil
	}
	return last.RunningAfter, nil
}

func (t boltTopology) BalanceAfter(r storage.Reader, op types.Op) (balance.BalanceForGoods, error) {
	stored, ok, err := t.Get(r, keyOf(op))
	if err != nil {
		return balance.BalanceForGoods{}, err
	}
	if !ok {
		return balance.BalanceForGoods{}, ledgererr.New(ledgererr.NotFound, "op not found")
	}
	return stored.RunningAfter, nil
}

var errStoreFound = errors.New("operations: store found")

func (boltTopology) ListStores(r storage.Reader) ([]uuid.UUID, error) {
	var stores []uuid.UUID

	start := []byte{}
	for {
		var next uuid.UUID
		var found bool

		err := r.Range(storage.BucketOpsStoreDateType, start, nil, func(key, value []byte) error {
			decodedKey, decodeErr := codec.DecodeOpStoreDateType(key)
			if decodeErr != nil {
				return ledgererr.Wrap(ledgererr.Decode, "decode op key", decodeErr)
			}
			next = decodedKey.Store
			found = true
			return errStoreFound
		})
		if err != nil && !errors.Is(err, errStoreFound) {
			return nil, err
		}
		if !found {
			return stores, nil
		}

		stores = append(stores, next)
		prefix := codec.EncodeUUID(next)
		bound := prefixUpperBound(prefix)
		if bound == nil {
			return stores, nil
		}
		start = bound
	}
}
