package codec

import (
	"time"

	"github.com/google/uuid"

	"github.com/digitaiam/warehouse-ledger/pkg/balance"
	"github.com/digitaiam/warehouse-ledger/pkg/ledgererr"
	"github.com/digitaiam/warehouse-ledger/pkg/types"
)

// OpKey is the decoded form of either operations key layout.
type OpKey struct {
	Store uuid.UUID
	Date  time.Time
	Kind  balance.OpKind
	Goods uuid.UUID
	Batch types.Batch
	OpID  uuid.UUID
}

// EncodeOpStoreDateType builds the store-date-type operations key:
// store || date || type || goods || batch || op_id.
func EncodeOpStoreDateType(k OpKey) ([]byte, error) {
	dateBytes, err := EncodeTime(k.Date)
	if err != nil {
		return nil, err
	}
	batchBytes, err := EncodeBatch(k.Batch)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, uuidSize+timeSize+kindSize+uuidSize+batchSize+uuidSize)
	out = append(out, EncodeUUID(k.Store)...)
	out = append(out, dateBytes...)
	out = append(out, EncodeKind(k.Kind)...)
	out = append(out, EncodeUUID(k.Goods)...)
	out = append(out, batchBytes...)
	out = append(out, EncodeUUID(k.OpID)...)
	return out, nil
}

// DecodeOpStoreDateType is the inverse of EncodeOpStoreDateType.
func DecodeOpStoreDateType(key []byte) (OpKey, error) {
	off := 0
	store, err := DecodeUUID(key[off:])
	if err != nil {
		return OpKey{}, err
	}
	off += uuidSize

	if len(key) < off+timeSize {
		return OpKey{}, ledgererr.New(ledgererr.Decode, "short store-date-type key")
	}
	date, err := DecodeTime(key[off:])
	if err != nil {
		return OpKey{}, err
	}
	off += timeSize

	kind, err := DecodeKind(key[off:])
	if err != nil {
		return OpKey{}, err
	}
	off += kindSize

	goods, err := DecodeUUID(key[off:])
	if err != nil {
		return OpKey{}, err
	}
	off += uuidSize

	if len(key) < off+batchSize {
		return OpKey{}, ledgererr.New(ledgererr.Decode, "short store-date-type key")
	}
	batch, err := DecodeBatch(key[off:])
	if err != nil {
		return OpKey{}, err
	}
	off += batchSize

	opID, err := DecodeUUID(key[off:])
	if err != nil {
		return OpKey{}, err
	}

	return OpKey{Store: store, Date: date, Kind: kind, Goods: goods, Batch: batch, OpID: opID}, nil
}

// EncodeOpDateStoreType builds the date-store-type operations key:
// date || type || store || goods || batch || op_id.
func EncodeOpDateStoreType(k OpKey) ([]byte, error) {
	dateBytes, err := EncodeTime(k.Date)
	if err != nil {
		return nil, err
	}
	batchBytes, err := EncodeBatch(k.Batch)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, timeSize+kindSize+uuidSize+uuidSize+batchSize+uuidSize)
	out = append(out, dateBytes...)
	out = append(out, EncodeKind(k.Kind)...)
	out = append(out, EncodeUUID(k.Store)...)
	out = append(out, EncodeUUID(k.Goods)...)
	out = append(out, batchBytes...)
	out = append(out, EncodeUUID(k.OpID)...)
	return out, nil
}

// DecodeOpDateStoreType is the inverse of EncodeOpDateStoreType.
func DecodeOpDateStoreType(key []byte) (OpKey, error) {
	off := 0
	if len(key) < timeSize {
		return OpKey{}, ledgererr.New(ledgererr.Decode, "short date-store-type key")
	}
	date, err := DecodeTime(key[off:])
	if err != nil {
		return OpKey{}, err
	}
	off += timeSize

	kind, err := DecodeKind(key[off:])
	if err != nil {
		return OpKey{}, err
	}
	off += kindSize

	store, err := DecodeUUID(key[off:])
	if err != nil {
		return OpKey{}, err
	}
	off += uuidSize

	goods, err := DecodeUUID(key[off:])
	if err != nil {
		return OpKey{}, err
	}
	off += uuidSize

	if len(key) < off+batchSize {
		return OpKey{}, ledgererr.New(ledgererr.Decode, "short date-store-type key")
	}
	batch, err := DecodeBatch(key[off:])
	if err != nil {
		return OpKey{}, err
	}
	off += batchSize

	opID, err := DecodeUUID(key[off:])
	if err != nil {
		return OpKey{}, err
	}

	return OpKey{Store: store, Date: date, Kind: kind, Goods: goods, Batch: batch, OpID: opID}, nil
}

// OpStoreDateBound builds the store || date prefix used as an inclusive
// range bound against the store-date-type index: every full key at or
// after this bound has this store and a date >= the given one.
func OpStoreDateBound(store uuid.UUID, date time.Time) ([]byte, error) {
	dateBytes, err := EncodeTime(date)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, uuidSize+timeSize)
	out = append(out, EncodeUUID(store)...)
	out = append(out, dateBytes...)
	return out, nil
}

// CheckpointKey is the decoded form of either checkpoint key layout.
type CheckpointKey struct {
	Date  time.Time
	Store uuid.UUID
	Goods uuid.UUID
	Batch types.Batch
}

// EncodeCheckpointDateStoreBatch builds the date-store-batch checkpoint
// key: date || store || goods || batch.
func EncodeCheckpointDateStoreBatch(k CheckpointKey) ([]byte, error) {
	dateBytes, err := EncodeTime(k.Date)
	if err != nil {
		return nil, err
	}
	batchBytes, err := EncodeBatch(k.Batch)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, timeSize+uuidSize+uuidSize+batchSize)
	out = append(out, dateBytes...)
	out = append(out, EncodeUUID(k.Store)...)
	out = append(out, EncodeUUID(k.Goods)...)
	out = append(out, batchBytes...)
	return out, nil
}

// DecodeCheckpointDateStoreBatch is the inverse of
// EncodeCheckpointDateStoreBatch.
func DecodeCheckpointDateStoreBatch(key []byte) (CheckpointKey, error) {
	off := 0
	if len(key) < timeSize {
		return CheckpointKey{}, ledgererr.New(ledgererr.Decode, "short date-store-batch checkpoint key")
	}
	date, err := DecodeTime(key[off:])
	if err != nil {
		return CheckpointKey{}, err
	}
	off += timeSize

	store, err := DecodeUUID(key[off:])
	if err != nil {
		return CheckpointKey{}, err
	}
	off += uuidSize

	goods, err := DecodeUUID(key[off:])
	if err != nil {
		return CheckpointKey{}, err
	}
	off += uuidSize

	if len(key) < off+batchSize {
		return CheckpointKey{}, ledgererr.New(ledgererr.Decode, "short date-store-batch checkpoint key")
	}
	batch, err := DecodeBatch(key[off:])
	if err != nil {
		return CheckpointKey{}, err
	}

	return CheckpointKey{Date: date, Store: store, Goods: goods, Batch: batch}, nil
}

// EncodeCheckpointStoreBatchDate builds the store-batch-date checkpoint
// key: store || goods || batch || date.
func EncodeCheckpointStoreBatchDate(k CheckpointKey) ([]byte, error) {
	batchBytes, err := EncodeBatch(k.Batch)
	if err != nil {
		return nil, err
	}
	dateBytes, err := EncodeTime(k.Date)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, uuidSize+uuidSize+batchSize+timeSize)
	out = append(out, EncodeUUID(k.Store)...)
	out = append(out, EncodeUUID(k.Goods)...)
	out = append(out, batchBytes...)
	out = append(out, dateBytes...)
	return out, nil
}

// DecodeCheckpointStoreBatchDate is the inverse of
// EncodeCheckpointStoreBatchDate.
func DecodeCheckpointStoreBatchDate(key []byte) (CheckpointKey, error) {
	off := 0
	store, err := DecodeUUID(key[off:])
	if err != nil {
		return CheckpointKey{}, err
	}
	off += uuidSize

	goods, err := DecodeUUID(key[off:])
	if err != nil {
		return CheckpointKey{}, err
	}
	off += uuidSize

	if len(key) < off+batchSize {
		return CheckpointKey{}, ledgererr.New(ledgererr.Decode, "short store-batch-date checkpoint key")
	}
	batch, err := DecodeBatch(key[off:])
	if err != nil {
		return CheckpointKey{}, err
	}
	off += batchSize

	if len(key) < off+timeSize {
		return CheckpointKey{}, ledgererr.New(ledgererr.Decode, "short store-batch-date checkpoint key")
	}
	date, err := DecodeTime(key[off:])
	if err != nil {
		return CheckpointKey{}, err
	}

	return CheckpointKey{Date: date, Store: store, Goods: goods, Batch: batch}, nil
}

// CheckpointStoreBatchBound builds the store || goods || batch prefix
// used to range-scan every checkpoint of one (store, goods, batch)
// series in the store-batch-date index, in non-decreasing date order.
func CheckpointStoreBatchBound(store, goods uuid.UUID, batch types.Batch) ([]byte, error) {
	batchBytes, err := EncodeBatch(batch)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, uuidSize+uuidSize+batchSize)
	out = append(out, EncodeUUID(store)...)
	out = append(out, EncodeUUID(goods)...)
	out = append(out, batchBytes...)
	return out, nil
}
