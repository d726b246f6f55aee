package codec

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"

	"github.com/digitaiam/warehouse-ledger/pkg/balance"
	"github.com/digitaiam/warehouse-ledger/pkg/ledgererr"
	"github.com/digitaiam/warehouse-ledger/pkg/types"
)

const (
	timeSize  = 8
	uuidSize  = 16
	kindSize  = 1
	batchSize = timeSize + uuidSize
)

// EncodeTime renders t as an unsigned 64-bit big-endian millisecond
// instant. Keys only support nonnegative instants.
func EncodeTime(t time.Time) ([]byte, error) {
	ms := t.UTC().UnixMilli()
	if ms < 0 {
		return nil, ledgererr.New(ledgererr.BadInput, "time is not representable in a key: negative instant")
	}
	buf := make([]byte, timeSize)
	binary.BigEndian.PutUint64(buf, uint64(ms))
	return buf, nil
}

// DecodeTime reads back the value written by EncodeTime.
func DecodeTime(b []byte) (time.Time, error) {
	if len(b) < timeSize {
		return time.Time{}, ledgererr.New(ledgererr.Decode, "short buffer for time")
	}
	ms := binary.BigEndian.Uint64(b[:timeSize])
	return time.UnixMilli(int64(ms)).UTC(), nil
}

// EncodeUUID renders id as its 16 canonical raw bytes.
func EncodeUUID(id uuid.UUID) []byte {
	out := make([]byte, uuidSize)
	copy(out, id[:])
	return out
}

// DecodeUUID reads back the value written by EncodeUUID.
func DecodeUUID(b []byte) (uuid.UUID, error) {
	if len(b) < uuidSize {
		return uuid.Nil, ledgererr.New(ledgererr.Decode, "short buffer for uuid")
	}
	var id uuid.UUID
	copy(id[:], b[:uuidSize])
	return id, nil
}

// EncodeKind renders an operation-type discriminator byte. The
// underlying OpKind values are already assigned so that receive sorts
// before issue before inventory before the no-op sentinel.
func EncodeKind(k balance.OpKind) []byte {
	return []byte{byte(k)}
}

// DecodeKind reads back the value written by EncodeKind.
func DecodeKind(b []byte) (balance.OpKind, error) {
	if len(b) < kindSize {
		return 0, ledgererr.New(ledgererr.Decode, "short buffer for op kind")
	}
	return balance.OpKind(b[0]), nil
}

// EncodeBatch renders a Batch as batch_date_be_u64 || batch_id_16B.
func EncodeBatch(b types.Batch) ([]byte, error) {
	dateBytes, err := EncodeTime(b.Date)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, batchSize)
	out = append(out, dateBytes...)
	out = append(out, EncodeUUID(b.ID)...)
	return out, nil
}

// DecodeBatch reads back the value written by EncodeBatch.
func DecodeBatch(b []byte) (types.Batch, error) {
	if len(b) < batchSize {
		return types.Batch{}, ledgererr.New(ledgererr.Decode, "short buffer for batch")
	}
	date, err := DecodeTime(b[:timeSize])
	if err != nil {
		return types.Batch{}, err
	}
	id, err := DecodeUUID(b[timeSize:batchSize])
	if err != nil {
		return types.Batch{}, err
	}
	return types.Batch{ID: id, Date: date}, nil
}
