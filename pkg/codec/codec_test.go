package codec

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitaiam/warehouse-ledger/pkg/balance"
	"github.com/digitaiam/warehouse-ledger/pkg/types"
)

func TestTimeRoundTrip(t *testing.T) {
	in := time.Date(2022, 10, 10, 0, 0, 0, 0, time.UTC)
	enc, err := EncodeTime(in)
	require.NoError(t, err)
	out, err := DecodeTime(enc)
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
}

func TestTimeOrderPreserving(t *testing.T) {
	earlier, err := EncodeTime(time.Date(2022, 10, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	later, err := EncodeTime(time.Date(2022, 11, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.Compare(earlier, later) < 0)
}

func TestKindOrdering(t *testing.T) {
	assert.True(t, bytes.Compare(EncodeKind(balance.OpKindReceive), EncodeKind(balance.OpKindIssue)) < 0)
	assert.True(t, bytes.Compare(EncodeKind(balance.OpKindIssue), EncodeKind(balance.OpKindInventory)) < 0)
	assert.True(t, bytes.Compare(EncodeKind(balance.OpKindInventory), EncodeKind(balance.OpKindNone)) < 0)
}

func TestBatchRoundTrip(t *testing.T) {
	b := types.Batch{ID: uuid.New(), Date: time.Date(2022, 10, 10, 0, 0, 0, 0, time.UTC)}
	enc, err := EncodeBatch(b)
	require.NoError(t, err)
	out, err := DecodeBatch(enc)
	require.NoError(t, err)
	assert.Equal(t, b.ID, out.ID)
	assert.True(t, b.Date.Equal(out.Date))
}

func TestOpStoreDateTypeRoundTrip(t *testing.T) {
	k := OpKey{
		Store: uuid.New(),
		Date:  time.Date(2022, 10, 10, 0, 0, 0, 0, time.UTC),
		Kind:  balance.OpKindIssue,
		Goods: uuid.New(),
		Batch: types.Batch{ID: uuid.New(), Date: time.Date(2022, 10, 1, 0, 0, 0, 0, time.UTC)},
		OpID:  uuid.New(),
	}
	enc, err := EncodeOpStoreDateType(k)
	require.NoError(t, err)

	out, err := DecodeOpStoreDateType(enc)
	require.NoError(t, err)
	assert.Equal(t, k.Store, out.Store)
	assert.Equal(t, k.Kind, out.Kind)
	assert.Equal(t, k.Goods, out.Goods)
	assert.Equal(t, k.OpID, out.OpID)
	assert.True(t, k.Date.Equal(out.Date))
}

func TestOpDateStoreTypeRoundTrip(t *testing.T) {
	k := OpKey{
		Store: uuid.New(),
		Date:  time.Date(2022, 10, 10, 0, 0, 0, 0, time.UTC),
		Kind:  balance.OpKindReceive,
		Goods: uuid.New(),
		Batch: types.Batch{ID: uuid.New(), Date: time.Date(2022, 10, 1, 0, 0, 0, 0, time.UTC)},
		OpID:  uuid.New(),
	}
	enc, err := EncodeOpDateStoreType(k)
	require.NoError(t, err)

	out, err := DecodeOpDateStoreType(enc)
	require.NoError(t, err)
	assert.Equal(t, k, out)
}

func TestOpStoreDateTypeOrdersByStoreThenDateThenType(t *testing.T) {
	store := uuid.New()
	goods := uuid.New()
	batch := types.Batch{ID: uuid.New(), Date: time.Date(2022, 10, 1, 0, 0, 0, 0, time.UTC)}

	receive, err := EncodeOpStoreDateType(OpKey{
		Store: store, Date: time.Date(2022, 10, 10, 0, 0, 0, 0, time.UTC),
		Kind: balance.OpKindReceive, Goods: goods, Batch: batch, OpID: uuid.New(),
	})
	require.NoError(t, err)

	issueSameDate, err := EncodeOpStoreDateType(OpKey{
		Store: store, Date: time.Date(2022, 10, 10, 0, 0, 0, 0, time.UTC),
		Kind: balance.OpKindIssue, Goods: goods, Batch: batch, OpID: uuid.New(),
	})
	require.NoError(t, err)

	laterDate, err := EncodeOpStoreDateType(OpKey{
		Store: store, Date: time.Date(2022, 10, 11, 0, 0, 0, 0, time.UTC),
		Kind: balance.OpKindReceive, Goods: goods, Batch: batch, OpID: uuid.New(),
	})
	require.NoError(t, err)

	assert.True(t, bytes.Compare(receive, issueSameDate) < 0)
	assert.True(t, bytes.Compare(issueSameDate, laterDate) < 0)
}

func TestCheckpointRoundTrips(t *testing.T) {
	k := CheckpointKey{
		Date:  time.Date(2022, 11, 1, 0, 0, 0, 0, time.UTC),
		Store: uuid.New(),
		Goods: uuid.New(),
		Batch: types.Batch{ID: uuid.New(), Date: time.Date(2022, 10, 1, 0, 0, 0, 0, time.UTC)},
	}

	dsb, err := EncodeCheckpointDateStoreBatch(k)
	require.NoError(t, err)
	outDSB, err := DecodeCheckpointDateStoreBatch(dsb)
	require.NoError(t, err)
	assert.Equal(t, k.Store, outDSB.Store)
	assert.Equal(t, k.Goods, outDSB.Goods)
	assert.Equal(t, k.Batch.ID, outDSB.Batch.ID)

	sbd, err := EncodeCheckpointStoreBatchDate(k)
	require.NoError(t, err)
	outSBD, err := DecodeCheckpointStoreBatchDate(sbd)
	require.NoError(t, err)
	assert.Equal(t, k.Store, outSBD.Store)
	assert.Equal(t, k.Goods, outSBD.Goods)
	assert.Equal(t, k.Batch.ID, outSBD.Batch.ID)
}

func TestCheckpointStoreBatchDateOrdersByDate(t *testing.T) {
	store, goods := uuid.New(), uuid.New()
	batch := types.Batch{ID: uuid.New(), Date: time.Date(2022, 10, 1, 0, 0, 0, 0, time.UTC)}

	earlier, err := EncodeCheckpointStoreBatchDate(CheckpointKey{
		Date: time.Date(2022, 11, 1, 0, 0, 0, 0, time.UTC), Store: store, Goods: goods, Batch: batch,
	})
	require.NoError(t, err)
	later, err := EncodeCheckpointStoreBatchDate(CheckpointKey{
		Date: time.Date(2022, 12, 1, 0, 0, 0, 0, time.UTC), Store: store, Goods: goods, Batch: batch,
	})
	require.NoError(t, err)

	assert.True(t, bytes.Compare(earlier, later) < 0)
}
