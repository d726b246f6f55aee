package qty

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestDepth(t *testing.T) {
	u0, u1, u2 := uuid.New(), uuid.New(), uuid.New()

	q := NewNested(d(2), u0, NewNested(d(10), u1, New(d(100), u2)))

	levels := q.depth()
	require.Len(t, levels, 3)
	assert.True(t, levels[0].Number.Equal(d(100)))
	assert.True(t, levels[1].Number.Equal(d(10)))
	assert.True(t, levels[2].Number.Equal(d(2)))
}

func TestSimplify(t *testing.T) {
	u0, u1, u2 := uuid.New(), uuid.New(), uuid.New()
	q := NewNested(d(2), u0, NewNested(d(10), u1, New(d(100), u2)))

	levels := simplify(q.depth(), 1)
	require.Len(t, levels, 2)
	assert.True(t, levels[0].Number.Equal(d(100)))
	assert.True(t, levels[1].Number.Equal(d(20)))
}

func TestAddSameUnit(t *testing.T) {
	u := uuid.New()
	q0 := New(d(2), u)
	q1 := New(d(3), u)

	res := q0.Add(q1)
	require.Len(t, res, 1)
	assert.True(t, res[0].Number.Equal(d(5)))
}

func TestAddNestedSameUnit(t *testing.T) {
	u0, u1 := uuid.New(), uuid.New()
	q0 := NewNested(d(1), u1, New(d(10), u0))
	q1 := NewNested(d(1), u1, New(d(10), u0))

	res := q0.Add(q1)
	require.Len(t, res, 1)
	assert.True(t, res[0].Number.Equal(d(2)))
}

func TestAddDifferentUnit(t *testing.T) {
	u0, u1 := uuid.New(), uuid.New()
	q0 := New(d(2), u0)
	q1 := New(d(2), u1)

	res := q0.Add(q1)
	require.Len(t, res, 2)
	assert.True(t, res[0].Number.Equal(d(2)))
	assert.True(t, res[1].Number.Equal(d(2)))
}

func TestSubSameUnitTerminal(t *testing.T) {
	u0, u1 := uuid.New(), uuid.New()

	q0 := NewNested(d(1), u1, New(d(10), u0))
	q1 := New(d(2), u0)

	res, err := q0.Sub(q1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.True(t, res[0].Number.Equal(d(8)))
}

func TestSubWithRemainder(t *testing.T) {
	u0, u1, u2 := uuid.New(), uuid.New(), uuid.New()

	q0 := NewNested(d(2), u0, NewNested(d(10), u1, New(d(100), u2)))
	q1 := NewNested(d(5), u1, New(d(100), u2))

	res, err := q0.Sub(q1)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.True(t, res[0].Number.Equal(d(5)))

	remainder := res[1]
	assert.True(t, remainder.Number.Equal(d(1)))
	require.NotNil(t, remainder.Unit.Nested)
	assert.True(t, remainder.Unit.Nested.Number.Equal(d(10)))
	require.NotNil(t, remainder.Unit.Nested.Unit.Nested)
	assert.True(t, remainder.Unit.Nested.Unit.Nested.Number.Equal(d(100)))
}

func TestSubIncompatibleUnits(t *testing.T) {
	u0, u1 := uuid.New(), uuid.New()

	q0 := New(d(3), u0)
	q1 := New(d(2), u1)

	res, err := q0.Sub(q1)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.True(t, res[0].Number.Equal(d(3)))
	assert.True(t, res[1].Number.Equal(d(-2)))
}

func TestSubIncompatibleNestedUnits(t *testing.T) {
	u0, u1, u2 := uuid.New(), uuid.New(), uuid.New()

	q0 := NewNested(d(2), u0, NewNested(d(10), u1, New(d(100), u2)))
	q1 := NewNested(d(5), u1, New(d(99), u2))

	res, err := q0.Sub(q1)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.True(t, res[0].Number.Equal(d(2)))
	assert.True(t, res[1].Number.Equal(d(-5)))
}
