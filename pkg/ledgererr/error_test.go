package ledgererr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesKind(t *testing.T) {
	err := New(NotFound, "checkpoint missing")
	assert.True(t, Is(err, NotFound))
	assert.False(t, Is(err, Conflict))
}

func TestIsThroughWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(Storage, "write batch commit failed", cause)

	wrapped := fmt.Errorf("mutate: %w", err)
	assert.True(t, Is(wrapped, Storage))
	assert.True(t, errors.Is(wrapped, cause))
}

func TestAsExtractsConcreteError(t *testing.T) {
	err := New(Conflict, "before does not match stored after")
	wrapped := fmt.Errorf("mutate op %s: %w", "abc", err)

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, Conflict, got.Kind)
}
