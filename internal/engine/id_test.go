package engine

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIDUniqueAndOrdered(t *testing.T) {
	const n = 500
	ids := make([]ID, n)
	for i := range ids {
		ids[i] = NewID()
	}

	seen := make(map[ID]struct{}, n)
	for i, id := range ids {
		_, dup := seen[id]
		require.False(t, dup, "NewID produced a duplicate at index %d", i)
		seen[id] = struct{}{}
		if i > 0 {
			require.True(t, bytes.Compare(ids[i-1][:6], id[:6]) <= 0,
				"id timestamp prefixes must be non-decreasing: %s then %s", ids[i-1], id)
		}
	}
}

func TestIDIsZero(t *testing.T) {
	var zero ID
	require.True(t, zero.IsZero())
	require.True(t, ZeroID.IsZero())
	require.False(t, NewID().IsZero())
}

func TestIDCompareAndLess(t *testing.T) {
	a := NewID()
	b := NewID()
	require.Equal(t, 0, a.Compare(a))
	if a != b {
		require.NotEqual(t, 0, a.Compare(b))
	}
	require.False(t, a.Less(a))
}

func TestIDStringRoundTrip(t *testing.T) {
	id := NewID()
	s := id.String()
	require.NotEmpty(t, s)

	parsed, err := ParseID(s)
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseIDRejectsBadLength(t *testing.T) {
	_, err := ParseID("not-a-valid-id")
	require.Error(t, err)
}

func TestIDBytesRoundTrip(t *testing.T) {
	id := NewID()
	b := id.Bytes()
	require.Len(t, b, IDSize)

	rebuilt, err := IDFromBytes(b)
	require.NoError(t, err)
	require.Equal(t, id, rebuilt)
}

func TestIDFromBytesRejectsWrongLength(t *testing.T) {
	_, err := IDFromBytes([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrInvalidArgument)
}
