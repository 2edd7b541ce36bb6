package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTupleSetPutGetLen(t *testing.T) {
	s := newTupleSet[float64, string]()
	require.Equal(t, 0, s.len())

	t1 := Tuple[float64, string]{ID: NewID(), Key: 1, Value: "a"}
	s.put(t1)
	require.Equal(t, 1, s.len())

	got, ok := s.get(t1.ID)
	require.True(t, ok)
	require.Equal(t, t1, got)

	_, ok = s.get(NewID())
	require.False(t, ok)
}

func TestTupleSetPutOverwritesWithoutDuplicatingOrder(t *testing.T) {
	s := newTupleSet[float64, string]()
	id := NewID()
	s.put(Tuple[float64, string]{ID: id, Key: 1, Value: "a"})
	s.put(Tuple[float64, string]{ID: id, Key: 1, Value: "b"})

	require.Equal(t, 1, s.len())
	got, _ := s.get(id)
	require.Equal(t, "b", got.Value)
}

func TestTupleSetAllPreservesInsertionOrder(t *testing.T) {
	s := newTupleSet[float64, string]()
	ids := make([]ID, 3)
	for i := range ids {
		ids[i] = NewID()
		s.put(Tuple[float64, string]{ID: ids[i], Key: float64(i)})
	}

	all := s.all()
	require.Len(t, all, 3)
	for i, tup := range all {
		require.Equal(t, ids[i], tup.ID)
	}
}

func TestTupleSetCloneIsIndependent(t *testing.T) {
	s := newTupleSet[float64, string]()
	id := NewID()
	s.put(Tuple[float64, string]{ID: id, Key: 1, Value: "a"})

	clone := s.clone()
	clone.put(Tuple[float64, string]{ID: NewID(), Key: 2, Value: "b"})

	require.Equal(t, 1, s.len())
	require.Equal(t, 2, clone.len())
}
