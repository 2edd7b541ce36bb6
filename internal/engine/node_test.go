package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLeafHeaderIsLeaf(t *testing.T) {
	id, parent := NewID(), NewID()
	n := NewLeafHeader[float64](id, parent, 1.5, 2.0, 7)

	require.True(t, n.IsLeaf())
	require.False(t, n.IsRoot())
	require.Equal(t, id, n.ID)
	require.Equal(t, 1.5, n.Center)
	require.Equal(t, 2.0, n.Radius)

	count, err := n.TupleCount()
	require.NoError(t, err)
	require.Equal(t, 7, count)

	_, err = n.ChildIDs()
	require.ErrorIs(t, err, ErrLeafHasChildren)
}

func TestNewInnerHeaderIsNotLeaf(t *testing.T) {
	id := NewID()
	kids := []ID{NewID(), NewID()}
	n := NewInnerHeader[float64](id, ZeroID, 0, 1, kids)

	require.False(t, n.IsLeaf())
	require.True(t, n.IsRoot())

	got, err := n.ChildIDs()
	require.NoError(t, err)
	require.ElementsMatch(t, kids, got)

	_, err = n.TupleCount()
	require.ErrorIs(t, err, ErrInnerHasTupleData)
}

func TestNewInnerHeaderCopiesChildSlice(t *testing.T) {
	kids := []ID{NewID(), NewID()}
	n := NewInnerHeader[float64](NewID(), ZeroID, 0, 0, kids)

	kids[0] = NewID()
	got, err := n.ChildIDs()
	require.NoError(t, err)
	require.NotEqual(t, kids[0], got[0])
}

func TestWithChildIDsReplacesChildren(t *testing.T) {
	n := NewInnerHeader[float64](NewID(), ZeroID, 0, 0, []ID{NewID()})
	fresh := []ID{NewID(), NewID(), NewID()}
	n2 := n.withChildIDs(fresh)

	got, err := n2.ChildIDs()
	require.NoError(t, err)
	require.ElementsMatch(t, fresh, got)

	orig, err := n.ChildIDs()
	require.NoError(t, err)
	require.Len(t, orig, 1)
}

func TestWithTupleCountReplacesCount(t *testing.T) {
	n := NewLeafHeader[float64](NewID(), ZeroID, 0, 0, 3)
	n2 := n.withTupleCount(9)

	count, err := n2.TupleCount()
	require.NoError(t, err)
	require.Equal(t, 9, count)

	orig, err := n.TupleCount()
	require.NoError(t, err)
	require.Equal(t, 3, orig)
}

func TestWithRadiusAtLeastOnlyRaises(t *testing.T) {
	n := NewLeafHeader[float64](NewID(), ZeroID, 0, 5, 0)

	lowered := n.withRadiusAtLeast(2)
	require.Equal(t, 5.0, lowered.Radius)

	raised := n.withRadiusAtLeast(9)
	require.Equal(t, 9.0, raised.Radius)
}

func TestWithRadiusSetsDirectly(t *testing.T) {
	n := NewLeafHeader[float64](NewID(), ZeroID, 0, 5, 0)
	n2 := n.withRadius(0)
	require.Equal(t, 0.0, n2.Radius)
	require.Equal(t, 5.0, n.Radius)
}

func TestWithParentReplacesParent(t *testing.T) {
	parent := NewID()
	n := NewLeafHeader[float64](NewID(), ZeroID, 0, 0, 0)
	n2 := n.withParent(parent)
	require.Equal(t, parent, n2.ParentID)
	require.True(t, n.IsRoot())
}

func TestSplittableLeaf(t *testing.T) {
	n := NewLeafHeader[float64](NewID(), ZeroID, 0, 0, 6)
	require.True(t, n.splittable(4, 5))
	require.False(t, n.splittable(4, 6))
}

func TestSplittableInner(t *testing.T) {
	kids := []ID{NewID(), NewID(), NewID()}
	n := NewInnerHeader[float64](NewID(), ZeroID, 0, 0, kids)
	require.True(t, n.splittable(2, 100))
	require.False(t, n.splittable(3, 100))
}
