package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildFixtureTree constructs: root(inner) -> {leafA centered -5 radius 2,
// leafB centered 5 radius 2}, with three tuples in each leaf, directly on a
// fakeSnapshot, for Searcher/Iterator/Stats tests.
func buildFixtureTree(t *testing.T) (*fakeSnapshot[float64, string], ID, ID) {
	t.Helper()
	snap := newFakeSnapshot[float64, string]()

	rootID, leafA, leafB := NewID(), NewID(), NewID()
	snap.root = rootID
	snap.putNode(NewInnerHeader[float64](rootID, ZeroID, 0, 7, []ID{leafA, leafB}))
	snap.putNode(NewLeafHeader[float64](leafA, rootID, -5, 2, 3))
	snap.putNode(NewLeafHeader[float64](leafB, rootID, 5, 2, 3))

	pageA := NewDataPage[float64, string](leafA)
	pageA.Put(Tuple[float64, string]{ID: NewID(), Key: -6, Value: "a1"})
	pageA.Put(Tuple[float64, string]{ID: NewID(), Key: -5, Value: "a2"})
	pageA.Put(Tuple[float64, string]{ID: NewID(), Key: -3, Value: "a3"})
	snap.putPage(pageA)

	pageB := NewDataPage[float64, string](leafB)
	pageB.Put(Tuple[float64, string]{ID: NewID(), Key: 3, Value: "b1"})
	pageB.Put(Tuple[float64, string]{ID: NewID(), Key: 5, Value: "b2"})
	pageB.Put(Tuple[float64, string]{ID: NewID(), Key: 7, Value: "b3"})
	snap.putPage(pageB)

	return snap, leafA, leafB
}

func TestSearcherKnnReturnsNearestAscending(t *testing.T) {
	snap, _, _ := buildFixtureTree(t)
	m := newVerifyingMetric[float64](absDist)

	s, err := newKNNSearcher[float64, string](snap, m, nil, -4, 2)
	require.NoError(t, err)
	require.NoError(t, s.Execute())

	results, err := s.Results()
	require.NoError(t, err)
	require.Len(t, results, 2)
	values := []string{results[0].Value, results[1].Value}
	require.ElementsMatch(t, []string{"a2", "a3"}, values) // keys -5 and -3, both distance 1 from -4
}

func TestSearcherRangeReturnsOnlyWithinRadius(t *testing.T) {
	snap, _, _ := buildFixtureTree(t)
	m := newVerifyingMetric[float64](absDist)

	s, err := newRangeSearcher[float64, string](snap, m, nil, 5, 2.5)
	require.NoError(t, err)
	require.NoError(t, s.Execute())

	results, err := s.Results()
	require.NoError(t, err)
	for _, r := range results {
		require.True(t, r.Value == "b1" || r.Value == "b2" || r.Value == "b3")
	}
	require.NotEmpty(t, results)
}

func TestSearcherRejectsNonPositiveRadius(t *testing.T) {
	snap, _, _ := buildFixtureTree(t)
	m := newVerifyingMetric[float64](absDist)
	_, err := newRangeSearcher[float64, string](snap, m, nil, 0, 0)
	require.ErrorIs(t, err, ErrNonPositiveRadius)
}

func TestSearcherRejectsNonPositiveK(t *testing.T) {
	snap, _, _ := buildFixtureTree(t)
	m := newVerifyingMetric[float64](absDist)
	_, err := newKNNSearcher[float64, string](snap, m, nil, 0, 0)
	require.ErrorIs(t, err, ErrNonPositiveK)
}

func TestSearcherResultsBeforeExecuteErrors(t *testing.T) {
	snap, _, _ := buildFixtureTree(t)
	m := newVerifyingMetric[float64](absDist)
	s, err := newKNNSearcher[float64, string](snap, m, nil, 0, 1)
	require.NoError(t, err)

	_, err = s.Results()
	require.ErrorIs(t, err, ErrSearchNotExecuted)
}

func TestSearcherSecondExecuteWarnsAndKeepsResults(t *testing.T) {
	snap, _, _ := buildFixtureTree(t)
	m := newVerifyingMetric[float64](absDist)
	s, err := newKNNSearcher[float64, string](snap, m, nil, 0, 1)
	require.NoError(t, err)
	require.NoError(t, s.Execute())

	first, err := s.Results()
	require.NoError(t, err)

	var warned bool
	s.logger = func(string) { warned = true }
	require.NoError(t, s.Execute())
	require.True(t, warned)

	second, err := s.Results()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSearcherOnEmptyTreeReturnsNoResults(t *testing.T) {
	snap := newFakeSnapshot[float64, string]()
	m := newVerifyingMetric[float64](absDist)
	s, err := newKNNSearcher[float64, string](snap, m, nil, 0, 5)
	require.NoError(t, err)
	require.NoError(t, s.Execute())

	results, err := s.Results()
	require.NoError(t, err)
	require.Empty(t, results)
}
