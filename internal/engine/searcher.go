package engine

import (
	"math"

	"golang.org/x/exp/slices"
)

// searchKind distinguishes the two query shapes a Searcher answers.
type searchKind int

const (
	searchRange searchKind = iota
	searchKNN
)

// scoredTuple pairs a result tuple with its distance to the probe, the unit
// the Searcher's result set is ordered by.
type scoredTuple[K any, V any] struct {
	tuple Tuple[K, V]
	dist  float64
}

// Searcher answers one range or kNN query via a stack-based descent that
// prunes subtrees using sphere geometry: a node's children are never
// visited if the node's own sphere cannot intersect the query's current
// inclusion radius.
//
// A Searcher is single-use. Execute may run at most once; a second call
// logs a warning and returns the already-computed results unchanged. This
// mirrors how garland's cursor types guard against reuse after a one-shot
// operation rather than silently recomputing.
type Searcher[K any, V any] struct {
	snap   snapshotReader[K, V]
	metric *verifyingMetric[K]
	logger loggerFunc

	kind  searchKind
	probe K
	r     float64 // range search
	k     int     // kNN

	executed bool
	results  []scoredTuple[K, V]
}

// loggerFunc abstracts the single log call a Searcher makes (warn on
// reuse), so this file doesn't need to import zerolog directly.
type loggerFunc func(msg string)

func newSearcher[K any, V any](snap snapshotReader[K, V], metric *verifyingMetric[K], logger loggerFunc) *Searcher[K, V] {
	return &Searcher[K, V]{snap: snap, metric: metric, logger: logger}
}

// newRangeSearcher constructs a Searcher for all tuples within r of probe.
// r must be > 0.
func newRangeSearcher[K any, V any](snap snapshotReader[K, V], metric *verifyingMetric[K], logger loggerFunc, probe K, r float64) (*Searcher[K, V], error) {
	if r <= 0 {
		return nil, ErrNonPositiveRadius
	}
	s := newSearcher[K, V](snap, metric, logger)
	s.kind = searchRange
	s.probe = probe
	s.r = r
	return s, nil
}

// newKNNSearcher constructs a Searcher for the k tuples nearest probe. k
// must be >= 1.
func newKNNSearcher[K any, V any](snap snapshotReader[K, V], metric *verifyingMetric[K], logger loggerFunc, probe K, k int) (*Searcher[K, V], error) {
	if k < 1 {
		return nil, ErrNonPositiveK
	}
	s := newSearcher[K, V](snap, metric, logger)
	s.kind = searchKNN
	s.probe = probe
	s.k = k
	return s, nil
}

// currentInclusionRadius is +∞ for kNN while fewer than k results are held,
// else the worst (largest) kept distance; for range search it is always the
// fixed r.
func (s *Searcher[K, V]) currentInclusionRadius() float64 {
	if s.kind == searchRange {
		return s.r
	}
	if len(s.results) < s.k {
		return math.Inf(1)
	}
	return s.results[0].dist
}

// Execute runs the descent to completion. Calling it a second time logs a
// warning and returns nil without altering the already-computed results.
func (s *Searcher[K, V]) Execute() (err error) {
	defer recoverInvariant(&err)

	if s.executed {
		if s.logger != nil {
			s.logger("engine: search executed more than once; ignoring")
		}
		return nil
	}
	s.executed = true

	root, ok, err := s.snap.node(s.snap.rootID())
	if err != nil {
		return err
	}
	if !ok {
		s.finish()
		return nil
	}

	stack := []NodeHeader[K]{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		d := s.metric.distance(s.probe, n.Center)
		if d > n.Radius+s.currentInclusionRadius() {
			continue
		}

		if n.IsLeaf() {
			page, ok, err := s.snap.page(n.ID)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			for _, t := range page.Tuples() {
				td := s.metric.distance(s.probe, t.Key)
				if td <= s.currentInclusionRadius() {
					s.insertResult(t, td)
				}
			}
			continue
		}

		children := n.mustChildIDs()
		type scoredChild struct {
			node NodeHeader[K]
			dist float64
		}
		scored := make([]scoredChild, 0, len(children))
		for _, cid := range children {
			c, ok, err := s.snap.node(cid)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			scored = append(scored, scoredChild{node: c, dist: s.metric.distance(s.probe, c.Center)})
		}
		slices.SortFunc(scored, func(a, b scoredChild) int {
			switch {
			case a.dist > b.dist:
				return -1
			case a.dist < b.dist:
				return 1
			default:
				return 0
			}
		})
		for _, sc := range scored {
			stack = append(stack, sc.node)
		}
	}

	s.finish()
	return nil
}

// insertResult adds a qualifying tuple to the kept-results set, maintaining
// descending order by distance (worst first) so the worst kept result is
// always at index 0 and cheap to evict. For range search the set is
// unbounded; for kNN it is capped at k, evicting the current worst once it
// would otherwise exceed that bound.
func (s *Searcher[K, V]) insertResult(t Tuple[K, V], dist float64) {
	st := scoredTuple[K, V]{tuple: t, dist: dist}

	pos, _ := slices.BinarySearchFunc(s.results, st, func(a, b scoredTuple[K, V]) int {
		switch {
		case a.dist > b.dist:
			return -1
		case a.dist < b.dist:
			return 1
		default:
			return 0
		}
	})
	s.results = append(s.results, scoredTuple[K, V]{})
	copy(s.results[pos+1:], s.results[pos:])
	s.results[pos] = st

	if s.kind == searchKNN && len(s.results) > s.k {
		s.results = s.results[1:]
	}
}

// finish sorts the kept results into ascending-distance order, the order
// Results() reports them in once the search completes.
func (s *Searcher[K, V]) finish() {
	slices.SortFunc(s.results, func(a, b scoredTuple[K, V]) int {
		switch {
		case a.dist < b.dist:
			return -1
		case a.dist > b.dist:
			return 1
		default:
			return 0
		}
	})
}

// Results returns the completed search's tuples in ascending-distance
// order. It returns ErrSearchNotExecuted if Execute has not run yet.
func (s *Searcher[K, V]) Results() ([]Tuple[K, V], error) {
	if !s.executed {
		return nil, ErrSearchNotExecuted
	}
	out := make([]Tuple[K, V], len(s.results))
	for i, st := range s.results {
		out[i] = st.tuple
	}
	return out, nil
}
