package engine

import (
	"math"
	"math/rand/v2"

	"github.com/rs/zerolog"
)

// fakeSnapshot is a minimal in-memory snapshotReader used to exercise
// DiffTracker, TransactionBuilder, Searcher, Iterator, and Stats directly,
// without going through a DataStore and codec round trip.
type fakeSnapshot[K any, V any] struct {
	txID ID
	root ID

	nodes map[ID]NodeHeader[K]
	pages map[ID]*DataPage[K, V]
}

func newFakeSnapshot[K any, V any]() *fakeSnapshot[K, V] {
	return &fakeSnapshot[K, V]{
		nodes: make(map[ID]NodeHeader[K]),
		pages: make(map[ID]*DataPage[K, V]),
	}
}

func (f *fakeSnapshot[K, V]) transactionID() ID { return f.txID }
func (f *fakeSnapshot[K, V]) rootID() ID        { return f.root }

func (f *fakeSnapshot[K, V]) node(id ID) (NodeHeader[K], bool, error) {
	n, ok := f.nodes[id]
	return n, ok, nil
}

func (f *fakeSnapshot[K, V]) page(id ID) (*DataPage[K, V], bool, error) {
	p, ok := f.pages[id]
	if !ok {
		return nil, false, nil
	}
	return p, true, nil
}

func (f *fakeSnapshot[K, V]) putNode(n NodeHeader[K]) {
	f.nodes[n.ID] = n
}

func (f *fakeSnapshot[K, V]) putPage(p *DataPage[K, V]) {
	f.pages[p.ID] = p
}

// absDist is a trivial metric over float64 keys, used throughout the engine
// package's tests in place of a real vector distance function.
func absDist(a, b float64) float64 {
	return math.Abs(a - b)
}

// testResolved builds a resolved[float64, string] config suitable for
// constructing a TransactionBuilder directly in tests, bypassing
// resolveOptions's DataStore/codec requirements.
func testResolved(branchingFactor, maxTuplesPerPage int, mode RepackingMode) resolved[float64, string] {
	return resolved[float64, string]{
		branchingFactor:  branchingFactor,
		maxTuplesPerPage: maxTuplesPerPage,
		repackingMode:    mode,
		metric:           newVerifyingMetric[float64](absDist),
		logger:           zerolog.Nop(),
		rnd:              rand.New(rand.NewPCG(1, 2)),
	}
}
