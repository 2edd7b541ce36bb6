package engine

// Iterator yields every DataPage in the tree exactly once, depth-first,
// using an explicit stack rather than recursion. Construction captures the
// tree's current transaction id; each call to Next checks that id against
// the tree's current one and fails with ErrConcurrentModification if the
// tree changed underneath it, unless the iterator was built in permissive
// mode.
type Iterator[K any, V any] struct {
	snap       snapshotReader[K, V]
	capturedID ID
	permissive bool

	stack []ID
	done  bool
}

// newIterator constructs an Iterator over snap's current tree, capturing
// its transaction id for later concurrent-modification checks.
func newIterator[K any, V any](snap snapshotReader[K, V], permissive bool) *Iterator[K, V] {
	it := &Iterator[K, V]{
		snap:       snap,
		capturedID: snap.transactionID(),
		permissive: permissive,
	}
	if root := snap.rootID(); !root.IsZero() {
		it.stack = []ID{root}
	} else {
		it.done = true
	}
	return it
}

// Next advances to and returns the next unvisited DataPage, descending
// through inner nodes as it finds them. The second return is false once
// every page has been yielded.
func (it *Iterator[K, V]) Next() (*DataPage[K, V], bool, error) {
	if it.done {
		return nil, false, nil
	}
	if !it.permissive && it.snap.transactionID() != it.capturedID {
		return nil, false, ErrConcurrentModification
	}

	for len(it.stack) > 0 {
		id := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]

		n, ok, err := it.snap.node(id)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		if !n.IsLeaf() {
			it.stack = append(it.stack, n.mustChildIDs()...)
			continue
		}

		page, ok, err := it.snap.page(id)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		if len(it.stack) == 0 {
			it.done = true
		}
		return page, true, nil
	}

	it.done = true
	return nil, false, nil
}
