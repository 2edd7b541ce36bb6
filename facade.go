package vantage

import (
	"vantage/internal/engine"
)

// ID is the 128-bit identifier used for tuples, nodes, and transactions.
type ID = engine.ID

// NewID produces a fresh, approximately insertion-ordered ID.
func NewID() ID {
	return engine.NewID()
}

// Tuple is a (id, key, value) unit of data stored in an Index.
type Tuple[K any, V any] = engine.Tuple[K, V]

// Batch groups tuples compiled into a single transaction by AddBatch.
type Batch[K any, V any] = engine.Batch[K, V]

// BatchAccumulator buffers tuples arriving over time until the caller is
// ready to drain them into a Batch.
type BatchAccumulator[K any, V any] = engine.BatchAccumulator[K, V]

// NewBatchAccumulator creates an empty accumulator.
func NewBatchAccumulator[K any, V any]() *BatchAccumulator[K, V] {
	return engine.NewBatchAccumulator[K, V]()
}

// Stats summarizes an Index's current shape.
type Stats = engine.Stats

// Iterator yields every DataPage in an Index exactly once, depth-first.
type Iterator[K any, V any] = engine.Iterator[K, V]

// Index is the public handle on a similarity-search index: a thin façade
// over a private engine.Tree that enforces ReadWriteMode at the boundary
// and never exposes the tree's internal types.
type Index[K any, V any] struct {
	tree *engine.Tree[K, V]
	mode ReadWriteMode
}

// Open validates opts and constructs an Index bound to the configured
// DataStore. It does not itself read or write any data; the DataStore's
// current contents (if any) become the index's initial tree.
func Open[K any, V any](opts Options[K, V]) (*Index[K, V], error) {
	tree, err := engine.NewTree[K, V](opts.toEngine())
	if err != nil {
		return nil, err
	}
	return &Index[K, V]{tree: tree, mode: opts.ReadWriteMode}, nil
}

// AddBatch compiles and commits batch against the index's current
// snapshot. It is rejected with ErrReadOnlyMode if the index was opened in
// ReadOnly mode, and with ErrConcurrentModification if another writer
// committed first against the same snapshot.
func (idx *Index[K, V]) AddBatch(batch *Batch[K, V]) error {
	if idx.mode == ReadOnly {
		return ErrReadOnlyMode
	}
	return idx.tree.AddBatch(batch)
}

// AddBatches is a convenience loop over AddBatch, stopping at the first
// error.
func (idx *Index[K, V]) AddBatches(batches []*Batch[K, V]) error {
	for _, b := range batches {
		if err := idx.AddBatch(b); err != nil {
			return err
		}
	}
	return nil
}

// RepackTree triggers a full oldest-leaf-rebuild pass over the index.
func (idx *Index[K, V]) RepackTree() error {
	if idx.mode == ReadOnly {
		return ErrReadOnlyMode
	}
	return idx.tree.RepackTree()
}

// KnnSearch returns the k tuples nearest probe, ascending by distance.
func (idx *Index[K, V]) KnnSearch(probe K, k int) ([]Tuple[K, V], error) {
	if idx.mode == WriteOnly {
		return nil, ErrWriteOnlyMode
	}
	return idx.tree.KnnSearch(probe, k)
}

// Closest returns the single tuple nearest probe. The second return is
// false, with a nil error, if the index is empty.
func (idx *Index[K, V]) Closest(probe K) (Tuple[K, V], bool, error) {
	results, err := idx.KnnSearch(probe, 1)
	if err != nil {
		return Tuple[K, V]{}, false, err
	}
	if len(results) == 0 {
		return Tuple[K, V]{}, false, nil
	}
	return results[0], true, nil
}

// RangeSearch returns every tuple within r of probe, ascending by distance.
func (idx *Index[K, V]) RangeSearch(probe K, r float64) ([]Tuple[K, V], error) {
	if idx.mode == WriteOnly {
		return nil, ErrWriteOnlyMode
	}
	return idx.tree.RangeSearch(probe, r)
}

// TreeStats summarizes the index's current shape.
func (idx *Index[K, V]) TreeStats() (Stats, error) {
	return idx.tree.Stats()
}

// Iterator returns a depth-first iterator over every DataPage in the
// index. In permissive mode, the iterator does not fail if the index is
// mutated while iteration is in progress.
func (idx *Index[K, V]) Iterator(permissive bool) *Iterator[K, V] {
	return idx.tree.Iterator(permissive)
}

// DistanceMetricExecutionCount returns the number of times the configured
// distance function has been invoked over this Index's lifetime.
func (idx *Index[K, V]) DistanceMetricExecutionCount() int64 {
	return idx.tree.DistanceMetricExecutionCount()
}
