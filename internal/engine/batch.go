package engine

import "sync"

// Batch is a group of tuples compiled into a single transaction. Its id
// captures the moment the batch was drained from the accumulator.
type Batch[K any, V any] struct {
	id     ID
	tuples []Tuple[K, V]
}

// ID returns the batch's id.
func (b *Batch[K, V]) ID() ID {
	return b.id
}

// Tuples returns the batch's tuples in arrival order.
func (b *Batch[K, V]) Tuples() []Tuple[K, V] {
	return b.tuples
}

// Size returns the number of tuples in the batch.
func (b *Batch[K, V]) Size() int {
	return len(b.tuples)
}

// TupleIDSet returns the set of tuple ids in the batch, used to
// discriminate CREATE vs MOVE when emitting IO operations.
func (b *Batch[K, V]) TupleIDSet() map[ID]struct{} {
	set := make(map[ID]struct{}, len(b.tuples))
	for _, t := range b.tuples {
		set[t.ID] = struct{}{}
	}
	return set
}

// BatchAccumulator holds tuples awaiting commit. Add appends in arrival
// order; Drain atomically moves the buffered tuples into a new Batch and
// clears the buffer. A mutex guards against an Add/Drain race observing a
// partial buffer.
type BatchAccumulator[K any, V any] struct {
	mu      sync.Mutex
	pending []Tuple[K, V]
}

// NewBatchAccumulator creates an empty accumulator.
func NewBatchAccumulator[K any, V any]() *BatchAccumulator[K, V] {
	return &BatchAccumulator[K, V]{}
}

// Add appends a tuple to the pending buffer.
func (a *BatchAccumulator[K, V]) Add(t Tuple[K, V]) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = append(a.pending, t)
}

// Drain atomically moves the buffered tuples into a new Batch (with a
// fresh id capturing the drain time) and clears the buffer.
func (a *BatchAccumulator[K, V]) Drain() *Batch[K, V] {
	a.mu.Lock()
	defer a.mu.Unlock()
	tuples := a.pending
	a.pending = nil
	return &Batch[K, V]{id: NewID(), tuples: tuples}
}

// newBatchFromTuples builds a Batch directly from a tuple slice, without
// going through the accumulator. The repack/rebuild procedures do not use
// it; they reinsert tuple slices through elementaryOpsForTuples.
func newBatchFromTuples[K any, V any](tuples []Tuple[K, V]) *Batch[K, V] {
	return &Batch[K, V]{id: NewID(), tuples: tuples}
}
