package engine

// DataPage holds every tuple attached to one leaf. Its ID always equals
// the owning leaf NodeHeader's ID; inner nodes never have a DataPage.
type DataPage[K any, V any] struct {
	ID     ID
	tuples *tupleSet[K, V]
}

// NewDataPage creates an empty page for the given leaf id.
func NewDataPage[K any, V any](id ID) *DataPage[K, V] {
	return &DataPage[K, V]{ID: id, tuples: newTupleSet[K, V]()}
}

// Tuples returns the page's tuples in insertion order.
func (p *DataPage[K, V]) Tuples() []Tuple[K, V] {
	return p.tuples.all()
}

// Len returns the number of tuples on the page.
func (p *DataPage[K, V]) Len() int {
	return p.tuples.len()
}

// Put inserts or replaces a tuple by id.
func (p *DataPage[K, V]) Put(t Tuple[K, V]) {
	p.tuples.put(t)
}

// Get looks up a tuple by id.
func (p *DataPage[K, V]) Get(id ID) (Tuple[K, V], bool) {
	return p.tuples.get(id)
}

// Clone returns a deep-enough copy (new backing tupleSet, same Tuple
// values) safe to mutate independently.
func (p *DataPage[K, V]) Clone() *DataPage[K, V] {
	return &DataPage[K, V]{ID: p.ID, tuples: p.tuples.clone()}
}

// radiusOf computes max_{t in page} d(center, t.key), the leaf-radius
// exactness invariant. Returns 0 for an empty page.
func radiusOf[K any, V any](m *verifyingMetric[K], center K, page *DataPage[K, V]) float64 {
	var maxD float64
	for _, t := range page.Tuples() {
		d := m.distance(center, t.Key)
		if d > maxD {
			maxD = d
		}
	}
	return maxD
}
