package engine

// Tree is the private engine object a façade package wraps: it owns a
// DataStore and the codecs that bridge typed K/V domain values to the
// store's raw byte records, and exposes the operations a public API is
// built from (add batch, repack, range/kNN search, iterate, stats).
//
// Tree implements snapshotReader so a TransactionBuilder's DiffTracker can
// stage writes directly on top of it without a separate read-through type.
type Tree[K any, V any] struct {
	cfg resolved[K, V]
}

// NewTree validates opts and constructs a Tree bound to the configured
// DataStore.
func NewTree[K any, V any](opts Options[K, V]) (*Tree[K, V], error) {
	cfg, err := resolveOptions[K, V](opts)
	if err != nil {
		return nil, err
	}
	return &Tree[K, V]{cfg: cfg}, nil
}

func (t *Tree[K, V]) transactionID() ID {
	return t.cfg.store.LastTransactionID()
}

func (t *Tree[K, V]) rootID() ID {
	return t.cfg.store.RootID()
}

func (t *Tree[K, V]) node(id ID) (NodeHeader[K], bool, error) {
	if id.IsZero() {
		return NodeHeader[K]{}, false, nil
	}
	raw, ok := t.cfg.store.NodeAt(id)
	if !ok {
		return NodeHeader[K]{}, false, nil
	}
	center, err := t.cfg.keyCodec.Decode(raw.Center)
	if err != nil {
		return NodeHeader[K]{}, false, err
	}
	if raw.IsLeaf {
		return NewLeafHeader[K](raw.ID, raw.ParentID, center, raw.Radius, int(raw.TupleCount)), true, nil
	}
	return NewInnerHeader[K](raw.ID, raw.ParentID, center, raw.Radius, raw.ChildIDs), true, nil
}

func (t *Tree[K, V]) page(id ID) (*DataPage[K, V], bool, error) {
	raw, ok := t.cfg.store.DataPageAt(id)
	if !ok {
		return nil, false, nil
	}
	page := NewDataPage[K, V](raw.ID)
	for _, rt := range raw.Tuples {
		key, err := t.cfg.keyCodec.Decode(rt.Key)
		if err != nil {
			return nil, false, err
		}
		var value V
		if rt.Value != nil {
			value, err = t.cfg.valueCodec.Decode(rt.Value)
			if err != nil {
				return nil, false, err
			}
		}
		page.Put(Tuple[K, V]{ID: rt.TupleID, Key: key, Value: value})
	}
	return page, true, nil
}

// AddBatch compiles and commits a batch of inserts against the tree's
// current snapshot. It fails with ErrConcurrentModification if another
// writer committed a transaction against the same snapshot first.
func (t *Tree[K, V]) AddBatch(batch *Batch[K, V]) error {
	builder := newTransactionBuilder[K, V](t, t.cfg)
	tx, err := builder.CompileBatch(batch)
	if err != nil {
		return err
	}
	return t.commit(tx)
}

// RepackTree compiles and commits a full oldest-leaf-rebuild pass over the
// current snapshot, without staging any new tuples.
func (t *Tree[K, V]) RepackTree() error {
	builder := newTransactionBuilder[K, V](t, t.cfg)
	tx, err := builder.CompileRepackAll()
	if err != nil {
		return err
	}
	return t.commit(tx)
}

// RangeSearch returns every tuple within r of probe, ascending by distance.
func (t *Tree[K, V]) RangeSearch(probe K, r float64) ([]Tuple[K, V], error) {
	s, err := newRangeSearcher[K, V](t, t.cfg.metric, t.warnLogger(), probe, r)
	if err != nil {
		return nil, err
	}
	if err := s.Execute(); err != nil {
		return nil, err
	}
	return s.Results()
}

// KnnSearch returns the k tuples nearest probe, ascending by distance.
func (t *Tree[K, V]) KnnSearch(probe K, k int) ([]Tuple[K, V], error) {
	s, err := newKNNSearcher[K, V](t, t.cfg.metric, t.warnLogger(), probe, k)
	if err != nil {
		return nil, err
	}
	if err := s.Execute(); err != nil {
		return nil, err
	}
	return s.Results()
}

// Iterator returns a depth-first iterator over every DataPage in the
// current snapshot.
func (t *Tree[K, V]) Iterator(permissive bool) *Iterator[K, V] {
	return newIterator[K, V](t, permissive)
}

// Stats walks the current snapshot once and summarizes its shape.
func (t *Tree[K, V]) Stats() (Stats, error) {
	return computeStats[K, V](t)
}

// DistanceMetricExecutionCount returns the number of times the configured
// distance function has been invoked over this Tree's lifetime, exposed for
// benchmarking and debugging.
func (t *Tree[K, V]) DistanceMetricExecutionCount() int64 {
	return t.cfg.metric.count()
}

// commit encodes tx through the configured codecs and hands the resulting
// RawTransaction to the DataStore.
func (t *Tree[K, V]) commit(tx Transaction[K, V]) error {
	raw, err := t.encodeTransaction(tx)
	if err != nil {
		return err
	}
	return t.cfg.store.ApplyTransaction(raw)
}

func (t *Tree[K, V]) encodeTransaction(tx Transaction[K, V]) (RawTransaction, error) {
	raw := RawTransaction{
		ExpectedTreeID: tx.ExpectedTreeID,
		TransactionID:  tx.TransactionID,
		DeletedPages:   tx.DeletedPages,
		DeletedNodeHeaders: tx.DeletedNodeHeaders,
		NewRootID:      tx.NewRootID,
	}

	for _, n := range tx.CreatedNodes {
		rn, err := t.encodeNode(n)
		if err != nil {
			return RawTransaction{}, err
		}
		raw.CreatedNodes = append(raw.CreatedNodes, rn)
	}
	for _, n := range tx.UpdatedNodes {
		rn, err := t.encodeNode(n)
		if err != nil {
			return RawTransaction{}, err
		}
		raw.UpdatedNodes = append(raw.UpdatedNodes, rn)
	}
	for _, st := range tx.CreatedTuples {
		rt, err := t.encodeTuple(st)
		if err != nil {
			return RawTransaction{}, err
		}
		raw.CreatedTuples = append(raw.CreatedTuples, rt)
	}
	for _, st := range tx.UpdatedTuples {
		rt, err := t.encodeTuple(st)
		if err != nil {
			return RawTransaction{}, err
		}
		raw.UpdatedTuples = append(raw.UpdatedTuples, rt)
	}

	return raw, nil
}

func (t *Tree[K, V]) encodeNode(n NodeHeader[K]) (RawNodeHeader, error) {
	center, err := t.cfg.keyCodec.Encode(n.Center)
	if err != nil {
		return RawNodeHeader{}, err
	}
	raw := RawNodeHeader{
		ID: n.ID, ParentID: n.ParentID, Center: center, Radius: n.Radius,
		IsLeaf: n.IsLeaf(),
	}
	if n.IsLeaf() {
		raw.TupleCount = int32(n.mustTupleCount())
	} else {
		raw.ChildIDs = n.mustChildIDs()
	}
	return raw, nil
}

func (t *Tree[K, V]) encodeTuple(st stagedTuple[K, V]) (RawTuple, error) {
	key, err := t.cfg.keyCodec.Encode(st.tuple.Key)
	if err != nil {
		return RawTuple{}, err
	}
	value, err := t.cfg.valueCodec.Encode(st.tuple.Value)
	if err != nil {
		return RawTuple{}, err
	}
	return RawTuple{TupleID: st.tuple.ID, PageID: st.leafID, Key: key, Value: value}, nil
}

// warnLogger adapts the configured zerolog.Logger to the loggerFunc a
// Searcher uses to report reuse.
func (t *Tree[K, V]) warnLogger() loggerFunc {
	return func(msg string) {
		t.cfg.logger.Warn().Msg(msg)
	}
}
