package engine

// distBtw is one step of a descent path: the node visited, the probe key,
// and the distance between them.
type distBtw[K any] struct {
	node NodeHeader[K]
	key  K
	dist float64
}

// TransactionBuilder compiles a batch of inserts (or a repack request) into
// a list of elementary tree operations, stages them in a DiffTracker,
// drives splits up to the root, runs repacking, and emits a Transaction.
type TransactionBuilder[K any, V any] struct {
	tracker  *DiffTracker[K, V]
	metric   *verifyingMetric[K]
	splitter *splitter[K]
	cfg      resolved[K, V]
}

func newTransactionBuilder[K any, V any](base snapshotReader[K, V], cfg resolved[K, V]) *TransactionBuilder[K, V] {
	return &TransactionBuilder[K, V]{
		tracker:  newDiffTracker[K, V](base),
		metric:   cfg.metric,
		splitter: newSplitter[K](cfg.metric, cfg.rnd),
		cfg:      cfg,
	}
}

// pathToLeaf descends from the current staged root, at each inner node
// choosing the child whose center is nearest to key, and returns the
// sequence of steps taken. An empty tree returns an empty path.
func (b *TransactionBuilder[K, V]) pathToLeaf(key K) ([]distBtw[K], error) {
	root, ok, err := b.tracker.currentRoot()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var path []distBtw[K]
	current := root
	for {
		d := b.metric.distance(key, current.Center)
		path = append(path, distBtw[K]{node: current, key: key, dist: d})
		if current.isLeaf {
			return path, nil
		}

		children := current.mustChildIDs()
		var nearest NodeHeader[K]
		nearestDist := -1.0
		for _, cid := range children {
			child, ok, err := b.tracker.currentNode(cid)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			cd := b.metric.distance(key, child.Center)
			if nearestDist < 0 || cd < nearestDist {
				nearestDist = cd
				nearest = child
			}
		}
		if nearestDist < 0 {
			return nil, ErrCorruptTree
		}
		current = nearest
	}
}

// CompileBatch compiles a batch of inserts into a Transaction. It is the
// TransactionBuilder's primary entry point.
func (b *TransactionBuilder[K, V]) CompileBatch(batch *Batch[K, V]) (tx Transaction[K, V], err error) {
	defer recoverInvariant(&err)

	root, hasRoot, err := b.tracker.currentRoot()
	if err != nil {
		return Transaction[K, V]{}, err
	}
	_ = root

	if !hasRoot {
		return b.compileFirstBatch(batch)
	}

	ops, err := b.elementaryOpsForBatch(batch)
	if err != nil {
		return Transaction[K, V]{}, err
	}
	if err := b.stageElementaryOps(ops); err != nil {
		return Transaction[K, V]{}, err
	}

	if err := b.runSplitPropagation(false); err != nil {
		return Transaction[K, V]{}, err
	}
	if err := b.runRepackingPolicy(); err != nil {
		return Transaction[K, V]{}, err
	}

	return b.tracker.asTransaction()
}

// elementaryOpsForBatch handles the non-empty-tree case: for each tuple,
// compute path_to_leaf and emit IncreaseRadius for every step whose
// distance exceeds the node's current radius, followed by an AssignTuple
// at the leaf.
func (b *TransactionBuilder[K, V]) elementaryOpsForBatch(batch *Batch[K, V]) ([]elementaryOp[K, V], error) {
	return b.elementaryOpsForTuples(batch.Tuples())
}

// elementaryOpsForTuples is the tuple-slice form of elementaryOpsForBatch,
// shared with the repack and oldest-leaf-rebuild procedures, which
// reinsert already-existing tuples rather than a freshly drained Batch.
func (b *TransactionBuilder[K, V]) elementaryOpsForTuples(tuples []Tuple[K, V]) ([]elementaryOp[K, V], error) {
	var ops []elementaryOp[K, V]
	for _, t := range tuples {
		path, err := b.pathToLeaf(t.Key)
		if err != nil {
			return nil, err
		}
		for _, step := range path {
			if step.dist > step.node.Radius {
				ops = append(ops, increaseRadiusOp[K, V](step.node.ID, step.dist))
			}
		}
		leaf := path[len(path)-1].node
		ops = append(ops, assignTupleOp(leaf.ID, t))
	}
	return ops, nil
}

// compileFirstBatch seeds an empty tree with every tuple in the batch
// under a single fresh leaf and inner root, then splits.
func (b *TransactionBuilder[K, V]) compileFirstBatch(batch *Batch[K, V]) (Transaction[K, V], error) {
	tuples := batch.Tuples()
	if len(tuples) == 0 {
		return b.tracker.asTransaction()
	}

	center := tuples[0].Key
	var radius float64
	for _, t := range tuples {
		d := b.metric.distance(center, t.Key)
		if d > radius {
			radius = d
		}
	}

	rootID := NewID()
	leafID := NewID()

	leaf := NewLeafHeader[K](leafID, rootID, center, radius, len(tuples))
	root := NewInnerHeader[K](rootID, ZeroID, center, radius, []ID{leafID})

	b.tracker.registerNewNode(rootID)
	b.tracker.registerNewNode(leafID)
	b.tracker.putNode(root)
	b.tracker.putNode(leaf)

	newTupleIDs := make(map[ID]struct{}, len(tuples))
	for _, t := range tuples {
		b.tracker.putTupleAssignment(t, leafID)
		newTupleIDs[t.ID] = struct{}{}
	}
	b.tracker.registerNewTupleIDs(newTupleIDs)

	if err := b.runSplitPropagation(false); err != nil {
		return Transaction[K, V]{}, err
	}
	if err := b.runRepackingPolicy(); err != nil {
		return Transaction[K, V]{}, err
	}

	return b.tracker.asTransaction()
}

// stageElementaryOps groups IncreaseRadius by target node (max new_radius),
// combines with AssignTuple counts per leaf, and stages the resulting
// headers and tuple assignments.
func (b *TransactionBuilder[K, V]) stageElementaryOps(ops []elementaryOp[K, V]) error {
	radiusBumps := make(map[ID]float64)
	assignCounts := make(map[ID]int)
	newTupleIDs := make(map[ID]struct{})

	for _, op := range ops {
		switch op.kind {
		case opIncreaseRadius:
			if cur, ok := radiusBumps[op.targetNode]; !ok || op.newRadius > cur {
				radiusBumps[op.targetNode] = op.newRadius
			}
		case opAssignTuple:
			assignCounts[op.leaf]++
			newTupleIDs[op.tuple.ID] = struct{}{}
			b.tracker.putTupleAssignment(op.tuple, op.leaf)
		}
	}

	touched := make(map[ID]struct{}, len(radiusBumps)+len(assignCounts))
	for id := range radiusBumps {
		touched[id] = struct{}{}
	}
	for id := range assignCounts {
		touched[id] = struct{}{}
	}

	for id := range touched {
		n, ok, err := b.tracker.currentNode(id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCorruptTree
		}
		if bump, ok := radiusBumps[id]; ok {
			n = n.withRadiusAtLeast(bump)
		}
		if count, ok := assignCounts[id]; ok {
			n = n.withTupleCount(n.mustTupleCount() + count)
		}
		b.tracker.putNode(n)
	}

	b.tracker.registerNewTupleIDs(newTupleIDs)
	return nil
}
