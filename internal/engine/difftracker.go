package engine

// stagedTuple pairs a tuple with the leaf id it is currently assigned to.
type stagedTuple[K any, V any] struct {
	tuple  Tuple[K, V]
	leafID ID
}

// DiffTracker is an in-memory staging view over the current tree snapshot.
// It accumulates node/tuple writes and page/node deletions during a single
// batch or repack compilation and yields a Transaction once compilation
// completes.
type DiffTracker[K any, V any] struct {
	base    snapshotReader[K, V]
	baseTxn ID

	stagedNodes  map[ID]NodeHeader[K]
	stagedTuples map[ID]stagedTuple[K, V]
	deletedPages map[ID]struct{}
	deletedNodes map[ID]struct{}
	newNodeIDs   map[ID]struct{}
	newTupleIDs  map[ID]struct{}
	repackSeeds  map[ID]struct{}
}

// newDiffTracker constructs a tracker staged on top of base, capturing
// base's current transaction id as the expected_tree_id for the eventual
// Transaction.
func newDiffTracker[K any, V any](base snapshotReader[K, V]) *DiffTracker[K, V] {
	return &DiffTracker[K, V]{
		base:         base,
		baseTxn:      base.transactionID(),
		stagedNodes:  make(map[ID]NodeHeader[K]),
		stagedTuples: make(map[ID]stagedTuple[K, V]),
		deletedPages: make(map[ID]struct{}),
		deletedNodes: make(map[ID]struct{}),
		newNodeIDs:   make(map[ID]struct{}),
		newTupleIDs:  make(map[ID]struct{}),
		repackSeeds:  make(map[ID]struct{}),
	}
}

// currentNode returns the staged header if present, else the snapshot
// header.
func (d *DiffTracker[K, V]) currentNode(id ID) (NodeHeader[K], bool, error) {
	if n, ok := d.stagedNodes[id]; ok {
		return n, true, nil
	}
	if _, deleted := d.deletedNodes[id]; deleted {
		return NodeHeader[K]{}, false, nil
	}
	return d.base.node(id)
}

// currentPage returns the union of staged tuples assigned to leaf id with
// the snapshot page's content; if id is a deleted page, the snapshot
// content is treated as cleared and only the staged portion is returned.
func (d *DiffTracker[K, V]) currentPage(id ID) (*DataPage[K, V], error) {
	page := NewDataPage[K, V](id)

	_, pageDeleted := d.deletedPages[id]
	if !pageDeleted {
		snapPage, ok, err := d.base.page(id)
		if err != nil {
			return nil, err
		}
		if ok {
			for _, t := range snapPage.Tuples() {
				if _, staged := d.stagedTuples[t.ID]; !staged {
					page.Put(t)
				}
			}
		}
	}

	for _, st := range d.stagedTuples {
		if st.leafID == id {
			page.Put(st.tuple)
		}
	}
	return page, nil
}

// putNode stages a header write.
func (d *DiffTracker[K, V]) putNode(n NodeHeader[K]) {
	d.stagedNodes[n.ID] = n
}

// deleteNode removes id from the staged view entirely: it stops being
// readable via currentNode and is recorded for deletion in the eventual
// Transaction.
func (d *DiffTracker[K, V]) deleteNode(id ID) {
	delete(d.stagedNodes, id)
	d.deletedNodes[id] = struct{}{}
}

// putTupleAssignment stages a tuple as assigned to leafID.
func (d *DiffTracker[K, V]) putTupleAssignment(t Tuple[K, V], leafID ID) {
	d.stagedTuples[t.ID] = stagedTuple[K, V]{tuple: t, leafID: leafID}
}

// deletePage marks a leaf's page content as discarded.
func (d *DiffTracker[K, V]) deletePage(id ID) {
	d.deletedPages[id] = struct{}{}
}

// registerNewNode records id as freshly allocated in this compilation, so
// as_transaction can discriminate CREATE from UPDATE.
func (d *DiffTracker[K, V]) registerNewNode(id ID) {
	d.newNodeIDs[id] = struct{}{}
}

// registerNewTupleIDs records a set of tuple ids as freshly created in this
// compilation.
func (d *DiffTracker[K, V]) registerNewTupleIDs(ids map[ID]struct{}) {
	for id := range ids {
		d.newTupleIDs[id] = struct{}{}
	}
}

// registerRepackSeed records a leaf id as a candidate for immediate
// per-leaf repack once the current split wave settles.
func (d *DiffTracker[K, V]) registerRepackSeed(id ID) {
	d.repackSeeds[id] = struct{}{}
}

// consumeRepackSeeds returns and clears the currently registered repack
// seed ids.
func (d *DiffTracker[K, V]) consumeRepackSeeds() []ID {
	ids := make([]ID, 0, len(d.repackSeeds))
	for id := range d.repackSeeds {
		ids = append(ids, id)
	}
	d.repackSeeds = make(map[ID]struct{})
	return ids
}

// currentRoot returns the staged root header by walking from the base
// root id (or any staged node whose parent is absent, if the base tree was
// empty and a root was just created).
func (d *DiffTracker[K, V]) currentRoot() (NodeHeader[K], bool, error) {
	rootID := d.base.rootID()
	if !rootID.IsZero() {
		if _, deleted := d.deletedNodes[rootID]; !deleted {
			n, ok, err := d.currentNode(rootID)
			if err != nil || (ok && n.IsRoot()) {
				return n, ok, err
			}
		}
	}
	// Base tree was empty, or its root got deleted/replaced this
	// compilation (root push-down stages a new root and reparents the
	// old one): find the staged node with no parent.
	for id, n := range d.stagedNodes {
		if n.ParentID.IsZero() {
			return d.stagedNodes[id], true, nil
		}
	}
	return NodeHeader[K]{}, false, nil
}

// leafNodes walks the staged tree from the root and returns every leaf
// header, using an explicit stack rather than recursion: tree depth is
// unbounded.
func (d *DiffTracker[K, V]) leafNodes() ([]NodeHeader[K], error) {
	root, ok, err := d.currentRoot()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var leaves []NodeHeader[K]
	stack := []ID{root.ID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n, ok, err := d.currentNode(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if n.isLeaf {
			leaves = append(leaves, n)
			continue
		}
		stack = append(stack, n.mustChildIDs()...)
	}
	return leaves, nil
}

// numLeafNodes returns the number of leaves in the staged tree.
func (d *DiffTracker[K, V]) numLeafNodes() (int, error) {
	leaves, err := d.leafNodes()
	if err != nil {
		return 0, err
	}
	return len(leaves), nil
}

// oldestLeafID returns the minimum id among the staged tree's leaves.
func (d *DiffTracker[K, V]) oldestLeafID() (ID, bool, error) {
	leaves, err := d.leafNodes()
	if err != nil {
		return ZeroID, false, err
	}
	if len(leaves) == 0 {
		return ZeroID, false, nil
	}
	oldest := leaves[0].ID
	for _, l := range leaves[1:] {
		if l.ID.Less(oldest) {
			oldest = l.ID
		}
	}
	return oldest, true, nil
}

// asTransaction partitions the staged writes into created vs updated (via
// the new-node/new-tuple sets) and emits a Transaction.
func (d *DiffTracker[K, V]) asTransaction() (Transaction[K, V], error) {
	tx := Transaction[K, V]{
		ExpectedTreeID: d.baseTxn,
		TransactionID:  NewID(),
	}

	for id, n := range d.stagedNodes {
		if _, isNew := d.newNodeIDs[id]; isNew {
			tx.CreatedNodes = append(tx.CreatedNodes, n)
		} else {
			tx.UpdatedNodes = append(tx.UpdatedNodes, n)
		}
		if n.IsRoot() {
			if !tx.NewRootID.IsZero() {
				return Transaction[K, V]{}, ErrMultipleRoots
			}
			tx.NewRootID = id
		}
	}

	for tupID, st := range d.stagedTuples {
		if _, isNew := d.newTupleIDs[tupID]; isNew {
			tx.CreatedTuples = append(tx.CreatedTuples, st)
		} else {
			tx.UpdatedTuples = append(tx.UpdatedTuples, st)
		}
	}

	for id := range d.deletedPages {
		tx.DeletedPages = append(tx.DeletedPages, id)
	}
	for id := range d.deletedNodes {
		tx.DeletedNodeHeaders = append(tx.DeletedNodeHeaders, id)
	}

	return tx, nil
}
