package engine

// runSplitPropagation walks the staged tree while any header is splittable,
// picking one (traversal order unspecified) and splitting it — a root
// push-down, a leaf split, or a non-root inner split. Invariant at exit:
// every staged header is non-splittable.
//
// careful selects the leaf-split policy: the top-level propagation run
// after a batch compile passes false, since every leaf it splits is
// unconditionally reprocessed by the repacking policy immediately
// afterward, so there is no point computing exact distances now —
// quick_split suffices. The propagation run nested inside a per-leaf
// repack or oldest-leaf rebuild passes true ("careful mode"): those
// results are the final product of the repack, not further repack seeds,
// so their radii must be exact.
func (b *TransactionBuilder[K, V]) runSplitPropagation(careful bool) error {
	for {
		id, n, found := b.findSplittable()
		if !found {
			return nil
		}

		root, ok, err := b.tracker.currentRoot()
		if err != nil {
			return err
		}
		if ok && root.ID == id {
			if err := b.pushDownRoot(n); err != nil {
				return err
			}
			continue
		}

		if n.isLeaf {
			if err := b.splitLeaf(id, n, careful); err != nil {
				return err
			}
			continue
		}

		if err := b.splitInner(id, n); err != nil {
			return err
		}
	}
}

// findSplittable scans staged headers for one that violates the tree-shape
// invariants. Order is unspecified; a plain map range is used.
func (b *TransactionBuilder[K, V]) findSplittable() (ID, NodeHeader[K], bool) {
	for id, n := range b.tracker.stagedNodes {
		if n.splittable(b.cfg.branchingFactor, b.cfg.maxTuplesPerPage) {
			return id, n, true
		}
	}
	return ZeroID, NodeHeader[K]{}, false
}

// pushDownRoot allocates a new root copying the old root's center/radius
// with the old root as its sole child, and reparents the old root.
func (b *TransactionBuilder[K, V]) pushDownRoot(oldRoot NodeHeader[K]) error {
	newRootID := NewID()
	newRoot := NewInnerHeader[K](newRootID, ZeroID, oldRoot.Center, oldRoot.Radius, []ID{oldRoot.ID})
	b.tracker.registerNewNode(newRootID)
	b.tracker.putNode(newRoot)
	b.tracker.putNode(oldRoot.withParent(newRootID))

	b.cfg.logger.Info().
		Str("old_root", oldRoot.ID.String()).
		Str("new_root", newRootID.String()).
		Msg("engine: root pushed down")
	return nil
}

// splitLeaf splits an overfull leaf into two leaf siblings, using
// quick_split when careful is false (the leaf will be immediately
// repacked) or careful_split when careful is true.
func (b *TransactionBuilder[K, V]) splitLeaf(id ID, n NodeHeader[K], careful bool) error {
	page, err := b.tracker.currentPage(id)
	if err != nil {
		return err
	}
	b.tracker.deletePage(id)

	var left, right stub[K, V]
	if careful {
		left, right = carefulSplit[K, V](b.splitter, page)
	} else {
		left, right = quickSplit[K, V](b.splitter, page)
	}

	newLeafID := NewID()
	leftHeader := NewLeafHeader[K](id, n.ParentID, left.center, left.radius, len(left.tuples))
	rightHeader := NewLeafHeader[K](newLeafID, n.ParentID, right.center, right.radius, len(right.tuples))

	b.tracker.registerNewNode(newLeafID)
	b.tracker.registerRepackSeed(id)
	b.tracker.registerRepackSeed(newLeafID)

	b.tracker.putNode(leftHeader)
	b.tracker.putNode(rightHeader)

	newTupleIDs := make(map[ID]struct{}, len(left.tuples)+len(right.tuples))
	for _, t := range left.tuples {
		b.tracker.putTupleAssignment(t, id)
	}
	for _, t := range right.tuples {
		b.tracker.putTupleAssignment(t, newLeafID)
	}
	b.tracker.registerNewTupleIDs(newTupleIDs)

	parent, ok, err := b.tracker.currentNode(n.ParentID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCorruptTree
	}
	children, err := parent.ChildIDs()
	if err != nil {
		return err
	}
	children = append(children, newLeafID)
	b.tracker.putNode(parent.withChildIDs(children))

	return nil
}

// splitInner splits a non-root inner node with too many children into two
// inner siblings.
func (b *TransactionBuilder[K, V]) splitInner(id ID, n NodeHeader[K]) error {
	children := n.mustChildIDs()
	headers := make([]NodeHeader[K], 0, len(children))
	for _, cid := range children {
		c, ok, err := b.tracker.currentNode(cid)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCorruptTree
		}
		headers = append(headers, c)
	}

	left, right := splitChildren[K](b.splitter, headers)

	newInnerID := NewID()
	leftHeader := NewInnerHeader[K](id, n.ParentID, left.center, left.radius, idsOf(left.children))
	rightHeader := NewInnerHeader[K](newInnerID, n.ParentID, right.center, right.radius, idsOf(right.children))

	b.tracker.registerNewNode(newInnerID)
	b.tracker.putNode(leftHeader)
	b.tracker.putNode(rightHeader)

	for _, c := range right.children {
		b.tracker.putNode(c.withParent(newInnerID))
	}
	// Left children already have parent == id (unchanged); re-stage them
	// anyway so currentNode reflects the post-split parent's child list
	// consistently even if they weren't staged before.
	for _, c := range left.children {
		b.tracker.putNode(c.withParent(id))
	}

	parent, ok, err := b.tracker.currentNode(n.ParentID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCorruptTree
	}
	parentChildren, err := parent.ChildIDs()
	if err != nil {
		return err
	}
	parentChildren = append(parentChildren, newInnerID)
	b.tracker.putNode(parent.withChildIDs(parentChildren))

	return nil
}

func idsOf[K any](headers []NodeHeader[K]) []ID {
	ids := make([]ID, len(headers))
	for i, h := range headers {
		ids[i] = h.ID
	}
	return ids
}
