package engine

// runRepackingPolicy processes every repack seed registered by the split
// wave that just settled, then performs however many oldest-leaf rebuilds
// the configured RepackingMode calls for at the resulting leaf count.
//
// A completed split always leaves both of its output leaves registered as
// repack seeds; this reprocessing happens unconditionally, regardless of
// RepackingMode. Only the additional oldest-leaf rebuild count is
// mode-gated (zero for RepackingNone, floor(ln(leaf_count))+1 for
// RepackingIncrementalLN).
func (b *TransactionBuilder[K, V]) runRepackingPolicy() error {
	seeds := b.tracker.consumeRepackSeeds()
	if len(seeds) > 0 {
		if err := b.perLeafRepack(seeds); err != nil {
			return err
		}
	}

	leafCount, err := b.tracker.numLeafNodes()
	if err != nil {
		return err
	}
	n := b.cfg.repackingMode.numLeavesToRebuild(leafCount)
	for i := 0; i < n; i++ {
		if err := b.oldestLeafRebuild(); err != nil {
			return err
		}
	}
	return nil
}

// perLeafRepack drains every tuple currently assigned to the given leaves,
// clears their headers back to radius zero and tuple_count zero, and
// reinserts the tuples as if they were a fresh batch. The leaves are
// processed together as one pool: a split always produces a pair of
// siblings, and repacking them jointly lets tuples move freely between the
// pair (and into whichever of the two ends up holding them) rather than
// being pinned to whichever half the split first assigned them to.
//
// The reinsertion runs split propagation in careful mode, since its output
// is final: no further repacking pass reprocesses these leaves. Any leaf
// among leafIDs that ends up with zero tuples after reinsertion is removed,
// cascading to its parent if the parent is left with no children.
func (b *TransactionBuilder[K, V]) perLeafRepack(leafIDs []ID) error {
	var pooled []Tuple[K, V]
	for _, id := range leafIDs {
		page, err := b.tracker.currentPage(id)
		if err != nil {
			return err
		}
		pooled = append(pooled, page.Tuples()...)
		b.tracker.deletePage(id)

		n, ok, err := b.tracker.currentNode(id)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		b.tracker.putNode(n.withRadius(0).withTupleCount(0))
	}

	ops, err := b.elementaryOpsForTuples(pooled)
	if err != nil {
		return err
	}
	if err := b.stageElementaryOps(ops); err != nil {
		return err
	}
	if err := b.runSplitPropagation(true); err != nil {
		return err
	}

	for _, id := range leafIDs {
		n, ok, err := b.tracker.currentNode(id)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		count, err := n.TupleCount()
		if err != nil {
			return err
		}
		if count == 0 {
			if err := b.removeEmptyLeaf(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// oldestLeafRebuild replaces the tree's oldest leaf (by id) with a freshly
// allocated leaf sharing its center and radius zero, then reinserts its
// tuples through the ordinary path-to-leaf routing. It is a no-op when the
// root has fewer than three children, since rebuilding the oldest leaf in a
// tree that small would make no progress toward balance.
//
// Reinsertion runs split propagation in careful mode for the same reason as
// perLeafRepack: this is not a repack seed, its output is final. If the
// replacement leaf ends up empty (every one of its old tuples routed
// elsewhere), it is removed like any other emptied leaf.
func (b *TransactionBuilder[K, V]) oldestLeafRebuild() error {
	root, ok, err := b.tracker.currentRoot()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	rootChildren, err := root.ChildIDs()
	if err != nil {
		return err
	}
	if len(rootChildren) < 3 {
		return nil
	}

	oldestID, ok, err := b.tracker.oldestLeafID()
	if !ok || err != nil {
		return err
	}
	oldest, ok, err := b.tracker.currentNode(oldestID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCorruptTree
	}

	page, err := b.tracker.currentPage(oldestID)
	if err != nil {
		return err
	}
	tuples := page.Tuples()

	parent, ok, err := b.tracker.currentNode(oldest.ParentID)
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

	newLeafID := NewID()
	replaced := make([]ID, 0, len(parentChildren))
	for _, cid := range parentChildren {
		if cid == oldestID {
			replaced = append(replaced, newLeafID)
		} else {
			replaced = append(replaced, cid)
		}
	}

	b.tracker.registerNewNode(newLeafID)
	b.tracker.putNode(NewLeafHeader[K](newLeafID, oldest.ParentID, oldest.Center, 0, 0))
	b.tracker.putNode(parent.withChildIDs(replaced))

	b.tracker.deletePage(oldestID)
	b.tracker.deleteNode(oldestID)

	ops, err := b.elementaryOpsForTuples(tuples)
	if err != nil {
		return err
	}
	if err := b.stageElementaryOps(ops); err != nil {
		return err
	}
	if err := b.runSplitPropagation(true); err != nil {
		return err
	}

	newLeaf, ok, err := b.tracker.currentNode(newLeafID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	count, err := newLeaf.TupleCount()
	if err != nil {
		return err
	}
	if count == 0 {
		return b.removeEmptyLeaf(newLeafID)
	}
	return nil
}

// removeEmptyLeaf deletes a leaf header left with zero tuples and removes
// it from its parent's child list, cascading the deletion up through any
// ancestor chain that is left with no children as a result. The root is
// never removed this way: a non-empty tree always keeps at least one child
// at the root, so the cascade cannot reach it.
func (b *TransactionBuilder[K, V]) removeEmptyLeaf(id ID) error {
	n, ok, err := b.tracker.currentNode(id)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	parentID := n.ParentID
	b.tracker.deleteNode(id)
	return b.removeChildFromParent(parentID, id)
}

// removeChildFromParent drops childID from parentID's child list, deleting
// parentID in turn (and recursing upward) if that leaves it childless.
func (b *TransactionBuilder[K, V]) removeChildFromParent(parentID, childID ID) error {
	for {
		if parentID.IsZero() {
			return ErrCorruptTree
		}
		parent, ok, err := b.tracker.currentNode(parentID)
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
		remaining := make([]ID, 0, len(children))
		for _, c := range children {
			if c != childID {
				remaining = append(remaining, c)
			}
		}

		if len(remaining) > 0 {
			b.tracker.putNode(parent.withChildIDs(remaining))
			return nil
		}
		if parent.IsRoot() {
			return ErrCorruptTree
		}
		b.tracker.deleteNode(parentID)
		childID = parentID
		parentID = parent.ParentID
	}
}

// CompileRepackAll builds a Transaction that rebuilds every eligible leaf in
// the tree, oldest-first, without staging any new tuples. It runs
// oldest-leaf rebuild leaf_count-2 times: each rebuild retires the current
// oldest leaf, so after leaf_count-2 rounds only the two newest leaves (by
// allocation order) are left untouched.
func (b *TransactionBuilder[K, V]) CompileRepackAll() (tx Transaction[K, V], err error) {
	defer recoverInvariant(&err)

	leafCount, err := b.tracker.numLeafNodes()
	if err != nil {
		return Transaction[K, V]{}, err
	}
	rounds := leafCount - 2
	for i := 0; i < rounds; i++ {
		if err := b.oldestLeafRebuild(); err != nil {
			return Transaction[K, V]{}, err
		}
	}
	return b.tracker.asTransaction()
}
