package arena

// Prune removes the subtree rooted at idx. If idx is the arena's root, the
// arena is cleared entirely. Otherwise every descendant of idx (collected
// via breadth-first search) is removed along with idx itself, and every
// surviving child/parent/root reference is rewritten to account for the
// removed slots.
//
// Two remapping strategies are used depending on the shape of the removed
// set: when the removed indices form a contiguous run, Prune uses a
// cheaper sequential remap (subtract a single count from every index past
// the run); otherwise it falls back to a full old-index -> new-index map.
func (a *Arena[N, Ix]) Prune(idx NodeIndex[Ix]) error {
	if root, ok := a.RootIndex(); ok && root == idx {
		a.nodes = nil
		a.ClearRoot()
		return nil
	}

	removed, ok := a.Get(idx)
	if !ok {
		return ErrIndexOutOfBounds(idx.Index(), a.Len())
	}
	_ = removed

	removedSet := map[int]bool{idx.Index(): true}
	queue := []NodeIndex[Ix]{idx}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		node, ok := a.Get(cur)
		if !ok {
			continue
		}
		for _, c := range node.Children() {
			if !removedSet[c.Index()] {
				removedSet[c.Index()] = true
				queue = append(queue, c)
			}
		}
	}

	ordered := make([]int, 0, len(removedSet))
	for i := range removedSet {
		ordered = append(ordered, i)
	}
	ordered = sortedInts(ordered)

	contiguous := ordered[len(ordered)-1]-ordered[0]+1 == len(ordered)
	if contiguous {
		return a.pruneSequential(ordered[0], ordered[len(ordered)-1])
	}
	return a.pruneScattered(removedSet)
}

func (a *Arena[N, Ix]) pruneSequential(lo, hi int) error {
	count := hi - lo + 1
	newNodes := make([]N, 0, len(a.nodes)-count)

	for i, node := range a.nodes {
		if i >= lo && i <= hi {
			continue
		}

		var survivors []NodeIndex[Ix]
		for _, c := range node.Children() {
			ci := c.Index()
			switch {
			case ci >= lo && ci <= hi:
				// dropped: this child was inside the pruned subtree
			case ci > hi:
				survivors = append(survivors, NewNodeIndex[Ix](ci-count))
			default:
				survivors = append(survivors, c)
			}
		}
		node.Clear()
		for _, s := range survivors {
			if err := node.TryPush(s); err != nil {
				return err
			}
		}

		if p, ok := node.Parent(); ok {
			pi := p.Index()
			switch {
			case pi >= lo && pi <= hi:
				node.TakeParent()
			case pi > hi:
				node.SetParent(NewNodeIndex[Ix](pi - count))
			}
		}

		newNodes = append(newNodes, node)
	}
	a.nodes = newNodes

	if root, ok := a.RootIndex(); ok {
		ri := root.Index()
		switch {
		case ri >= lo && ri <= hi:
			a.ClearRoot()
		case ri > hi:
			a.SetRoot(NewNodeIndex[Ix](ri - count))
		}
	}
	return nil
}

func (a *Arena[N, Ix]) pruneScattered(removedSet map[int]bool) error {
	n := len(a.nodes)
	mapping := make([]int, n)
	next := 0
	for i := 0; i < n; i++ {
		if removedSet[i] {
			mapping[i] = -1
			continue
		}
		mapping[i] = next
		next++
	}

	newNodes := make([]N, 0, next)
	for i, node := range a.nodes {
		if removedSet[i] {
			continue
		}

		var survivors []NodeIndex[Ix]
		for _, c := range node.Children() {
			ci := c.Index()
			if removedSet[ci] {
				continue
			}
			survivors = append(survivors, NewNodeIndex[Ix](mapping[ci]))
		}
		node.Clear()
		for _, s := range survivors {
			if err := node.TryPush(s); err != nil {
				return err
			}
		}

		if p, ok := node.Parent(); ok {
			pi := p.Index()
			if removedSet[pi] {
				node.TakeParent()
			} else {
				node.SetParent(NewNodeIndex[Ix](mapping[pi]))
			}
		}

		newNodes = append(newNodes, node)
	}
	a.nodes = newNodes

	if root, ok := a.RootIndex(); ok {
		ri := root.Index()
		if removedSet[ri] {
			a.ClearRoot()
		} else {
			a.SetRoot(NewNodeIndex[Ix](mapping[ri]))
		}
	}
	return nil
}
