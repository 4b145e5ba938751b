package arena

import "iter"

// IterIdx returns a breadth-first iterator over node indices, starting at
// the root and visiting each node's children in stored order. Yields
// nothing if no root is set.
func (a *Arena[N, Ix]) IterIdx() iter.Seq[NodeIndex[Ix]] {
	return func(yield func(NodeIndex[Ix]) bool) {
		root, ok := a.RootIndex()
		if !ok {
			return
		}
		queue := []NodeIndex[Ix]{root}
		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]
			if !yield(idx) {
				return
			}
			node, ok := a.Get(idx)
			if !ok {
				continue
			}
			queue = append(queue, node.Children()...)
		}
	}
}

// Iter returns a breadth-first iterator over node references, in the same
// order as IterIdx.
func (a *Arena[N, Ix]) Iter() iter.Seq[N] {
	return func(yield func(N) bool) {
		for idx := range a.IterIdx() {
			node, ok := a.Get(idx)
			if !ok {
				continue
			}
			if !yield(node) {
				return
			}
		}
	}
}
