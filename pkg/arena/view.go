package arena

import "iter"

// TreeView is a borrowed, read-only view over a subtree of an Arena. The
// Arena it was built from must not be mutated while a TreeView referencing
// it is in use — Go has no borrow checker to enforce this, so it is a
// discipline the caller upholds, same as the original's note that
// "language-level borrow checking or explicit guard objects both satisfy
// this" requirement.
type TreeView[N MutNode[Ix], Ix Unsigned] struct {
	root  NodeIndex[Ix]
	nodes map[NodeIndex[Ix]]N
}

// View returns a TreeView rooted at the arena's own root.
func (a *Arena[N, Ix]) View() (TreeView[N, Ix], bool) {
	root, ok := a.RootIndex()
	if !ok {
		return TreeView[N, Ix]{}, false
	}
	return a.SubtreeView(root)
}

// SubtreeView returns a TreeView rooted at idx, collecting every
// descendant via breadth-first search. Returns false if idx is not in the
// arena.
func (a *Arena[N, Ix]) SubtreeView(idx NodeIndex[Ix]) (TreeView[N, Ix], bool) {
	rootNode, ok := a.Get(idx)
	if !ok {
		return TreeView[N, Ix]{}, false
	}

	nodes := map[NodeIndex[Ix]]N{idx: rootNode}
	queue := []NodeIndex[Ix]{idx}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curNode, ok := a.Get(cur)
		if !ok {
			continue
		}
		for _, childIdx := range curNode.Children() {
			childNode, ok := a.Get(childIdx)
			if !ok {
				continue
			}
			nodes[childIdx] = childNode
			queue = append(queue, childIdx)
		}
	}

	return TreeView[N, Ix]{root: idx, nodes: nodes}, true
}

// SubtreeFromNode finds target by structural equality (see Arena.Find)
// and returns a TreeView rooted there.
func (a *Arena[N, Ix]) SubtreeFromNode(target N, equal func(N, N) bool) (TreeView[N, Ix], bool) {
	idx, ok := a.Find(target, equal)
	if !ok {
		return TreeView[N, Ix]{}, false
	}
	return a.SubtreeView(idx)
}

// Root returns the view's root node.
func (v TreeView[N, Ix]) Root() N {
	return v.nodes[v.root]
}

// Len returns the number of nodes in the view.
func (v TreeView[N, Ix]) Len() int {
	return len(v.nodes)
}

// IsEmpty reports whether the view has no nodes.
func (v TreeView[N, Ix]) IsEmpty() bool {
	return len(v.nodes) == 0
}

// Get returns the node addressed by idx within the view.
func (v TreeView[N, Ix]) Get(idx NodeIndex[Ix]) (N, bool) {
	n, ok := v.nodes[idx]
	return n, ok
}

// Iter returns a breadth-first iterator over the view's nodes, starting at
// its root.
func (v TreeView[N, Ix]) Iter() iter.Seq[N] {
	return func(yield func(N) bool) {
		for idx := range v.IterIdx() {
			if node, ok := v.nodes[idx]; ok {
				if !yield(node) {
					return
				}
			}
		}
	}
}

// IterIdx returns a breadth-first iterator over the view's node indices.
func (v TreeView[N, Ix]) IterIdx() iter.Seq[NodeIndex[Ix]] {
	return func(yield func(NodeIndex[Ix]) bool) {
		if len(v.nodes) == 0 {
			return
		}
		queue := []NodeIndex[Ix]{v.root}
		seen := map[NodeIndex[Ix]]bool{v.root: true}
		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]
			if !yield(idx) {
				return
			}
			node, ok := v.nodes[idx]
			if !ok {
				continue
			}
			for _, c := range node.Children() {
				if !seen[c] {
					seen[c] = true
					queue = append(queue, c)
				}
			}
		}
	}
}
