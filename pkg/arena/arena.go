// Package arena implements a flat, index-addressed tree: an ordered
// sequence of nodes plus an optional root, where parent/child relations
// are expressed as NodeIndex values rather than owning pointers. It is the
// foundation pkg/merkletree and pkg/merkleproof build on; on its own it
// knows nothing about hashing or payloads.
package arena

import (
	"fmt"
	"sort"
	"strings"
)

// Arena is an ordered sequence of nodes plus an optional root index. The
// zero value is not usable — construct with New or WithCapacity.
//
// Invariants the library's own build and proof routines uphold (manual
// construction via Push/Insert can violate them; the arena does not check
// them):
//   - if a root is set, it addresses a node with no parent
//   - every non-root node with a parent addresses an in-bounds node
//   - child references are in-bounds
//   - the parent relation is acyclic
type Arena[N MutNode[Ix], Ix Unsigned] struct {
	nodes   []N
	root    NodeIndex[Ix]
	hasRoot bool
}

// New returns an empty Arena.
func New[N MutNode[Ix], Ix Unsigned]() *Arena[N, Ix] {
	return &Arena[N, Ix]{}
}

// WithCapacity returns an empty Arena pre-sized for capacity nodes.
func WithCapacity[N MutNode[Ix], Ix Unsigned](capacity int) *Arena[N, Ix] {
	return &Arena[N, Ix]{nodes: make([]N, 0, capacity)}
}

// Len returns the number of nodes currently stored.
func (a *Arena[N, Ix]) Len() int { return len(a.nodes) }

// Capacity returns the current storage capacity.
func (a *Arena[N, Ix]) Capacity() int { return cap(a.nodes) }

// IsEmpty reports whether the arena holds no nodes.
func (a *Arena[N, Ix]) IsEmpty() bool { return len(a.nodes) == 0 }

// Push appends node and returns its index.
//
// If the arena was empty and node declares no parent, it is adopted as the
// root automatically — but only when node also declares zero children,
// since a freshly-pushed root's children can't yet reference positions
// that don't exist. Pushing a parentless node that already lists children
// into an empty arena panics for the same reason the original forbids it:
// there is no way to infer those children's intended positions.
func (a *Arena[N, Ix]) Push(node N) NodeIndex[Ix] {
	wasEmpty := len(a.nodes) == 0
	if wasEmpty && node.IsRoot() && node.ChildCount() != 0 {
		panic("arena: cannot push a parentless node with declared children into an empty arena")
	}
	idx := NewNodeIndex[Ix](len(a.nodes))
	a.nodes = append(a.nodes, node)
	if wasEmpty && node.IsRoot() {
		a.root = idx
		a.hasRoot = true
	}
	return idx
}

// SetRoot overrides the root index without validation.
func (a *Arena[N, Ix]) SetRoot(idx NodeIndex[Ix]) {
	a.root = idx
	a.hasRoot = true
}

// ClearRoot unsets the root.
func (a *Arena[N, Ix]) ClearRoot() {
	a.root = NodeIndex[Ix]{}
	a.hasRoot = false
}

// RootIndex returns the root's index, if set.
func (a *Arena[N, Ix]) RootIndex() (NodeIndex[Ix], bool) {
	return a.root, a.hasRoot
}

// Root returns the root node. It panics if no root is set; use TryRoot to
// handle that case explicitly.
func (a *Arena[N, Ix]) Root() N {
	n, err := a.TryRoot()
	if err != nil {
		panic(err)
	}
	return n
}

// TryRoot returns the root node, or *TreeError(MissingRoot) if unset.
func (a *Arena[N, Ix]) TryRoot() (N, error) {
	if !a.hasRoot {
		var zero N
		return zero, ErrMissingRoot()
	}
	return a.nodes[a.root.Index()], nil
}

// Get returns the node at idx, bounds-checked.
func (a *Arena[N, Ix]) Get(idx NodeIndex[Ix]) (N, bool) {
	i := idx.Index()
	if i < 0 || i >= len(a.nodes) {
		var zero N
		return zero, false
	}
	return a.nodes[i], true
}

// GetRange returns a snapshot slice of nodes in [start, end), bounds-checked.
func (a *Arena[N, Ix]) GetRange(start, end int) ([]N, bool) {
	if start < 0 || end > len(a.nodes) || start > end {
		return nil, false
	}
	out := make([]N, end-start)
	copy(out, a.nodes[start:end])
	return out, true
}

// GetMut returns the node at idx for in-place mutation. Since N is itself
// a mutable node type (every concrete node in this module is used as a
// pointer), this is equivalent to Get; it exists so call sites can express
// intent to mutate, mirroring the original's separate get/get_mut split —
// Go has no borrow checker to enforce the distinction at compile time.
func (a *Arena[N, Ix]) GetMut(idx NodeIndex[Ix]) (N, bool) {
	return a.Get(idx)
}

// GetChildren returns the child nodes of idx.
func (a *Arena[N, Ix]) GetChildren(idx NodeIndex[Ix]) ([]N, bool) {
	node, ok := a.Get(idx)
	if !ok {
		return nil, false
	}
	children := node.Children()
	out := make([]N, 0, len(children))
	for _, c := range children {
		child, ok := a.Get(c)
		if !ok {
			return nil, false
		}
		out = append(out, child)
	}
	return out, true
}

// GetChildrenIndices returns the child indices of idx.
func (a *Arena[N, Ix]) GetChildrenIndices(idx NodeIndex[Ix]) ([]NodeIndex[Ix], bool) {
	node, ok := a.Get(idx)
	if !ok {
		return nil, false
	}
	return node.Children(), true
}

// Leaves returns the indices of every node with no children, in index
// order.
func (a *Arena[N, Ix]) Leaves() []NodeIndex[Ix] {
	var out []NodeIndex[Ix]
	for i, node := range a.nodes {
		if node.IsLeaf() {
			out = append(out, NewNodeIndex[Ix](i))
		}
	}
	return out
}

// LeavesRef returns every node with no children, in index order.
func (a *Arena[N, Ix]) LeavesRef() []N {
	var out []N
	for _, node := range a.nodes {
		if node.IsLeaf() {
			out = append(out, node)
		}
	}
	return out
}

// Insert inserts node at position idx, shifting later elements right. It
// does not renumber any existing NodeIndex references; callers that use
// it on a non-empty, already-wired arena are responsible for updating
// children/parent/root indices themselves.
func (a *Arena[N, Ix]) Insert(idx NodeIndex[Ix], node N) {
	i := idx.Index()
	a.nodes = append(a.nodes, node)
	copy(a.nodes[i+1:], a.nodes[i:])
	a.nodes[i] = node
}

// Find locates target by structural identity: if target declares a
// parent, the parent is asked for a child matching target under equal;
// otherwise target is compared against the root. Returns
// (idx, true) when the claimed relation holds.
func (a *Arena[N, Ix]) Find(target N, equal func(N, N) bool) (NodeIndex[Ix], bool) {
	if parentIdx, ok := target.Parent(); ok {
		parentNode, ok := a.Get(parentIdx)
		if !ok {
			return NodeIndex[Ix]{}, false
		}
		for _, childIdx := range parentNode.Children() {
			child, ok := a.Get(childIdx)
			if ok && equal(child, target) {
				return childIdx, true
			}
		}
		return NodeIndex[Ix]{}, false
	}
	rootIdx, ok := a.RootIndex()
	if !ok {
		return NodeIndex[Ix]{}, false
	}
	rootNode, ok := a.Get(rootIdx)
	if ok && equal(rootNode, target) {
		return rootIdx, true
	}
	return NodeIndex[Ix]{}, false
}

// FindBy returns the index of the first node satisfying pred, in
// breadth-first order.
func (a *Arena[N, Ix]) FindBy(pred func(N) bool) (NodeIndex[Ix], bool) {
	for idx := range a.IterIdx() {
		if node, ok := a.Get(idx); ok && pred(node) {
			return idx, true
		}
	}
	return NodeIndex[Ix]{}, false
}

// FindAll returns every node index satisfying pred, in breadth-first order.
func (a *Arena[N, Ix]) FindAll(pred func(N) bool) []NodeIndex[Ix] {
	var out []NodeIndex[Ix]
	for idx := range a.IterIdx() {
		if node, ok := a.Get(idx); ok && pred(node) {
			out = append(out, idx)
		}
	}
	return out
}

// Equal reports whether a and other have the same root and the same node
// sequence, element-wise, under equal.
func (a *Arena[N, Ix]) Equal(other *Arena[N, Ix], equal func(N, N) bool) bool {
	if a.hasRoot != other.hasRoot {
		return false
	}
	if a.hasRoot && a.root != other.root {
		return false
	}
	if len(a.nodes) != len(other.nodes) {
		return false
	}
	for i := range a.nodes {
		if !equal(a.nodes[i], other.nodes[i]) {
			return false
		}
	}
	return true
}

// String renders the arena rooted at Root() as an ASCII tree, provided N
// implements fmt.Stringer. Returns "<empty arena>" if no root is set.
func (a *Arena[N, Ix]) String() string {
	var sb strings.Builder
	root, err := a.TryRoot()
	if err != nil {
		return "<empty arena>"
	}
	a.writeASCII(&sb, "", "", root)
	return sb.String()
}

func (a *Arena[N, Ix]) writeASCII(sb *strings.Builder, prefix, connector string, node N) {
	label := fmt.Sprintf("%v", node)
	if s, ok := any(node).(fmt.Stringer); ok {
		label = s.String()
	}
	sb.WriteString(prefix)
	sb.WriteString(connector)
	sb.WriteString(label)
	sb.WriteString("\n")

	children := node.Children()
	childPrefix := prefix
	if connector == "├── " {
		childPrefix += "│   "
	} else if connector != "" {
		childPrefix += "    "
	}
	for i, c := range children {
		child, ok := a.Get(c)
		if !ok {
			continue
		}
		conn := "├── "
		if i == len(children)-1 {
			conn = "└── "
		}
		a.writeASCII(sb, childPrefix, conn, child)
	}
}

func sortedInts(xs []int) []int {
	out := append([]int(nil), xs...)
	sort.Ints(out)
	return out
}
