package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNode is the minimal MutNode used to exercise the arena independent of
// any payload/hash semantics.
type testNode struct {
	Links[uint32]
	Label string
}

func (n *testNode) String() string { return n.Label }

func leaf(label string) *testNode { return &testNode{Label: label} }

func buildChain(t *testing.T) (*Arena[*testNode, uint32], []NodeIndex[uint32]) {
	t.Helper()
	a := New[*testNode, uint32]()
	root := leaf("root")
	rootIdx := a.Push(root)

	var idxs []NodeIndex[uint32]
	idxs = append(idxs, rootIdx)
	for _, label := range []string{"a", "b", "c"} {
		child := leaf(label)
		child.SetParent(rootIdx)
		childIdx := a.Push(child)
		root.Push(childIdx)
		idxs = append(idxs, childIdx)
	}
	return a, idxs
}

func TestPush_AdoptsFirstParentlessNodeAsRoot(t *testing.T) {
	a := New[*testNode, uint32]()
	require.True(t, a.IsEmpty())

	idx := a.Push(leaf("root"))
	root, ok := a.RootIndex()
	require.True(t, ok)
	assert.Equal(t, idx, root)
}

func TestPush_EmptyArenaRootWithChildrenPanics(t *testing.T) {
	a := New[*testNode, uint32]()
	n := leaf("bad")
	n.Push(NewNodeIndex[uint32](7))
	assert.Panics(t, func() { a.Push(n) })
}

func TestIter_BreadthFirstOrder(t *testing.T) {
	a, _ := buildChain(t)
	var labels []string
	for n := range a.Iter() {
		labels = append(labels, n.Label)
	}
	assert.Equal(t, []string{"root", "a", "b", "c"}, labels)
}

func TestLeaves(t *testing.T) {
	a, idxs := buildChain(t)
	leaves := a.Leaves()
	assert.ElementsMatch(t, idxs[1:], leaves)
}

func TestFind_ByParentChildRelation(t *testing.T) {
	a, idxs := buildChain(t)
	bNode, ok := a.Get(idxs[2])
	require.True(t, ok)

	found, ok := a.Find(bNode, func(x, y *testNode) bool { return x.Label == y.Label })
	require.True(t, ok)
	assert.Equal(t, idxs[2], found)
}

func TestFindBy_And_FindAll(t *testing.T) {
	a, idxs := buildChain(t)

	idx, ok := a.FindBy(func(n *testNode) bool { return n.Label == "b" })
	require.True(t, ok)
	assert.Equal(t, idxs[2], idx)

	all := a.FindAll(func(n *testNode) bool { return n.IsLeaf() })
	assert.Len(t, all, 3)
}

func TestView_CoversWholeTree(t *testing.T) {
	a, idxs := buildChain(t)
	v, ok := a.View()
	require.True(t, ok)
	assert.Equal(t, 4, v.Len())
	assert.Equal(t, "root", v.Root().Label)

	sub, ok := a.SubtreeView(idxs[1])
	require.True(t, ok)
	assert.Equal(t, 1, sub.Len())
}

func TestEqual(t *testing.T) {
	a1, _ := buildChain(t)
	a2, _ := buildChain(t)
	eq := func(x, y *testNode) bool { return x.Label == y.Label }
	assert.True(t, a1.Equal(a2, eq))

	a3 := New[*testNode, uint32]()
	a3.Push(leaf("root"))
	assert.False(t, a1.Equal(a3, eq))
}

func TestPrune_Root_ClearsArena(t *testing.T) {
	a, idxs := buildChain(t)
	err := a.Prune(idxs[0])
	require.NoError(t, err)
	assert.True(t, a.IsEmpty())
	_, ok := a.RootIndex()
	assert.False(t, ok)
}

func TestPrune_Sequential_ContiguousRun(t *testing.T) {
	// root -> [p2, p1], p1 -> [a, b]. p1, a, b sit at indices 2..4, so
	// pruning p1 removes a contiguous run at the tail.
	a := New[*testNode, uint32]()
	root := leaf("root")
	rootIdx := a.Push(root)

	p2 := leaf("p2")
	p2.SetParent(rootIdx)
	p2Idx := a.Push(p2)
	root.Push(p2Idx)

	p1 := leaf("p1")
	p1.SetParent(rootIdx)
	p1Idx := a.Push(p1)
	root.Push(p1Idx)

	aLeaf := leaf("a")
	aLeaf.SetParent(p1Idx)
	aIdx := a.Push(aLeaf)
	p1.Push(aIdx)

	bLeaf := leaf("b")
	bLeaf.SetParent(p1Idx)
	bIdx := a.Push(bLeaf)
	p1.Push(bIdx)

	require.Equal(t, 5, a.Len())

	err := a.Prune(p1Idx)
	require.NoError(t, err)

	assert.Equal(t, 2, a.Len())
	root2, err := a.TryRoot()
	require.NoError(t, err)
	assert.Equal(t, "root", root2.Label)
	assert.Equal(t, 1, root2.ChildCount())

	remainingChild, ok := a.Get(root2.Children()[0])
	require.True(t, ok)
	assert.Equal(t, "p2", remainingChild.Label)
}

func TestPrune_Scattered_NonContiguous(t *testing.T) {
	// root -> [q1, q2], q1 -> [q1c], q2 -> [q2c]. Pruning q1 removes
	// indices {1, 3} (q1 and its child q1c), leaving index 2 (q2) as a
	// survivor in between: a non-contiguous removed set, forcing the
	// scattered remap path.
	a2 := New[*testNode, uint32]()
	r2 := leaf("root")
	r2Idx := a2.Push(r2)

	q1 := leaf("q1")
	q1.SetParent(r2Idx)
	q1Idx := a2.Push(q1)
	r2.Push(q1Idx)

	q2 := leaf("q2")
	q2.SetParent(r2Idx)
	q2Idx := a2.Push(q2)
	r2.Push(q2Idx)

	q1c := leaf("q1c")
	q1c.SetParent(q1Idx)
	q1cIdx := a2.Push(q1c) // index 3
	q1.Push(q1cIdx)

	q2c := leaf("q2c")
	q2c.SetParent(q2Idx)
	q2cIdx := a2.Push(q2c) // index 4
	q2.Push(q2cIdx)

	// Pruning q1 removes {q1Idx=1, q1cIdx=3}: not contiguous (2 is q2,
	// which survives) -> scattered path.
	err := a2.Prune(q1Idx)
	require.NoError(t, err)
	assert.Equal(t, 3, a2.Len())

	root3, err := a2.TryRoot()
	require.NoError(t, err)
	assert.Equal(t, 1, root3.ChildCount())

	remaining, ok := a2.Get(root3.Children()[0])
	require.True(t, ok)
	assert.Equal(t, "q2", remaining.Label)
	assert.Equal(t, 1, remaining.ChildCount())

	gcNode, ok := a2.Get(remaining.Children()[0])
	require.True(t, ok)
	assert.Equal(t, "q2c", gcNode.Label)
}

func TestString_RendersASCIITree(t *testing.T) {
	a, _ := buildChain(t)
	out := a.String()
	assert.Contains(t, out, "root")
	assert.Contains(t, out, "a")
}
