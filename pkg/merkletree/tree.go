package merkletree

import (
	"log/slog"

	"github.com/ocx/merkle/pkg/arena"
	"github.com/ocx/merkle/pkg/digest"
)

// MerkleTree is an arena.Arena specialized to Node: payload-bearing leaves
// and concat-hash internal nodes, built bottom-up from an ordered leaf
// sequence.
type MerkleTree struct {
	arena  *arena.Arena[*Node, Index]
	digest digest.Adapter
}

// Option configures an optional behavior of Build.
type Option func(*buildOpts)

type buildOpts struct {
	logger *slog.Logger
}

// WithLogger attaches a logger that Build reports its leaf count and
// digest algorithm to at Debug level. Omitting it is silent; there is no
// default logger forced on a pure library call.
func WithLogger(l *slog.Logger) Option {
	return func(o *buildOpts) { o.logger = l }
}

// Build constructs a MerkleTree over the ordered payloads using adapter for
// every hash. An empty payload slice produces an empty tree with no root.
// A single payload is wrapped in an internal node so the root is always
// distinct from a bare leaf. Two or more payloads are
// combined pairwise, left to right, via a FIFO queue: the tree is
// left-packed and deterministic in the payload order and the adapter.
func Build(payloads [][]byte, adapter digest.Adapter, opts ...Option) (*MerkleTree, error) {
	if adapter == nil {
		return nil, errNilAdapter
	}
	var o buildOpts
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		o.logger.Debug("building merkle tree", "leaves", len(payloads), "digest", adapter.Name())
	}
	if len(payloads) == 0 {
		return &MerkleTree{arena: arena.New[*Node, Index](), digest: adapter}, nil
	}
	t := &MerkleTree{arena: arena.WithCapacity[*Node, Index](2*len(payloads) - 1), digest: adapter}

	leafIdx := make([]NodeIndex, len(payloads))
	for i, p := range payloads {
		h := adapter.OneShot(p)
		leafIdx[i] = t.arena.Push(newLeaf(p, h))
	}

	if len(payloads) == 1 {
		leaf, _ := t.arena.Get(leafIdx[0])
		wrapper := newInternal(adapter.OneShot(leaf.Hash))
		wrapperIdx := t.arena.Push(wrapper)
		leaf.SetParent(wrapperIdx)
		wrapper.Push(leafIdx[0])
		t.arena.SetRoot(wrapperIdx)
		return t, nil
	}

	queue := append([]NodeIndex(nil), leafIdx...)
	for len(queue) > 1 {
		lhsIdx, rhsIdx := queue[0], queue[1]
		queue = queue[2:]

		lhs, _ := t.arena.Get(lhsIdx)
		rhs, _ := t.arena.Get(rhsIdx)
		parent := newInternal(adapter.Concat(lhs.Hash, rhs.Hash))
		parentIdx := t.arena.Push(parent)
		parent.Push(lhsIdx)
		parent.Push(rhsIdx)
		lhs.SetParent(parentIdx)
		rhs.SetParent(parentIdx)

		queue = append(queue, parentIdx)
	}
	t.arena.SetRoot(queue[0])
	return t, nil
}

// RootHash returns the digest of the tree's root. Panics if the tree is
// empty; use TryRootHash to handle that explicitly.
func (t *MerkleTree) RootHash() []byte {
	root := t.arena.Root()
	return root.Hash
}

// TryRootHash returns the digest of the tree's root, or an error if the
// tree has no root.
func (t *MerkleTree) TryRootHash() ([]byte, error) {
	root, err := t.arena.TryRoot()
	if err != nil {
		return nil, err
	}
	return root.Hash, nil
}

// Len returns the number of nodes (leaves plus internal nodes).
func (t *MerkleTree) Len() int { return t.arena.Len() }

// Capacity returns the underlying arena's storage capacity.
func (t *MerkleTree) Capacity() int { return t.arena.Capacity() }

// IsEmpty reports whether the tree has no nodes.
func (t *MerkleTree) IsEmpty() bool { return t.arena.IsEmpty() }

// Leaves returns every leaf node, in arena order.
func (t *MerkleTree) Leaves() []*Node { return t.arena.LeavesRef() }

// LeafIndices returns the arena index of every leaf node, in arena order.
func (t *MerkleTree) LeafIndices() []NodeIndex { return t.arena.Leaves() }

// Get returns the node at idx.
func (t *MerkleTree) Get(idx NodeIndex) (*Node, bool) { return t.arena.Get(idx) }

// RootIndex returns the tree's root index, if set.
func (t *MerkleTree) RootIndex() (NodeIndex, bool) { return t.arena.RootIndex() }

// Iter returns a breadth-first iterator over the tree's nodes.
func (t *MerkleTree) Iter() func(yield func(*Node) bool) {
	return t.arena.Iter()
}

// Digest returns the adapter the tree was built with.
func (t *MerkleTree) Digest() digest.Adapter { return t.digest }

// Arena exposes the underlying arena for callers building a proof from
// this tree (see pkg/merkleproof.Generate).
func (t *MerkleTree) Arena() *arena.Arena[*Node, Index] { return t.arena }

func (t *MerkleTree) String() string { return t.arena.String() }
