package merkleproof

import (
	"log/slog"

	"github.com/ocx/merkle/pkg/arena"
	"github.com/ocx/merkle/pkg/digest"
	"github.com/ocx/merkle/pkg/merkletree"
)

// MerkleProof is the minimal sibling-hash arena needed to recompute a
// source MerkleTree's root hash from one chosen leaf. A prover builds one
// with Generate; a verifier fills the leaf hash with UpdateLeafHash and
// calls Validate.
type MerkleProof struct {
	arena    *arena.Arena[*ProofNode, Index]
	digest   digest.Adapter
	expected []byte
	leaves   []NodeIndex
	valid    *bool
	logger   *slog.Logger
}

// Option configures an optional behavior of Generate.
type Option func(*MerkleProof)

// WithLogger attaches a logger: Generate reports at Debug level, and a
// later Validate call on the same proof reports RootHashMismatch at Warn
// level (never on the per-node hot path). Omitting it is silent.
func WithLogger(l *slog.Logger) Option {
	return func(p *MerkleProof) { p.logger = l }
}

// Generate builds a single-leaf proof that leafIdx is part of tree. It
// fails with InvalidSize if tree has one or zero leaves (there is nothing
// to prove against a lone leaf's own wrapper) and with ExpectedLeafHash if
// leafIdx does not address a leaf.
func Generate(tree *merkletree.MerkleTree, leafIdx merkletree.NodeIndex, opts ...Option) (*MerkleProof, error) {
	if len(tree.Leaves()) <= 1 {
		return nil, ErrInvalidSize()
	}

	treeArena := tree.Arena()
	leafNode, ok := treeArena.Get(leafIdx)
	if !ok || !leafNode.IsLeaf() {
		return nil, ErrExpectedLeafHash()
	}

	type siblingEvent struct {
		hash   []byte
		isLeft bool
	}

	var events []siblingEvent
	parentsCount := 0

	current := leafIdx
	for {
		node, _ := treeArena.Get(current)
		parentIdx, hasParent := node.Parent()
		if !hasParent {
			break
		}
		parentNode, _ := treeArena.Get(parentIdx)
		if parentNode.ChildCount() == 1 {
			parentsCount++
		} else {
			for _, c := range parentNode.Children() {
				if c == current {
					continue
				}
				siblingNode, ok := treeArena.Get(c)
				if !ok {
					return nil, errFromTree(arena.ErrInvalidNodeReference())
				}
				events = append(events, siblingEvent{
					hash:   siblingNode.Hash,
					isLeft: c.Index() < current.Index(),
				})
			}
		}
		current = parentIdx
	}

	proofArena := arena.New[*ProofNode, Index]()
	cursor := newProofNode(nil)
	cursorIdx := proofArena.Push(cursor)

	for i := 0; i < parentsCount; i++ {
		wrapper := newProofNode(nil)
		wrapperIdx := proofArena.Push(wrapper)
		wrapper.Push(cursorIdx)
		cursor.SetParent(wrapperIdx)
		cursor, cursorIdx = wrapper, wrapperIdx
	}

	for _, ev := range events {
		sibling := newProofNode(ev.hash)
		siblingIdx := proofArena.Push(sibling)

		parent := newProofNode(nil)
		parentIdx := proofArena.Push(parent)
		if ev.isLeft {
			parent.Push(siblingIdx)
			parent.Push(cursorIdx)
		} else {
			parent.Push(cursorIdx)
			parent.Push(siblingIdx)
		}
		sibling.SetParent(parentIdx)
		cursor.SetParent(parentIdx)
		cursor, cursorIdx = parent, parentIdx
	}

	proofArena.SetRoot(cursorIdx)

	rootHash, err := tree.TryRootHash()
	if err != nil {
		return nil, errFromTree(err)
	}

	p := &MerkleProof{
		arena:    proofArena,
		digest:   tree.Digest(),
		expected: rootHash,
		leaves:   []NodeIndex{0},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger != nil {
		p.logger.Debug("generated merkle proof", "nodes", p.Len(), "siblings", len(events))
	}
	return p, nil
}

// UpdateLeafHash writes h into the i-th proof leaf's hash slot and
// invalidates any cached validation result.
func (p *MerkleProof) UpdateLeafHash(i int, h []byte) error {
	if i < 0 || i >= len(p.leaves) {
		return arena.ErrIndexOutOfBounds(i, len(p.leaves))
	}
	node, ok := p.arena.Get(p.leaves[i])
	if !ok {
		return arena.ErrInvalidNodeReference()
	}
	node.Hash = h
	p.valid = nil
	return nil
}

// Len returns the number of nodes in the proof's arena.
func (p *MerkleProof) Len() int { return p.arena.Len() }

// Leaves returns the arena indices of the proof's listed leaves.
func (p *MerkleProof) Leaves() []NodeIndex {
	out := make([]NodeIndex, len(p.leaves))
	copy(out, p.leaves)
	return out
}

// Expected returns the root digest the proof is checked against.
func (p *MerkleProof) Expected() []byte { return p.expected }
