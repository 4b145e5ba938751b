package merkleproof

import (
	"encoding/json"
	"errors"

	"github.com/ocx/merkle/pkg/arena"
	"github.com/ocx/merkle/pkg/digest"
)

// errCachedValid is returned by MarshalJSON when the proof carries a
// cached validation result, to prevent accidentally forwarding
// verifier-filled state to another party as if it were fresh prover
// output.
var errCachedValid = errors.New("merkleproof: refusing to serialize a proof with a cached validation result")

type wireNode struct {
	Parent   *uint32  `json:"parent,omitempty"`
	Children []uint32 `json:"children"`
	Hash     []byte   `json:"hash,omitempty"`
}

type wireProof struct {
	Root  *uint32    `json:"root"`
	Nodes []wireNode `json:"nodes"`
}

// MarshalJSON encodes the proof per the wire convention: the root
// ProofNode's hash slot carries the expected root hash (even though it is
// unset in memory until Validate fills it), every other node's hash slot
// is written as-is, field order is {root, nodes}, and NodeIndex values are
// encoded as their underlying unsigned integer.
//
// It refuses to encode a proof with a cached validation result (see
// errCachedValid) — only fresh prover output should cross the wire.
func (p *MerkleProof) MarshalJSON() ([]byte, error) {
	if p.valid != nil {
		return nil, errCachedValid
	}

	rootIdx, hasRoot := p.arena.RootIndex()

	wp := wireProof{Nodes: make([]wireNode, p.arena.Len())}
	if hasRoot {
		r := uint32(rootIdx.Index())
		wp.Root = &r
	}

	for i := 0; i < p.arena.Len(); i++ {
		idx := arena.NewNodeIndex[Index](i)
		node, _ := p.arena.Get(idx)

		wn := wireNode{Children: make([]uint32, 0, node.ChildCount())}
		if parent, ok := node.Parent(); ok {
			pv := uint32(parent.Index())
			wn.Parent = &pv
		}
		for _, c := range node.Children() {
			wn.Children = append(wn.Children, uint32(c.Index()))
		}

		wn.Hash = node.Hash
		if hasRoot && i == rootIdx.Index() {
			wn.Hash = p.expected
		}

		wp.Nodes[i] = wn
	}

	return json.Marshal(wp)
}

// Deserialize reconstructs a verifier-side MerkleProof from wire bytes
// produced by MarshalJSON. The digest adapter must be supplied by the
// caller and must match the one the prover built the proof with — the
// wire format intentionally carries no adapter identity, so tree and
// proof agree on a digest only by the caller's own configuration, never
// by an implicit global registry.
//
// expected is re-derived from the root node's hash slot, which is then
// cleared; the leaf list is rebuilt by scanning for leaf nodes whose hash
// is absent.
func Deserialize(data []byte, adapter digest.Adapter) (*MerkleProof, error) {
	var wp wireProof
	if err := json.Unmarshal(data, &wp); err != nil {
		return nil, err
	}

	a := arena.New[*ProofNode, Index]()
	nodes := make([]*ProofNode, len(wp.Nodes))
	for i, wn := range wp.Nodes {
		nodes[i] = newProofNode(wn.Hash)
		a.Push(nodes[i])
	}
	for i, wn := range wp.Nodes {
		if wn.Parent != nil {
			nodes[i].SetParent(arena.NewNodeIndex[Index](int(*wn.Parent)))
		}
		for _, c := range wn.Children {
			nodes[i].Push(arena.NewNodeIndex[Index](int(c)))
		}
	}

	var expected []byte
	if wp.Root != nil {
		rootIdx := arena.NewNodeIndex[Index](int(*wp.Root))
		a.SetRoot(rootIdx)
		rootNode, ok := a.Get(rootIdx)
		if !ok {
			return nil, arena.ErrInvalidNodeReference()
		}
		expected = rootNode.Hash
		rootNode.Hash = nil
	}

	var leaves []NodeIndex
	for i := 0; i < a.Len(); i++ {
		idx := arena.NewNodeIndex[Index](i)
		node, _ := a.Get(idx)
		if node.IsLeaf() && node.Hash == nil {
			leaves = append(leaves, idx)
		}
	}

	return &MerkleProof{
		arena:    a,
		digest:   adapter,
		expected: expected,
		leaves:   leaves,
	}, nil
}
