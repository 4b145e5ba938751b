package merkletree

import (
	"encoding/json"

	"github.com/ocx/merkle/pkg/arena"
	"github.com/ocx/merkle/pkg/digest"
)

type wireNode struct {
	Parent   *uint32  `json:"parent,omitempty"`
	Children []uint32 `json:"children"`
	Payload  []byte   `json:"payload,omitempty"`
	Hash     []byte   `json:"hash"`
}

type wireTree struct {
	Root  *uint32    `json:"root"`
	Nodes []wireNode `json:"nodes"`
}

// MarshalJSON encodes the tree as {root, nodes}; each node carries its
// payload bytes when it is a leaf, or no payload field at all when it is
// an internal concat-hash node. NodeIndex values are encoded as their
// underlying unsigned integer.
func (t *MerkleTree) MarshalJSON() ([]byte, error) {
	rootIdx, hasRoot := t.arena.RootIndex()

	wt := wireTree{Nodes: make([]wireNode, t.arena.Len())}
	if hasRoot {
		r := uint32(rootIdx.Index())
		wt.Root = &r
	}

	for i := 0; i < t.arena.Len(); i++ {
		idx := arena.NewNodeIndex[Index](i)
		node, _ := t.arena.Get(idx)

		wn := wireNode{Children: make([]uint32, 0, node.ChildCount()), Hash: node.Hash}
		if parent, ok := node.Parent(); ok {
			pv := uint32(parent.Index())
			wn.Parent = &pv
		}
		for _, c := range node.Children() {
			wn.Children = append(wn.Children, uint32(c.Index()))
		}
		if node.IsLeafPayload() {
			wn.Payload = node.Payload
		}
		wt.Nodes[i] = wn
	}

	return json.Marshal(wt)
}

// Deserialize reconstructs a MerkleTree from wire bytes produced by
// MarshalJSON. The digest adapter must match the one the tree was built
// with; it is not carried on the wire.
func Deserialize(data []byte, adapter digest.Adapter) (*MerkleTree, error) {
	var wt wireTree
	if err := json.Unmarshal(data, &wt); err != nil {
		return nil, err
	}

	a := arena.New[*Node, Index]()
	nodes := make([]*Node, len(wt.Nodes))
	for i, wn := range wt.Nodes {
		nodes[i] = &Node{Payload: wn.Payload, Hash: wn.Hash}
		a.Push(nodes[i])
	}
	for i, wn := range wt.Nodes {
		if wn.Parent != nil {
			nodes[i].SetParent(arena.NewNodeIndex[Index](int(*wn.Parent)))
		}
		for _, c := range wn.Children {
			nodes[i].Push(arena.NewNodeIndex[Index](int(c)))
		}
	}
	if wt.Root != nil {
		a.SetRoot(arena.NewNodeIndex[Index](int(*wt.Root)))
	}

	return &MerkleTree{arena: a, digest: adapter}, nil
}
