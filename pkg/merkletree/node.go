// Package merkletree specializes pkg/arena into a tree whose nodes carry a
// digest and, for leaves, the original payload bytes. Trees are built
// bottom-up from an ordered leaf sequence with a caller-supplied digest
// adapter; the resulting root and internal hashes are deterministic in the
// leaf order and the adapter.
package merkletree

import (
	"encoding/hex"
	"fmt"

	"github.com/ocx/merkle/pkg/arena"
)

// Index is the node-addressing width used throughout this package.
type Index = uint32

// NodeIndex addresses a node within a MerkleTree's arena.
type NodeIndex = arena.NodeIndex[Index]

// Node is a single tree node: a leaf carries Payload and its digest;
// an internal node carries a nil Payload and the concat-digest of its
// children.
type Node struct {
	arena.Links[Index]
	Payload []byte
	Hash    []byte
}

func newLeaf(payload, hash []byte) *Node {
	return &Node{Payload: payload, Hash: hash}
}

func newInternal(hash []byte) *Node {
	return &Node{Hash: hash}
}

// IsLeafPayload reports whether this node carries an original payload
// rather than being an internal concat-hash node.
func (n *Node) IsLeafPayload() bool {
	return n.Payload != nil
}

func (n *Node) String() string {
	h := hex.EncodeToString(n.Hash)
	if len(h) > 12 {
		h = h[:12]
	}
	if n.IsLeafPayload() {
		return fmt.Sprintf("leaf(%s)", h)
	}
	return fmt.Sprintf("node(%s)", h)
}
