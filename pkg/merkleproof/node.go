// Package merkleproof specializes pkg/arena into the minimal sibling-hash
// structure needed to recompute a Merkle tree's root from one chosen leaf:
// generation by the prover, in-place filling and bottom-up validation by
// the verifier, a reset operation, and a wire (de)serialization path.
package merkleproof

import (
	"encoding/hex"
	"fmt"

	"github.com/ocx/merkle/pkg/arena"
)

// Index is the node-addressing width used throughout this package.
type Index = uint32

// NodeIndex addresses a node within a MerkleProof's arena.
type NodeIndex = arena.NodeIndex[Index]

// ProofNode is a single proof node. Its hash is present for a sibling
// supplied by the prover, and for a leaf or internal node once the verifier
// has filled it (UpdateLeafHash) or Validate has computed it; it is absent
// otherwise, including on the root of a freshly generated proof. On the
// wire, the root node's hash slot carries the expected root hash instead.
type ProofNode struct {
	arena.Links[Index]
	Hash []byte
}

func newProofNode(hash []byte) *ProofNode {
	return &ProofNode{Hash: hash}
}

func (n *ProofNode) String() string {
	if n.Hash == nil {
		return "node(?)"
	}
	h := hex.EncodeToString(n.Hash)
	if len(h) > 12 {
		h = h[:12]
	}
	return fmt.Sprintf("node(%s)", h)
}
