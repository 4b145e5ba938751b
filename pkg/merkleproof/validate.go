package merkleproof

import (
	"bytes"
	"fmt"
)

// maxRequeueFactor bounds the total number of times a branch node may be
// re-enqueued during Validate before it is treated as an internal error
// (a proof arena built by Generate never approaches this; it only guards
// against a malformed arena supplied via deserialization).
const maxRequeueFactor = 8

// Validate recomputes hashes bottom-up from the filled leaves and compares
// the result to the proof's expected root. A cached result from a prior
// call (not yet invalidated by UpdateLeafHash or Refresh) is returned
// directly.
//
// A leaf whose hash has not yet been filled blocks its ancestors from
// being hashed; an internal node is only hashed once every one of its
// children carries a hash, so the two ascending frontiers of a multi-leaf
// proof meet naturally at their lowest common ancestor.
func (p *MerkleProof) Validate() (bool, error) {
	if p.valid != nil {
		return *p.valid, nil
	}

	queue := make([]NodeIndex, len(p.leaves))
	copy(queue, p.leaves)

	requeueBudget := maxRequeueFactor * (p.arena.Len() + 1)
	requeues := 0

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]

		node, ok := p.arena.Get(idx)
		if !ok {
			return false, errFromTree(fmt.Errorf("merkleproof: validate: dangling index %d", idx.Index()))
		}

		if node.IsLeaf() {
			if node.Hash == nil {
				continue
			}
			if parent, ok := node.Parent(); ok {
				queue = append(queue, parent)
			}
			continue
		}

		children := node.Children()
		childHashes := make([][]byte, 0, len(children))
		ready := true
		for _, c := range children {
			childNode, ok := p.arena.Get(c)
			if !ok || childNode.Hash == nil {
				ready = false
				break
			}
			childHashes = append(childHashes, childNode.Hash)
		}
		if !ready {
			requeues++
			if requeues > requeueBudget {
				return false, errFromTree(fmt.Errorf("merkleproof: validate: exceeded re-enqueue budget, proof arena is malformed"))
			}
			queue = append(queue, idx)
			continue
		}

		node.Hash = p.digest.ConcatSlice(childHashes)
		if parent, ok := node.Parent(); ok {
			queue = append(queue, parent)
		}
	}

	root, err := p.arena.TryRoot()
	if err != nil {
		return false, errFromTree(err)
	}
	if root.Hash == nil {
		panic("merkleproof: validate completed with no root hash; proof arena invariant violated")
	}

	if bytes.Equal(root.Hash, p.expected) {
		ok := true
		p.valid = &ok
		return true, nil
	}
	if p.logger != nil {
		p.logger.Warn("proof rejected: root hash mismatch",
			"expected", fmt.Sprintf("%x", p.expected), "actual", fmt.Sprintf("%x", root.Hash))
	}
	return false, ErrRootHashMismatch(p.expected, root.Hash)
}
