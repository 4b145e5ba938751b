package merkleproof

// Refresh clears every proof node's hash reachable by walking up from the
// listed leaves, and drops the cached validation result. Idempotent.
func (p *MerkleProof) Refresh() {
	seen := make(map[NodeIndex]bool)
	queue := make([]NodeIndex, len(p.leaves))
	copy(queue, p.leaves)

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		if seen[idx] {
			continue
		}
		seen[idx] = true

		node, ok := p.arena.Get(idx)
		if !ok {
			continue
		}
		node.Hash = nil
		if parent, ok := node.Parent(); ok {
			queue = append(queue, parent)
		}
	}

	p.valid = nil
}
