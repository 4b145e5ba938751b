package merkleproof

import "bytes"

// Equal reports whether p and other contain equal node sequences in equal
// order and share an expected root hash.
func (p *MerkleProof) Equal(other *MerkleProof) bool {
	if !bytes.Equal(p.expected, other.expected) {
		return false
	}
	if len(p.leaves) != len(other.leaves) {
		return false
	}
	for i := range p.leaves {
		if p.leaves[i] != other.leaves[i] {
			return false
		}
	}
	return p.arena.Equal(other.arena, proofNodeEqual)
}

func proofNodeEqual(a, b *ProofNode) bool {
	if !bytes.Equal(a.Hash, b.Hash) {
		return false
	}
	if len(a.Children()) != len(b.Children()) {
		return false
	}
	for i := range a.Children() {
		if a.Children()[i] != b.Children()[i] {
			return false
		}
	}
	ap, aok := a.Parent()
	bp, bok := b.Parent()
	return aok == bok && (!aok || ap == bp)
}
