// Package ledger persists an ordered append-only log of entries as a
// Merkle tree, generating and caching inclusion proofs on demand. It is
// the demonstration consumer of pkg/merkletree and pkg/merkleproof: a
// full tree rebuild on every append, same as a from-scratch
// recalculation, traded for the simplicity of never needing incremental
// tree surgery.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ocx/merkle/pkg/digest"
	"github.com/ocx/merkle/pkg/merkleproof"
	"github.com/ocx/merkle/pkg/merkletree"
)

// Ledger maintains the ordered entry log and the Merkle tree built over
// it. Appends require exclusive access; proof generation and root reads
// only need a read lock, mirroring the single-writer/many-reader
// discipline pkg/arena documents for a shared arena.
type Ledger struct {
	mu sync.RWMutex

	entries [][]byte
	tree    *merkletree.MerkleTree
	digest  digest.Adapter

	db       *sql.DB
	cache    *redis.Client
	cacheTTL time.Duration
}

// New constructs a Ledger backed by db for entry persistence and cache
// for proof caching (cache may be nil to disable caching).
func New(db *sql.DB, cache *redis.Client, adapter digest.Adapter, cacheTTL time.Duration) *Ledger {
	return &Ledger{
		digest:   adapter,
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Append persists payload as the next ledger entry and rebuilds the
// Merkle tree over every entry seen so far. It returns the new entry's
// leaf index and the tree's new root hash.
func (l *Ledger) Append(ctx context.Context, payload []byte) (int, []byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db != nil {
		_, err := l.db.ExecContext(ctx,
			`INSERT INTO ledger_entries (position, payload) VALUES ($1, $2)`,
			len(l.entries), payload)
		if err != nil {
			return 0, nil, fmt.Errorf("ledger: persist entry: %w", err)
		}
	}

	l.entries = append(l.entries, payload)
	tree, err := merkletree.Build(l.entries, l.digest)
	if err != nil {
		return 0, nil, fmt.Errorf("ledger: rebuild tree: %w", err)
	}
	l.tree = tree

	root, err := tree.TryRootHash()
	if err != nil {
		return 0, nil, err
	}
	return len(l.entries) - 1, root, nil
}

// Root returns the current root hash, or an error if the ledger is empty.
func (l *Ledger) Root(ctx context.Context) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.tree == nil {
		return nil, errEmptyLedger
	}
	return l.tree.TryRootHash()
}

// GenerateProof returns an inclusion proof for the entry at leafIndex,
// filled with that entry's leaf hash. A cache hit returns a deserialized
// copy of a previously generated proof; a miss generates fresh and caches
// the wire form before returning.
func (l *Ledger) GenerateProof(ctx context.Context, leafIndex int) (*merkleproof.MerkleProof, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.tree == nil {
		return nil, errEmptyLedger
	}
	leaves := l.tree.LeafIndices()
	if leafIndex < 0 || leafIndex >= len(leaves) {
		return nil, fmt.Errorf("ledger: leaf index %d out of range [0, %d)", leafIndex, len(leaves))
	}
	leafIdx := leaves[leafIndex]
	leafNode, _ := l.tree.Get(leafIdx)

	cacheKey := l.proofCacheKey(leafIndex)
	if l.cache != nil {
		if cached, err := l.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			if proof, err := merkleproof.Deserialize(cached, l.digest); err == nil {
				if err := proof.UpdateLeafHash(0, leafNode.Hash); err == nil {
					return proof, nil
				}
			}
		}
	}

	proof, err := merkleproof.Generate(l.tree, leafIdx)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if data, err := proof.MarshalJSON(); err == nil {
			l.cache.Set(ctx, cacheKey, data, l.cacheTTL)
		}
	}

	if err := proof.UpdateLeafHash(0, leafNode.Hash); err != nil {
		return nil, err
	}
	return proof, nil
}

func (l *Ledger) proofCacheKey(leafIndex int) string {
	return fmt.Sprintf("merkle:proof:%s:%d", l.digest.Name(), leafIndex)
}
