package merkleproof

import (
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocx/merkle/pkg/arena"
	"github.com/ocx/merkle/pkg/digest"
	"github.com/ocx/merkle/pkg/merkletree"
)

func sha(b []byte) []byte {
	h := sha256.Sum256(b)
	return h[:]
}

func fourLeafTree(t *testing.T) *merkletree.MerkleTree {
	t.Helper()
	tr, err := merkletree.Build([][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d")}, digest.NewSHA256())
	require.NoError(t, err)
	return tr
}

// S3/S4: proof for leaf "c" (index 2 in a 4-leaf tree).
func TestGenerate_FillValidate_Succeeds(t *testing.T) {
	tr := fourLeafTree(t)
	leafIdx := tr.LeafIndices()[2]

	proof, err := Generate(tr, leafIdx)
	require.NoError(t, err)

	err = proof.UpdateLeafHash(0, sha([]byte("c")))
	require.NoError(t, err)

	ok, err := proof.Validate()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGenerate_WrongLeafHash_RootHashMismatch(t *testing.T) {
	tr := fourLeafTree(t)
	leafIdx := tr.LeafIndices()[2]

	proof, err := Generate(tr, leafIdx)
	require.NoError(t, err)

	err = proof.UpdateLeafHash(0, sha([]byte("not-c")))
	require.NoError(t, err)

	ok, err := proof.Validate()
	assert.False(t, ok)
	var proofErr *ProofError
	require.True(t, errors.As(err, &proofErr))
	assert.Equal(t, ProofErrorRootHashMismatch, proofErr.Kind)
}

// S5: a single-leaf tree cannot yield a proof.
func TestGenerate_SingleLeafTree_InvalidSize(t *testing.T) {
	tr, err := merkletree.Build([][]byte{[]byte("only")}, digest.NewSHA256())
	require.NoError(t, err)

	_, err = Generate(tr, tr.LeafIndices()[0])
	var proofErr *ProofError
	require.True(t, errors.As(err, &proofErr))
	assert.Equal(t, ProofErrorInvalidSize, proofErr.Kind)
}

func TestGenerate_NonLeafIndex_ExpectedLeafHash(t *testing.T) {
	tr := fourLeafTree(t)
	rootIdx, ok := tr.RootIndex()
	require.True(t, ok)

	_, err := Generate(tr, rootIdx)
	var proofErr *ProofError
	require.True(t, errors.As(err, &proofErr))
	assert.Equal(t, ProofErrorExpectedLeafHash, proofErr.Kind)
}

func TestRefresh_Idempotent(t *testing.T) {
	tr := fourLeafTree(t)
	leafIdx := tr.LeafIndices()[2]

	proof, err := Generate(tr, leafIdx)
	require.NoError(t, err)
	require.NoError(t, proof.UpdateLeafHash(0, sha([]byte("c"))))

	ok1, err := proof.Validate()
	require.NoError(t, err)
	require.True(t, ok1)

	proof.Refresh()
	proof.Refresh()

	require.NoError(t, proof.UpdateLeafHash(0, sha([]byte("c"))))
	ok2, err := proof.Validate()
	require.NoError(t, err)
	assert.Equal(t, ok1, ok2)
}

func TestEqual(t *testing.T) {
	tr := fourLeafTree(t)
	leafIdx := tr.LeafIndices()[2]

	p1, err := Generate(tr, leafIdx)
	require.NoError(t, err)
	p2, err := Generate(tr, leafIdx)
	require.NoError(t, err)

	assert.True(t, p1.Equal(p2))

	require.NoError(t, p1.UpdateLeafHash(0, sha([]byte("c"))))
	assert.False(t, p1.Equal(p2))
}

// S6: serialize/deserialize round trip preserves equality and the expected
// root, and the restored proof validates once its leaf hash is filled.
func TestSerializeRoundTrip(t *testing.T) {
	tr := fourLeafTree(t)
	leafIdx := tr.LeafIndices()[2]

	proof, err := Generate(tr, leafIdx)
	require.NoError(t, err)

	data, err := proof.MarshalJSON()
	require.NoError(t, err)

	restored, err := Deserialize(data, digest.NewSHA256())
	require.NoError(t, err)

	assert.True(t, proof.Equal(restored))
	assert.Equal(t, proof.Expected(), restored.Expected())

	require.NoError(t, restored.UpdateLeafHash(0, sha([]byte("c"))))
	ok, err := restored.Validate()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMarshalJSON_RejectsCachedValid(t *testing.T) {
	tr := fourLeafTree(t)
	leafIdx := tr.LeafIndices()[2]

	proof, err := Generate(tr, leafIdx)
	require.NoError(t, err)
	require.NoError(t, proof.UpdateLeafHash(0, sha([]byte("c"))))
	_, err = proof.Validate()
	require.NoError(t, err)

	_, err = proof.MarshalJSON()
	assert.ErrorIs(t, err, errCachedValid)
}

// S7: a proof for a tree of 1024 leaves carries exactly log2(1024) = 10
// sibling hashes.
func TestGenerate_LargeTree_SiblingCount(t *testing.T) {
	n := 1024
	payloads := make([][]byte, n)
	for i := range payloads {
		payloads[i] = []byte{byte(i), byte(i >> 8)}
	}
	tr, err := merkletree.Build(payloads, digest.NewSHA256())
	require.NoError(t, err)

	leafIdx := tr.LeafIndices()[777]
	proof, err := Generate(tr, leafIdx)
	require.NoError(t, err)

	siblingHashes := 0
	for i := 0; i < proof.Len(); i++ {
		node, ok := proof.arena.Get(arena.NewNodeIndex[Index](i))
		require.True(t, ok)
		if node.Hash != nil {
			siblingHashes++
		}
	}
	assert.Equal(t, 10, siblingHashes)
}
