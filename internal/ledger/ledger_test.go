package ledger

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocx/merkle/pkg/digest"
)

func sha(b []byte) []byte {
	h := sha256.Sum256(b)
	return h[:]
}

func TestAppend_ProducesIncreasingRoots(t *testing.T) {
	l := New(nil, nil, digest.NewSHA256(), time.Minute)
	ctx := context.Background()

	_, root1, err := l.Append(ctx, []byte("entry-0"))
	require.NoError(t, err)
	assert.Equal(t, sha(sha([]byte("entry-0"))), root1)

	idx, root2, err := l.Append(ctx, []byte("entry-1"))
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.NotEqual(t, root1, root2)
}

func TestRoot_EmptyLedger(t *testing.T) {
	l := New(nil, nil, digest.NewSHA256(), time.Minute)
	_, err := l.Root(context.Background())
	assert.ErrorIs(t, err, errEmptyLedger)
}

func TestGenerateProof_RoundTrips(t *testing.T) {
	l := New(nil, nil, digest.NewSHA256(), time.Minute)
	ctx := context.Background()

	for _, entry := range []string{"a", "b", "c", "d"} {
		_, _, err := l.Append(ctx, []byte(entry))
		require.NoError(t, err)
	}

	proof, err := l.GenerateProof(ctx, 2)
	require.NoError(t, err)

	ok, err := proof.Validate()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGenerateProof_OutOfRange(t *testing.T) {
	l := New(nil, nil, digest.NewSHA256(), time.Minute)
	_, _, err := l.Append(context.Background(), []byte("only"))
	require.NoError(t, err)

	_, err = l.GenerateProof(context.Background(), 5)
	assert.Error(t, err)
}
