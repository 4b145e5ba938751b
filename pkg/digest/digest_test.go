package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapters_ConcatMatchesOneShot(t *testing.T) {
	adapters := map[string]Adapter{
		SHA256:     NewSHA256(),
		SHA512:     NewSHA512(),
		SHA3_256:   NewSHA3_256(),
		Blake2b256: NewBlake2b256(),
	}

	left := []byte("left-child-digest")
	right := []byte("right-child-digest")

	for name, a := range adapters {
		t.Run(name, func(t *testing.T) {
			want := a.OneShot(append(append([]byte{}, left...), right...))
			got := a.Concat(left, right)
			assert.Equal(t, want, got, "Concat must equal OneShot(left || right)")
			assert.Len(t, got, a.OutputSize())
		})
	}
}

func TestAdapters_ConcatSliceMatchesOneShot(t *testing.T) {
	a := NewSHA256()
	parts := [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d")}

	var flat []byte
	for _, p := range parts {
		flat = append(flat, p...)
	}

	assert.Equal(t, a.OneShot(flat), a.ConcatSlice(parts))
}

func TestAdapters_OutputSize(t *testing.T) {
	assert.Equal(t, 32, NewSHA256().OutputSize())
	assert.Equal(t, 64, NewSHA512().OutputSize())
	assert.Equal(t, 32, NewSHA3_256().OutputSize())
	assert.Equal(t, 32, NewBlake2b256().OutputSize())
}

func TestNew(t *testing.T) {
	a, err := New(SHA256)
	require.NoError(t, err)
	assert.Equal(t, SHA256, a.Name())

	_, err = New("not-a-real-digest")
	require.Error(t, err)
}

func TestAdapters_Deterministic(t *testing.T) {
	a := NewSHA256()
	data := []byte("payload")
	assert.Equal(t, a.OneShot(data), a.OneShot(data))
}
