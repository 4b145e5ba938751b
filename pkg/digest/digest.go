// Package digest abstracts the cryptographic hash function a Merkle tree is
// built over. Concrete digest implementations (SHA-2, SHA-3, BLAKE2b, ...)
// are treated as an injected capability: the tree and proof packages never
// choose one for a caller, they only agree on the Adapter interface.
package digest

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Adapter abstracts a stateless cryptographic digest function.
//
// Implementations MUST satisfy: Concat(a, b) == OneShot(a‖b) and
// ConcatSlice([a, b, ..., z]) == OneShot(a‖b‖...‖z), where ‖ denotes byte
// concatenation. An Adapter is cheap to copy and safe for concurrent use
// by multiple goroutines, since it carries no mutable state.
type Adapter interface {
	// OneShot hashes a single buffer and returns the digest.
	OneShot(data []byte) []byte

	// Concat hashes the concatenation of exactly two child digests.
	Concat(left, right []byte) []byte

	// ConcatSlice hashes the concatenation of two or more child digests,
	// in order.
	ConcatSlice(children [][]byte) []byte

	// OutputSize returns the fixed digest length in bytes.
	OutputSize() int

	// Name identifies the digest algorithm, e.g. "sha256".
	Name() string
}

// Algorithm names recognized by New.
const (
	SHA256     = "sha256"
	SHA512     = "sha512"
	SHA3_256   = "sha3-256"
	Blake2b256 = "blake2b-256"
)

// New constructs the Adapter named by algorithm. It returns an error for
// unrecognized names so that callers configuring a digest from a string
// (e.g. from YAML) get a clear failure instead of a silent default.
func New(algorithm string) (Adapter, error) {
	switch algorithm {
	case SHA256:
		return NewSHA256(), nil
	case SHA512:
		return NewSHA512(), nil
	case SHA3_256:
		return NewSHA3_256(), nil
	case Blake2b256:
		return NewBlake2b256(), nil
	default:
		return nil, fmt.Errorf("digest: unsupported algorithm %q (supported: %s, %s, %s, %s)",
			algorithm, SHA256, SHA512, SHA3_256, Blake2b256)
	}
}

type oneShotFunc func(data []byte) []byte

// genericAdapter implements Adapter in terms of a single one-shot hash
// function, since Concat and ConcatSlice are both just OneShot over a
// concatenated buffer for every digest this package supports.
type genericAdapter struct {
	name    string
	size    int
	oneShot oneShotFunc
}

func (a *genericAdapter) OneShot(data []byte) []byte {
	return a.oneShot(data)
}

func (a *genericAdapter) Concat(left, right []byte) []byte {
	buf := make([]byte, 0, len(left)+len(right))
	buf = append(buf, left...)
	buf = append(buf, right...)
	return a.oneShot(buf)
}

func (a *genericAdapter) ConcatSlice(children [][]byte) []byte {
	total := 0
	for _, c := range children {
		total += len(c)
	}
	buf := make([]byte, 0, total)
	for _, c := range children {
		buf = append(buf, c...)
	}
	return a.oneShot(buf)
}

func (a *genericAdapter) OutputSize() int {
	return a.size
}

func (a *genericAdapter) Name() string {
	return a.name
}

// NewSHA256 returns an Adapter backed by crypto/sha256.
func NewSHA256() Adapter {
	return &genericAdapter{
		name: SHA256,
		size: sha256.Size,
		oneShot: func(data []byte) []byte {
			sum := sha256.Sum256(data)
			return sum[:]
		},
	}
}

// NewSHA512 returns an Adapter backed by crypto/sha512.
func NewSHA512() Adapter {
	return &genericAdapter{
		name: SHA512,
		size: sha512.Size,
		oneShot: func(data []byte) []byte {
			sum := sha512.Sum512(data)
			return sum[:]
		},
	}
}

// NewSHA3_256 returns an Adapter backed by golang.org/x/crypto/sha3.
func NewSHA3_256() Adapter {
	return &genericAdapter{
		name: SHA3_256,
		size: 32,
		oneShot: func(data []byte) []byte {
			sum := sha3.Sum256(data)
			return sum[:]
		},
	}
}

// NewBlake2b256 returns an Adapter backed by golang.org/x/crypto/blake2b.
func NewBlake2b256() Adapter {
	return &genericAdapter{
		name: Blake2b256,
		size: blake2b.Size256,
		oneShot: func(data []byte) []byte {
			sum := blake2b.Sum256(data)
			return sum[:]
		},
	}
}
