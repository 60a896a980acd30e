package hashing

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Digest is a 256-bit BLAKE3 hash over the exact bytes of one fetched asset
// representation. It is comparable and usable as a map key.
type Digest [32]byte

// Sum hashes data. Deterministic and defined for empty input (the BLAKE3
// digest of zero bytes). Callers must not hash absent data; a failed fetch
// is excluded from grouping, never hashed as empty.
func Sum(data []byte) Digest {
	return blake3.Sum256(data)
}

// String returns the lowercase hex encoding of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Parse decodes a full 64-character hex digest.
func Parse(s string) (Digest, error) {
	var d Digest
	if len(s) != hex.EncodedLen(len(d)) {
		return Digest{}, fmt.Errorf("digest must be %d hex characters, got %d", hex.EncodedLen(len(d)), len(s))
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return Digest{}, fmt.Errorf("decode digest: %w", err)
	}
	return d, nil
}
