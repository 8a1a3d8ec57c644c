package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// HashSize is the length in bytes of a Hash.
const HashSize = sha1.Size

// Hash is the raw 20-byte SHA-1 digest identifying one object. The zero
// value never identifies a real object.
type Hash [HashSize]byte

// ZeroHash is the all-zero Hash.
var ZeroHash Hash

// HashBytes computes the SHA-1 digest of data.
func HashBytes(data []byte) Hash {
	return sha1.Sum(data)
}

// ParseHash converts a 40-character hex string into a Hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != 2*HashSize {
		return h, fmt.Errorf("parse hash %q: invalid length %d", s, len(s))
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return h, fmt.Errorf("parse hash %q: %w", s, err)
	}
	return h, nil
}

// String returns the lowercase hex form of h.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the first eight hex characters of h.
func (h Hash) Short() string {
	return h.String()[:8]
}

func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// Shard splits h into the fan-out directory name (first byte) and the file
// name (remaining bytes), both hex-encoded.
func (h Hash) Shard() (dir, file string) {
	s := h.String()
	return s[:2], s[2:]
}
