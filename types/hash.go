package types

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	amino "github.com/tendermint/go-amino"
)

// cdc is the amino codec used to encode values before hashing and to
// (de)serialize LightBlocks for the optional persistent store, matching
// the teacher's lite/providers/db/db.go codec setup.
var cdc = amino.NewCodec()

// HashSize is the length in bytes of a Hash, per spec.md §3.
const HashSize = sha256.Size

// Hash is a 32-byte digest. The zero value is the "empty" sentinel hash.
type Hash [HashSize]byte

// EmptyHash returns the sentinel empty hash.
func EmptyHash() Hash { return Hash{} }

// IsEmpty reports whether h is the sentinel empty hash.
func (h Hash) IsEmpty() bool { return h == Hash{} }

// Equal reports whether two hashes are byte-for-byte identical.
func (h Hash) Equal(other Hash) bool { return h == other }

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte {
	out := make([]byte, HashSize)
	copy(out, h[:])
	return out
}

// String renders the hash as upper-hex, per spec.md §6's serialisation rule.
func (h Hash) String() string {
	return strings.ToUpper(hex.EncodeToString(h[:]))
}

// HashFromBytes truncates-or-pads b into a Hash. Used when decoding
// variable-length digests from the wire.
func HashFromBytes(b []byte) Hash {
	var h Hash
	copy(h[:], b)
	return h
}

func hashBytes(bz []byte) Hash {
	return sha256.Sum256(bz)
}
