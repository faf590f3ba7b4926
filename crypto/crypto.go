// Package crypto wraps the ed25519 signature scheme used by validators and
// the canonical vote encoding that their commits sign over.
//
// Grounded on lite/providers/db/db.go's use of
// github.com/tendermint/go-amino + crypto/encoding/amino in the teacher:
// we keep amino as the binary encoding for both persistence and the
// canonical sign-bytes described in spec.md §6, and use
// golang.org/x/crypto/ed25519 for the actual signature scheme.
package crypto

import (
	"crypto/sha256"
	"time"

	amino "github.com/tendermint/go-amino"
	"golang.org/x/crypto/ed25519"
)

// AddressSize is the length in bytes of a validator address.
const AddressSize = 20

// Address is the identifier deterministically derived from a public key.
type Address [AddressSize]byte

// PubKey is an ed25519 public key.
type PubKey []byte

// PrivKey is an ed25519 private key, used only by test fixtures and
// data-generation tooling (out of scope per spec.md §1, but needed to
// build test SignedHeaders).
type PrivKey []byte

var cdc = amino.NewCodec()

// GenPrivKey generates a new ed25519 keypair deterministically from seed
// when seed is exactly ed25519.SeedSize (32) bytes long, and randomly
// otherwise. Intended for tests and fixture generation.
func GenPrivKey(seed []byte) PrivKey {
	if len(seed) == ed25519.SeedSize {
		return PrivKey(ed25519.NewKeyFromSeed(seed))
	}
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return PrivKey(priv)
}

// PubKey returns the public half of the key.
func (pk PrivKey) PubKey() PubKey {
	return PubKey(ed25519.PrivateKey(pk).Public().(ed25519.PublicKey))
}

// Sign produces a detached signature over msg.
func (pk PrivKey) Sign(msg []byte) []byte {
	return ed25519.Sign(ed25519.PrivateKey(pk), msg)
}

// Address derives the validator address: the first AddressSize bytes of
// SHA-256(pubkey), per spec.md §3 ("derived deterministically from
// public_key").
func (pub PubKey) Address() Address {
	sum := sha256.Sum256(pub)
	var addr Address
	copy(addr[:], sum[:AddressSize])
	return addr
}

// VerifySignature checks sig against msg using this public key.
func (pub PubKey) VerifySignature(msg, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), msg, sig)
}

// CanonicalBlockID mirrors the block_id field of the canonical precommit
// sign-bytes: a hash plus a part-set-header total/hash pair.
type CanonicalBlockID struct {
	Hash          []byte `json:"hash"`
	PartSetTotal  uint32 `json:"part_set_total"`
	PartSetHeader []byte `json:"part_set_hash"`
}

// canonicalVote is the amino-encodable shape of spec.md §6's canonical
// sign-bytes: type=Precommit, height, round, block_id, timestamp, chain_id.
type canonicalVote struct {
	Type      byte              `json:"type"`
	Height    int64             `json:"height"`
	Round     int32             `json:"round"`
	BlockID   CanonicalBlockID  `json:"block_id"`
	Timestamp time.Time         `json:"timestamp"`
	ChainID   string            `json:"chain_id"`
}

// PrecommitSignBytes is the amino length-prefixed encoding of a
// precommit vote's fields (type, height, round, block ID, timestamp,
// chain ID). Height and round are amino varints and the part-set header
// is flattened into the block ID, so the bytes are not those of a
// protobuf canonical vote with sfixed64 height and round. Every for-block
// commit signature is validated against this encoding.
func PrecommitSignBytes(chainID string, height int64, round int32, blockID CanonicalBlockID, ts time.Time) []byte {
	cv := canonicalVote{
		Type:      precommitType,
		Height:    height,
		Round:     round,
		BlockID:   blockID,
		Timestamp: ts,
		ChainID:   chainID,
	}
	bz, err := cdc.MarshalBinaryLengthPrefixed(cv)
	if err != nil {
		panic(err)
	}
	return bz
}

// precommitType is the consensus message type tag for a precommit vote.
const precommitType = 0x02
