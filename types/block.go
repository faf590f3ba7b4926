package types

import (
	"time"

	"github.com/pkg/errors"

	"github.com/tm-lightclient/lightclient/crypto"
)

// Height identifies a block's position within a chain. Monotonic within
// a chain, per spec.md §3.
type Height = int64

// PartSetHeader references the total and Merkle root of a block's part set.
type PartSetHeader struct {
	Total uint32 `json:"total"`
	Hash  Hash   `json:"hash"`
}

// BlockID uniquely identifies a block by its header hash and part set.
type BlockID struct {
	Hash          Hash          `json:"hash"`
	PartSetHeader PartSetHeader `json:"parts"`
}

// IsZero reports whether id references no block at all.
func (id BlockID) IsZero() bool {
	return id.Hash.IsEmpty() && id.PartSetHeader.Total == 0 && id.PartSetHeader.Hash.IsEmpty()
}

// Header is a block header, per spec.md §3.
type Header struct {
	ChainID string  `json:"chain_id"`
	Height  Height  `json:"height"`
	Time    time.Time `json:"time"`

	LastBlockID BlockID `json:"last_block_id"`

	ValidatorsHash     Hash `json:"validators_hash"`
	NextValidatorsHash Hash `json:"next_validators_hash"`

	ConsensusHash   Hash `json:"consensus_hash"`
	AppHash         Hash `json:"app_hash"`
	LastResultsHash Hash `json:"last_results_hash"`

	ProposerAddress crypto.Address `json:"proposer_address"`
}

// ValidateBasic rejects structurally empty headers rather than carrying
// Default-valued fields, per spec.md §9's note on app_hash/proposer_address.
func (h *Header) ValidateBasic() error {
	if h == nil {
		return errors.New("nil header")
	}
	if len(h.ChainID) == 0 {
		return errors.New("empty chain ID")
	}
	if h.Height <= 0 {
		return errors.Errorf("non-positive height %d", h.Height)
	}
	if h.Time.IsZero() {
		return errors.New("zero block time")
	}
	if h.ValidatorsHash.IsEmpty() {
		return errors.New("empty validators hash")
	}
	if h.NextValidatorsHash.IsEmpty() {
		return errors.New("empty next validators hash")
	}
	if h.AppHash.IsEmpty() {
		return errors.New("empty app hash")
	}
	if h.ProposerAddress == (crypto.Address{}) {
		return errors.New("empty proposer address")
	}
	return nil
}

// Hash returns this header's identity hash: the SHA-256 of its
// amino-encoded form, reusing the codec the teacher persists headers
// with (lite/providers/db/db.go).
func (h *Header) Hash() Hash {
	if h == nil {
		return EmptyHash()
	}
	bz, err := cdc.MarshalBinaryBare(h)
	if err != nil {
		panic(errors.Wrap(err, "marshalling header for hashing"))
	}
	return hashBytes(bz)
}
