package types

import (
	"time"

	"github.com/pkg/errors"
)

// LightBlock is the unit of light-client work: a signed header plus the
// two validator sets relevant to skipping verification, per spec.md §3.
type LightBlock struct {
	SignedHeader   *SignedHeader `json:"signed_header"`
	ValidatorSet   *ValidatorSet `json:"validators"`
	// NextValidatorSet is the validator set active at height+1. It may be
	// nil, in which case the next-validators hash check is skipped; the
	// light client stores blocks as fetched and does not fill it in.
	NextValidatorSet *ValidatorSet `json:"next_validators"`

	// ProviderID identifies which peer this block was retrieved from, for
	// the JSON wire form described in spec.md §6.
	ProviderID string `json:"provider"`
}

// Height is a convenience accessor for the underlying header height.
func (lb *LightBlock) Height() Height {
	if lb == nil || lb.SignedHeader == nil || lb.SignedHeader.Header == nil {
		return 0
	}
	return lb.SignedHeader.Header.Height
}

// Time is a convenience accessor for the underlying header time.
func (lb *LightBlock) Time() time.Time {
	if lb == nil || lb.SignedHeader == nil || lb.SignedHeader.Header == nil {
		return time.Time{}
	}
	return lb.SignedHeader.Header.Time
}

// Hash is a convenience accessor for the underlying header hash.
func (lb *LightBlock) Hash() Hash {
	if lb == nil || lb.SignedHeader == nil {
		return EmptyHash()
	}
	return lb.SignedHeader.Hash()
}

// ValidateBasic checks the LightBlock invariants from spec.md §3:
// signed_header.header.validators_hash == validators.hash(); when
// present, next_validators.hash() == signed_header.header.next_validators_hash.
func (lb *LightBlock) ValidateBasic(chainID string) error {
	if lb == nil || lb.SignedHeader == nil || lb.ValidatorSet == nil {
		return errors.New("incomplete light block")
	}
	if err := lb.SignedHeader.ValidateBasic(chainID); err != nil {
		return errors.Wrap(err, "invalid signed header")
	}
	if !lb.SignedHeader.Header.ValidatorsHash.Equal(lb.ValidatorSet.Hash()) {
		return errors.Errorf("validators hash mismatch: header has %X, set hashes to %X",
			lb.SignedHeader.Header.ValidatorsHash, lb.ValidatorSet.Hash())
	}
	if lb.NextValidatorSet != nil {
		if !lb.SignedHeader.Header.NextValidatorsHash.Equal(lb.NextValidatorSet.Hash()) {
			return errors.Errorf("next validators hash mismatch: header has %X, set hashes to %X",
				lb.SignedHeader.Header.NextValidatorsHash, lb.NextValidatorSet.Hash())
		}
	}
	return nil
}
