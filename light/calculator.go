package light

import (
	"github.com/tm-lightclient/lightclient/crypto"
	"github.com/tm-lightclient/lightclient/types"
)

// VotingPowerCalculator tallies signed voting power in a commit against a
// validator set. See spec.md §4.2.
type VotingPowerCalculator interface {
	// TotalPowerOf returns the sum of voting power across vs.
	TotalPowerOf(vs *types.ValidatorSet) int64

	// VotingPowerIn iterates sh.Commit's signatures in validator order,
	// skipping absent/nil entries, verifying each for-block signature
	// cryptographically against vs, and summing the voting power of
	// validators whose signature verifies. A duplicate validator address
	// in the commit is a fatal (non-nil) error.
	VotingPowerIn(sh *types.SignedHeader, vs *types.ValidatorSet) (int64, error)
}

// DefaultVotingPowerCalculator is the production VotingPowerCalculator.
type DefaultVotingPowerCalculator struct{}

func (DefaultVotingPowerCalculator) TotalPowerOf(vs *types.ValidatorSet) int64 {
	return vs.TotalVotingPower()
}

func (DefaultVotingPowerCalculator) VotingPowerIn(sh *types.SignedHeader, vs *types.ValidatorSet) (int64, error) {
	seen := make(map[crypto.Address]struct{}, len(sh.Commit.Signatures))
	var sum int64
	for _, sig := range sh.Commit.Signatures {
		if sig.Absent() {
			continue
		}
		if _, dup := seen[sig.ValidatorAddress]; dup {
			return 0, ErrDuplicateValidator(sig.ValidatorAddress)
		}
		seen[sig.ValidatorAddress] = struct{}{}

		if !sig.ForBlock() {
			// Nil precommits contribute no voting power but are not duplicates.
			continue
		}

		val := vs.GetByAddress(sig.ValidatorAddress)
		if val == nil {
			// The validator isn't in this set; skip. This is the normal
			// case when the commit is tallied against the trusted next
			// validator set in the non-adjacent overlap check.
			continue
		}

		signBytes := crypto.PrecommitSignBytes(
			sh.Header.ChainID,
			sh.Commit.Height,
			sh.Commit.Round,
			crypto.CanonicalBlockID{
				Hash:         sh.Commit.BlockID.Hash.Bytes(),
				PartSetTotal: sh.Commit.BlockID.PartSetHeader.Total,
				PartSetHeader: sh.Commit.BlockID.PartSetHeader.Hash.Bytes(),
			},
			sig.Timestamp,
		)
		if !val.PubKey.VerifySignature(signBytes, sig.Signature) {
			return 0, ErrInvalidSignature(sig.ValidatorAddress)
		}

		sum += val.VotingPower
	}
	return sum, nil
}

// CommitValidator checks the structural invariants of a commit
// independent of cryptography. See spec.md §4.2.
type CommitValidator interface {
	Validate(sh *types.SignedHeader, vs *types.ValidatorSet) error
}

// DefaultCommitValidator is the production CommitValidator.
type DefaultCommitValidator struct{}

func (DefaultCommitValidator) Validate(sh *types.SignedHeader, vs *types.ValidatorSet) error {
	if len(sh.Commit.Signatures) != vs.Size() {
		return ErrInvalidCommit("signature count does not match validator set size")
	}

	seen := make(map[crypto.Address]struct{}, len(sh.Commit.Signatures))
	anyPresent := false
	for _, sig := range sh.Commit.Signatures {
		if sig.Absent() {
			continue
		}
		anyPresent = true
		if vs.GetByAddress(sig.ValidatorAddress) == nil {
			return ErrInvalidCommit("signature references an address not in the validator set")
		}
		if _, dup := seen[sig.ValidatorAddress]; dup {
			return ErrDuplicateValidator(sig.ValidatorAddress)
		}
		seen[sig.ValidatorAddress] = struct{}{}
	}
	if !anyPresent {
		return ErrMissingSignature()
	}
	return nil
}
