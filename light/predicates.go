package light

import (
	"time"

	"github.com/tm-lightclient/lightclient/types"
)

// Predicates is a stateless collection of pure boolean checks on headers,
// validator sets, commits and times, per spec.md §4.1. Each function
// returns nil on success or a typed failure from errors.go.
//
// These are free functions rather than methods on a struct: they hold no
// state and need none, matching the teacher's preference for small
// top-level helpers over ceremony (lite/client.go's compareVotingPowers).

// validatorSetsMatch succeeds iff lb.ValidatorSet.Hash() matches the
// header's recorded validators_hash.
func validatorSetsMatch(lb *types.LightBlock) error {
	got := lb.SignedHeader.Header.ValidatorsHash
	want := lb.ValidatorSet.Hash()
	if !got.Equal(want) {
		return ErrInvalidValidatorSet(got, want)
	}
	return nil
}

// nextValidatorsMatch succeeds iff lb.NextValidatorSet is absent, or its
// hash matches the header's recorded next_validators_hash.
func nextValidatorsMatch(lb *types.LightBlock) error {
	if lb.NextValidatorSet == nil {
		return nil
	}
	got := lb.SignedHeader.Header.NextValidatorsHash
	want := lb.NextValidatorSet.Hash()
	if !got.Equal(want) {
		return ErrInvalidNextValidatorSet(got, want)
	}
	return nil
}

// headerMatchesCommit succeeds iff the commit's block ID hash equals the
// header's own hash.
func headerMatchesCommit(sh *types.SignedHeader) error {
	headerHash := sh.Header.Hash()
	commitHash := sh.Commit.BlockID.Hash
	if !headerHash.Equal(commitHash) {
		return ErrInvalidCommitValue(headerHash, commitHash)
	}
	return nil
}

// validCommit structurally validates sh.Commit against validators through
// cv. It does not check signatures; those are verified cryptographically
// later, when the voting-power calculator tallies the commit.
func validCommit(sh *types.SignedHeader, validators *types.ValidatorSet, cv CommitValidator) error {
	if err := cv.Validate(sh, validators); err != nil {
		return ErrInvalidCommit(err.Error())
	}
	return nil
}

// isWithinTrustPeriod succeeds iff trustedTime + trustingPeriod > now.
func isWithinTrustPeriod(trustedTime time.Time, trustingPeriod time.Duration, now time.Time) error {
	expiresAt := trustedTime.Add(trustingPeriod)
	if !expiresAt.After(now) {
		return ErrNotWithinTrustPeriod(expiresAt.UnixNano(), now.UnixNano())
	}
	return nil
}

// isHeaderFromPast succeeds iff headerTime < now + clockDrift.
func isHeaderFromPast(headerTime time.Time, clockDrift time.Duration, now time.Time) error {
	limit := now.Add(clockDrift)
	if !headerTime.Before(limit) {
		return ErrHeaderFromTheFuture(headerTime.UnixNano(), limit.UnixNano())
	}
	return nil
}

// isMonotonicBftTime succeeds iff untrustedTime > trustedTime.
func isMonotonicBftTime(untrustedTime, trustedTime time.Time) error {
	if !untrustedTime.After(trustedTime) {
		return ErrNonMonotonicBftTime(untrustedTime.UnixNano(), trustedTime.UnixNano())
	}
	return nil
}

// isMatchingChainID succeeds iff the two chain IDs are byte-equal.
func isMatchingChainID(untrusted, trusted string) error {
	if untrusted != trusted {
		return ErrChainIDMismatch(untrusted, trusted)
	}
	return nil
}

// validNextValidatorSet succeeds iff untrusted's validators_hash matches
// trusted's recorded next_validators_hash. Only meaningful when untrusted
// is the immediate successor of trusted; callers gate on that themselves.
func validNextValidatorSet(untrustedValidatorsHash, trustedNextValidatorsHash types.Hash) error {
	if !untrustedValidatorsHash.Equal(trustedNextValidatorsHash) {
		return ErrInvalidNextValidatorSet(untrustedValidatorsHash, trustedNextValidatorsHash)
	}
	return nil
}

// isMonotonicHeight succeeds iff untrustedHeight > trustedHeight.
func isMonotonicHeight(untrustedHeight, trustedHeight types.Height) error {
	if untrustedHeight <= trustedHeight {
		return ErrNonIncreasingHeight(untrustedHeight, trustedHeight)
	}
	return nil
}

// hasSufficientSignersOverlap succeeds iff the tallied for-block voting
// power in sh.Commit against validators strictly exceeds 2/3 of
// validators' total power.
func hasSufficientSignersOverlap(sh *types.SignedHeader, validators *types.ValidatorSet, calc VotingPowerCalculator) error {
	total := calc.TotalPowerOf(validators)
	signed, err := calc.VotingPowerIn(sh, validators)
	if err != nil {
		return ErrInvalidCommit(err.Error())
	}
	twoThirds := types.TrustThreshold{Numerator: 2, Denominator: 3}
	if !twoThirds.ExceededBy(signed, total) {
		return ErrInsufficientSignersOverlap(VotingPowerTally{SignedPower: signed, TotalPower: total, Threshold: twoThirds})
	}
	return nil
}

// hasSufficientValidatorsAndSignersOverlap performs the two conjoined
// checks described in spec.md §4.1 for a non-adjacent untrusted height:
// the power of trustedNextValidators members that also signed
// sh.Commit must exceed threshold*total(trustedNextValidators), and the
// usual hasSufficientSignersOverlap against untrustedValidators must hold.
func hasSufficientValidatorsAndSignersOverlap(
	sh *types.SignedHeader,
	trustedNextValidators *types.ValidatorSet,
	threshold types.TrustThreshold,
	untrustedValidators *types.ValidatorSet,
	calc VotingPowerCalculator,
) error {
	total := calc.TotalPowerOf(trustedNextValidators)
	signed, err := calc.VotingPowerIn(sh, trustedNextValidators)
	if err != nil {
		return ErrInvalidCommit(err.Error())
	}
	if !threshold.ExceededBy(signed, total) {
		return ErrInsufficientSignersOverlap(VotingPowerTally{SignedPower: signed, TotalPower: total, Threshold: threshold})
	}

	return hasSufficientSignersOverlap(sh, untrustedValidators, calc)
}
