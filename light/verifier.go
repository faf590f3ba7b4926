package light

import (
	"time"

	"github.com/tm-lightclient/lightclient/types"
)

// Options carries the tunable knobs a Verifier needs, per spec.md §4.3
// and §6's configuration knobs.
type Options struct {
	TrustThreshold types.TrustThreshold
	TrustingPeriod time.Duration
	ClockDrift     time.Duration
}

// DefaultOptions mirrors spec.md §6's defaults.
func DefaultOptions() Options {
	return Options{
		TrustThreshold: types.DefaultTrustThreshold,
		TrustingPeriod: 2 * 7 * 24 * time.Hour,
		ClockDrift:     5 * time.Second,
	}
}

// TrustedState is the subset of a trusted LightBlock the verifier needs.
type TrustedState struct {
	ChainID            string
	Height             types.Height
	HeaderTime         time.Time
	NextValidators     *types.ValidatorSet
	NextValidatorsHash types.Hash
}

// TrustedStateFrom extracts a TrustedState from a LightBlock.
func TrustedStateFrom(lb *types.LightBlock) TrustedState {
	return TrustedState{
		ChainID:            lb.SignedHeader.Header.ChainID,
		Height:             lb.Height(),
		HeaderTime:         lb.Time(),
		NextValidators:     lb.NextValidatorSet,
		NextValidatorsHash: lb.SignedHeader.Header.NextValidatorsHash,
	}
}

// Verdict is the three-valued result of verification, per spec.md §4.3.
type Verdict int

const (
	// Success means the untrusted block is now verified.
	Success Verdict = iota
	// NotEnoughTrust means bisection should narrow the gap further.
	NotEnoughTrust
	// Invalid means the block is terminally rejected.
	Invalid
)

func (v Verdict) String() string {
	switch v {
	case Success:
		return "Success"
	case NotEnoughTrust:
		return "NotEnoughTrust"
	case Invalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// VerificationResult bundles a Verdict with its supporting detail: a
// VotingPowerTally for NotEnoughTrust, or the causing error for Invalid.
type VerificationResult struct {
	Verdict Verdict
	Tally   VotingPowerTally
	Err     error
}

// Verifier is a pure function from (trusted, untrusted, options, now) to
// a Verdict, per spec.md §4.3. It composes Predicates, a
// VotingPowerCalculator and a CommitValidator.
type Verifier struct {
	Calculator VotingPowerCalculator
	Commits    CommitValidator
}

// NewVerifier builds a Verifier with the production calculator and
// commit validator.
func NewVerifier() *Verifier {
	return &Verifier{
		Calculator: DefaultVotingPowerCalculator{},
		Commits:    DefaultCommitValidator{},
	}
}

// VerifyUpdate verifies a header received as part of ordinary bisection
// or sequential verification: all four predicate groups from spec.md
// §4.3 run in order, including the "header is from past" check.
func (v *Verifier) VerifyUpdate(trusted TrustedState, untrusted *types.LightBlock, opts Options, now time.Time) VerificationResult {
	return v.verify(trusted, untrusted, opts, now, true)
}

// VerifyMisbehaviour verifies a header that is being examined as
// potential evidence of an attack: identical to VerifyUpdate except the
// "header is from past" check is skipped, per spec.md §4.3, so that
// lunatic headers whose claimed time is in the future can still be
// evaluated for overlap. light/evidence's bifurcation walk deliberately
// does not call this: examine.rs's verify_skipping re-verifies a witness's
// blocks with the ordinary past-check intact, since those blocks arrive
// from a live peer rather than as an already-captured attack artifact;
// VerifyMisbehaviour exists for a future host that re-examines reported
// LightClientAttackEvidence after the fact.
func (v *Verifier) VerifyMisbehaviour(trusted TrustedState, untrusted *types.LightBlock, opts Options, now time.Time) VerificationResult {
	return v.verify(trusted, untrusted, opts, now, false)
}

func (v *Verifier) verify(trusted TrustedState, untrusted *types.LightBlock, opts Options, now time.Time, checkFromPast bool) VerificationResult {
	sh := untrusted.SignedHeader

	// 1. Validate untrusted block (no reference to trusted).
	if err := validatorSetsMatch(untrusted); err != nil {
		return invalidResult(err)
	}
	if err := nextValidatorsMatch(untrusted); err != nil {
		return invalidResult(err)
	}
	if err := headerMatchesCommit(sh); err != nil {
		return invalidResult(err)
	}
	if err := validCommit(sh, untrusted.ValidatorSet, v.Commits); err != nil {
		return invalidResult(err)
	}

	// 2. Validate against trusted.
	if err := isWithinTrustPeriod(trusted.HeaderTime, opts.TrustingPeriod, now); err != nil {
		return invalidResult(err)
	}
	if err := isMonotonicBftTime(sh.Header.Time, trusted.HeaderTime); err != nil {
		return invalidResult(err)
	}
	if err := isMatchingChainID(sh.Header.ChainID, trusted.ChainID); err != nil {
		return invalidResult(err)
	}

	adjacent := untrusted.Height() == trusted.Height+1
	if adjacent {
		if err := validNextValidatorSet(sh.Header.ValidatorsHash, trusted.NextValidatorsHash); err != nil {
			return invalidResult(err)
		}
	} else {
		if err := isMonotonicHeight(untrusted.Height(), trusted.Height); err != nil {
			return invalidResult(err)
		}
	}

	// 3. Check header is from past (skipped for misbehaviour verification).
	if checkFromPast {
		if err := isHeaderFromPast(sh.Header.Time, opts.ClockDrift, now); err != nil {
			return invalidResult(err)
		}
	}

	// 4. Voting-power overlap.
	var overlapErr error
	if adjacent {
		overlapErr = hasSufficientSignersOverlap(sh, untrusted.ValidatorSet, v.Calculator)
	} else {
		overlapErr = hasSufficientValidatorsAndSignersOverlap(
			sh, trusted.NextValidators, opts.TrustThreshold, untrusted.ValidatorSet, v.Calculator,
		)
	}
	if overlapErr != nil {
		if tally, ok := tallyOf(overlapErr); ok {
			return VerificationResult{Verdict: NotEnoughTrust, Tally: tally, Err: overlapErr}
		}
		return invalidResult(overlapErr)
	}

	return VerificationResult{Verdict: Success}
}

func invalidResult(err error) VerificationResult {
	return VerificationResult{Verdict: Invalid, Err: err}
}
