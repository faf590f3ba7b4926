package light

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/tm-lightclient/lightclient/types"
)

// Error kinds, modeled on the teacher's lite/errors package: unexported
// structs wrapped with github.com/pkg/errors, surfaced through ErrXxx
// constructors and IsErrXxx predicates. See spec.md §7.

type errInvalidValidatorSet struct{ got, want types.Hash }

func (e errInvalidValidatorSet) Error() string {
	return fmt.Sprintf("validator set hash mismatch: header has %X, computed %X", e.got, e.want)
}

// ErrInvalidValidatorSet reports a validators_hash mismatch.
func ErrInvalidValidatorSet(got, want types.Hash) error {
	return errors.Wrap(errInvalidValidatorSet{got, want}, "")
}
func IsErrInvalidValidatorSet(err error) bool {
	_, ok := errors.Cause(err).(errInvalidValidatorSet)
	return ok
}

type errInvalidNextValidatorSet struct{ got, want types.Hash }

func (e errInvalidNextValidatorSet) Error() string {
	return fmt.Sprintf("next validator set hash mismatch: header has %X, computed %X", e.got, e.want)
}

// ErrInvalidNextValidatorSet reports a next_validators_hash mismatch.
func ErrInvalidNextValidatorSet(got, want types.Hash) error {
	return errors.Wrap(errInvalidNextValidatorSet{got, want}, "")
}
func IsErrInvalidNextValidatorSet(err error) bool {
	_, ok := errors.Cause(err).(errInvalidNextValidatorSet)
	return ok
}

type errInvalidCommitValue struct{ headerHash, commitHash types.Hash }

func (e errInvalidCommitValue) Error() string {
	return fmt.Sprintf("commit block ID hash %X does not match header hash %X", e.commitHash, e.headerHash)
}

// ErrInvalidCommitValue reports commit.block_id.hash != header.hash().
func ErrInvalidCommitValue(headerHash, commitHash types.Hash) error {
	return errors.Wrap(errInvalidCommitValue{headerHash, commitHash}, "")
}
func IsErrInvalidCommitValue(err error) bool {
	_, ok := errors.Cause(err).(errInvalidCommitValue)
	return ok
}

type errInvalidCommit struct{ reason string }

func (e errInvalidCommit) Error() string { return "invalid commit: " + e.reason }

// ErrInvalidCommit reports a structurally or cryptographically invalid commit.
func ErrInvalidCommit(reason string) error {
	return errors.Wrap(errInvalidCommit{reason}, "")
}
func IsErrInvalidCommit(err error) bool {
	_, ok := errors.Cause(err).(errInvalidCommit)
	return ok
}

type errNonMonotonicBftTime struct{ got, trusted int64 }

func (e errNonMonotonicBftTime) Error() string {
	return fmt.Sprintf("header time %d is not after trusted time %d", e.got, e.trusted)
}

// ErrNonMonotonicBftTime reports untrusted.time <= trusted.time.
func ErrNonMonotonicBftTime(got, trusted int64) error {
	return errors.Wrap(errNonMonotonicBftTime{got, trusted}, "")
}
func IsErrNonMonotonicBftTime(err error) bool {
	_, ok := errors.Cause(err).(errNonMonotonicBftTime)
	return ok
}

type errNonIncreasingHeight struct{ got, trusted int64 }

func (e errNonIncreasingHeight) Error() string {
	return fmt.Sprintf("height %d is not greater than trusted height %d", e.got, e.trusted)
}

// ErrNonIncreasingHeight reports untrusted.height <= trusted.height.
func ErrNonIncreasingHeight(got, trusted int64) error {
	return errors.Wrap(errNonIncreasingHeight{got, trusted}, "")
}
func IsErrNonIncreasingHeight(err error) bool {
	_, ok := errors.Cause(err).(errNonIncreasingHeight)
	return ok
}

type errChainIDMismatch struct{ got, want string }

func (e errChainIDMismatch) Error() string {
	return fmt.Sprintf("chain ID %q does not match trusted chain ID %q", e.got, e.want)
}

// ErrChainIDMismatch reports a chain_id disagreement.
func ErrChainIDMismatch(got, want string) error {
	return errors.Wrap(errChainIDMismatch{got, want}, "")
}
func IsErrChainIDMismatch(err error) bool {
	_, ok := errors.Cause(err).(errChainIDMismatch)
	return ok
}

type errHeaderFromTheFuture struct{ headerTime, now int64 }

func (e errHeaderFromTheFuture) Error() string {
	return fmt.Sprintf("header time %d is beyond now+drift %d", e.headerTime, e.now)
}

// ErrHeaderFromTheFuture reports a header timestamped beyond now+clock_drift.
func ErrHeaderFromTheFuture(headerTime, now int64) error {
	return errors.Wrap(errHeaderFromTheFuture{headerTime, now}, "")
}
func IsErrHeaderFromTheFuture(err error) bool {
	_, ok := errors.Cause(err).(errHeaderFromTheFuture)
	return ok
}

type errNotWithinTrustPeriod struct{ expiresAt, now int64 }

func (e errNotWithinTrustPeriod) Error() string {
	return fmt.Sprintf("trusted state expired at %d, now is %d", e.expiresAt, e.now)
}

// ErrNotWithinTrustPeriod reports trusted_time + trusting_period <= now.
func ErrNotWithinTrustPeriod(expiresAt, now int64) error {
	return errors.Wrap(errNotWithinTrustPeriod{expiresAt, now}, "")
}
func IsErrNotWithinTrustPeriod(err error) bool {
	_, ok := errors.Cause(err).(errNotWithinTrustPeriod)
	return ok
}

type errDuplicateValidator struct{ addr types.Address }

func (e errDuplicateValidator) Error() string {
	return fmt.Sprintf("validator %X appears more than once in the commit", e.addr)
}

// ErrDuplicateValidator reports a validator address appearing twice in a commit.
func ErrDuplicateValidator(addr types.Address) error {
	return errors.Wrap(errDuplicateValidator{addr}, "")
}
func IsErrDuplicateValidator(err error) bool {
	_, ok := errors.Cause(err).(errDuplicateValidator)
	return ok
}

type errMissingSignature struct{}

func (e errMissingSignature) Error() string { return "commit has no non-absent signatures" }

// ErrMissingSignature reports a commit with zero for-block/nil signatures.
func ErrMissingSignature() error {
	return errors.Wrap(errMissingSignature{}, "")
}
func IsErrMissingSignature(err error) bool {
	_, ok := errors.Cause(err).(errMissingSignature)
	return ok
}

type errInvalidSignature struct{ addr types.Address }

func (e errInvalidSignature) Error() string {
	return fmt.Sprintf("signature from validator %X does not verify", e.addr)
}

// ErrInvalidSignature reports a signature that fails cryptographic verification.
func ErrInvalidSignature(addr types.Address) error {
	return errors.Wrap(errInvalidSignature{addr}, "")
}
func IsErrInvalidSignature(err error) bool {
	_, ok := errors.Cause(err).(errInvalidSignature)
	return ok
}

// VotingPowerTally records the tallied vs total voting power behind an
// insufficient-overlap failure, carried by NotEnoughTrust verdicts.
type VotingPowerTally struct {
	SignedPower int64
	TotalPower  int64
	Threshold   types.TrustThreshold
}

type errInsufficientSignersOverlap struct{ tally VotingPowerTally }

func (e errInsufficientSignersOverlap) Error() string {
	return fmt.Sprintf("signed power %d does not exceed threshold of total power %d",
		e.tally.SignedPower, e.tally.TotalPower)
}

// ErrInsufficientSignersOverlap reports a tally that did not reach threshold.
func ErrInsufficientSignersOverlap(tally VotingPowerTally) error {
	return errors.Wrap(errInsufficientSignersOverlap{tally}, "")
}
func IsErrInsufficientSignersOverlap(err error) bool {
	_, ok := errors.Cause(err).(errInsufficientSignersOverlap)
	return ok
}

// tallyOf extracts the VotingPowerTally from an error that carries one,
// used by the verifier to distinguish NotEnoughTrust from Invalid verdicts.
func tallyOf(err error) (VotingPowerTally, bool) {
	switch e := errors.Cause(err).(type) {
	case errInsufficientSignersOverlap:
		return e.tally, true
	default:
		return VotingPowerTally{}, false
	}
}

type errInvalidAdjacentHeaders struct{ childLastBlockHash, parentHash types.Hash }

func (e errInvalidAdjacentHeaders) Error() string {
	return fmt.Sprintf("child's last_block_id.hash %X does not match parent hash %X",
		e.childLastBlockHash, e.parentHash)
}

// ErrInvalidAdjacentHeaders reports a break in the backward-verification chain.
func ErrInvalidAdjacentHeaders(childLastBlockHash, parentHash types.Hash) error {
	return errors.Wrap(errInvalidAdjacentHeaders{childLastBlockHash, parentHash}, "")
}
func IsErrInvalidAdjacentHeaders(err error) bool {
	_, ok := errors.Cause(err).(errInvalidAdjacentHeaders)
	return ok
}

// Anchor errors (spec.md §7): not retryable, surfaced directly to the caller.

type errNoInitialTrustedState struct{}

func (e errNoInitialTrustedState) Error() string { return "no initial trusted state in store" }

func ErrNoInitialTrustedState() error { return errors.Wrap(errNoInitialTrustedState{}, "") }
func IsErrNoInitialTrustedState(err error) bool {
	_, ok := errors.Cause(err).(errNoInitialTrustedState)
	return ok
}

type errTargetLowerThanTrustedState struct{ target, trusted int64 }

func (e errTargetLowerThanTrustedState) Error() string {
	return fmt.Sprintf("target height %d is lower than trusted height %d", e.target, e.trusted)
}

func ErrTargetLowerThanTrustedState(target, trusted int64) error {
	return errors.Wrap(errTargetLowerThanTrustedState{target, trusted}, "")
}
func IsErrTargetLowerThanTrustedState(err error) bool {
	_, ok := errors.Cause(err).(errTargetLowerThanTrustedState)
	return ok
}

type errTrustedStateOutsideTrustingPeriod struct{}

func (e errTrustedStateOutsideTrustingPeriod) Error() string {
	return "trusted state is outside of the trusting period"
}

func ErrTrustedStateOutsideTrustingPeriod() error {
	return errors.Wrap(errTrustedStateOutsideTrustingPeriod{}, "")
}
func IsErrTrustedStateOutsideTrustingPeriod(err error) bool {
	_, ok := errors.Cause(err).(errTrustedStateOutsideTrustingPeriod)
	return ok
}

type errInvalidLightBlock struct{ reason error }

func (e errInvalidLightBlock) Error() string { return "invalid light block: " + e.reason.Error() }

// ErrInvalidLightBlock wraps a terminal verification failure for a block
// fetched during bisection or backward verification.
func ErrInvalidLightBlock(reason error) error {
	return errors.Wrap(errInvalidLightBlock{reason}, "")
}
func IsErrInvalidLightBlock(err error) bool {
	_, ok := errors.Cause(err).(errInvalidLightBlock)
	return ok
}
