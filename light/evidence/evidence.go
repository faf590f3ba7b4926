// Package evidence builds LightClientAttackEvidence once the detector
// has found a witness whose header conflicts with the primary's, per
// spec.md §4.9.
//
// Grounded on light-client-detector/src/examine.rs's
// examine_conflicting_header_against_trace: walk the primary's
// verification trace height by height, asking the witness (the
// "source" in the Rust original) to independently verify-skip up to
// each trace height, until the witness's view of a height disagrees
// with the primary's trace — that height is the bifurcation point.
package evidence

import (
	"context"

	"github.com/tm-lightclient/lightclient/libs/log"
	"github.com/tm-lightclient/lightclient/light"
	"github.com/tm-lightclient/lightclient/light/provider"
	"github.com/tm-lightclient/lightclient/light/store"
	"github.com/tm-lightclient/lightclient/types"
)

// Error is a plain evidence-construction failure; none of these carry
// structured payloads worth a typed-error predicate.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNoDivergence            Error = "reached the end of the trace without finding a divergence"
	ErrTargetBelowTrustedBlock Error = "conflicting block is lower than the trusted block"
	ErrTraceBlockAfterTarget   Error = "trace block has a later time than the conflicting block"
	ErrTrustedHashMismatch     Error = "witness's block at the trusted height does not match the trace"
)

// FindBifurcationPoint walks primaryTrace (the primary's own
// verification trace ending at the height of conflicting) against
// what witness independently verifies at those same heights, per
// spec.md §4.9. It returns the last LightBlock the two views still
// agreed on (the common ancestor) and the primary's own trace block at
// the first height where the witness's view differs.
func FindBifurcationPoint(
	ctx context.Context,
	primaryTrace []*types.LightBlock,
	conflicting *types.LightBlock,
	chainID string,
	witness provider.Provider,
	opts light.Options,
	clock light.Clock,
) (common *types.LightBlock, primaryConflicting *types.LightBlock, err error) {
	if len(primaryTrace) == 0 {
		return nil, nil, ErrNoDivergence
	}
	trustedBlock := primaryTrace[0]
	if conflicting.Height() < trustedBlock.Height() {
		return nil, nil, ErrTargetBelowTrustedBlock
	}

	prevVerified, err := checkTrustedBlock(ctx, trustedBlock, conflicting, chainID, witness)
	if err != nil {
		return nil, nil, err
	}

	for _, traceBlock := range primaryTrace[1:] {
		next, diverged, werr := examineAgainstTraceBlock(ctx, witness, chainID, opts, clock, traceBlock, conflicting, prevVerified)
		if werr != nil {
			return nil, nil, werr
		}
		if diverged != nil {
			return prevVerified, diverged, nil
		}
		prevVerified = next
	}

	return nil, nil, ErrNoDivergence
}

func checkTrustedBlock(ctx context.Context, trustedBlock, target *types.LightBlock, chainID string, witness provider.Provider) (*types.LightBlock, error) {
	if trustedBlock.Height() > target.Height() && trustedBlock.Time().After(target.Time()) {
		return nil, ErrTraceBlockAfterTarget
	}

	sourceBlock := target
	if trustedBlock.Height() != target.Height() {
		var err error
		sourceBlock, err = witness.FetchLightBlock(ctx, trustedBlock.Height())
		if err != nil {
			return nil, err
		}
	}
	if !sourceBlock.Hash().Equal(trustedBlock.Hash()) {
		return nil, ErrTrustedHashMismatch
	}
	return sourceBlock, nil
}

// examineAgainstTraceBlock returns (nextVerifiedBlock, nil, nil) to
// continue, or (nil, divergentBlock, nil) once the witness's
// independent view of traceBlock's height disagrees with the primary's
// trace — the bifurcation point.
func examineAgainstTraceBlock(
	ctx context.Context,
	witness provider.Provider,
	chainID string,
	opts light.Options,
	clock light.Clock,
	traceBlock, target, prevVerified *types.LightBlock,
) (next *types.LightBlock, divergent *types.LightBlock, err error) {
	if traceBlock.Height() > target.Height() {
		if traceBlock.Time().After(target.Time()) {
			return nil, nil, ErrTraceBlockAfterTarget
		}
		if prevVerified.Height() != target.Height() {
			if err := verifySkipping(ctx, witness, chainID, opts, clock, prevVerified, target); err != nil {
				return nil, nil, err
			}
		}
		return nil, traceBlock, nil
	}

	sourceBlock := target
	if traceBlock.Height() != target.Height() {
		sourceBlock, err = witness.FetchLightBlock(ctx, traceBlock.Height())
		if err != nil {
			return nil, nil, err
		}
	}

	if err := verifySkipping(ctx, witness, chainID, opts, clock, prevVerified, sourceBlock); err != nil {
		return nil, nil, err
	}

	if !sourceBlock.Hash().Equal(traceBlock.Hash()) {
		return nil, traceBlock, nil
	}
	return sourceBlock, nil, nil
}

// verifySkipping runs the witness-side verification from trusted up to
// target using a throwaway in-memory store, mirroring the Rust
// original's verify_skipping helper.
func verifySkipping(ctx context.Context, witness provider.Provider, chainID string, opts light.Options, clock light.Clock, trusted, target *types.LightBlock) error {
	s := store.New()
	if err := s.Insert(trusted, types.StatusTrusted); err != nil {
		return err
	}
	if err := s.Insert(target, types.StatusUnverified); err != nil {
		return err
	}

	c := &light.Client{
		ChainID:  chainID,
		PeerID:   witness.ID(),
		Options:  opts,
		Clock:    clock,
		Verifier: light.NewVerifier(),
		Store:    s,
		Provider: witness,
		Logger:   log.NewNopLogger(),
	}
	_, err := c.VerifyToTarget(ctx, target.Height())
	return err
}

// BuildEvidence constructs LightClientAttackEvidence once the
// bifurcation point and the witness's conflicting block are known, per
// spec.md §4.9: the conflicting block, the height both sides last
// agreed on, and the validators that signed the conflicting block
// (Byzantine until proven otherwise).
func BuildEvidence(conflicting *types.LightBlock, commonHeight types.Height) *types.LightClientAttackEvidence {
	byz := byzantineValidators(conflicting)
	return &types.LightClientAttackEvidence{
		ConflictingBlock:    conflicting,
		CommonHeight:        commonHeight,
		ByzantineValidators: byz,
		TotalVotingPower:    conflicting.ValidatorSet.TotalVotingPower(),
		Timestamp:           conflicting.Time(),
	}
}

func byzantineValidators(lb *types.LightBlock) []*types.Validator {
	var out []*types.Validator
	for _, sig := range lb.SignedHeader.Commit.Signatures {
		if sig.BlockIDFlag != types.BlockIDFlagCommit {
			continue
		}
		if val := lb.ValidatorSet.GetByAddress(sig.ValidatorAddress); val != nil {
			out = append(out, val)
		}
	}
	return out
}
