// Package supervisor owns a primary peer and a set of witnesses, drives
// verification against the primary, cross-references successful
// verifications with the witnesses, and swaps to a new primary when one
// misbehaves or goes silent, per spec.md §4.10.
//
// Grounded on light-client/src/supervisor.rs's verify loop (while-let
// over peers.primary, swap_primary on error, detect_forks on success,
// ForkDetected bails) adapted to Go's synchronous-call style in place of
// the Rust original's channel/Handle actor wrapper — lite/client.go's
// Verifier likewise drives everything from one synchronous call, and
// this module's Client already is its own unit of concurrency-safety per
// peer, so a second actor layer on top would add ceremony the teacher's
// code never carries.
package supervisor

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/tm-lightclient/lightclient/libs/log"
	"github.com/tm-lightclient/lightclient/light"
	"github.com/tm-lightclient/lightclient/light/detector"
	"github.com/tm-lightclient/lightclient/light/evidence"
	"github.com/tm-lightclient/lightclient/light/provider"
	"github.com/tm-lightclient/lightclient/light/store"
	"github.com/tm-lightclient/lightclient/types"
)

// ErrNoValidPeerLeft means every primary candidate (the configured
// primary plus any witnesses promoted to replace a failed primary) has
// been exhausted.
type ErrNoValidPeerLeft struct{}

func (ErrNoValidPeerLeft) Error() string { return "no valid peer left to verify against" }

// ErrForkDetected reports that cross-referencing against witnesses
// turned up a genuine conflict, naming the providers whose blocks
// disagreed with the primary.
type ErrForkDetected struct{ Providers []string }

func (e ErrForkDetected) Error() string {
	return fmt.Sprintf("fork detected, conflicting providers: %v", e.Providers)
}

// Supervisor coordinates one light.Client per peer (a primary and zero
// or more witnesses), detecting and reporting attacks as it verifies.
type Supervisor struct {
	mu sync.Mutex

	chainID string
	options light.Options
	clock   light.Clock
	logger  log.Logger

	primary    *peer
	witnesses  []*peer
	reported   map[string]struct{}
	detectOpts detector.Options
}

type peer struct {
	provider provider.Provider
	client   *light.Client
}

// New builds a Supervisor verifying chainID against primaryProvider,
// cross-referencing with witnessProviders, all sharing a single
// in-memory store per peer.
func New(chainID string, primaryProvider provider.Provider, witnessProviders []provider.Provider, opts light.Options, logger log.Logger) *Supervisor {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	s := &Supervisor{
		chainID:  chainID,
		options:  opts,
		clock:    light.SystemClock{},
		logger:   logger,
		reported: make(map[string]struct{}),
		detectOpts: detector.Options{
			MaxClockDrift: opts.ClockDrift,
			MaxBlockLag:   opts.ClockDrift,
			Logger:        logger,
		},
	}
	s.primary = s.newPeer(primaryProvider)
	for _, w := range witnessProviders {
		s.witnesses = append(s.witnesses, s.newPeer(w))
	}
	return s
}

func (s *Supervisor) newPeer(p provider.Provider) *peer {
	return &peer{
		provider: p,
		client: &light.Client{
			ChainID:  s.chainID,
			PeerID:   p.ID(),
			Options:  s.options,
			Clock:    s.clock,
			Verifier: light.NewVerifier(),
			Store:    store.New(),
			Provider: p,
			Logger:   s.logger,
		},
	}
}

// Bootstrap seeds every peer's store with the same trusted anchor.
func (s *Supervisor) Bootstrap(ctx context.Context, trustedHeight types.Height, trustedHash types.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.primary.client.Bootstrap(ctx, trustedHeight, trustedHash); err != nil {
		return err
	}
	for _, w := range s.witnesses {
		if _, err := w.client.Bootstrap(ctx, trustedHeight, trustedHash); err != nil {
			s.logger.Error("witness failed to bootstrap", "witness", w.provider.ID(), "err", err)
		}
	}
	return nil
}

// VerifyToTarget verifies targetH against the primary, swapping in a
// witness as primary if the current one fails, and cross-references
// every success against the remaining witnesses, per spec.md §4.10.
func (s *Supervisor) VerifyToTarget(ctx context.Context, targetH types.Height) (*types.LightBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		if s.primary == nil {
			return nil, ErrNoValidPeerLeft{}
		}

		lb, err := s.primary.client.VerifyToTarget(ctx, targetH)
		if err != nil {
			s.logger.Info("primary verification failed, swapping", "primary", s.primary.provider.ID(), "err", err)
			s.swapPrimary()
			continue
		}

		forkedProviders, detectErr := s.detectForks(ctx, lb)
		if detectErr != nil {
			s.logger.Error("fork detection itself failed", "err", detectErr)
			return lb, nil
		}
		if len(forkedProviders) > 0 {
			return nil, ErrForkDetected{Providers: forkedProviders}
		}
		return lb, nil
	}
}

// VerifyToHighest verifies against the primary's current head, per
// spec.md §4.10's verify_to_highest: it discovers the head via the
// primary's status() RPC and delegates to VerifyToTarget. If the
// primary is swapped out mid-call (a later status() call would see a
// different peer), VerifyToTarget's own swap loop still recovers, since
// the discovered height was always primary's head at the time of the call.
func (s *Supervisor) VerifyToHighest(ctx context.Context) (*types.LightBlock, error) {
	s.mu.Lock()
	if s.primary == nil {
		s.mu.Unlock()
		return nil, ErrNoValidPeerLeft{}
	}
	primary := s.primary.provider
	s.mu.Unlock()

	status, err := primary.Status(ctx)
	if err != nil {
		return nil, provider.ErrIO(err)
	}
	return s.VerifyToTarget(ctx, status.LatestHeight)
}

// swapPrimary promotes the first remaining witness to primary, or sets
// primary to nil if none remain, mirroring peers.swap_primary.
func (s *Supervisor) swapPrimary() {
	if len(s.witnesses) == 0 {
		s.primary = nil
		return
	}
	s.primary, s.witnesses = s.witnesses[0], s.witnesses[1:]
}

// detectForks cross-references lb against every remaining witness and,
// for any genuine conflict, builds and reports evidence to both the
// primary and the conflicting witness before returning their IDs.
func (s *Supervisor) detectForks(ctx context.Context, lb *types.LightBlock) ([]string, error) {
	if len(s.witnesses) == 0 {
		return nil, nil
	}

	witnessProviders := make([]provider.Provider, len(s.witnesses))
	for i, w := range s.witnesses {
		witnessProviders[i] = w.provider
	}

	result, err := detector.CrossReference(ctx, lb.SignedHeader, witnessProviders, s.detectOpts)
	if err != nil && len(result.Conflicts) == 0 {
		return nil, err
	}

	var forked []string
	for _, conflict := range result.Conflicts {
		w := s.witnesses[conflict.WitnessIndex]
		trace, traceErr := s.primary.client.Store.GetTrace(lb.Height())
		if traceErr != nil {
			trace = []*types.LightBlock{lb}
		}

		common, divergent, examErr := evidence.FindBifurcationPoint(
			ctx, trace, conflict.Block, s.chainID, w.provider, s.options, s.clock,
		)
		if examErr != nil {
			s.logger.Error("failed to examine conflicting header", "witness", w.provider.ID(), "err", examErr)
			continue
		}

		// Mirrored per spec.md §4.9: evidence built from the primary's
		// own trace entry accuses the witness, evidence built from the
		// witness's originally-fetched block accuses the primary. Both
		// are reported to both sides so whichever is honest can act on it.
		evAgainstWitness := evidence.BuildEvidence(divergent, common.Height())
		evAgainstPrimary := evidence.BuildEvidence(conflict.Block, common.Height())
		s.reportEvidence(ctx, evAgainstWitness, w.provider)
		s.reportEvidence(ctx, evAgainstPrimary, w.provider)
		forked = append(forked, w.provider.ID())
	}

	s.removeWitnesses(result.WitnessesToRemove)
	return forked, nil
}

// reportEvidence submits ev to the primary first and then to witness, per
// spec.md §5's ordering rule, de-duplicating by the evidence hash (spec.md
// §4.10 supplemented feature: a report_evidence de-dup set keyed with
// uuid.NewSHA1 over the hash, so repeated detections of the same attack
// don't spam peers). An error reporting to either side is logged but never
// aborts the other report.
func (s *Supervisor) reportEvidence(ctx context.Context, ev *types.LightClientAttackEvidence, witness provider.Provider) {
	key := uuid.NewSHA1(uuid.Nil, ev.Hash().Bytes()).String()
	if _, already := s.reported[key]; already {
		return
	}
	s.reported[key] = struct{}{}

	report := func(p provider.Provider) {
		if _, err := p.ReportEvidence(ctx, ev); err != nil {
			s.logger.Error("failed to report evidence", "provider", p.ID(), "err", err)
		}
	}
	report(s.primary.provider)
	report(witness)
}

func (s *Supervisor) removeWitnesses(indices []int) {
	if len(indices) == 0 {
		return
	}
	remove := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		remove[i] = struct{}{}
	}
	kept := s.witnesses[:0]
	for i, w := range s.witnesses {
		if _, drop := remove[i]; drop {
			continue
		}
		kept = append(kept, w)
	}
	s.witnesses = kept
}

// AddWitness registers an additional witness peer.
func (s *Supervisor) AddWitness(p provider.Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.witnesses = append(s.witnesses, s.newPeer(p))
}
