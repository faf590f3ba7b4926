// Package detector cross-references a freshly verified header against a
// set of witness peers to catch an attack the primary alone could
// mount, per spec.md §4.8.
//
// Grounded closely on the tenderdash light client's detectDivergence /
// compareNewHeaderWithWitness pair: one goroutine per witness, a
// buffered error channel, and the same lagging-witness retry protocol
// (sleep 2*clockDrift+lag, then re-ask before giving up on a witness).
package detector

import (
	"context"
	"time"

	"github.com/tm-lightclient/lightclient/libs/log"
	"github.com/tm-lightclient/lightclient/light/provider"
	"github.com/tm-lightclient/lightclient/types"
)

// ErrNoWitnesses means the detector was asked to cross-reference with an
// empty witness set.
var ErrNoWitnesses = detectorErr("no witnesses configured")

// ErrFailedHeaderCrossReferencing means no witness confirmed the header
// and none reported a conflicting one: every witness failed to respond
// or returned an error.
var ErrFailedHeaderCrossReferencing = detectorErr("failed to cross-reference header with any witness")

type detectorErr string

func (e detectorErr) Error() string { return string(e) }

// ConflictingHeader pairs a witness's disagreeing LightBlock with the
// index of the witness that produced it, so the caller can feed it to
// light/evidence's bifurcation-point search.
type ConflictingHeader struct {
	Block        *types.LightBlock
	WitnessIndex int
}

type badWitness struct {
	reason       error
	witnessIndex int
}

func (e badWitness) Error() string { return "bad witness: " + e.reason.Error() }

// Result is the outcome of cross-referencing one verified header against
// a set of witnesses.
type Result struct {
	// Matched is true if at least one witness confirmed the header.
	Matched bool
	// Conflicts holds a ConflictingHeader for every witness whose report
	// disagreed with the primary's header.
	Conflicts []ConflictingHeader
	// WitnessesToRemove lists indices into the witnesses slice that
	// misbehaved (sent an invalid block, or produced a genuine conflict)
	// and should be dropped by the caller.
	WitnessesToRemove []int
}

// Options tunes the lagging-witness retry protocol.
type Options struct {
	MaxClockDrift time.Duration
	MaxBlockLag   time.Duration
	// Logger receives diagnostics for the lagging-witness retry path. A
	// nil Logger is treated as log.NewNopLogger().
	Logger log.Logger
}

// CrossReference compares verifiedHeader (the primary's just-verified
// signed header) against every witness, per spec.md §4.8, and returns
// which witnesses confirmed it, which conflicted, and which should be
// dropped.
func CrossReference(ctx context.Context, verifiedHeader *types.SignedHeader, witnesses []provider.Provider, opts Options) (Result, error) {
	if len(witnesses) == 0 {
		return Result{}, ErrNoWitnesses
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}

	errc := make(chan error, len(witnesses))
	for i, w := range witnesses {
		go compareWithWitness(ctx, errc, verifiedHeader, w, i, opts)
	}

	var res Result
	toRemove := make(map[int]struct{})
	for i := 0; i < cap(errc); i++ {
		switch e := (<-errc).(type) {
		case nil:
			res.Matched = true
		case ConflictingHeader:
			res.Conflicts = append(res.Conflicts, e)
			toRemove[e.WitnessIndex] = struct{}{}
		case badWitness:
			if provider.IsErrInvalidLightBlock(e.reason) {
				toRemove[e.witnessIndex] = struct{}{}
			}
		}
	}
	for idx := range toRemove {
		res.WitnessesToRemove = append(res.WitnessesToRemove, idx)
	}

	if !res.Matched && len(res.Conflicts) == 0 {
		return res, ErrFailedHeaderCrossReferencing
	}
	return res, nil
}

func (c ConflictingHeader) Error() string { return "conflicting header from witness" }

func compareWithWitness(ctx context.Context, errc chan error, h *types.SignedHeader, w provider.Provider, idx int, opts Options) {
	lb, err := w.FetchLightBlock(ctx, h.Header.Height)
	switch {
	case err == nil:
		// fall through to hash comparison below

	case err == provider.ErrNoResponse || err == provider.ErrLightBlockNotFound:
		errc <- err
		return

	case provider.IsErrHeightTooHigh(err):
		if requested, latest, ok := provider.HeightTooHighDetail(err); ok {
			opts.Logger.Debug("witness lagging behind primary", "witness", w.ID(),
				"requested", requested, "witness_latest", latest)
		}
		isTarget, latest, ferr := getTargetOrLatest(ctx, h.Header.Height, w)
		if ferr != nil {
			errc <- ferr
			return
		}
		if isTarget {
			lb = latest
			break
		}
		if !latest.Time().Before(h.Header.Time) {
			errc <- ConflictingHeader{Block: latest, WitnessIndex: idx}
			return
		}

		time.Sleep(2*opts.MaxClockDrift + opts.MaxBlockLag)

		isTarget, latest, ferr = getTargetOrLatest(ctx, h.Header.Height, w)
		if ferr != nil {
			errc <- badWitness{reason: ferr, witnessIndex: idx}
			return
		}
		if isTarget {
			lb = latest
			break
		}
		if !latest.Time().Before(h.Header.Time) {
			errc <- ConflictingHeader{Block: latest, WitnessIndex: idx}
			return
		}
		errc <- provider.ErrNoResponse
		return

	default:
		errc <- badWitness{reason: err, witnessIndex: idx}
		return
	}

	if !h.Header.Hash().Equal(lb.Hash()) {
		errc <- ConflictingHeader{Block: lb, WitnessIndex: idx}
		return
	}
	errc <- nil
}

// getTargetOrLatest fetches the witness's latest block; if it has
// already reached height, it re-fetches exactly that height so the
// caller compares like-for-like.
func getTargetOrLatest(ctx context.Context, height types.Height, w provider.Provider) (bool, *types.LightBlock, error) {
	latest, err := w.FetchLightBlock(ctx, provider.LatestHeight)
	if err != nil {
		return false, nil, err
	}
	if latest.Height() == height {
		return true, latest, nil
	}
	if latest.Height() > height {
		lb, err := w.FetchLightBlock(ctx, height)
		return true, lb, err
	}
	return false, latest, nil
}
