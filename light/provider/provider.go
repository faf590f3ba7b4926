// Package provider defines the RPC-facing boundary the light client
// consumes, per spec.md §4.7 and §6. Concrete implementations
// (light/provider/http, light/provider/mock) bind this interface to an
// actual peer.
package provider

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tm-lightclient/lightclient/types"
)

// LatestHeight requests the provider's current head rather than a
// specific height.
const LatestHeight types.Height = 0

// Provider fetches LightBlocks from, and reports evidence to, a single
// Tendermint-style peer. Grounded on lite/provider.go's Provider /
// PersistentProvider split, generalised to the modern async, typed-error
// shape described in spec.md §6 and the tenderdash detector fragment's
// provider.Err* sentinels.
type Provider interface {
	// ID identifies the peer, used as LightBlock.ProviderID and in logs.
	ID() string

	// FetchLightBlock returns the LightBlock at height h, or at the
	// provider's latest height if h == LatestHeight.
	//
	// Failures: ErrIO (transport), ErrHeightTooHigh (h is above the
	// provider's current head), ErrInvalidLightBlock (the response
	// didn't validate).
	FetchLightBlock(ctx context.Context, h types.Height) (*types.LightBlock, error)

	// ReportEvidence submits ev to the peer. Returns the hash the peer
	// assigned the accepted evidence.
	ReportEvidence(ctx context.Context, ev *types.LightClientAttackEvidence) (types.Hash, error)

	// Status reports the peer's identity and current head height.
	Status(ctx context.Context) (NodeStatus, error)
}

// NodeStatus is the response to a status() RPC, per spec.md §6.
type NodeStatus struct {
	NodeID       string
	LatestHeight types.Height
}

// Typed provider errors, per spec.md §6/§7.

type errIO struct{ cause error }

func (e errIO) Error() string { return "provider I/O error: " + e.cause.Error() }

// ErrIO wraps a transport-level failure.
func ErrIO(cause error) error { return errors.Wrap(errIO{cause}, "") }
func IsErrIO(err error) bool {
	_, ok := errors.Cause(err).(errIO)
	return ok
}

type errHeightTooHigh struct{ requested, latest types.Height }

func (e errHeightTooHigh) Error() string {
	return "requested height is above the provider's latest height"
}

// ErrHeightTooHigh reports that the provider's head is below requested.
func ErrHeightTooHigh(requested, latest types.Height) error {
	return errors.Wrap(errHeightTooHigh{requested, latest}, "")
}
func IsErrHeightTooHigh(err error) bool {
	_, ok := errors.Cause(err).(errHeightTooHigh)
	return ok
}
func HeightTooHighDetail(err error) (requested, latest types.Height, ok bool) {
	e, ok := errors.Cause(err).(errHeightTooHigh)
	if !ok {
		return 0, 0, false
	}
	return e.requested, e.latest, true
}

type errInvalidLightBlock struct{ reason string }

func (e errInvalidLightBlock) Error() string { return "invalid light block: " + e.reason }

// ErrInvalidLightBlock reports a structurally invalid response.
func ErrInvalidLightBlock(reason string) error { return errors.Wrap(errInvalidLightBlock{reason}, "") }
func IsErrInvalidLightBlock(err error) bool {
	_, ok := errors.Cause(err).(errInvalidLightBlock)
	return ok
}

// ErrLightBlockNotFound means the provider has no block at the
// requested height (distinct from HeightTooHigh: the height is within
// range but pruned or never existed).
var ErrLightBlockNotFound = errors.New("light block not found")

// ErrNoResponse means the provider did not answer within its timeout.
var ErrNoResponse = errors.New("no response from provider")
