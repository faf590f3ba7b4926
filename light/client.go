package light

import (
	"context"

	"github.com/tm-lightclient/lightclient/libs/log"
	"github.com/tm-lightclient/lightclient/light/provider"
	"github.com/tm-lightclient/lightclient/light/store"
	"github.com/tm-lightclient/lightclient/types"
)

// Client owns one peer, an Options record, and borrowed references to a
// Clock, a Verifier and a LightStore. It performs forward bisection and
// backward sequential verification against that single peer, per
// spec.md §4.6.
//
// Grounded on lite/client.go's Provider struct (trusted/source split,
// fetchAndVerifyToHeightBisecting's divide-and-conquer loop), generalised
// to the Scheduler/Verifier split this spec calls for.
type Client struct {
	ChainID string
	PeerID  string

	Options  Options
	Clock    Clock
	Verifier *Verifier
	Store    store.LightStore
	Provider provider.Provider

	Logger log.Logger
}

// NewClient builds a Client with production defaults for Clock and
// Verifier, requiring only the chain ID, connection options, provider
// and store.
func NewClient(chainID string, opts Options, p provider.Provider, s store.LightStore, logger log.Logger) *Client {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Client{
		ChainID:  chainID,
		PeerID:   p.ID(),
		Options:  opts,
		Clock:    SystemClock{},
		Verifier: NewVerifier(),
		Store:    s,
		Provider: p,
		Logger:   logger,
	}
}

// Bootstrap seeds the store with an initial trusted LightBlock, fetched
// and validated at trustedHeight against trustedHash. Every verification
// run needs such an anchor before verifyToTarget can proceed (spec.md
// §4.6.1: ErrNoInitialTrustedState otherwise).
func (c *Client) Bootstrap(ctx context.Context, trustedHeight types.Height, trustedHash types.Hash) (*types.LightBlock, error) {
	lb, err := c.Provider.FetchLightBlock(ctx, trustedHeight)
	if err != nil {
		return nil, provider.ErrIO(err)
	}
	if err := lb.ValidateBasic(c.ChainID); err != nil {
		return nil, ErrInvalidLightBlock(err)
	}
	if !lb.Hash().Equal(trustedHash) {
		return nil, ErrInvalidLightBlock(ErrInvalidCommitValue(trustedHash, lb.Hash()))
	}
	if err := c.Store.Insert(lb, types.StatusTrusted); err != nil {
		return nil, err
	}
	return lb, nil
}

// VerifyToTarget verifies the block at targetH, returning it once a
// Trusted-or-Verified LightBlock is in the store at that height, per
// spec.md §4.6.1.
func (c *Client) VerifyToTarget(ctx context.Context, targetH types.Height) (*types.LightBlock, error) {
	if lb, err := c.Store.GetTrustedOrVerified(targetH); err == nil {
		return lb, nil
	}

	top, err := c.Store.HighestTrustedOrVerified()
	if err != nil {
		return nil, ErrNoInitialTrustedState()
	}

	if targetH >= top.Height() {
		return c.verifyForward(ctx, targetH)
	}
	return c.verifyBackward(ctx, targetH, top)
}

// verifyForward implements spec.md §4.6.2: forward bisection.
func (c *Client) verifyForward(ctx context.Context, targetH types.Height) (*types.LightBlock, error) {
	if c.Logger == nil {
		c.Logger = log.NewNopLogger()
	}
	currentH := targetH

	for {
		trusted, err := c.Store.HighestTrustedOrVerified()
		if err != nil {
			return nil, ErrNoInitialTrustedState()
		}
		if targetH < trusted.Height() {
			return nil, ErrTargetLowerThanTrustedState(targetH, trusted.Height())
		}

		now := c.Clock.Now()
		if err := isWithinTrustPeriod(trusted.Time(), c.Options.TrustingPeriod, now); err != nil {
			return nil, ErrTrustedStateOutsideTrustingPeriod()
		}

		c.Store.TraceBlock(targetH, currentH)
		// Record the anchor too, so GetTrace(targetH) starts at a trusted block.
		c.Store.TraceBlock(targetH, trusted.Height())

		if currentH == trusted.Height() {
			return trusted, nil
		}

		untrusted, status, err := c.fetchOrLoad(ctx, currentH)
		if err != nil {
			return nil, err
		}

		result := c.Verifier.VerifyUpdate(TrustedStateFrom(trusted), untrusted, c.Options, now)
		switch result.Verdict {
		case Success:
			newStatus := status.Promote(types.StatusVerified)
			if err := c.Store.Update(untrusted, newStatus); err != nil {
				return nil, err
			}
		case Invalid:
			_ = c.Store.Update(untrusted, types.StatusFailed)
			return nil, ErrInvalidLightBlock(result.Err)
		case NotEnoughTrust:
			// Leave status as-is; do not mark failed.
			c.Logger.Debug("not enough trust, bisecting", "height", currentH, "target", targetH)
		}

		currentH = Schedule(c.Store, currentH, targetH)
	}
}

// fetchOrLoad returns the block at h from the store if already present
// (Unverified-or-better), otherwise fetches it from the provider and
// inserts it as Unverified.
func (c *Client) fetchOrLoad(ctx context.Context, h types.Height) (*types.LightBlock, types.TrustStatus, error) {
	if lb, status, err := c.Store.GetNonFailed(h); err == nil {
		return lb, status, nil
	}

	lb, err := c.Provider.FetchLightBlock(ctx, h)
	if err != nil {
		return nil, 0, provider.ErrIO(err)
	}
	if err := lb.ValidateBasic(c.ChainID); err != nil {
		_ = c.Store.Insert(lb, types.StatusFailed)
		return nil, 0, ErrInvalidLightBlock(err)
	}
	if err := c.Store.Insert(lb, types.StatusUnverified); err != nil {
		return nil, 0, err
	}
	return lb, types.StatusUnverified, nil
}

// verifyBackward implements spec.md §4.6.3: backward sequential
// verification from top down to targetH+1, checking each predecessor's
// hash against its child's last_block_id.
func (c *Client) verifyBackward(ctx context.Context, targetH types.Height, top *types.LightBlock) (*types.LightBlock, error) {
	current := top
	for current.Height() > targetH {
		predH := current.Height() - 1
		pred, err := c.Provider.FetchLightBlock(ctx, predH)
		if err != nil {
			return nil, provider.ErrIO(err)
		}
		if err := pred.ValidateBasic(c.ChainID); err != nil {
			return nil, ErrInvalidLightBlock(err)
		}
		if !pred.Hash().Equal(current.SignedHeader.Header.LastBlockID.Hash) {
			return nil, ErrInvalidAdjacentHeaders(current.SignedHeader.Header.LastBlockID.Hash, pred.Hash())
		}
		if err := c.Store.Insert(pred, types.StatusTrusted); err != nil {
			return nil, err
		}
		current = pred
	}
	return current, nil
}
