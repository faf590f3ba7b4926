// Package mock implements an in-memory provider.Provider backed by a
// fixed set of LightBlocks, for use in light client tests. Grounded on
// the mockp/provider_mocks pattern used by the reference light client
// test suite (genPrivKeys/ToValidators/GenSignedHeader producing a
// chain of LightBlocks that a mock provider then serves).
package mock

import (
	"context"
	"sync"

	"github.com/tm-lightclient/lightclient/light/provider"
	"github.com/tm-lightclient/lightclient/types"
)

// Provider serves a fixed, mutable map of height -> LightBlock. Safe for
// concurrent use.
type Provider struct {
	mu     sync.RWMutex
	id     string
	blocks map[types.Height]*types.LightBlock
	latest types.Height

	// Evidence received via ReportEvidence, kept for test assertions.
	Evidence []*types.LightClientAttackEvidence
}

var _ provider.Provider = (*Provider)(nil)

// New returns an empty mock provider identified by id.
func New(id string) *Provider {
	return &Provider{id: id, blocks: make(map[types.Height]*types.LightBlock)}
}

// AddBlock registers lb, updating the provider's latest height if lb is
// higher than anything seen so far.
func (p *Provider) AddBlock(lb *types.LightBlock) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blocks[lb.Height()] = lb
	if lb.Height() > p.latest {
		p.latest = lb.Height()
	}
}

func (p *Provider) ID() string { return p.id }

func (p *Provider) FetchLightBlock(_ context.Context, h types.Height) (*types.LightBlock, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if h == provider.LatestHeight {
		h = p.latest
	}
	lb, ok := p.blocks[h]
	if !ok {
		if h > p.latest {
			return nil, provider.ErrHeightTooHigh(h, p.latest)
		}
		return nil, provider.ErrLightBlockNotFound
	}
	return lb, nil
}

func (p *Provider) ReportEvidence(_ context.Context, ev *types.LightClientAttackEvidence) (types.Hash, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Evidence = append(p.Evidence, ev)
	return ev.Hash(), nil
}

func (p *Provider) Status(_ context.Context) (provider.NodeStatus, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return provider.NodeStatus{NodeID: p.id, LatestHeight: p.latest}, nil
}
