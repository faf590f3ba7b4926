// Package store implements the light client's in-memory LightStore, per
// spec.md §4.5: a per-height map of (LightBlock, TrustStatus) plus a
// trace index recording which intermediate heights justified a target.
//
// Grounded on the teacher's lite/multiprovider.go (chaining multiple
// backends, promoting on the best match found) adapted here into a
// single store's status-promotion logic; the optional tm-db-backed
// variant lives in the sibling store/db package.
package store

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/tm-lightclient/lightclient/types"
)

// ErrNotFound is returned when no LightBlock is stored at a height.
var ErrNotFound = errors.New("light block not found")

// LightStore tracks LightBlocks by height with trust status and lineage
// trace, per spec.md §4.5.
type LightStore interface {
	// Insert adds lb at status, or errors if a different block already
	// occupies that height (spec.md §4.5: the store never contains two
	// LightBlocks with the same height but differing hashes).
	Insert(lb *types.LightBlock, status types.TrustStatus) error

	// Update promotes the block at lb.Height() to newStatus. Failed is
	// sticky: further promotion attempts on a Failed block are rejected.
	Update(lb *types.LightBlock, newStatus types.TrustStatus) error

	// Get returns the block at height h regardless of status, or
	// ErrNotFound.
	Get(h types.Height) (*types.LightBlock, types.TrustStatus, error)

	// GetTrustedOrVerified returns the block at height h if its status is
	// Trusted or Verified, or ErrNotFound.
	GetTrustedOrVerified(h types.Height) (*types.LightBlock, error)

	// GetNonFailed returns the block at height h if its status is not
	// Failed, or ErrNotFound.
	GetNonFailed(h types.Height) (*types.LightBlock, types.TrustStatus, error)

	// HighestTrustedOrVerified returns the highest-height block with
	// status Trusted or Verified, or ErrNotFound if none exists.
	HighestTrustedOrVerified() (*types.LightBlock, error)

	// LowestTrustedOrVerified returns the lowest-height block with status
	// Trusted or Verified, or ErrNotFound if none exists.
	LowestTrustedOrVerified() (*types.LightBlock, error)

	// TraceBlock appends intermediateH to the chain of heights that
	// justified targetH's verification.
	TraceBlock(targetH, intermediateH types.Height)

	// GetTrace returns the chain of LightBlocks that justified targetH,
	// ordered by increasing height, beginning with a Trusted block and
	// ending with the target. Returns ErrNotFound if targetH was never
	// traced.
	GetTrace(targetH types.Height) ([]*types.LightBlock, error)
}

type entry struct {
	block  *types.LightBlock
	status types.TrustStatus
}

// memStore is the default in-memory LightStore. Durability is the host's
// responsibility per spec.md §1; see store/db for an opt-in persistent
// backend.
type memStore struct {
	mu       sync.RWMutex
	byHeight map[types.Height]entry
	traces   map[types.Height][]types.Height
}

// New returns an empty in-memory LightStore.
func New() LightStore {
	return &memStore{
		byHeight: make(map[types.Height]entry),
		traces:   make(map[types.Height][]types.Height),
	}
}

func (s *memStore) Insert(lb *types.LightBlock, status types.TrustStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := lb.Height()
	if existing, ok := s.byHeight[h]; ok {
		if !existing.block.Hash().Equal(lb.Hash()) {
			return errors.Errorf("store already has a different block at height %d", h)
		}
		if existing.status.Rank() >= status.Rank() && existing.status != types.StatusFailed {
			return nil
		}
		status = existing.status.Promote(status)
	}
	s.byHeight[h] = entry{block: lb, status: status}
	return nil
}

func (s *memStore) Update(lb *types.LightBlock, newStatus types.TrustStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := lb.Height()
	existing, ok := s.byHeight[h]
	if !ok {
		s.byHeight[h] = entry{block: lb, status: newStatus}
		return nil
	}
	if !existing.block.Hash().Equal(lb.Hash()) {
		return errors.Errorf("store already has a different block at height %d", h)
	}
	s.byHeight[h] = entry{block: lb, status: existing.status.Promote(newStatus)}
	return nil
}

func (s *memStore) Get(h types.Height) (*types.LightBlock, types.TrustStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byHeight[h]
	if !ok {
		return nil, 0, ErrNotFound
	}
	return e.block, e.status, nil
}

func (s *memStore) GetNonFailed(h types.Height) (*types.LightBlock, types.TrustStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byHeight[h]
	if !ok || e.status == types.StatusFailed {
		return nil, 0, ErrNotFound
	}
	return e.block, e.status, nil
}

func (s *memStore) GetTrustedOrVerified(h types.Height) (*types.LightBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byHeight[h]
	if !ok || (e.status != types.StatusTrusted && e.status != types.StatusVerified) {
		return nil, ErrNotFound
	}
	return e.block, nil
}

func (s *memStore) HighestTrustedOrVerified() (*types.LightBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *types.LightBlock
	for h, e := range s.byHeight {
		if e.status != types.StatusTrusted && e.status != types.StatusVerified {
			continue
		}
		if best == nil || h > best.Height() {
			best = e.block
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	return best, nil
}

func (s *memStore) LowestTrustedOrVerified() (*types.LightBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *types.LightBlock
	for h, e := range s.byHeight {
		if e.status != types.StatusTrusted && e.status != types.StatusVerified {
			continue
		}
		if best == nil || h < best.Height() {
			best = e.block
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	return best, nil
}

func (s *memStore) TraceBlock(targetH, intermediateH types.Height) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chain := s.traces[targetH]
	for _, h := range chain {
		if h == intermediateH {
			return
		}
	}
	s.traces[targetH] = append(chain, intermediateH)
}

func (s *memStore) GetTrace(targetH types.Height) ([]*types.LightBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	heights, ok := s.traces[targetH]
	if !ok {
		return nil, ErrNotFound
	}
	sorted := append([]types.Height(nil), heights...)
	sortHeights(sorted)

	out := make([]*types.LightBlock, 0, len(sorted))
	for _, h := range sorted {
		e, ok := s.byHeight[h]
		if !ok {
			continue
		}
		out = append(out, e.block)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

func sortHeights(hs []types.Height) {
	for i := 1; i < len(hs); i++ {
		for j := i; j > 0 && hs[j-1] > hs[j]; j-- {
			hs[j-1], hs[j] = hs[j], hs[j-1]
		}
	}
}
