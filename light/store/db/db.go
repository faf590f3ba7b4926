// Package db implements an optional, persistent store.LightStore backed
// by tm-db and go-amino, for hosts that want light blocks to survive a
// restart (spec.md §1 leaves durability to the host).
//
// Grounded closely on lite/providers/db/db.go: the same
// "chainID/height/part" key scheme, a ReverseIterator-based
// highest-height scan, and an optional deleteAfterN garbage collector.
package db

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"

	amino "github.com/tendermint/go-amino"
	dbm "github.com/tendermint/tm-db"

	"github.com/tm-lightclient/lightclient/light/store"
	"github.com/tm-lightclient/lightclient/types"
)

// Store is a store.LightStore backed by a tm-db database. Traces
// (spec.md §4.5's justification chains) are kept in memory only: they
// are a bisection bookkeeping detail, not chain state worth persisting
// across restarts.
type Store struct {
	mu      sync.Mutex
	chainID string
	db      dbm.DB
	cdc     *amino.Codec
	limit   int

	traces map[types.Height][]types.Height
}

var _ store.LightStore = (*Store)(nil)

// New returns a persistent LightStore over db, namespaced by chainID.
func New(chainID string, db dbm.DB) *Store {
	return &Store{
		chainID: chainID,
		db:      db,
		cdc:     amino.NewCodec(),
		traces:  make(map[types.Height][]types.Height),
	}
}

// SetLimit bounds the number of distinct heights retained; older
// heights are pruned on the next Insert once the limit is exceeded.
func (s *Store) SetLimit(limit int) *Store {
	s.limit = limit
	return s
}

type persistedEntry struct {
	Block  *types.LightBlock
	Status types.TrustStatus
}

func (s *Store) Insert(lb *types.LightBlock, status types.TrustStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, status2, err := s.get(lb.Height()); err == nil {
		if !existing.Hash().Equal(lb.Hash()) {
			return fmt.Errorf("store already has a different block at height %d", lb.Height())
		}
		status = status2.Promote(status)
	}
	if err := s.put(lb, status); err != nil {
		return err
	}
	if s.limit > 0 {
		s.deleteAfterN(s.limit)
	}
	return nil
}

func (s *Store) Update(lb *types.LightBlock, newStatus types.TrustStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, status, err := s.get(lb.Height())
	if err != nil {
		return s.put(lb, newStatus)
	}
	if !existing.Hash().Equal(lb.Hash()) {
		return fmt.Errorf("store already has a different block at height %d", lb.Height())
	}
	return s.put(lb, status.Promote(newStatus))
}

func (s *Store) Get(h types.Height) (*types.LightBlock, types.TrustStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(h)
}

func (s *Store) GetNonFailed(h types.Height) (*types.LightBlock, types.TrustStatus, error) {
	lb, status, err := s.Get(h)
	if err != nil {
		return nil, 0, err
	}
	if status == types.StatusFailed {
		return nil, 0, store.ErrNotFound
	}
	return lb, status, nil
}

func (s *Store) GetTrustedOrVerified(h types.Height) (*types.LightBlock, error) {
	lb, status, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	if status != types.StatusTrusted && status != types.StatusVerified {
		return nil, store.ErrNotFound
	}
	return lb, nil
}

func (s *Store) HighestTrustedOrVerified() (*types.LightBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	itr := s.db.ReverseIterator(entryKey(s.chainID, 1), entryKeyUpperBound(s.chainID))
	defer itr.Close()

	for itr.Valid() {
		_, _, ok := parseEntryKey(itr.Key())
		if ok {
			e, err := s.decode(itr.Value())
			if err == nil && (e.Status == types.StatusTrusted || e.Status == types.StatusVerified) {
				return e.Block, nil
			}
		}
		itr.Next()
	}
	return nil, store.ErrNotFound
}

func (s *Store) LowestTrustedOrVerified() (*types.LightBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	itr := s.db.Iterator(entryKey(s.chainID, 1), entryKeyUpperBound(s.chainID))
	defer itr.Close()

	for itr.Valid() {
		_, _, ok := parseEntryKey(itr.Key())
		if ok {
			e, err := s.decode(itr.Value())
			if err == nil && (e.Status == types.StatusTrusted || e.Status == types.StatusVerified) {
				return e.Block, nil
			}
		}
		itr.Next()
	}
	return nil, store.ErrNotFound
}

func (s *Store) TraceBlock(targetH, intermediateH types.Height) {
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

func (s *Store) GetTrace(targetH types.Height) ([]*types.LightBlock, error) {
	s.mu.Lock()
	heights := append([]types.Height(nil), s.traces[targetH]...)
	s.mu.Unlock()

	if len(heights) == 0 {
		return nil, store.ErrNotFound
	}
	for i := 1; i < len(heights); i++ {
		for j := i; j > 0 && heights[j-1] > heights[j]; j-- {
			heights[j-1], heights[j] = heights[j], heights[j-1]
		}
	}

	out := make([]*types.LightBlock, 0, len(heights))
	for _, h := range heights {
		lb, _, err := s.Get(h)
		if err != nil {
			continue
		}
		out = append(out, lb)
	}
	if len(out) == 0 {
		return nil, store.ErrNotFound
	}
	return out, nil
}

func (s *Store) get(h types.Height) (*types.LightBlock, types.TrustStatus, error) {
	bz := s.db.Get(entryKey(s.chainID, h))
	if bz == nil {
		return nil, 0, store.ErrNotFound
	}
	e, err := s.decode(bz)
	if err != nil {
		return nil, 0, err
	}
	return e.Block, e.Status, nil
}

func (s *Store) put(lb *types.LightBlock, status types.TrustStatus) error {
	bz, err := s.cdc.MarshalBinaryLengthPrefixed(persistedEntry{Block: lb, Status: status})
	if err != nil {
		return err
	}
	return s.db.SetSync(entryKey(s.chainID, lb.Height()), bz)
}

func (s *Store) decode(bz []byte) (persistedEntry, error) {
	var e persistedEntry
	if err := s.cdc.UnmarshalBinaryLengthPrefixed(bz, &e); err != nil {
		return persistedEntry{}, err
	}
	return e, nil
}

// deleteAfterN removes all but the newest `after` distinct heights for
// the store's chain ID. Mirrors the teacher's deleteAfterN.
func (s *Store) deleteAfterN(after int) {
	itr := s.db.ReverseIterator(entryKey(s.chainID, 1), entryKeyUpperBound(s.chainID))
	defer itr.Close()

	seen := 0
	var lastHeight types.Height = -1
	for itr.Valid() {
		key := itr.Key()
		_, h, ok := parseEntryKey(key)
		if !ok {
			itr.Next()
			continue
		}
		if h != lastHeight {
			lastHeight = h
			seen++
		}
		if seen > after {
			s.db.Delete(key)
		}
		itr.Next()
	}
}

//----------------------------------------
// key encoding, grounded on lite/providers/db/db.go's signedHeaderKey scheme

func entryKey(chainID string, h types.Height) []byte {
	return []byte(fmt.Sprintf("%s/%020d/lb", chainID, h))
}

func entryKeyUpperBound(chainID string) []byte {
	return append(entryKey(chainID, 1<<62), byte(0x00))
}

var keyPattern = regexp.MustCompile(`^([^/]+)/([0-9]*)/(.*)$`)

func parseEntryKey(key []byte) (chainID string, h types.Height, ok bool) {
	submatch := keyPattern.FindSubmatch(key)
	if submatch == nil {
		return "", 0, false
	}
	heightInt, err := strconv.ParseInt(string(submatch[2]), 10, 64)
	if err != nil {
		return "", 0, false
	}
	return string(submatch[1]), heightInt, true
}
