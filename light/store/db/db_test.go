package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"

	"github.com/tm-lightclient/lightclient/internal/testutil"
	"github.com/tm-lightclient/lightclient/light/store"
	"github.com/tm-lightclient/lightclient/light/store/db"
	"github.com/tm-lightclient/lightclient/types"
)

func lightBlockAt(height types.Height) *types.LightBlock {
	keys := testutil.GenPrivKeys(2)
	vs := keys.ToValidators(10, 0)
	sh := keys.GenSignedHeader("test-chain", height, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), types.BlockID{}, vs, vs,
		testutil.Hash("app"), testutil.Hash("cons"), testutil.Hash("results"), 2)
	return testutil.GenLightBlock(sh, vs, vs, "primary")
}

func TestDBStore_InsertAndGet(t *testing.T) {
	s := db.New("test-chain", dbm.NewMemDB())
	lb := lightBlockAt(3)
	require.NoError(t, s.Insert(lb, types.StatusVerified))

	got, status, err := s.Get(3)
	require.NoError(t, err)
	assert.Equal(t, types.StatusVerified, status)
	assert.True(t, got.Hash().Equal(lb.Hash()))
}

func TestDBStore_Get_NotFound(t *testing.T) {
	s := db.New("test-chain", dbm.NewMemDB())
	_, _, err := s.Get(1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDBStore_HighestAndLowestTrustedOrVerified(t *testing.T) {
	s := db.New("test-chain", dbm.NewMemDB())
	require.NoError(t, s.Insert(lightBlockAt(1), types.StatusTrusted))
	require.NoError(t, s.Insert(lightBlockAt(5), types.StatusVerified))
	require.NoError(t, s.Insert(lightBlockAt(9), types.StatusFailed))

	highest, err := s.HighestTrustedOrVerified()
	require.NoError(t, err)
	assert.Equal(t, types.Height(5), highest.Height())

	lowest, err := s.LowestTrustedOrVerified()
	require.NoError(t, err)
	assert.Equal(t, types.Height(1), lowest.Height())
}

func TestDBStore_Update_PromotesStatus(t *testing.T) {
	s := db.New("test-chain", dbm.NewMemDB())
	lb := lightBlockAt(2)
	require.NoError(t, s.Insert(lb, types.StatusVerified))
	require.NoError(t, s.Update(lb, types.StatusTrusted))

	_, status, err := s.Get(2)
	require.NoError(t, err)
	assert.Equal(t, types.StatusTrusted, status)
}

func TestDBStore_TraceAndGetTrace(t *testing.T) {
	s := db.New("test-chain", dbm.NewMemDB())
	require.NoError(t, s.Insert(lightBlockAt(1), types.StatusTrusted))
	require.NoError(t, s.Insert(lightBlockAt(5), types.StatusVerified))

	s.TraceBlock(10, 5)
	s.TraceBlock(10, 1)

	trace, err := s.GetTrace(10)
	require.NoError(t, err)
	require.Len(t, trace, 2)
	assert.Equal(t, types.Height(1), trace[0].Height())
	assert.Equal(t, types.Height(5), trace[1].Height())
}

func TestDBStore_SetLimit_PrunesOldHeights(t *testing.T) {
	s := db.New("test-chain", dbm.NewMemDB()).SetLimit(2)
	require.NoError(t, s.Insert(lightBlockAt(1), types.StatusTrusted))
	require.NoError(t, s.Insert(lightBlockAt(2), types.StatusTrusted))
	require.NoError(t, s.Insert(lightBlockAt(3), types.StatusTrusted))

	_, _, err := s.Get(1)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, _, err = s.Get(3)
	assert.NoError(t, err)
}

func TestDBStore_Insert_RejectsConflictingBlock(t *testing.T) {
	s := db.New("test-chain", dbm.NewMemDB())
	lb1 := lightBlockAt(1)
	require.NoError(t, s.Insert(lb1, types.StatusVerified))

	lb2 := lightBlockAt(1)
	lb2.SignedHeader.Header.AppHash = testutil.Hash("different")
	err := s.Insert(lb2, types.StatusVerified)
	assert.Error(t, err)
}
