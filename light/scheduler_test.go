package light_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-lightclient/lightclient/internal/testutil"
	"github.com/tm-lightclient/lightclient/light"
	"github.com/tm-lightclient/lightclient/light/store"
	"github.com/tm-lightclient/lightclient/types"
)

func insertAt(t *testing.T, s store.LightStore, height types.Height, status types.TrustStatus) {
	t.Helper()
	keys := testutil.GenPrivKeys(2)
	vs := keys.ToValidators(10, 0)
	sh := keys.GenSignedHeader("test-chain", height, fixedTime, types.BlockID{}, vs, vs,
		testutil.Hash("app"), testutil.Hash("cons"), testutil.Hash("results"), 2)
	lb := testutil.GenLightBlock(sh, vs, vs, "primary")
	require.NoError(t, s.Insert(lb, status))
}

func TestSchedule_ReturnsTargetWhenAlreadyVerified(t *testing.T) {
	s := store.New()
	insertAt(t, s, 10, types.StatusTrusted)
	assert.Equal(t, types.Height(10), light.Schedule(s, 1, 10))
}

func TestSchedule_BisectsBetweenTrustedAndCurrent(t *testing.T) {
	s := store.New()
	insertAt(t, s, 1, types.StatusTrusted)
	h := light.Schedule(s, 1, 100)
	assert.Greater(t, h, types.Height(1))
	assert.LessOrEqual(t, h, types.Height(100))
}

func TestSchedule_JumpsToHiWhenAdjacentToLo(t *testing.T) {
	s := store.New()
	insertAt(t, s, 9, types.StatusTrusted)
	h := light.Schedule(s, 10, 100)
	assert.Equal(t, types.Height(10), h)
}
