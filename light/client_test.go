package light_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-lightclient/lightclient/internal/testutil"
	"github.com/tm-lightclient/lightclient/light"
	"github.com/tm-lightclient/lightclient/light/provider/mock"
	"github.com/tm-lightclient/lightclient/light/store"
	"github.com/tm-lightclient/lightclient/types"
)

// buildChain deterministically signs a run of nBlocks headers, each with
// a full validator set and every validator signing, chained via
// last_block_id so that backward verification can walk it.
func buildChain(keys testutil.PrivKeys, vs *types.ValidatorSet, nBlocks int) []*types.LightBlock {
	blocks := make([]*types.LightBlock, nBlocks)
	var lastBlockID types.BlockID
	for i := 0; i < nBlocks; i++ {
		height := types.Height(i + 1)
		t := fixedTime.Add(time.Duration(i) * time.Second)
		sh := keys.GenSignedHeader("test-chain", height, t, lastBlockID, vs, vs,
			testutil.Hash("app"), testutil.Hash("cons"), testutil.Hash("results"), len(keys))
		lb := testutil.GenLightBlock(sh, vs, vs, "primary")
		blocks[i] = lb
		lastBlockID = types.BlockID{Hash: lb.Hash()}
	}
	return blocks
}

func newTestClient(t *testing.T, p *mock.Provider, now time.Time) *light.Client {
	t.Helper()
	c := light.NewClient("test-chain", light.DefaultOptions(), p, store.New(), nil)
	c.Clock = light.FixedClock{At: now}
	return c
}

func TestClient_Bootstrap(t *testing.T) {
	keys := testutil.GenPrivKeys(4)
	vs := keys.ToValidators(10, 0)
	chain := buildChain(keys, vs, 1)

	p := mock.New("primary")
	p.AddBlock(chain[0])

	c := newTestClient(t, p, fixedTime.Add(time.Second))
	lb, err := c.Bootstrap(context.Background(), 1, chain[0].Hash())
	require.NoError(t, err)
	assert.Equal(t, types.Height(1), lb.Height())
}

func TestClient_Bootstrap_RejectsHashMismatch(t *testing.T) {
	keys := testutil.GenPrivKeys(4)
	vs := keys.ToValidators(10, 0)
	chain := buildChain(keys, vs, 1)

	p := mock.New("primary")
	p.AddBlock(chain[0])

	c := newTestClient(t, p, fixedTime.Add(time.Second))
	_, err := c.Bootstrap(context.Background(), 1, testutil.Hash("wrong"))
	assert.True(t, light.IsErrInvalidLightBlock(err))
}

func TestClient_VerifyToTarget_ForwardBisection(t *testing.T) {
	keys := testutil.GenPrivKeys(4)
	vs := keys.ToValidators(10, 0)
	chain := buildChain(keys, vs, 10)

	p := mock.New("primary")
	for _, lb := range chain {
		p.AddBlock(lb)
	}

	now := chain[len(chain)-1].Time().Add(time.Second)
	c := newTestClient(t, p, now)
	_, err := c.Bootstrap(context.Background(), 1, chain[0].Hash())
	require.NoError(t, err)

	got, err := c.VerifyToTarget(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, types.Height(10), got.Height())
}

func TestClient_VerifyToTarget_BackwardVerification(t *testing.T) {
	keys := testutil.GenPrivKeys(4)
	vs := keys.ToValidators(10, 0)
	chain := buildChain(keys, vs, 5)

	p := mock.New("primary")
	for _, lb := range chain {
		p.AddBlock(lb)
	}

	now := chain[len(chain)-1].Time().Add(time.Second)
	c := newTestClient(t, p, now)
	_, err := c.Bootstrap(context.Background(), 5, chain[4].Hash())
	require.NoError(t, err)

	got, err := c.VerifyToTarget(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, types.Height(2), got.Height())
}

func TestClient_VerifyToTarget_RejectsExpiredTrustedState(t *testing.T) {
	keys := testutil.GenPrivKeys(4)
	vs := keys.ToValidators(10, 0)
	chain := buildChain(keys, vs, 3)

	p := mock.New("primary")
	for _, lb := range chain {
		p.AddBlock(lb)
	}

	c := newTestClient(t, p, chain[0].Time().Add(time.Second))
	_, err := c.Bootstrap(context.Background(), 1, chain[0].Hash())
	require.NoError(t, err)

	c.Options.TrustingPeriod = time.Millisecond
	c.Clock = light.FixedClock{At: chain[0].Time().Add(time.Hour)}

	_, err = c.VerifyToTarget(context.Background(), 3)
	assert.True(t, light.IsErrTrustedStateOutsideTrustingPeriod(err))
}
