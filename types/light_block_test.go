package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-lightclient/lightclient/internal/testutil"
	"github.com/tm-lightclient/lightclient/types"
)

func genLightBlock(t *testing.T, height types.Height, nSigners int) *types.LightBlock {
	t.Helper()
	keys := testutil.GenPrivKeys(4)
	vs := keys.ToValidators(10, 0)
	sh := keys.GenSignedHeader("test-chain", height, fixedTime, types.BlockID{}, vs, vs,
		testutil.Hash("app"), testutil.Hash("cons"), testutil.Hash("results"), nSigners)
	return testutil.GenLightBlock(sh, vs, vs, "peer1")
}

func TestLightBlock_ValidateBasic(t *testing.T) {
	lb := genLightBlock(t, 1, 4)
	require.NoError(t, lb.ValidateBasic("test-chain"))
}

func TestLightBlock_ValidateBasic_RejectsValidatorsHashMismatch(t *testing.T) {
	lb := genLightBlock(t, 1, 4)
	otherKeys := testutil.GenPrivKeys(2)
	lb.ValidatorSet = otherKeys.ToValidators(10, 0)
	assert.Error(t, lb.ValidateBasic("test-chain"))
}

func TestLightBlock_Accessors(t *testing.T) {
	lb := genLightBlock(t, 5, 4)
	assert.Equal(t, types.Height(5), lb.Height())
	assert.Equal(t, fixedTime, lb.Time())
	assert.True(t, lb.Hash().Equal(lb.SignedHeader.Hash()))
}

func TestLightBlock_Accessors_NilSafe(t *testing.T) {
	var lb *types.LightBlock
	assert.Equal(t, types.Height(0), lb.Height())
	assert.True(t, lb.Time().IsZero())
	assert.True(t, lb.Hash().IsEmpty())
}
