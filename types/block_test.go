package types_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-lightclient/lightclient/internal/testutil"
	"github.com/tm-lightclient/lightclient/types"
)

var fixedTime = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func validHeader() *types.Header {
	keys := testutil.GenPrivKeys(1)
	vs := keys.ToValidators(10, 0)
	return &types.Header{
		ChainID:            "test-chain",
		Height:             1,
		Time:               fixedTime,
		ValidatorsHash:     vs.Hash(),
		NextValidatorsHash: vs.Hash(),
		AppHash:            testutil.Hash("app"),
		ProposerAddress:    vs.Validators[0].Address,
	}
}

func TestHeader_ValidateBasic(t *testing.T) {
	h := validHeader()
	require.NoError(t, h.ValidateBasic())

	missingChainID := validHeader()
	missingChainID.ChainID = ""
	assert.Error(t, missingChainID.ValidateBasic())

	zeroHeight := validHeader()
	zeroHeight.Height = 0
	assert.Error(t, zeroHeight.ValidateBasic())

	zeroTime := validHeader()
	zeroTime.Time = time.Time{}
	assert.Error(t, zeroTime.ValidateBasic())

	emptyAppHash := validHeader()
	emptyAppHash.AppHash = types.EmptyHash()
	assert.Error(t, emptyAppHash.ValidateBasic())
}

func TestHeader_HashIsStableAndSensitiveToContent(t *testing.T) {
	h1 := validHeader()
	h2 := validHeader()
	assert.True(t, h1.Hash().Equal(h2.Hash()))

	h3 := validHeader()
	h3.Height = 2
	assert.False(t, h1.Hash().Equal(h3.Hash()))
}

func TestBlockID_IsZero(t *testing.T) {
	assert.True(t, types.BlockID{}.IsZero())
	assert.False(t, types.BlockID{Hash: testutil.Hash("x")}.IsZero())
}
