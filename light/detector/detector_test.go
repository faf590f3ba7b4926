package detector_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-lightclient/lightclient/internal/testutil"
	"github.com/tm-lightclient/lightclient/light/detector"
	"github.com/tm-lightclient/lightclient/light/provider"
	"github.com/tm-lightclient/lightclient/light/provider/mock"
	"github.com/tm-lightclient/lightclient/types"
)

func genBlock(height types.Height, appHash string) *types.LightBlock {
	keys := testutil.GenPrivKeys(4)
	vs := keys.ToValidators(10, 0)
	sh := keys.GenSignedHeader("test-chain", height, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), types.BlockID{}, vs, vs,
		testutil.Hash(appHash), testutil.Hash("cons"), testutil.Hash("results"), 4)
	return testutil.GenLightBlock(sh, vs, vs, "witness")
}

func TestCrossReference_NoWitnesses(t *testing.T) {
	h := genBlock(5, "app").SignedHeader
	_, err := detector.CrossReference(context.Background(), h, nil, detector.Options{})
	assert.ErrorIs(t, err, detector.ErrNoWitnesses)
}

func TestCrossReference_AllWitnessesAgree(t *testing.T) {
	primaryBlock := genBlock(5, "app")
	w1 := mock.New("w1")
	w1.AddBlock(primaryBlock)
	w2 := mock.New("w2")
	w2.AddBlock(primaryBlock)

	res, err := detector.CrossReference(context.Background(), primaryBlock.SignedHeader, []provider.Provider{w1, w2}, detector.Options{})
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Empty(t, res.Conflicts)
}

func TestCrossReference_WitnessDisagrees(t *testing.T) {
	primaryBlock := genBlock(5, "primary-app")
	conflicting := genBlock(5, "attacker-app")

	w1 := mock.New("w1")
	w1.AddBlock(conflicting)

	res, err := detector.CrossReference(context.Background(), primaryBlock.SignedHeader, []provider.Provider{w1}, detector.Options{})
	require.NoError(t, err)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, 0, res.Conflicts[0].WitnessIndex)
	assert.Contains(t, res.WitnessesToRemove, 0)
}

func TestCrossReference_WitnessErrorsAreNotFatal(t *testing.T) {
	primaryBlock := genBlock(5, "app")
	agreeing := mock.New("w-agree")
	agreeing.AddBlock(primaryBlock)

	empty := mock.New("w-empty")

	res, err := detector.CrossReference(context.Background(), primaryBlock.SignedHeader, []provider.Provider{agreeing, empty}, detector.Options{})
	require.NoError(t, err)
	assert.True(t, res.Matched)
}

func TestCrossReference_FailsWhenNoWitnessConfirms(t *testing.T) {
	primaryBlock := genBlock(5, "app")
	empty := mock.New("w-empty")

	_, err := detector.CrossReference(context.Background(), primaryBlock.SignedHeader, []provider.Provider{empty}, detector.Options{})
	assert.ErrorIs(t, err, detector.ErrFailedHeaderCrossReferencing)
}
