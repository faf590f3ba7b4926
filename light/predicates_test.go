package light

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tm-lightclient/lightclient/internal/testutil"
	"github.com/tm-lightclient/lightclient/types"
)

func TestIsWithinTrustPeriod(t *testing.T) {
	trustedTime := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, isWithinTrustPeriod(trustedTime, time.Hour, trustedTime.Add(30*time.Minute)))
	assert.Error(t, isWithinTrustPeriod(trustedTime, time.Hour, trustedTime.Add(2*time.Hour)))
}

func TestIsHeaderFromPast(t *testing.T) {
	now := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, isHeaderFromPast(now.Add(-time.Second), 5*time.Second, now))
	assert.Error(t, isHeaderFromPast(now.Add(time.Hour), 5*time.Second, now))
}

func TestIsMonotonicBftTime(t *testing.T) {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, isMonotonicBftTime(base.Add(time.Second), base))
	assert.Error(t, isMonotonicBftTime(base, base))
	assert.Error(t, isMonotonicBftTime(base.Add(-time.Second), base))
}

func TestIsMatchingChainID(t *testing.T) {
	assert.NoError(t, isMatchingChainID("a", "a"))
	assert.Error(t, isMatchingChainID("a", "b"))
}

func TestIsMonotonicHeight(t *testing.T) {
	assert.NoError(t, isMonotonicHeight(2, 1))
	assert.Error(t, isMonotonicHeight(1, 1))
	assert.Error(t, isMonotonicHeight(1, 2))
}

func TestValidatorSetsMatch(t *testing.T) {
	keys := testutil.GenPrivKeys(2)
	vs := keys.ToValidators(10, 0)
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	sh := keys.GenSignedHeader("test-chain", 2, base, types.BlockID{}, vs, vs,
		testutil.Hash("app"), testutil.Hash("cons"), testutil.Hash("results"), 2)
	lb := testutil.GenLightBlock(sh, vs, vs, "primary")
	assert.NoError(t, validatorSetsMatch(lb))

	other := testutil.GenPrivKeys(1).ToValidators(10, 0)
	lb.ValidatorSet = other
	assert.Error(t, validatorSetsMatch(lb))
}

func TestHeaderMatchesCommit(t *testing.T) {
	keys := testutil.GenPrivKeys(2)
	vs := keys.ToValidators(10, 0)
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	sh := keys.GenSignedHeader("test-chain", 2, base, types.BlockID{}, vs, vs,
		testutil.Hash("app"), testutil.Hash("cons"), testutil.Hash("results"), 2)
	assert.NoError(t, headerMatchesCommit(sh))

	sh.Commit.BlockID.Hash = testutil.Hash("wrong")
	assert.Error(t, headerMatchesCommit(sh))
}

func TestHasSufficientSignersOverlap(t *testing.T) {
	keys := testutil.GenPrivKeys(3)
	vs := keys.ToValidators(10, 0)
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	calc := DefaultVotingPowerCalculator{}

	full := keys.GenSignedHeader("test-chain", 2, base, types.BlockID{}, vs, vs,
		testutil.Hash("app"), testutil.Hash("cons"), testutil.Hash("results"), 3)
	assert.NoError(t, hasSufficientSignersOverlap(full, vs, calc))

	partial := keys.GenSignedHeader("test-chain", 2, base, types.BlockID{}, vs, vs,
		testutil.Hash("app"), testutil.Hash("cons"), testutil.Hash("results"), 1)
	err := hasSufficientSignersOverlap(partial, vs, calc)
	assert.Error(t, err)
	_, ok := tallyOf(err)
	assert.True(t, ok)
}
