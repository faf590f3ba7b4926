package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tm-lightclient/lightclient/types"
)

func TestTrustThreshold_ValidateBasic(t *testing.T) {
	assert.NoError(t, types.DefaultTrustThreshold.ValidateBasic())
	assert.Error(t, types.TrustThreshold{Numerator: 1, Denominator: 0}.ValidateBasic())
	assert.Error(t, types.TrustThreshold{Numerator: 0, Denominator: 3}.ValidateBasic())
	assert.Error(t, types.TrustThreshold{Numerator: 4, Denominator: 3}.ValidateBasic())
}

func TestTrustThreshold_ExceededBy(t *testing.T) {
	oneThird := types.DefaultTrustThreshold
	assert.True(t, oneThird.ExceededBy(34, 100))
	assert.False(t, oneThird.ExceededBy(33, 100))
}

func TestTrustStatus_RankOrdering(t *testing.T) {
	assert.Less(t, types.StatusUnverified.Rank(), types.StatusVerified.Rank())
	assert.Less(t, types.StatusVerified.Rank(), types.StatusTrusted.Rank())
}

func TestTrustStatus_PromoteIsMonotonic(t *testing.T) {
	assert.Equal(t, types.StatusVerified, types.StatusUnverified.Promote(types.StatusVerified))
	assert.Equal(t, types.StatusTrusted, types.StatusTrusted.Promote(types.StatusVerified))
}

func TestTrustStatus_FailedIsSticky(t *testing.T) {
	assert.Equal(t, types.StatusFailed, types.StatusFailed.Promote(types.StatusTrusted))
	assert.Equal(t, types.StatusFailed, types.StatusTrusted.Promote(types.StatusFailed))
}

func TestTrustStatus_String(t *testing.T) {
	assert.Equal(t, "Trusted", types.StatusTrusted.String())
	assert.Equal(t, "Failed", types.StatusFailed.String())
}
