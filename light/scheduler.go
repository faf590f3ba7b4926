package light

import (
	"github.com/tm-lightclient/lightclient/light/store"
	"github.com/tm-lightclient/lightclient/types"
)

// Schedule chooses the next height to fetch during bisection, per
// spec.md §4.4. It is stateless: every call derives its answer solely
// from s's current contents and the two height arguments.
//
// Policy: if the target is already verified-or-better, return it
// (bisection is done). Otherwise bisect between the highest
// trusted-or-verified height (lo) and the most recently attempted height
// (hi, capped at target), with a tie-break that jumps straight to hi
// when lo and hi are adjacent.
func Schedule(s store.LightStore, currentHeight, targetHeight types.Height) types.Height {
	if _, err := s.GetTrustedOrVerified(targetHeight); err == nil {
		return targetHeight
	}

	lo, err := s.HighestTrustedOrVerified()
	if err != nil {
		// No trusted anchor at all; the caller (light client) is
		// expected to have already failed with NoInitialTrustedState
		// before ever reaching the scheduler.
		return targetHeight
	}
	loH := lo.Height()

	hi := currentHeight
	if hi > targetHeight {
		hi = targetHeight
	}
	if hi <= loH {
		hi = targetHeight
	}

	if loH+1 == hi && hi != targetHeight {
		return hi
	}

	mid := (loH + hi) / 2
	if mid <= loH {
		mid = hi
	}
	return mid
}
