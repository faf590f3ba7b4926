// Package light implements the Tendermint-style light client: a
// fault-tolerant protocol for verifying a block header at some target
// height given a previously trusted header, without downloading or
// replaying the full chain history.
//
// The client speaks to one primary peer through a Provider and tracks
// verification state in a LightStore. It supports two verification
// strategies:
//
//   - Forward bisection (verifyToTarget when the target is ahead of the
//     highest trusted block): tries to verify the target directly by
//     voting-power overlap ("skipping verification"), and whenever the
//     overlap is not enough, tries the midpoint between the highest
//     trusted height and the height just attempted.
//   - Backward sequential verification (when the target is behind the
//     highest trusted block): walks down from the trusted anchor,
//     checking that each header's hash matches its child's last_block_id.
//
// Verification itself is delegated to a stateless Verifier built from
// Predicates, a VotingPowerCalculator and a CommitValidator; the client
// owns only the bisection/sequential control flow and the store.
//
// This package corresponds to spec.md §4.1-4.6. Fork detection
// (cross-referencing witnesses) and evidence construction live in the
// sibling light/detector and light/evidence packages; orchestration
// across a primary and witness set lives in the supervisor package.
package light
