package types

import "time"

// LightClientAttackEvidence is produced by the evidence builder when two
// providers disagree about the canonical header at a height, per
// spec.md §3 and §4.9. Its wire form is this struct's own JSON encoding,
// not the consensus network's protobuf evidence encoding. Header hashes
// and evidence hashes are both computed in this package, so a single
// Hash() implementation keeps the two consistent (see DESIGN.md's note on
// the evidence hasher open question).
type LightClientAttackEvidence struct {
	ConflictingBlock    *LightBlock  `json:"conflicting_block"`
	CommonHeight        Height       `json:"common_height"`
	ByzantineValidators []*Validator `json:"byzantine_validators"`
	TotalVotingPower    int64        `json:"total_voting_power"`
	Timestamp           time.Time    `json:"timestamp"`
}

// Hash identifies this piece of evidence for de-duplication and for the
// report_evidence RPC's return value (spec.md §6).
func (e *LightClientAttackEvidence) Hash() Hash {
	if e == nil || e.ConflictingBlock == nil {
		return EmptyHash()
	}
	bz, err := cdc.MarshalBinaryBare(struct {
		ConflictingHash Hash
		CommonHeight    Height
	}{
		ConflictingHash: e.ConflictingBlock.Hash(),
		CommonHeight:    e.CommonHeight,
	})
	if err != nil {
		panic(err)
	}
	return hashBytes(bz)
}

// ByzantineVotingPower sums the voting power of the implicated validators.
func (e *LightClientAttackEvidence) ByzantineVotingPower() int64 {
	if e == nil {
		return 0
	}
	var sum int64
	for _, v := range e.ByzantineValidators {
		sum += v.VotingPower
	}
	return sum
}
