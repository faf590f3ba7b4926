package types

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/tm-lightclient/lightclient/crypto"
)

// Address is the 20-byte identifier derived from a validator's public key.
type Address = crypto.Address

// Validator is a full-node's identity and its share of voting power.
//
// spec.md §3: address is derived deterministically from public_key;
// voting_power is a non-negative integer.
type Validator struct {
	Address     Address       `json:"address"`
	PubKey      crypto.PubKey `json:"pub_key"`
	VotingPower int64         `json:"voting_power"`
}

// NewValidator derives Address from pubKey and pins the given voting power.
func NewValidator(pubKey crypto.PubKey, votingPower int64) *Validator {
	return &Validator{
		Address:     pubKey.Address(),
		PubKey:      pubKey,
		VotingPower: votingPower,
	}
}

func (v *Validator) String() string {
	if v == nil {
		return "nil-Validator"
	}
	return fmt.Sprintf("Validator{%X power=%d}", v.Address, v.VotingPower)
}

// ValidatorSet is an ordered, duplicate-free collection of validators.
//
// spec.md §3: ordered by descending voting power then ascending address;
// total_power must fit a signed 64-bit integer.
type ValidatorSet struct {
	Validators []*Validator `json:"validators"`

	totalVotingPower int64
}

// NewValidatorSet sorts, validates and wraps the given validators.
func NewValidatorSet(vals []*Validator) (*ValidatorSet, error) {
	vs := &ValidatorSet{Validators: append([]*Validator(nil), vals...)}
	vs.sort()
	if err := vs.validate(); err != nil {
		return nil, err
	}
	vs.totalVotingPower = vs.computeTotalVotingPower()
	return vs, nil
}

func (vs *ValidatorSet) sort() {
	sort.SliceStable(vs.Validators, func(i, j int) bool {
		a, b := vs.Validators[i], vs.Validators[j]
		if a.VotingPower != b.VotingPower {
			return a.VotingPower > b.VotingPower
		}
		return bytes.Compare(a.Address[:], b.Address[:]) < 0
	})
}

func (vs *ValidatorSet) validate() error {
	seen := make(map[Address]struct{}, len(vs.Validators))
	for _, v := range vs.Validators {
		if v.VotingPower < 0 {
			return errors.Errorf("validator %X has negative voting power %d", v.Address, v.VotingPower)
		}
		if _, dup := seen[v.Address]; dup {
			return errors.Errorf("duplicate validator address %X", v.Address)
		}
		seen[v.Address] = struct{}{}
	}
	return nil
}

func (vs *ValidatorSet) computeTotalVotingPower() int64 {
	var sum int64
	for _, v := range vs.Validators {
		prev := sum
		sum += v.VotingPower
		if sum < prev {
			panic("total voting power overflows a signed 64-bit integer")
		}
	}
	return sum
}

// TotalVotingPower returns the sum of every validator's voting power.
func (vs *ValidatorSet) TotalVotingPower() int64 {
	if vs == nil {
		return 0
	}
	return vs.totalVotingPower
}

// GetByAddress returns the validator with the given address, or nil.
func (vs *ValidatorSet) GetByAddress(addr Address) *Validator {
	if vs == nil {
		return nil
	}
	for _, v := range vs.Validators {
		if v.Address == addr {
			return v
		}
	}
	return nil
}

// Size returns the number of validators in the set.
func (vs *ValidatorSet) Size() int {
	if vs == nil {
		return 0
	}
	return len(vs.Validators)
}

// Hash returns the digest identifying this validator set. It is not a
// Merkle root: it is a single SHA-256 over the whole set.
//
// We compute it as the SHA-256 of the amino-encoded, already-sorted
// validator slice: the teacher persists validator sets with exactly this
// codec (lite/providers/db/db.go), so reusing it for hashing keeps one
// canonical encoding for both storage and identity.
func (vs *ValidatorSet) Hash() Hash {
	if vs == nil || len(vs.Validators) == 0 {
		return EmptyHash()
	}
	bz, err := cdc.MarshalBinaryBare(vs.Validators)
	if err != nil {
		panic(errors.Wrap(err, "marshalling validator set for hashing"))
	}
	return hashBytes(bz)
}
