// Package testutil builds signed headers and validator sets for tests
// across this module, mirroring the genPrivKeys/ToValidators/GenSignedHeader
// helpers used by the reference light client test suite.
package testutil

import (
	"time"

	"github.com/tm-lightclient/lightclient/crypto"
	"github.com/tm-lightclient/lightclient/types"
)

// PrivKeys is an ordered list of validator private keys.
type PrivKeys []crypto.PrivKey

// GenPrivKeys deterministically derives n private keys from a fixed seed
// sequence, so tests are reproducible without real randomness.
func GenPrivKeys(n int) PrivKeys {
	keys := make(PrivKeys, n)
	for i := range keys {
		var seed [32]byte
		seed[0] = byte(i + 1)
		keys[i] = crypto.GenPrivKey(seed[:])
	}
	return keys
}

// ToValidators builds a ValidatorSet giving the first key votingPower
// and every other key votingPower+powerDelta, matching the reference
// helper's (votingPower, powerDelta) signature.
func (pk PrivKeys) ToValidators(votingPower, powerDelta int64) *types.ValidatorSet {
	vals := make([]*types.Validator, len(pk))
	for i, k := range pk {
		power := votingPower
		if i > 0 {
			power = votingPower + powerDelta
		}
		vals[i] = types.NewValidator(k.PubKey(), power)
	}
	vs, err := types.NewValidatorSet(vals)
	if err != nil {
		panic(err)
	}
	return vs
}

// Hash derives a deterministic 32-byte Hash from a label, for filling
// the header fields tests don't care about the real value of.
func Hash(label string) types.Hash {
	var h types.Hash
	copy(h[:], label)
	for i := len(label); i < len(h); i++ {
		h[i] = byte(i)
	}
	return h
}

// GenSignedHeader builds a SignedHeader at height, signed by the first
// nSigners validators of valSet in the set's sorted order (each using its
// key from pk), with next-validators nextValSet.
func (pk PrivKeys) GenSignedHeader(
	chainID string,
	height types.Height,
	t time.Time,
	lastBlockID types.BlockID,
	valSet, nextValSet *types.ValidatorSet,
	appHash, consHash, resultsHash types.Hash,
	nSigners int,
) *types.SignedHeader {
	header := &types.Header{
		ChainID:            chainID,
		Height:             height,
		Time:               t,
		LastBlockID:        lastBlockID,
		ValidatorsHash:     valSet.Hash(),
		NextValidatorsHash: nextValSet.Hash(),
		ConsensusHash:      consHash,
		AppHash:            appHash,
		LastResultsHash:    resultsHash,
		ProposerAddress:    valSet.Validators[0].Address,
	}
	headerHash := header.Hash()

	blockID := types.BlockID{Hash: headerHash}
	sigs := make([]types.CommitSig, len(valSet.Validators))
	for i, val := range valSet.Validators {
		if i >= nSigners {
			sigs[i] = types.CommitSig{BlockIDFlag: types.BlockIDFlagAbsent, ValidatorAddress: val.Address}
			continue
		}
		key := keyFor(pk, val.Address)
		signBytes := crypto.PrecommitSignBytes(
			chainID, height, 0,
			crypto.CanonicalBlockID{
				Hash:          blockID.Hash.Bytes(),
				PartSetTotal:  blockID.PartSetHeader.Total,
				PartSetHeader: blockID.PartSetHeader.Hash.Bytes(),
			},
			t,
		)
		sigs[i] = types.CommitSig{
			BlockIDFlag:      types.BlockIDFlagCommit,
			ValidatorAddress: val.Address,
			Timestamp:        t,
			Signature:        key.Sign(signBytes),
		}
	}

	return &types.SignedHeader{
		Header: header,
		Commit: &types.Commit{
			Height:     height,
			Round:      0,
			BlockID:    blockID,
			Signatures: sigs,
		},
	}
}

func keyFor(pk PrivKeys, addr types.Address) crypto.PrivKey {
	for _, k := range pk {
		if k.PubKey().Address() == addr {
			return k
		}
	}
	panic("no private key for validator address")
}

// GenLightBlock bundles a generated SignedHeader with its validator sets
// into a LightBlock.
func GenLightBlock(sh *types.SignedHeader, valSet, nextValSet *types.ValidatorSet, providerID string) *types.LightBlock {
	return &types.LightBlock{
		SignedHeader:     sh,
		ValidatorSet:     valSet,
		NextValidatorSet: nextValSet,
		ProviderID:       providerID,
	}
}
