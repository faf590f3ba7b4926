package types

import (
	"time"

	"github.com/pkg/errors"

	"github.com/tm-lightclient/lightclient/crypto"
)

// BlockIDFlag distinguishes the three shapes a commit signature can take,
// per spec.md §3.
type BlockIDFlag int

const (
	// BlockIDFlagAbsent means the validator did not sign at all.
	BlockIDFlagAbsent BlockIDFlag = iota
	// BlockIDFlagCommit means the validator signed the commit's block.
	BlockIDFlagCommit
	// BlockIDFlagNil means the validator precommitted nil.
	BlockIDFlagNil
)

// CommitSig is one validator's contribution to a Commit.
type CommitSig struct {
	BlockIDFlag      BlockIDFlag    `json:"block_id_flag"`
	ValidatorAddress crypto.Address `json:"validator_address"`
	Timestamp        time.Time      `json:"timestamp"`
	Signature        []byte         `json:"signature"`
}

// Absent reports whether the validator did not sign at all.
func (cs CommitSig) Absent() bool { return cs.BlockIDFlag == BlockIDFlagAbsent }

// ForBlock reports whether this signature commits to the block (as
// opposed to nil or absent).
func (cs CommitSig) ForBlock() bool { return cs.BlockIDFlag == BlockIDFlagCommit }

// Commit is the set of validator signatures finalising a block at a height.
type Commit struct {
	Height     Height      `json:"height"`
	Round      int32       `json:"round"`
	BlockID    BlockID     `json:"block_id"`
	Signatures []CommitSig `json:"signatures"`
}

// ValidateBasic checks the structural invariants that don't require a
// validator set: positive height, non-negative round, non-zero block ID,
// and no validator address signing twice.
func (c *Commit) ValidateBasic() error {
	if c == nil {
		return errors.New("nil commit")
	}
	if c.Height <= 0 {
		return errors.Errorf("non-positive commit height %d", c.Height)
	}
	if c.Round < 0 {
		return errors.Errorf("negative commit round %d", c.Round)
	}
	if c.BlockID.IsZero() {
		return errors.New("commit references the zero block ID")
	}
	seen := make(map[crypto.Address]struct{}, len(c.Signatures))
	for i, sig := range c.Signatures {
		if sig.Absent() {
			continue
		}
		if _, dup := seen[sig.ValidatorAddress]; dup {
			return errors.Errorf("duplicate signature from validator %X at index %d", sig.ValidatorAddress, i)
		}
		seen[sig.ValidatorAddress] = struct{}{}
	}
	return nil
}

// SignedHeader pairs a Header with the Commit that finalises it.
type SignedHeader struct {
	Header *Header `json:"header"`
	Commit *Commit `json:"commit"`
}

// ValidateBasic enforces the SignedHeader invariant from spec.md §3:
// commit.block_id.hash == header.hash() and commit.height == header.height.
func (sh *SignedHeader) ValidateBasic(chainID string) error {
	if sh == nil || sh.Header == nil || sh.Commit == nil {
		return errors.New("incomplete signed header")
	}
	if err := sh.Header.ValidateBasic(); err != nil {
		return errors.Wrap(err, "invalid header")
	}
	if err := sh.Commit.ValidateBasic(); err != nil {
		return errors.Wrap(err, "invalid commit")
	}
	if sh.Header.ChainID != chainID {
		return errors.Errorf("header chain ID %q does not match expected %q", sh.Header.ChainID, chainID)
	}
	if sh.Commit.Height != sh.Header.Height {
		return errors.Errorf("commit height %d does not match header height %d", sh.Commit.Height, sh.Header.Height)
	}
	if !sh.Commit.BlockID.Hash.Equal(sh.Header.Hash()) {
		return errors.Errorf("commit block ID hash %X does not match header hash %X",
			sh.Commit.BlockID.Hash, sh.Header.Hash())
	}
	return nil
}

// Hash returns the header's identity hash.
func (sh *SignedHeader) Hash() Hash {
	if sh == nil {
		return EmptyHash()
	}
	return sh.Header.Hash()
}
