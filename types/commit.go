package types

import (
	"math/big"

	"github.com/rs/zerolog"

	"github.com/lightcmt/commitverify/crypto"
	tmbytes "github.com/lightcmt/commitverify/libs/bytes"
)

// BlockIDFlag indicates what, if anything, a validator's commit slot
// attests to. 0 is reserved and never valid.
type BlockIDFlag int8

const (
	BlockIDFlagAbsent BlockIDFlag = 1
	BlockIDFlagCommit BlockIDFlag = 2
	BlockIDFlagNil    BlockIDFlag = 3
)

func (f BlockIDFlag) String() string {
	switch f {
	case BlockIDFlagAbsent:
		return "absent"
	case BlockIDFlagCommit:
		return "commit"
	case BlockIDFlagNil:
		return "nil"
	default:
		return "unknown"
	}
}

// Valid reports whether f is one of the three defined flags.
func (f BlockIDFlag) Valid() bool {
	switch f {
	case BlockIDFlagAbsent, BlockIDFlagCommit, BlockIDFlagNil:
		return true
	default:
		return false
	}
}

// CommitSig is one validator's slot in a commit: whether it voted for the
// block, its address, an optional timestamp, and its signature (empty for
// anything other than a Commit vote).
type CommitSig struct {
	BlockIDFlag      BlockIDFlag
	ValidatorAddress crypto.Address // 20 bytes
	Timestamp        Time           // zero value if absent
	Signature        tmbytes.HexBytes
}

// ForBlock reports whether this slot is a vote for the committed block.
func (cs CommitSig) ForBlock() bool {
	return cs.BlockIDFlag == BlockIDFlagCommit
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (cs CommitSig) MarshalZerologObject(e *zerolog.Event) {
	e.Str("flag", cs.BlockIDFlag.String()).
		Str("validator_address", cs.ValidatorAddress.String())
}

// Commit is the set of votes collected by consensus at a given height,
// certifying a specific block.
type Commit struct {
	Height     *big.Int
	Round      int32
	BlockID    BlockID
	Signatures []CommitSig
}
