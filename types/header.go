package types

import (
	"math/big"

	"github.com/rs/zerolog"

	"github.com/lightcmt/commitverify/crypto"
	tmbytes "github.com/lightcmt/commitverify/libs/bytes"
)

// Version pins the block and app protocol versions a header was produced
// under. Both default to 0 when the /commit document omits the field.
type Version struct {
	Block *big.Int
	App   *big.Int
}

// Header is the normalized form of signed_header.header from the /commit
// document: chain identity, height, time, the family of 32-byte hash
// fields, the variable-length app hash, the proposer address, and an
// optional reference to the previous block.
type Header struct {
	Version Version
	ChainID string
	Height  *big.Int
	Time    Time

	LastBlockID BlockID // zero value if absent

	LastCommitHash     tmbytes.HexBytes // 32 bytes
	DataHash           tmbytes.HexBytes // 32 bytes
	ValidatorsHash     tmbytes.HexBytes // 32 bytes
	NextValidatorsHash tmbytes.HexBytes // 32 bytes
	ConsensusHash      tmbytes.HexBytes // 32 bytes
	AppHash            tmbytes.HexBytes // application-defined length
	LastResultsHash    tmbytes.HexBytes // 32 bytes

	EvidenceHash    tmbytes.HexBytes // 32 bytes
	ProposerAddress crypto.Address   // 20 bytes
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler, following the
// same selective-field logging the teacher's validator type uses: enough
// to diagnose a mismatch, not a full hex dump of every hash.
func (h *Header) MarshalZerologObject(e *zerolog.Event) {
	e.Str("chain_id", h.ChainID).
		Str("height", h.Height.String()).
		EmbedObject(h.Time).
		Str("app_hash", h.AppHash.String()).
		Str("proposer_address", h.ProposerAddress.String())
}
