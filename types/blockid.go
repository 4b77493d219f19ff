package types

import (
	"github.com/rs/zerolog"

	tmbytes "github.com/lightcmt/commitverify/libs/bytes"
)

// PartSetHeader is the total part count and Merkle root hash over a
// block's parts.
type PartSetHeader struct {
	Total uint32
	Hash  tmbytes.HexBytes // 32 bytes
}

// IsZero reports whether psh is the unset value (no parts, no hash).
func (psh PartSetHeader) IsZero() bool {
	return psh.Total == 0 && len(psh.Hash) == 0
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (psh PartSetHeader) MarshalZerologObject(e *zerolog.Event) {
	e.Uint32("total", psh.Total).Str("hash", psh.Hash.String())
}

// BlockID is the canonical identity of a block: its hash and the part-set
// header describing how it was split for gossip.
type BlockID struct {
	Hash          tmbytes.HexBytes // 32 bytes
	PartSetHeader PartSetHeader
}

// IsZero reports whether b has neither a hash nor a part-set header.
func (b BlockID) IsZero() bool {
	return len(b.Hash) == 0 && b.PartSetHeader.IsZero()
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (b BlockID) MarshalZerologObject(e *zerolog.Event) {
	e.Str("hash", b.Hash.String()).EmbedObject(b.PartSetHeader)
}
