// Package canonicalvote reconstructs the exact byte sequence a validator
// signs for a precommit vote: a deterministic, field-tagged,
// length-delimited protobuf encoding of the vote's canonical fields,
// following the same field order and zero-value-omission rules the
// teacher repository's generated CanonicalVote.Marshal would produce
// (types/canonical.go + internal/libs/protoio.MarshalDelimited in the
// teacher), hand-written here since no .proto toolchain runs in this
// repository.
//
// Byte equality with the original producer's encoding is the whole point:
// any deviation — emitting a field the real encoder omits, using the
// wrong wire type, reordering fields — silently breaks every signature
// check downstream.
package canonicalvote

import (
	"encoding/binary"
	"math/big"

	"github.com/gogo/protobuf/proto"

	"github.com/lightcmt/commitverify/types"
)

// PrecommitType is the canonical SignedMsgType value for a precommit vote.
const PrecommitType = 0x02

// ChainPrefix is the one-byte, chain-specific prefix the fixtures this
// implementation targets prepend before the canonical vote bytes (see
// DESIGN.md's resolution of the prefix-byte open question). Mainline
// CometBFT instead varint-length-prefixes the message; SignBytesDelimited
// below produces that form for callers validating against mainline
// fixtures.
const ChainPrefix byte = 0x71

// Vote holds exactly the fields the canonical encoding covers, built from
// a commit signature, its enclosing commit, and the header's chain ID.
type Vote struct {
	Height    *big.Int
	Round     int32
	BlockID   types.BlockID
	Timestamp types.Time // IsZero() omits the field, matching an absent CommitSig.Timestamp
	ChainID   string
}

// SignBytes returns ChainPrefix followed by the canonical protobuf
// encoding of v — the payload this repository's target fixtures sign.
func SignBytes(v Vote) []byte {
	body := marshal(v)
	out := make([]byte, 0, len(body)+1)
	out = append(out, ChainPrefix)
	return append(out, body...)
}

// SignBytesDelimited returns the varint-length-delimited canonical
// protobuf encoding of v with no fixed prefix byte, matching mainline
// CometBFT's protoio.MarshalDelimited convention.
func SignBytesDelimited(v Vote) []byte {
	body := marshal(v)
	prefix := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(prefix, uint64(len(body)))
	out := make([]byte, 0, n+len(body))
	out = append(out, prefix[:n]...)
	return append(out, body...)
}

// marshal encodes the CanonicalVote message:
//
//	field 1  type       varint   (SignedMsgType, always PrecommitType here)
//	field 2  height     sfixed64 (omitted if zero)
//	field 3  round      sfixed64 (omitted if zero)
//	field 4  block_id   message  (CanonicalBlockID, omitted if v.BlockID.IsZero())
//	field 5  timestamp  message  (omitted if v.Timestamp.IsZero())
//	field 6  chain_id   string   (omitted if empty)
func marshal(v Vote) []byte {
	var buf []byte

	buf = appendVarintField(buf, 1, PrecommitType)

	if v.Height != nil && v.Height.Sign() != 0 {
		buf = appendFixed64Field(buf, 2, v.Height.Int64())
	}
	if v.Round != 0 {
		buf = appendFixed64Field(buf, 3, int64(v.Round))
	}

	blockID := marshalBlockID(v.BlockID)
	if len(blockID) > 0 {
		buf = appendBytesField(buf, 4, blockID)
	}

	if !v.Timestamp.IsZero() {
		buf = appendBytesField(buf, 5, marshalTimestamp(v.Timestamp))
	}

	if v.ChainID != "" {
		buf = appendBytesField(buf, 6, []byte(v.ChainID))
	}

	return buf
}

// marshalBlockID encodes CanonicalBlockID: { bytes hash = 1; CanonicalPartSetHeader part_set_header = 2; }.
// A zero BlockID (empty hash, empty part-set header) encodes to nothing,
// matching CanonicalizeBlockID's nil-on-zero rule in the teacher.
func marshalBlockID(b types.BlockID) []byte {
	if b.IsZero() {
		return nil
	}
	var buf []byte
	if len(b.Hash) > 0 {
		buf = appendBytesField(buf, 1, b.Hash)
	}
	psh := marshalPartSetHeader(b.PartSetHeader)
	if len(psh) > 0 {
		buf = appendBytesField(buf, 2, psh)
	}
	return buf
}

// marshalPartSetHeader encodes CanonicalPartSetHeader: { uint32 total = 1; bytes hash = 2; }.
func marshalPartSetHeader(psh types.PartSetHeader) []byte {
	var buf []byte
	if psh.Total != 0 {
		buf = appendVarintField(buf, 1, uint64(psh.Total))
	}
	if len(psh.Hash) > 0 {
		buf = appendBytesField(buf, 2, psh.Hash)
	}
	return buf
}

// marshalTimestamp encodes google.protobuf.Timestamp: { int64 seconds = 1; int32 nanos = 2; }.
func marshalTimestamp(t types.Time) []byte {
	var buf []byte
	if t.Seconds != nil && t.Seconds.Sign() != 0 {
		buf = appendVarintField(buf, 1, zigzagOrPlainVarint(t.Seconds.Int64()))
	}
	if t.Nanos != 0 {
		buf = appendVarintField(buf, 2, uint64(t.Nanos))
	}
	return buf
}

// zigzagOrPlainVarint encodes an int64 as protobuf's plain (non-zigzag)
// varint form, the encoding int64/sfixed-less scalar fields like
// Timestamp.seconds use: the two's-complement bit pattern, varint-encoded.
func zigzagOrPlainVarint(n int64) uint64 {
	return uint64(n)
}

func appendVarintField(buf []byte, field int, value uint64) []byte {
	buf = appendTag(buf, field, wireVarint)
	return appendVarint(buf, value)
}

func appendFixed64Field(buf []byte, field int, value int64) []byte {
	buf = appendTag(buf, field, wireFixed64)
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(value))
	return append(buf, tmp[:]...)
}

func appendBytesField(buf []byte, field int, value []byte) []byte {
	buf = appendTag(buf, field, wireBytes)
	buf = appendVarint(buf, uint64(len(value)))
	return append(buf, value...)
}

const (
	wireVarint  = 0
	wireFixed64 = 1
	wireBytes   = 2
)

func appendTag(buf []byte, field, wireType int) []byte {
	return appendVarint(buf, uint64(field)<<3|uint64(wireType))
}

// appendVarint uses gogo/protobuf's own varint encoder so the tag and
// field-length bytes marshal emits are produced by the same routine the
// teacher's generated Marshal methods rely on, not a reimplementation of it.
// SignBytesDelimited's outer length prefix is written with encoding/binary.
func appendVarint(buf []byte, v uint64) []byte {
	return append(buf, proto.EncodeVarint(v)...)
}
