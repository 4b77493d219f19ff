package canonicalvote

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lightcmt/commitverify/types"
)

func TestSignBytesPrependsChainPrefix(t *testing.T) {
	v := Vote{Height: big.NewInt(1), ChainID: "test-chain"}
	out := SignBytes(v)
	require.Equal(t, ChainPrefix, out[0])
	require.Equal(t, marshal(v), out[1:])
}

func TestMarshalOmitsZeroRound(t *testing.T) {
	withZero := marshal(Vote{Height: big.NewInt(5)})
	withZeroExplicit := marshal(Vote{Height: big.NewInt(5), Round: 0})
	require.Equal(t, withZero, withZeroExplicit)

	withNonZero := marshal(Vote{Height: big.NewInt(5), Round: 1})
	require.NotEqual(t, withZero, withNonZero)
	require.Greater(t, len(withNonZero), len(withZero))
}

func TestMarshalOmitsAbsentTimestamp(t *testing.T) {
	noTime := marshal(Vote{Height: big.NewInt(5)})

	ts, err := types.ParseRFC3339("2023-01-02T03:04:05Z")
	require.NoError(t, err)
	withTime := marshal(Vote{Height: big.NewInt(5), Timestamp: ts})

	require.NotEqual(t, noTime, withTime)
	require.Greater(t, len(withTime), len(noTime))
}

func TestMarshalOmitsEmptyChainID(t *testing.T) {
	noChainID := marshal(Vote{Height: big.NewInt(5)})
	withChainID := marshal(Vote{Height: big.NewInt(5), ChainID: "x"})
	require.NotEqual(t, noChainID, withChainID)
}

func TestMarshalOmitsZeroBlockID(t *testing.T) {
	noBlockID := marshal(Vote{Height: big.NewInt(5)})
	withBlockID := marshal(Vote{
		Height: big.NewInt(5),
		BlockID: types.BlockID{
			Hash: []byte{0x01, 0x02, 0x03},
		},
	})
	require.NotEqual(t, noBlockID, withBlockID)
}

func TestMarshalIsDeterministic(t *testing.T) {
	v := Vote{
		Height: big.NewInt(100),
		Round:  3,
		BlockID: types.BlockID{
			Hash:          []byte{0xAA, 0xBB},
			PartSetHeader: types.PartSetHeader{Total: 2, Hash: []byte{0xCC, 0xDD}},
		},
		ChainID: "chain-1",
	}
	require.Equal(t, marshal(v), marshal(v))
}

func TestSignBytesDelimitedUsesVarintLength(t *testing.T) {
	v := Vote{Height: big.NewInt(1), ChainID: "test-chain"}
	body := marshal(v)
	out := SignBytesDelimited(v)
	// a varint length prefix for a body under 128 bytes is exactly one byte.
	require.Less(t, len(body), 128)
	require.Equal(t, byte(len(body)), out[0])
	require.Equal(t, body, out[1:])
}
