package bytes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexBytesJSONRoundTrip(t *testing.T) {
	orig := HexBytes{0xDE, 0xAD, 0xBE, 0xEF}
	data, err := json.Marshal(orig)
	require.NoError(t, err)
	require.Equal(t, `"DEADBEEF"`, string(data))

	var got HexBytes
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, orig, got)
}

func TestHexBytesUnmarshalAcceptsLowercaseAndBase64(t *testing.T) {
	var fromHex HexBytes
	require.NoError(t, json.Unmarshal([]byte(`"deadbeef"`), &fromHex))
	require.Equal(t, HexBytes{0xDE, 0xAD, 0xBE, 0xEF}, fromHex)

	var fromB64 HexBytes
	require.NoError(t, json.Unmarshal([]byte(`"s/4="`), &fromB64))
	require.Equal(t, HexBytes{0xB3, 0xFE}, fromB64)
}

func TestHexBytesUnmarshalRejectsGarbage(t *testing.T) {
	var bz HexBytes
	require.Error(t, bz.UnmarshalText([]byte("not hex or base64!!")))
}

func TestHexBytesEqual(t *testing.T) {
	a := HexBytes{0x01, 0x02}
	require.True(t, a.Equal([]byte{0x01, 0x02}))
	require.False(t, a.Equal([]byte{0x01, 0x03}))
}

func TestHexBytesString(t *testing.T) {
	require.Equal(t, "DEADBEEF", HexBytes{0xDE, 0xAD, 0xBE, 0xEF}.String())
}
