package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ed25519"
)

func TestIndexSetLookup(t *testing.T) {
	idx := NewIndex()
	require.Equal(t, 0, idx.Len())

	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	k, err := NewPubKey(pub)
	require.NoError(t, err)

	idx.Set("ADDR1", k)
	require.Equal(t, 1, idx.Len())

	got, ok := idx.Lookup("ADDR1")
	require.True(t, ok)
	require.Equal(t, k.Bytes(), got.Bytes())

	_, ok = idx.Lookup("MISSING")
	require.False(t, ok)
}
