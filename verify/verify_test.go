package verify

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ed25519"

	"github.com/lightcmt/commitverify/crypto"
	"github.com/lightcmt/commitverify/encoding/canonicalvote"
	"github.com/lightcmt/commitverify/types"
)

type fixtureValidator struct {
	addr string
	priv ed25519.PrivateKey
}

// buildFixture constructs a SignedHeader/ValidatorSet/CryptoIndex triple
// with n validators of equal voting power, each with a real Ed25519
// signature over the commit's canonical vote bytes, mirroring S1 from the
// worked scenarios.
func buildFixture(t *testing.T, n int, power int64) (*types.SignedHeader, *types.ValidatorSet, *crypto.Index, []fixtureValidator) {
	t.Helper()

	blockID := types.BlockID{
		Hash: bytesOf(0xAA, 32),
		PartSetHeader: types.PartSetHeader{
			Total: 1,
			Hash:  bytesOf(0xBB, 32),
		},
	}
	height := big.NewInt(100)
	const round = int32(0)
	const chainID = "test-chain"

	fixtures := make([]fixtureValidator, n)
	validators := make([]*types.Validator, n)
	idx := crypto.NewIndex()
	sigs := make([]types.CommitSig, n)

	for i := 0; i < n; i++ {
		pub, priv, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		addr := crypto.AddressFromPubKey(pub)
		addrHex := addr.String()

		k, err := crypto.NewPubKey(pub)
		require.NoError(t, err)
		idx.Set(addrHex, k)

		validators[i] = &types.Validator{
			Address:      addr,
			PubKeyRaw:    pub,
			PubKeyHandle: &k,
			VotingPower:  big.NewInt(power),
		}

		msg := canonicalvote.SignBytes(canonicalvote.Vote{
			Height:  height,
			Round:   round,
			BlockID: blockID,
			ChainID: chainID,
		})
		sig := ed25519.Sign(priv, msg)

		sigs[i] = types.CommitSig{
			BlockIDFlag:      types.BlockIDFlagCommit,
			ValidatorAddress: addr,
			Signature:        sig,
		}
		fixtures[i] = fixtureValidator{addr: addrHex, priv: priv}
	}

	vals, err := types.NewValidatorSet(height, validators)
	require.NoError(t, err)

	sh := &types.SignedHeader{
		Header: &types.Header{
			ChainID: chainID,
			Height:  height,
			AppHash: bytesOf(0xCC, 32),
		},
		Commit: &types.Commit{
			Height:     height,
			Round:      round,
			BlockID:    blockID,
			Signatures: sigs,
		},
	}

	return sh, vals, idx, fixtures
}

func bytesOf(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

// S1 — happy path.
func TestVerifyHappyPath(t *testing.T) {
	sh, vals, idx, _ := buildFixture(t, 4, 1)

	out, err := Verify(sh, vals, idx)
	require.NoError(t, err)
	require.True(t, out.OK)
	require.True(t, out.Quorum)
	require.Equal(t, int64(4), out.SignedPower.Int64())
	require.Equal(t, int64(4), out.TotalPower.Int64())
	require.Equal(t, 4, out.CountedSignatures)
	require.Empty(t, out.UnknownValidators)
	require.Empty(t, out.InvalidSignatures)
}

// S2 — tampered block hash: every signature was produced over the original
// hash, so once the commit's block_id.hash is flipped, reconstructed
// sign-bytes for every signature no longer match what was signed.
func TestVerifyTamperedBlockHash(t *testing.T) {
	sh, vals, idx, _ := buildFixture(t, 4, 1)
	sh.Commit.BlockID.Hash[len(sh.Commit.BlockID.Hash)-1] ^= 0x01

	out, err := Verify(sh, vals, idx)
	require.NoError(t, err)
	require.False(t, out.OK)
	require.False(t, out.Quorum)
	require.Equal(t, int64(0), out.SignedPower.Int64())
	require.Len(t, out.InvalidSignatures, 4)
	require.Equal(t, 4, out.CountedSignatures)
}

// Invariant 8 variant: flipping the part-set header hash has the same
// all-invalid effect as flipping the block hash.
func TestVerifyTamperedPartSetHeaderHash(t *testing.T) {
	sh, vals, idx, _ := buildFixture(t, 4, 1)
	sh.Commit.BlockID.PartSetHeader.Hash[0] ^= 0x01

	out, err := Verify(sh, vals, idx)
	require.NoError(t, err)
	require.Len(t, out.InvalidSignatures, 4)
	require.Equal(t, 4, out.CountedSignatures)
}

// S3 — two absent votes.
func TestVerifyAbsentVotesDoNotCount(t *testing.T) {
	sh, vals, idx, _ := buildFixture(t, 4, 1)
	sh.Commit.Signatures[0] = types.CommitSig{BlockIDFlag: types.BlockIDFlagAbsent}
	sh.Commit.Signatures[1] = types.CommitSig{BlockIDFlag: types.BlockIDFlagAbsent}

	out, err := Verify(sh, vals, idx)
	require.NoError(t, err)
	require.False(t, out.OK)
	require.False(t, out.Quorum)
	require.Equal(t, int64(2), out.SignedPower.Int64())
	require.Equal(t, 2, out.CountedSignatures)
	require.Empty(t, out.InvalidSignatures)
}

// S4 — one corrupted signature: quorum still holds on the remaining 3/4.
func TestVerifyOneCorruptedSignature(t *testing.T) {
	sh, vals, idx, fixtures := buildFixture(t, 4, 1)
	sh.Commit.Signatures[0].Signature[0] ^= 0x01

	out, err := Verify(sh, vals, idx)
	require.NoError(t, err)
	require.True(t, out.OK)
	require.True(t, out.Quorum)
	require.Equal(t, int64(3), out.SignedPower.Int64())
	require.Equal(t, 4, out.CountedSignatures)
	require.Equal(t, []string{fixtures[0].addr}, out.InvalidSignatures)
}

// Invariant 9: flipping one signature's bits invalidates exactly that
// signature, leaving the others' classification unaffected.
func TestVerifyCorruptedSignatureDoesNotAffectOthers(t *testing.T) {
	sh, vals, idx, fixtures := buildFixture(t, 4, 1)
	sh.Commit.Signatures[2].Signature[10] ^= 0x80

	out, err := Verify(sh, vals, idx)
	require.NoError(t, err)
	require.Equal(t, []string{fixtures[2].addr}, out.InvalidSignatures)
	require.Equal(t, int64(3), out.SignedPower.Int64())
}

// S5 — unknown validator in commit.
func TestVerifyUnknownValidator(t *testing.T) {
	sh, vals, idx, _ := buildFixture(t, 4, 1)
	unknown := crypto.Address(bytesOf(0xFF, crypto.AddressSize))
	sh.Commit.Signatures[0].ValidatorAddress = unknown

	out, err := Verify(sh, vals, idx)
	require.NoError(t, err)
	require.True(t, out.Quorum)
	require.Equal(t, []string{strings.ToUpper(unknown.String())}, out.UnknownValidators)
	require.Equal(t, 3, out.CountedSignatures)
	require.Empty(t, out.InvalidSignatures)
}

// Invariant 4: signed power never exceeds total power, here with five
// validators of power 3 that all sign correctly.
func TestVerifySignedPowerNeverExceedsTotal(t *testing.T) {
	sh, vals, idx, _ := buildFixture(t, 5, 3)
	out, err := Verify(sh, vals, idx)
	require.NoError(t, err)
	require.LessOrEqual(t, out.SignedPower.Cmp(out.TotalPower), 0)
}

// Invariant 7: re-verifying identical inputs yields structurally equal
// results.
func TestVerifyIsDeterministic(t *testing.T) {
	sh, vals, idx, _ := buildFixture(t, 6, 1)
	out1, err := Verify(sh, vals, idx)
	require.NoError(t, err)
	out2, err := Verify(sh, vals, idx)
	require.NoError(t, err)
	require.Equal(t, out1, out2)
}

func TestVerifyConcurrentMatchesSequential(t *testing.T) {
	sh, vals, idx, _ := buildFixture(t, 10, 1)
	sh.Commit.Signatures[3].Signature[0] ^= 0x01

	seq, err := Verify(sh, vals, idx)
	require.NoError(t, err)
	conc, err := Verify(sh, vals, idx, WithConcurrency(4))
	require.NoError(t, err)

	require.Equal(t, seq.OK, conc.OK)
	require.Equal(t, seq.SignedPower, conc.SignedPower)
	require.Equal(t, seq.InvalidSignatures, conc.InvalidSignatures)
	require.Equal(t, seq.CountedSignatures, conc.CountedSignatures)
}

func TestVerifyBatchMatchesSequential(t *testing.T) {
	sh, vals, idx, _ := buildFixture(t, 8, 1)

	seq, err := Verify(sh, vals, idx)
	require.NoError(t, err)
	batch, err := Verify(sh, vals, idx, WithBatchVerification(true))
	require.NoError(t, err)

	require.Equal(t, seq, batch)
}

func TestVerifyBatchFallsBackOnFailure(t *testing.T) {
	sh, vals, idx, fixtures := buildFixture(t, 6, 1)
	sh.Commit.Signatures[1].Signature[0] ^= 0x01

	out, err := Verify(sh, vals, idx, WithBatchVerification(true))
	require.NoError(t, err)
	require.Equal(t, []string{fixtures[1].addr}, out.InvalidSignatures)
	require.Equal(t, int64(5), out.SignedPower.Int64())
}

func TestVerifyRejectsEmptyValidatorSet(t *testing.T) {
	sh, vals, idx, _ := buildFixture(t, 1, 1)
	vals.Validators = nil // simulate a caller bypassing NewValidatorSet's invariant

	_, err := Verify(sh, vals, idx)
	require.Error(t, err)
	var precondErr *PreconditionError
	require.ErrorAs(t, err, &precondErr)
}

func TestVerifyRejectsHeightMismatch(t *testing.T) {
	sh, vals, idx, _ := buildFixture(t, 1, 1)
	sh.Commit.Height = big.NewInt(sh.Commit.Height.Int64() + 1)

	_, err := Verify(sh, vals, idx)
	require.Error(t, err)
}

func TestVerifyRejectsMissingBlockIDHash(t *testing.T) {
	sh, vals, idx, _ := buildFixture(t, 1, 1)
	sh.Commit.BlockID.Hash = nil

	_, err := Verify(sh, vals, idx)
	require.Error(t, err)
}

func TestVerifyRejectsNilSignedHeader(t *testing.T) {
	_, vals, idx, _ := buildFixture(t, 1, 1)
	_, err := Verify(nil, vals, idx)
	require.Error(t, err)
}
