package verify

import (
	"github.com/lightcmt/commitverify/crypto"
	"github.com/lightcmt/commitverify/types"
)

// classifySequential implements the per-signature algorithm exactly as
// specified: walk the commit's signatures in order, classifying each one
// without ever touching another signature's outcome.
func classifySequential(sh *types.SignedHeader, vals *types.ValidatorSet, idx *crypto.Index, cfg options) []sigResult {
	sigs := sh.Commit.Signatures
	results := make([]sigResult, len(sigs))

	for i, cs := range sigs {
		results[i] = classifyOne(sh, cs, vals, idx)
	}
	return results
}

// classifyOne runs steps 1-9 of the algorithm for a single commit
// signature.
func classifyOne(sh *types.SignedHeader, cs types.CommitSig, vals *types.ValidatorSet, idx *crypto.Index) sigResult {
	if !cs.ForBlock() {
		return sigResult{kind: kindSkip}
	}

	addrHex := cs.ValidatorAddress.String()

	val, known := vals.ByAddress(addrHex)
	if !known {
		return sigResult{kind: kindUnknown, addrHex: addrHex}
	}

	if len(cs.Signature) == 0 {
		return sigResult{kind: kindInvalid, addrHex: addrHex}
	}

	key, hasKey := idx.Lookup(addrHex)
	if !hasKey {
		return sigResult{kind: kindInvalid, addrHex: addrHex}
	}

	msg := signBytesFor(sh, cs)
	if !key.VerifySignature(msg, cs.Signature) {
		return sigResult{kind: kindInvalid, addrHex: addrHex}
	}

	return sigResult{kind: kindValid, addrHex: addrHex, power: val.VotingPower}
}
