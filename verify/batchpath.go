package verify

import (
	cbatch "github.com/lightcmt/commitverify/crypto/batch"
	"github.com/lightcmt/commitverify/crypto"
	"github.com/lightcmt/commitverify/types"
)

// classifyWithBatch pre-checks every Commit-flagged, known-validator,
// known-key signature as a single curve25519-voi batch verification. If
// the whole batch verifies, every one of those signatures is valid and the
// expensive per-signature Ed25519 checks are skipped entirely; otherwise
// each batched signature is re-classified one at a time with classifyOne
// (sequentially, whatever cfg.concurrency says), which still produces the
// exact same Outcome, just without the fast path's benefit.
func classifyWithBatch(sh *types.SignedHeader, vals *types.ValidatorSet, idx *crypto.Index, cfg options) []sigResult {
	sigs := sh.Commit.Signatures
	results := make([]sigResult, len(sigs))

	bv := cbatch.New()
	batchIdx := make([]int, 0, len(sigs))

	for i, cs := range sigs {
		if !cs.ForBlock() {
			results[i] = sigResult{kind: kindSkip}
			continue
		}
		addrHex := cs.ValidatorAddress.String()
		val, known := vals.ByAddress(addrHex)
		if !known {
			results[i] = sigResult{kind: kindUnknown, addrHex: addrHex}
			continue
		}
		if len(cs.Signature) == 0 {
			results[i] = sigResult{kind: kindInvalid, addrHex: addrHex}
			continue
		}
		key, hasKey := idx.Lookup(addrHex)
		if !hasKey {
			results[i] = sigResult{kind: kindInvalid, addrHex: addrHex}
			continue
		}

		bv.Add(key.Bytes(), signBytesFor(sh, cs), cs.Signature)
		batchIdx = append(batchIdx, i)
		results[i] = sigResult{kind: kindValid, addrHex: addrHex, power: val.VotingPower}
	}

	if bv.Len() == 0 {
		return results
	}
	if bv.VerifyAll() {
		return results
	}

	// Batch failed: fall back to per-signature attribution for exactly the
	// candidates that were in the batch; everything else already has its
	// final classification above.
	for _, i := range batchIdx {
		results[i] = classifyOne(sh, sigs[i], vals, idx)
	}
	return results
}
