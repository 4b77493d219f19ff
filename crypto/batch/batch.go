// Package batch provides an optional, faster verification path for the
// common case of checking many Ed25519 signatures against many distinct
// keys in one call — exactly the commit-verification workload. It mirrors
// the shape of the teacher repository's own crypto/batch package (a
// per-key-type BatchVerifier obtained on demand), but backs the Ed25519
// case with curve25519-voi's batch verifier instead of a bespoke
// accumulator, since curve25519-voi is already part of the dependency
// graph this repository's stack is drawn from.
package batch

import (
	"crypto/rand"

	voi "github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
)

// Verifier accumulates (key, message, signature) triples and checks them
// together. VerifyAll's single answer does not identify which entry
// failed; PerEntryResults reports validity per entry.
type Verifier struct {
	v       *voi.BatchVerifier
	count   int
	ok      bool
	results []bool
	ran     bool
}

// New returns an empty batch verifier.
func New() *Verifier {
	return &Verifier{v: voi.NewBatchVerifier()}
}

// Add enqueues one signature check. raw must be a 32-byte Ed25519 public
// key; sig must be 64 bytes. Malformed entries are simply never valid, so
// Add does not itself return an error — the caller's existing import-time
// validation already rejects bad key/signature lengths.
func (b *Verifier) Add(raw, msg, sig []byte) {
	b.v.Add(voi.PublicKey(raw), msg, sig)
	b.count++
}

// Len reports how many entries were queued.
func (b *Verifier) Len() int {
	return b.count
}

// run executes the batch check exactly once and caches the result; the
// underlying verifier is not safe to re-run after consuming its entries.
func (b *Verifier) run() {
	if b.ran {
		return
	}
	b.ran = true
	if b.count == 0 {
		b.ok = true
		return
	}
	b.ok, b.results = b.v.Verify(rand.Reader)
}

// VerifyAll reports whether every queued entry verifies. It does not
// distinguish which entry failed; see PerEntryResults for that.
func (b *Verifier) VerifyAll() bool {
	b.run()
	return b.ok
}

// PerEntryResults returns, for each Add call in order, whether that entry's
// signature verified, which attributes individual invalid signatures after
// VerifyAll reports a batch failure.
func (b *Verifier) PerEntryResults() []bool {
	b.run()
	return b.results
}
