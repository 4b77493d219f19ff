// Package crypto wraps the one key type and one hash function this verifier
// needs: Ed25519 signature verification and the SHA-256 address binding
// described in the validator identity model. Other key types (secp256k1,
// BLS, sr25519) are out of this verifier's scope and are never accepted.
package crypto

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/ed25519"

	tmbytes "github.com/lightcmt/commitverify/libs/bytes"
)

const (
	// PubKeyType is the only pub_key.type value this verifier accepts.
	PubKeyType = "tendermint/PubKeyEd25519"

	// PubKeySize is the raw Ed25519 public key length.
	PubKeySize = ed25519.PublicKeySize
	// SignatureSize is the raw Ed25519 signature length.
	SignatureSize = ed25519.SignatureSize
	// AddressSize is the length of a derived validator address.
	AddressSize = 20
)

// Address is a 20-byte validator identifier, hex-encoded (uppercase) in
// JSON and diagnostics.
type Address = tmbytes.HexBytes

// AddressFromPubKey derives a validator address from a raw Ed25519 public
// key: the first AddressSize bytes of SHA-256(pubKeyBytes). This is the
// identity binding every validator entry is checked against at import time.
func AddressFromPubKey(raw []byte) Address {
	sum := sha256.Sum256(raw)
	return Address(append([]byte(nil), sum[:AddressSize]...))
}

// PubKey is a verifier handle for a single Ed25519 public key. It owns no
// external resource; it exists so that key materialization failures (an
// ill-formed key) can be detected once, at import time, rather than on
// every verify call.
type PubKey struct {
	raw ed25519.PublicKey
}

// NewPubKey constructs a verifier handle from a raw 32-byte Ed25519 key.
// It is the only fallible step in key "materialization" the spec refers to;
// with the stdlib-derived ed25519 implementation this only fails on length.
func NewPubKey(raw []byte) (PubKey, error) {
	if len(raw) != PubKeySize {
		return PubKey{}, fmt.Errorf("ed25519: invalid public key size %d, want %d", len(raw), PubKeySize)
	}
	cp := make(ed25519.PublicKey, PubKeySize)
	copy(cp, raw)
	return PubKey{raw: cp}, nil
}

// Bytes returns the raw 32-byte key.
func (k PubKey) Bytes() []byte {
	return append([]byte(nil), k.raw...)
}

// VerifySignature checks an Ed25519 signature over msg. Any panic raised by
// the underlying implementation on malformed input is recovered and turned
// into a "not ok" result — the spec treats a verification exception as
// evidence, never as a fatal error.
func (k PubKey) VerifySignature(msg, sig []byte) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	if len(sig) != SignatureSize {
		return false
	}
	return ed25519.Verify(k.raw, msg, sig)
}
