package types

import (
	"math/big"

	"github.com/rs/zerolog"

	"github.com/lightcmt/commitverify/crypto"
)

// Validator is one entry of a validator set: its address, its raw and
// handle forms of its Ed25519 key, and its voting power. PubKeyHandle is
// nil when the key failed to materialize during import — see
// crypto.Index, which tracks that case separately from set membership.
type Validator struct {
	Address      crypto.Address
	PubKeyRaw    []byte
	PubKeyHandle *crypto.PubKey
	VotingPower  *big.Int
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler, the same
// selective-field convention the teacher repository's Validator type uses
// for structured logs.
func (v *Validator) MarshalZerologObject(e *zerolog.Event) {
	e.Str("address", v.Address.String()).Str("voting_power", v.VotingPower.String())
}
