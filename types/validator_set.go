package types

import (
	"fmt"
	"math/big"

	"github.com/rs/zerolog"
)

// ValidatorSet is the full validator list at a height: an ordered sequence
// (order matches the producer's own order, meaningful because commit
// signatures are positionally aligned with it) plus an index by uppercase
// hex address for O(1) lookup, plus the total voting power.
//
// A ValidatorSet is immutable after NewValidatorSet succeeds: every
// invariant below is checked once, at construction.
type ValidatorSet struct {
	Height           *big.Int
	TotalVotingPower *big.Int
	Validators       []*Validator
	addressIndex     map[string]*Validator
}

// NewValidatorSet builds a ValidatorSet from an already-decoded validator
// list, enforcing the invariants the verifier later relies on: non-empty
// and no duplicate addresses. The total voting power is the sum of the
// members' powers; it does not check each power itself (the importer
// rejects powers below 1, which keeps the sum > 0).
func NewValidatorSet(height *big.Int, validators []*Validator) (*ValidatorSet, error) {
	if len(validators) == 0 {
		return nil, fmt.Errorf("validator set: must not be empty")
	}

	index := make(map[string]*Validator, len(validators))
	total := new(big.Int)
	for _, v := range validators {
		key := v.Address.String()
		if _, dup := index[key]; dup {
			return nil, fmt.Errorf("validator set: duplicate address %s", key)
		}
		index[key] = v
		total.Add(total, v.VotingPower)
	}

	return &ValidatorSet{
		Height:           height,
		TotalVotingPower: total,
		Validators:       validators,
		addressIndex:     index,
	}, nil
}

// ByAddress looks up a validator by its uppercase-hex address.
func (vs *ValidatorSet) ByAddress(addrHex string) (*Validator, bool) {
	v, ok := vs.addressIndex[addrHex]
	return v, ok
}

// Size returns the number of validators in the set.
func (vs *ValidatorSet) Size() int {
	return len(vs.Validators)
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (vs *ValidatorSet) MarshalZerologObject(e *zerolog.Event) {
	e.Str("height", vs.Height.String()).
		Int("validators", len(vs.Validators)).
		Str("total_voting_power", vs.TotalVotingPower.String())
}
