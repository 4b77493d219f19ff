// Package vimport parses a Tendermint/CometBFT /validators RPC response
// into a types.ValidatorSet plus the crypto.Index of verifier handles for
// its keys. Every error here is fatal: a caller passing malformed JSON has
// a bug, and Import never returns a partially built set.
package vimport

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/lightcmt/commitverify/crypto"
	"github.com/lightcmt/commitverify/internal/bigjson"
	"github.com/lightcmt/commitverify/types"
)

type doc struct {
	BlockHeight string           `json:"block_height"`
	Validators  []validatorEntry `json:"validators"`
	Count       string           `json:"count"`
	Total       string           `json:"total"`
}

type validatorEntry struct {
	Address          string `json:"address"`
	PubKey           pubKey `json:"pub_key"`
	VotingPower      string `json:"voting_power"`
	ProposerPriority string `json:"proposer_priority"`
}

type pubKey struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Result is the output of a successful Import: a validator set and the
// accompanying index of verifier handles for its Ed25519 keys.
type Result struct {
	Height       *big.Int
	ValidatorSet *types.ValidatorSet
	CryptoIndex  *crypto.Index
}

// Import decodes and validates a /validators document per the contract in
// the validator-set importer specification: single page only, every
// address bound to its key by SHA-256, no duplicates, positive voting
// power, and a validator count equal to the declared total.
func Import(raw []byte) (*Result, error) {
	var d doc
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("validators: invalid JSON: %w", err)
	}

	height, err := bigjson.Parse("block_height", d.BlockHeight)
	if err != nil {
		return nil, err
	}

	count, err := bigjson.ParseNonNegative("count", d.Count)
	if err != nil {
		return nil, err
	}
	total, err := bigjson.ParseNonNegative("total", d.Total)
	if err != nil {
		return nil, err
	}
	if count.Cmp(total) != 0 {
		return nil, fmt.Errorf("validators: paginated response not allowed: count=%s total=%s", count, total)
	}
	two := big.NewInt(2)
	if count.Cmp(two) < 0 {
		return nil, fmt.Errorf("validators: must not paginate: count=%s must be >= 2", count)
	}

	if len(d.Validators) == 0 {
		return nil, fmt.Errorf("validators: must not be empty")
	}
	if big.NewInt(int64(len(d.Validators))).Cmp(total) != 0 {
		return nil, fmt.Errorf("validators: entry count %d does not match total %s", len(d.Validators), total)
	}

	idx := crypto.NewIndex()
	validators := make([]*types.Validator, 0, len(d.Validators))
	seen := make(map[string]bool, len(d.Validators))

	for i, ve := range d.Validators {
		v, addrHex, key, keyOK, err := decodeValidator(i, ve)
		if err != nil {
			return nil, err
		}
		if seen[addrHex] {
			return nil, fmt.Errorf("validators[%d]: duplicate address %s", i, addrHex)
		}
		seen[addrHex] = true

		validators = append(validators, v)
		if keyOK {
			idx.Set(addrHex, key)
		}
	}

	set, err := types.NewValidatorSet(height, validators)
	if err != nil {
		return nil, err
	}

	return &Result{Height: height, ValidatorSet: set, CryptoIndex: idx}, nil
}

func decodeValidator(i int, ve validatorEntry) (v *types.Validator, addrHex string, key crypto.PubKey, keyOK bool, err error) {
	claimedAddr := strings.ToUpper(strings.TrimSpace(ve.Address))
	if len(claimedAddr) != 2*crypto.AddressSize {
		return nil, "", crypto.PubKey{}, false,
			fmt.Errorf("validators[%d]: address must be %d hex characters, got %q", i, 2*crypto.AddressSize, ve.Address)
	}
	if _, err := hex.DecodeString(claimedAddr); err != nil {
		return nil, "", crypto.PubKey{}, false, fmt.Errorf("validators[%d]: address is not valid hex: %w", i, err)
	}

	if ve.PubKey.Type != crypto.PubKeyType {
		return nil, "", crypto.PubKey{}, false,
			fmt.Errorf("validators[%d]: unsupported pub_key.type %q", i, ve.PubKey.Type)
	}
	raw, err := base64.StdEncoding.DecodeString(ve.PubKey.Value)
	if err != nil {
		return nil, "", crypto.PubKey{}, false, fmt.Errorf("validators[%d]: pub_key.value is not valid base64: %w", i, err)
	}
	if len(raw) != crypto.PubKeySize {
		return nil, "", crypto.PubKey{}, false,
			fmt.Errorf("validators[%d]: pub_key.value must decode to %d bytes, got %d", i, crypto.PubKeySize, len(raw))
	}

	power, err := bigjson.ParsePositive("voting_power", ve.VotingPower)
	if err != nil {
		return nil, "", crypto.PubKey{}, false, fmt.Errorf("validators[%d]: %w", i, err)
	}

	derived := crypto.AddressFromPubKey(raw)
	derivedHex := derived.String()
	if derivedHex != claimedAddr {
		return nil, "", crypto.PubKey{}, false,
			fmt.Errorf("validators[%d]: address %s does not match its public key (derived %s)", i, claimedAddr, derivedHex)
	}

	v = &types.Validator{
		Address:     derived,
		PubKeyRaw:   raw,
		VotingPower: power,
	}

	k, kerr := crypto.NewPubKey(raw)
	if kerr != nil {
		// Entry is still included in the set; the key is simply absent
		// from the crypto index, per the importer contract.
		return v, claimedAddr, crypto.PubKey{}, false, nil
	}
	v.PubKeyHandle = &k
	return v, claimedAddr, k, true, nil
}
