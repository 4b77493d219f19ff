// Package bigjson parses the decimal-string integers the Tendermint RPC
// family uses for every field that can exceed JSON's safe integer range
// (voting power, height, proposer priority, counts).
package bigjson

import (
	"fmt"
	"math/big"
)

// Parse decodes s as a base-10 integer. Empty input is an error: every
// caller site in this repository treats the field as required.
func Parse(field, s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("%s: missing", field)
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%s: %q is not a base-10 integer", field, s)
	}
	return n, nil
}

// ParseNonNegative is Parse plus a sign check, for fields that are counts or
// indices and can never be negative.
func ParseNonNegative(field, s string) (*big.Int, error) {
	n, err := Parse(field, s)
	if err != nil {
		return nil, err
	}
	if n.Sign() < 0 {
		return nil, fmt.Errorf("%s: %q must not be negative", field, s)
	}
	return n, nil
}

// ParsePositive is Parse plus a strict positivity check, for fields like
// voting power that must be at least 1.
func ParsePositive(field, s string) (*big.Int, error) {
	n, err := Parse(field, s)
	if err != nil {
		return nil, err
	}
	if n.Sign() <= 0 {
		return nil, fmt.Errorf("%s: %q must be positive", field, s)
	}
	return n, nil
}
