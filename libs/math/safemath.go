// Package math holds the small number of numeric helpers the verifier needs
// beyond the standard library: unbounded-integer quorum arithmetic and the
// overflow guards used when a bounded integer is asked to do unbounded work.
package math

import (
	"errors"
	"math"
	"math/big"
)

var (
	ErrOverflowInt32 = errors.New("int32 overflow")
	ErrOverflowInt64 = errors.New("int64 overflow")
)

// SafeConvertInt32 narrows an int64 to an int32, panicking on overflow. It
// suits fields the wire format fixes at 32 bits, where an overflowing value
// is a programmer/caller bug, not bad input; nothing in this repository
// calls it.
func SafeConvertInt32(a int64) int32 {
	if a > math.MaxInt32 || a < math.MinInt32 {
		panic(ErrOverflowInt32)
	}
	return int32(a)
}

// SafeConvertInt64 narrows a *big.Int to an int64, panicking on overflow.
func SafeConvertInt64(a *big.Int) int64 {
	if !a.IsInt64() {
		panic(ErrOverflowInt64)
	}
	return a.Int64()
}

// QuorumMet reports whether signed represents a strict super-majority
// (more than two-thirds) of total, computed as 3*signed > 2*total in
// unbounded integers so that chains with thousands of validators and
// near-2^63 per-validator voting power never overflow a machine word.
//
// total must be > 0; callers are expected to have already rejected a
// zero-power validator set as malformed input.
func QuorumMet(signed, total *big.Int) bool {
	lhs := new(big.Int).Mul(signed, big.NewInt(3))
	rhs := new(big.Int).Mul(total, big.NewInt(2))
	return lhs.Cmp(rhs) > 0
}
