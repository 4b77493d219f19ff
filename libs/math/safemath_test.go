package math_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	tmmath "github.com/lightcmt/commitverify/libs/math"
)

func TestQuorumMet(t *testing.T) {
	testCases := []struct {
		name   string
		signed int64
		total  int64
		want   bool
	}{
		{"exact two thirds fails", 2, 3, false},
		{"one over two thirds", 3, 4, true},
		{"zero signed", 0, 4, false},
		{"all signed", 4, 4, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tmmath.QuorumMet(big.NewInt(tc.signed), big.NewInt(tc.total))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestQuorumMetUnboundedOverflow(t *testing.T) {
	// 2^62+1 per validator, thousands of validators: a naive int64 multiply
	// of signed*3 or total*2 overflows many times over. QuorumMet must still
	// answer correctly since it works in big.Int.
	perValidator := new(big.Int).SetInt64(1<<62 + 1)
	total := new(big.Int).Mul(perValidator, big.NewInt(5000))
	signed := new(big.Int).Mul(perValidator, big.NewInt(3400)) // > 2/3 of 5000
	assert.True(t, tmmath.QuorumMet(signed, total))

	signedShort := new(big.Int).Mul(perValidator, big.NewInt(3333)) // < 2/3 of 5000
	assert.False(t, tmmath.QuorumMet(signedShort, total))
}
