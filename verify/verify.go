// Package verify implements the commit verification algorithm: given a
// SignedHeader, the ValidatorSet it claims to be certified by, and the
// CryptoIndex of that set's keys, decide whether a strict super-majority
// of voting power signed correctly.
//
// Verify is a pure function. It spawns no goroutines unless WithConcurrency
// is passed, performs no I/O, and holds no state between calls.
package verify

import (
	"fmt"
	"math/big"

	"github.com/rs/zerolog"

	"github.com/lightcmt/commitverify/crypto"
	"github.com/lightcmt/commitverify/encoding/canonicalvote"
	tmmath "github.com/lightcmt/commitverify/libs/math"
	"github.com/lightcmt/commitverify/types"
)

// PreconditionError reports that the verifier's inputs were malformed —
// a caller bug, not evidence about the commit. Verify never returns both
// an Outcome and an error.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("verify: precondition violated: %s", e.Reason)
}

// Outcome is the verdict for one SignedHeader against one ValidatorSet.
type Outcome struct {
	OK     bool
	Quorum bool

	SignedPower *big.Int
	TotalPower  *big.Int

	HeaderTime  types.Time
	AppHash     []byte
	BlockIDHash []byte

	UnknownValidators []string
	InvalidSignatures []string
	CountedSignatures int
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (o *Outcome) MarshalZerologObject(e *zerolog.Event) {
	e.Bool("ok", o.OK).
		Bool("quorum", o.Quorum).
		Str("signed_power", o.SignedPower.String()).
		Str("total_power", o.TotalPower.String()).
		Int("counted_signatures", o.CountedSignatures).
		Int("unknown_validators", len(o.UnknownValidators)).
		Int("invalid_signatures", len(o.InvalidSignatures))
}

type options struct {
	logger      zerolog.Logger
	concurrency int
	useBatch    bool
}

// Option configures a Verify call.
type Option func(*options)

// WithLogger attaches a structured logger. The default is zerolog.Nop();
// Verify never writes to stdout/stderr on its own.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithConcurrency verifies signatures using a bounded worker pool of size
// n instead of sequentially. Results are still reduced by original
// signature index, so output is identical either way.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

// WithBatchVerification tries a single combined Ed25519 batch check of all
// Commit-flagged signatures with known keys before falling back to
// per-signature verification to attribute any failure. It only helps when
// the batch is large and expected to pass; when the batch fails, Verify
// re-checks the batched signatures one at a time to produce
// InvalidSignatures, so this only saves time; it never changes the Outcome.
func WithBatchVerification(b bool) Option {
	return func(o *options) { o.useBatch = b }
}

// Verify runs the per-signature verification algorithm and returns the
// resulting Outcome, or a *PreconditionError if sh/vals/idx are malformed
// in a way that makes verification meaningless (the caller's bug, not the
// commit's).
func Verify(sh *types.SignedHeader, vals *types.ValidatorSet, idx *crypto.Index, opts ...Option) (*Outcome, error) {
	cfg := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := checkPreconditions(sh, vals); err != nil {
		return nil, err
	}

	results := classifySignatures(sh, vals, idx, cfg)

	signed := new(big.Int)
	var unknown, invalid []string
	counted := 0
	for _, r := range results {
		switch r.kind {
		case kindSkip:
			continue
		case kindUnknown:
			unknown = append(unknown, r.addrHex)
		case kindInvalid:
			counted++
			invalid = append(invalid, r.addrHex)
		case kindValid:
			counted++
			signed.Add(signed, r.power)
		}
	}

	quorum := tmmath.QuorumMet(signed, vals.TotalVotingPower)

	out := &Outcome{
		OK:                quorum,
		Quorum:            quorum,
		SignedPower:       signed,
		TotalPower:        vals.TotalVotingPower,
		HeaderTime:        sh.Header.Time,
		AppHash:           append([]byte(nil), sh.Header.AppHash...),
		BlockIDHash:       append([]byte(nil), sh.Commit.BlockID.Hash...),
		UnknownValidators: unknown,
		InvalidSignatures: invalid,
		CountedSignatures: counted,
	}

	cfg.logger.Debug().EmbedObject(out).Msg("commit verification complete")

	return out, nil
}

func checkPreconditions(sh *types.SignedHeader, vals *types.ValidatorSet) error {
	if sh == nil || sh.Header == nil || sh.Commit == nil {
		return &PreconditionError{Reason: "signed header must have both a header and a commit"}
	}
	if sh.Header.Height.Cmp(sh.Commit.Height) != 0 {
		return &PreconditionError{Reason: fmt.Sprintf("header height %s != commit height %s", sh.Header.Height, sh.Commit.Height)}
	}
	if vals == nil || vals.Size() == 0 {
		return &PreconditionError{Reason: "validator set must have at least one validator"}
	}
	if vals.TotalVotingPower == nil || vals.TotalVotingPower.Sign() <= 0 {
		return &PreconditionError{Reason: "validator set total voting power must be > 0"}
	}
	if seenDuplicateAddress(vals) {
		return &PreconditionError{Reason: "validator set has duplicate addresses"}
	}

	bid := sh.Commit.BlockID
	if len(bid.Hash) == 0 {
		return &PreconditionError{Reason: "commit block_id.hash must not be empty"}
	}
	if len(bid.PartSetHeader.Hash) == 0 {
		return &PreconditionError{Reason: "commit block_id.part_set_header.hash must not be empty"}
	}
	return nil
}

func seenDuplicateAddress(vals *types.ValidatorSet) bool {
	seen := make(map[string]bool, vals.Size())
	for _, v := range vals.Validators {
		key := v.Address.String()
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

type sigKind int

const (
	kindSkip sigKind = iota
	kindUnknown
	kindInvalid
	kindValid
)

type sigResult struct {
	kind    sigKind
	addrHex string
	power   *big.Int
}

// classifySignatures runs steps 1-9 of the per-signature algorithm over
// every commit signature, in order, dispatching to the batch, concurrent or
// sequential path per cfg (batch takes precedence when enabled).
func classifySignatures(sh *types.SignedHeader, vals *types.ValidatorSet, idx *crypto.Index, cfg options) []sigResult {
	if cfg.useBatch {
		return classifyWithBatch(sh, vals, idx, cfg)
	}
	if cfg.concurrency > 1 {
		return classifyConcurrent(sh, vals, idx, cfg)
	}
	return classifySequential(sh, vals, idx, cfg)
}

// signBytesFor reconstructs the canonical sign-bytes a validator produced
// for commit signature cs of sh.Commit.
func signBytesFor(sh *types.SignedHeader, cs types.CommitSig) []byte {
	return canonicalvote.SignBytes(canonicalvote.Vote{
		Height:    sh.Commit.Height,
		Round:     sh.Commit.Round,
		BlockID:   sh.Commit.BlockID,
		Timestamp: cs.Timestamp,
		ChainID:   sh.Header.ChainID,
	})
}
