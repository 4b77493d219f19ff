// Package cimport parses a Tendermint/CometBFT /commit RPC response into
// a normalized types.SignedHeader. The importer is strict: every shape or
// length violation is fatal, since the verifier downstream trusts that
// every decoded field already has the length its encoding requires.
package cimport

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/lightcmt/commitverify/internal/bigjson"
	"github.com/lightcmt/commitverify/types"
)

type doc struct {
	SignedHeader struct {
		Header headerJSON `json:"header"`
		Commit commitJSON `json:"commit"`
	} `json:"signed_header"`
}

type versionJSON struct {
	Block string `json:"block"`
	App   string `json:"app"`
}

type blockIDJSON struct {
	Hash  string `json:"hash"`
	Parts struct {
		Total uint32 `json:"total"`
		Hash  string `json:"hash"`
	} `json:"parts"`
}

type headerJSON struct {
	Version            *versionJSON `json:"version"`
	ChainID            string       `json:"chain_id"`
	Height             string       `json:"height"`
	Time               string       `json:"time"`
	LastBlockID        *blockIDJSON `json:"last_block_id"`
	LastCommitHash     string       `json:"last_commit_hash"`
	DataHash           string       `json:"data_hash"`
	ValidatorsHash     string       `json:"validators_hash"`
	NextValidatorsHash string       `json:"next_validators_hash"`
	ConsensusHash      string       `json:"consensus_hash"`
	AppHash            string       `json:"app_hash"`
	LastResultsHash    string       `json:"last_results_hash"`
	EvidenceHash       string       `json:"evidence_hash"`
	ProposerAddress    string       `json:"proposer_address"`
}

type commitJSON struct {
	Height     string          `json:"height"`
	Round      int32           `json:"round"`
	BlockID    blockIDJSON     `json:"block_id"`
	Signatures []commitSigJSON `json:"signatures"`
}

type commitSigJSON struct {
	BlockIDFlag      int32  `json:"block_id_flag"`
	ValidatorAddress string `json:"validator_address"`
	Timestamp        string `json:"timestamp"`
	Signature        string `json:"signature"`
}

// Import decodes and validates a /commit document into a types.SignedHeader.
func Import(raw []byte) (*types.SignedHeader, error) {
	var d doc
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("commit: invalid JSON: %w", err)
	}

	header, height, err := decodeHeader(d.SignedHeader.Header)
	if err != nil {
		return nil, err
	}

	commit, commitHeight, err := decodeCommit(d.SignedHeader.Commit)
	if err != nil {
		return nil, err
	}

	if height.Cmp(commitHeight) != 0 {
		return nil, fmt.Errorf("commit: header.height %s does not equal commit.height %s", height, commitHeight)
	}

	return &types.SignedHeader{Header: header, Commit: commit}, nil
}

func decodeHeader(h headerJSON) (*types.Header, *big.Int, error) {
	height, err := bigjson.Parse("header.height", h.Height)
	if err != nil {
		return nil, nil, err
	}

	version := types.Version{Block: big.NewInt(0), App: big.NewInt(0)}
	if h.Version != nil {
		if h.Version.Block != "" {
			if version.Block, err = bigjson.ParseNonNegative("header.version.block", h.Version.Block); err != nil {
				return nil, nil, err
			}
		}
		if h.Version.App != "" {
			if version.App, err = bigjson.ParseNonNegative("header.version.app", h.Version.App); err != nil {
				return nil, nil, err
			}
		}
	}

	t, err := types.ParseRFC3339(h.Time)
	if err != nil {
		return nil, nil, fmt.Errorf("header.%w", err)
	}

	var lastBlockID types.BlockID
	if h.LastBlockID != nil {
		lastBlockID, err = decodeBlockID("header.last_block_id", *h.LastBlockID)
		if err != nil {
			return nil, nil, err
		}
	}

	hashFields := map[string]string{
		"last_commit_hash":     h.LastCommitHash,
		"data_hash":            h.DataHash,
		"validators_hash":      h.ValidatorsHash,
		"next_validators_hash": h.NextValidatorsHash,
		"consensus_hash":       h.ConsensusHash,
		"last_results_hash":    h.LastResultsHash,
		"evidence_hash":        h.EvidenceHash,
	}
	decodedHashes := make(map[string][]byte, len(hashFields))
	for name, value := range hashFields {
		b, err := decodeHexFixed("header."+name, value, 32)
		if err != nil {
			return nil, nil, err
		}
		decodedHashes[name] = b
	}

	appHash, err := decodeHexAny("header.app_hash", h.AppHash)
	if err != nil {
		return nil, nil, err
	}

	proposer, err := decodeHexFixed("header.proposer_address", h.ProposerAddress, 20)
	if err != nil {
		return nil, nil, err
	}

	header := &types.Header{
		Version:            version,
		ChainID:            h.ChainID,
		Height:             height,
		Time:               t,
		LastBlockID:        lastBlockID,
		LastCommitHash:     decodedHashes["last_commit_hash"],
		DataHash:           decodedHashes["data_hash"],
		ValidatorsHash:     decodedHashes["validators_hash"],
		NextValidatorsHash: decodedHashes["next_validators_hash"],
		ConsensusHash:      decodedHashes["consensus_hash"],
		AppHash:            appHash,
		LastResultsHash:    decodedHashes["last_results_hash"],
		EvidenceHash:       decodedHashes["evidence_hash"],
		ProposerAddress:    proposer,
	}
	return header, height, nil
}

func decodeCommit(c commitJSON) (*types.Commit, *big.Int, error) {
	height, err := bigjson.Parse("commit.height", c.Height)
	if err != nil {
		return nil, nil, err
	}
	if c.Round < 0 {
		return nil, nil, fmt.Errorf("commit.round: must not be negative, got %d", c.Round)
	}

	blockID, err := decodeBlockID("commit.block_id", c.BlockID)
	if err != nil {
		return nil, nil, err
	}

	if len(c.Signatures) == 0 {
		return nil, nil, fmt.Errorf("commit.signatures: must not be empty")
	}

	sigs := make([]types.CommitSig, 0, len(c.Signatures))
	for i, cs := range c.Signatures {
		sig, err := decodeCommitSig(i, cs)
		if err != nil {
			return nil, nil, err
		}
		sigs = append(sigs, sig)
	}

	return &types.Commit{
		Height:     height,
		Round:      c.Round,
		BlockID:    blockID,
		Signatures: sigs,
	}, height, nil
}

func decodeCommitSig(i int, cs commitSigJSON) (types.CommitSig, error) {
	flag := types.BlockIDFlag(cs.BlockIDFlag)
	if !flag.Valid() {
		return types.CommitSig{}, fmt.Errorf("commit.signatures[%d].block_id_flag: invalid value %d", i, cs.BlockIDFlag)
	}

	addr, err := decodeHexFixed(fmt.Sprintf("commit.signatures[%d].validator_address", i), cs.ValidatorAddress, 20)
	if err != nil {
		return types.CommitSig{}, err
	}

	var ts types.Time
	if cs.Timestamp != "" {
		ts, err = types.ParseRFC3339(cs.Timestamp)
		if err != nil {
			return types.CommitSig{}, fmt.Errorf("commit.signatures[%d].%w", i, err)
		}
	}

	var sig []byte
	if cs.Signature != "" {
		sig, err = base64.StdEncoding.DecodeString(cs.Signature)
		if err != nil {
			return types.CommitSig{}, fmt.Errorf("commit.signatures[%d].signature: not valid base64: %w", i, err)
		}
		if len(sig) != 64 {
			return types.CommitSig{}, fmt.Errorf("commit.signatures[%d].signature: must be 0 or 64 bytes, got %d", i, len(sig))
		}
	}

	return types.CommitSig{
		BlockIDFlag:      flag,
		ValidatorAddress: addr,
		Timestamp:        ts,
		Signature:        sig,
	}, nil
}

func decodeBlockID(field string, b blockIDJSON) (types.BlockID, error) {
	hash, err := decodeHexFixed(field+".hash", b.Hash, 32)
	if err != nil {
		return types.BlockID{}, err
	}
	partsHash, err := decodeHexFixed(field+".parts.hash", b.Parts.Hash, 32)
	if err != nil {
		return types.BlockID{}, err
	}
	return types.BlockID{
		Hash: hash,
		PartSetHeader: types.PartSetHeader{
			Total: b.Parts.Total,
			Hash:  partsHash,
		},
	}, nil
}

func decodeHexFixed(field, s string, n int) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: not valid hex: %w", field, err)
	}
	if len(b) != n {
		return nil, fmt.Errorf("%s: must be %d bytes, got %d", field, n, len(b))
	}
	return b, nil
}

func decodeHexAny(field, s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: not valid hex: %w", field, err)
	}
	return b, nil
}
