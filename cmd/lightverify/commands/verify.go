package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lightcmt/commitverify/cimport"
	"github.com/lightcmt/commitverify/verify"
	"github.com/lightcmt/commitverify/vimport"
)

// VerifyCmd checks a commit document against a validator-set document and
// reports the resulting verify.Outcome as JSON on stdout.
var VerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a /commit response against a /validators response",
	RunE:  runVerify,
}

func init() {
	VerifyCmd.Flags().String("validators", "", "path to a /validators JSON response")
	VerifyCmd.Flags().String("commit", "", "path to a /commit JSON response")
	VerifyCmd.Flags().Int("concurrency", 1, "number of signatures to verify concurrently (1 = sequential)")
	VerifyCmd.Flags().Bool("batch", false, "try a combined Ed25519 batch check before falling back per-signature")
	_ = VerifyCmd.MarkFlagRequired("validators")
	_ = VerifyCmd.MarkFlagRequired("commit")
}

func runVerify(cmd *cobra.Command, args []string) error {
	valsPath, _ := cmd.Flags().GetString("validators")
	commitPath, _ := cmd.Flags().GetString("commit")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	useBatch, _ := cmd.Flags().GetBool("batch")

	valsRaw, err := os.ReadFile(valsPath)
	if err != nil {
		return fmt.Errorf("reading validators file: %w", err)
	}
	commitRaw, err := os.ReadFile(commitPath)
	if err != nil {
		return fmt.Errorf("reading commit file: %w", err)
	}

	vr, err := vimport.Import(valsRaw)
	if err != nil {
		return err
	}
	sh, err := cimport.Import(commitRaw)
	if err != nil {
		return err
	}

	logger := newLogger(cmd)
	opts := []verify.Option{verify.WithLogger(logger)}
	if concurrency > 1 {
		opts = append(opts, verify.WithConcurrency(concurrency))
	}
	if useBatch {
		opts = append(opts, verify.WithBatchVerification(true))
	}

	outcome, err := verify.Verify(sh, vr.ValidatorSet, vr.CryptoIndex, opts...)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcome); err != nil {
		return err
	}

	if !outcome.OK {
		os.Exit(1)
	}
	return nil
}
