package verify

import (
	"golang.org/x/sync/errgroup"

	"github.com/lightcmt/commitverify/crypto"
	"github.com/lightcmt/commitverify/types"
)

// classifyConcurrent verifies signatures over a bounded worker pool built
// on errgroup.Group, the same concurrency primitive the teacher uses for
// its own bounded fan-out (inspect.startRPCServers). A semaphore channel
// caps in-flight goroutines at cfg.concurrency; each worker writes only to
// its own slot in a pre-sized results slice, so the final reduction in
// Verify stays deterministic and ordered by original signature index
// regardless of goroutine scheduling — satisfying the concurrency model's
// (a), (b), and (c) requirements: deterministic combination by index, no
// shared mutable accumulator, and no signature's failure ever skips
// another's classification (classifyOne never returns an error, so the
// group itself never short-circuits).
func classifyConcurrent(sh *types.SignedHeader, vals *types.ValidatorSet, idx *crypto.Index, cfg options) []sigResult {
	sigs := sh.Commit.Signatures
	results := make([]sigResult, len(sigs))

	var g errgroup.Group
	sem := make(chan struct{}, cfg.concurrency)

	for i, cs := range sigs {
		i, cs := i, cs
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			results[i] = classifyOne(sh, cs, vals, idx)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
