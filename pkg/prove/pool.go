package prove

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yourorg/zecnam/pkg/claim"
	"github.com/yourorg/zecnam/pkg/tree"
)

// Job is one claim to prove.
type Job struct {
	Note    claim.NoteDescriptor
	Context SpendingContext
	Witness *tree.Witness
	Public  claim.PublicInputs
}

// ProveAll proves independent claims concurrently, bounded by the available
// parallelism. Proof generation is not interruptible mid-circuit, so the
// context is only consulted before each job is dispatched; a cancellation
// after dispatch discards results when the group returns. The first failure
// stops dispatch of the remaining jobs and is returned.
func (p *Prover) ProveAll(ctx context.Context, jobs []Job) ([][]byte, error) {
	proofs := make([][]byte, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			proof, err := p.Prove(job.Note, job.Context, job.Witness, job.Public)
			if err != nil {
				return err
			}
			proofs[i] = proof
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return proofs, nil
}
