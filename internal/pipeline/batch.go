package pipeline

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency caps how many accessions are in flight at once.
const DefaultConcurrency = 50

// Coordinator fans a list of accessions out to a Processor under a
// bounded in-flight limit. Accession jobs are side-effect isolated:
// filenames derive from each job's own accession, so jobs never collide
// in the shared output directory.
type Coordinator struct {
	processor *Processor
	limit     int
}

// NewCoordinator creates a batch coordinator. A non-positive limit
// selects DefaultConcurrency.
func NewCoordinator(processor *Processor, limit int) *Coordinator {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	return &Coordinator{processor: processor, limit: limit}
}

// Run processes every accession and returns one outcome per input, in
// input order. An individual failure is recorded in its outcome and
// never cancels siblings; completion order is unspecified.
func (c *Coordinator) Run(ctx context.Context, accessions []string) []Outcome {
	outcomes := make([]Outcome, len(accessions))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.limit)

	for i, acc := range accessions {
		i, acc := i, acc
		g.Go(func() error {
			outcomes[i] = c.processor.Process(ctx, acc)
			if outcomes[i].Err != nil {
				log.Printf("Processing %s failed: %v", acc, outcomes[i].Err)
			}
			// Failures stay in the outcome so the rest of the batch keeps going.
			return nil
		})
	}

	// Workers never return errors, so Wait only synchronizes.
	_ = g.Wait()
	return outcomes
}

// Failed returns the outcomes that carry an error.
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}
