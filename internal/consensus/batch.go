package consensus

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one bin in a batch. Exactly one of Record and
// Err is set.
type Outcome struct {
	Index  int
	Label  string
	Record *Record
	Err    error
}

// Batch holds outcomes in input order.
type Batch struct {
	Outcomes []Outcome
}

// Records returns the successful records in input order.
func (b *Batch) Records() []*Record {
	var out []*Record
	for _, o := range b.Outcomes {
		if o.Err == nil {
			out = append(out, o.Record)
		}
	}
	return out
}

// Failures returns the failed outcomes in input order.
func (b *Batch) Failures() []Outcome {
	var out []Outcome
	for _, o := range b.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// runBatch fans bins out to workers. A failing bin never stops the others,
// so the group context is not used for cancellation.
func runBatch(ctx context.Context, s Strategy, bins []Bin, workers int) *Batch {
	outcomes := make([]Outcome, len(bins))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, bin := range bins {
		g.Go(func() error {
			rec, err := s.Generate(ctx, bin)
			outcomes[i] = Outcome{Index: i, Label: bin.Label, Record: rec, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return &Batch{Outcomes: outcomes}
}
