package consensus

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/aria-lang/conseq-go/internal/alignment"
	"github.com/aria-lang/conseq-go/internal/sequence"
)

// ReadScore is one read's alignment score against a candidate.
type ReadScore struct {
	ReadID string
	Score  float64
}

// ScoredCandidate is a candidate with its mean score over the bin.
type ScoredCandidate struct {
	Sequence string
	Mean     float64
	PerRead  []ReadScore
}

// Scorer rates candidates by their mean alignment score to the reads.
type Scorer struct {
	Aligner     *alignment.Aligner
	Parallelism int
}

// NewScorer returns a scorer using the penalized scheme.
func NewScorer(parallelism int) *Scorer {
	return &Scorer{
		Aligner:     alignment.NewAligner(alignment.Penalized()),
		Parallelism: parallelism,
	}
}

// Score aligns candidate to every read and averages the scores in bin order.
func (s *Scorer) Score(ctx context.Context, candidate string, reads []*sequence.Sequence) (*ScoredCandidate, error) {
	if len(reads) == 0 {
		return nil, &InvalidBinError{Reason: "bin has no reads"}
	}

	perRead := make([]ReadScore, len(reads))

	g, gctx := errgroup.WithContext(ctx)
	if s.Parallelism > 0 {
		g.SetLimit(s.Parallelism)
	}
	for i, read := range reads {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := s.Aligner.Score(candidate, read.Bases)
			if err != nil {
				return &AlignmentError{ReadID: read.ID, Err: err}
			}
			perRead[i] = ReadScore{ReadID: read.ID, Score: v}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var sum float64
	for _, rs := range perRead {
		sum += rs.Score
	}
	return &ScoredCandidate{
		Sequence: candidate,
		Mean:     sum / float64(len(perRead)),
		PerRead:  perRead,
	}, nil
}
