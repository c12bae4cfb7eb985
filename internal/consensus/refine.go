package consensus

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aria-lang/conseq-go/internal/alignment"
	"github.com/aria-lang/conseq-go/internal/seed"
	"github.com/aria-lang/conseq-go/internal/sequence"
)

// DefaultMaxRounds caps the refinement loop.
const DefaultMaxRounds = 15

// Termination is the reason the refinement loop stopped.
type Termination int

const (
	// TerminationConverged means no read proposed any edit.
	TerminationConverged Termination = iota + 1
	// TerminationRejected means the last tentative edit lowered the score.
	TerminationRejected
	// TerminationIterationCap means every allowed round was accepted.
	TerminationIterationCap
)

func (t Termination) String() string {
	switch t {
	case TerminationConverged:
		return "converged"
	case TerminationRejected:
		return "rejected"
	case TerminationIterationCap:
		return "iteration_cap"
	default:
		return "unknown"
	}
}

// MarshalText renders the termination by name in JSON and YAML.
func (t Termination) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a name written by MarshalText.
func (t *Termination) UnmarshalText(b []byte) error {
	switch string(b) {
	case "converged":
		*t = TerminationConverged
	case "rejected":
		*t = TerminationRejected
	case "iteration_cap":
		*t = TerminationIterationCap
	default:
		return fmt.Errorf("unknown termination %q", b)
	}
	return nil
}

// Result is the outcome of refining one bin.
type Result struct {
	Sequence string
	Score    float64
	// History holds the score of every accepted candidate, seed first.
	History     []float64
	Rounds      int
	Termination Termination
}

// Refiner runs the seed-then-refine loop on a bin.
type Refiner struct {
	estimator   *seed.Estimator
	editAligner *alignment.Aligner
	scorer      *Scorer
	maxRounds   int
	parallelism int
	logger      *slog.Logger
}

// NewRefiner builds a refiner from opts. Zero fields take defaults.
func NewRefiner(opts Options) *Refiner {
	opts = opts.withDefaults()

	scoring := opts.Scoring
	return &Refiner{
		estimator: opts.Estimator,
		editAligner: &alignment.Aligner{
			Scoring:  alignment.Unweighted(),
			MaxCells: opts.MaxCells,
		},
		scorer: &Scorer{
			Aligner:     &alignment.Aligner{Scoring: scoring, MaxCells: opts.MaxCells},
			Parallelism: opts.ReadParallelism,
		},
		maxRounds:   opts.MaxRounds,
		parallelism: opts.ReadParallelism,
		logger:      opts.Logger,
	}
}

// Run seeds bin with the positional-vote estimator and refines it.
func (r *Refiner) Run(ctx context.Context, bin Bin) (*Result, error) {
	if err := bin.Validate(); err != nil {
		return nil, err
	}
	start, err := r.estimator.Estimate(sequence.BasesOf(bin.Reads))
	if err != nil {
		return nil, fmt.Errorf("seeding bin %q: %w", bin.Label, err)
	}
	return r.Refine(ctx, bin, start)
}

// Refine improves start one edit per round. A round pools the edits of
// every read against the current candidate, applies the most frequent one
// and keeps it unless the mean score drops. Equal scores are accepted.
func (r *Refiner) Refine(ctx context.Context, bin Bin, start string) (*Result, error) {
	if err := bin.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "Refiner.Refine", trace.WithAttributes(
		attribute.String("bin.label", bin.Label),
		attribute.Int("bin.reads", bin.Size()),
	))
	defer span.End()

	res, err := r.refine(ctx, bin, start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("refine.rounds", res.Rounds),
		attribute.String("refine.termination", res.Termination.String()),
		attribute.Float64("refine.score", res.Score),
	)
	refinementRounds.Observe(float64(res.Rounds))
	terminations.WithLabelValues(res.Termination.String()).Inc()
	return res, nil
}

func (r *Refiner) refine(ctx context.Context, bin Bin, start string) (*Result, error) {
	current, err := r.scorer.Score(ctx, start, bin.Reads)
	if err != nil {
		return nil, fmt.Errorf("scoring seed of bin %q: %w", bin.Label, err)
	}

	res := &Result{
		Sequence: current.Sequence,
		Score:    current.Mean,
		History:  []float64{current.Mean},
	}

	for round := 1; round <= r.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("bin %q round %d: %w", bin.Label, round, err)
		}

		pool, err := collectEdits(ctx, r.editAligner, res.Sequence, bin.Reads, r.parallelism)
		if err != nil {
			return nil, fmt.Errorf("bin %q round %d: %w", bin.Label, round, err)
		}
		editPoolSize.Observe(float64(len(pool)))

		edit, support, ok := mostFrequent(pool)
		if !ok {
			res.Termination = TerminationConverged
			return res, nil
		}

		tentative, err := ApplyEdit(res.Sequence, edit)
		if err != nil {
			return nil, fmt.Errorf("bin %q round %d: %w", bin.Label, round, err)
		}
		scored, err := r.scorer.Score(ctx, tentative, bin.Reads)
		if err != nil {
			return nil, fmt.Errorf("bin %q round %d: %w", bin.Label, round, err)
		}
		res.Rounds = round

		r.logger.Debug("refinement round",
			"bin", bin.Label,
			"round", round,
			"edit", edit.String(),
			"support", support,
			"pool", len(pool),
			"score", scored.Mean,
			"best", res.Score,
		)

		if scored.Mean < res.Score {
			res.Termination = TerminationRejected
			return res, nil
		}
		res.Sequence = tentative
		res.Score = scored.Mean
		res.History = append(res.History, scored.Mean)
	}

	res.Termination = TerminationIterationCap
	return res, nil
}
