package consensus

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/aria-lang/conseq-go/internal/alignment"
	"github.com/aria-lang/conseq-go/internal/seed"
)

// Record is the consensus of one bin.
type Record struct {
	Label       string      `json:"label"`
	Sequence    string      `json:"sequence"`
	ReadCount   int         `json:"read_count"`
	Score       float64     `json:"score"`
	Rounds      int         `json:"rounds"`
	Termination Termination `json:"termination"`
	Source      string      `json:"source,omitempty"`
}

// Strategy turns bins into consensus records.
type Strategy interface {
	Name() string
	Generate(ctx context.Context, bin Bin) (*Record, error)
	GenerateAll(ctx context.Context, bins []Bin) *Batch
}

// Options configures a strategy. Zero values take defaults.
type Options struct {
	Estimator       *seed.Estimator
	Scoring         *alignment.Scoring
	MaxRounds       int
	ReadParallelism int
	MaxCells        int
	Workers         int
	// BinTimeout bounds each bin when positive.
	BinTimeout time.Duration
	Logger     *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Estimator == nil {
		o.Estimator = seed.New()
	}
	if o.Scoring == nil {
		o.Scoring = alignment.Penalized()
	}
	if o.MaxRounds <= 0 {
		o.MaxRounds = DefaultMaxRounds
	}
	if o.ReadParallelism <= 0 {
		o.ReadParallelism = runtime.GOMAXPROCS(0)
	}
	if o.MaxCells <= 0 {
		o.MaxCells = alignment.DefaultMaxCells
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

var registry = map[string]func(Options) Strategy{
	PairwiseName: func(o Options) Strategy { return NewPairwise(o) },
}

// New returns the strategy registered under name.
func New(name string, opts Options) (Strategy, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownStrategy, name, Names())
	}
	return ctor(opts), nil
}

// Names lists the registered strategies.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PairwiseName is the registry name of Pairwise.
const PairwiseName = "pairwise"

// Pairwise builds each consensus from pairwise alignments of the reads to a
// positional-vote seed, refined one majority edit at a time.
type Pairwise struct {
	opts    Options
	refiner *Refiner
}

// NewPairwise returns the pairwise strategy.
func NewPairwise(opts Options) *Pairwise {
	opts = opts.withDefaults()
	return &Pairwise{opts: opts, refiner: NewRefiner(opts)}
}

func (p *Pairwise) Name() string { return PairwiseName }

// Generate refines one bin. A failed bin yields no record.
func (p *Pairwise) Generate(ctx context.Context, bin Bin) (*Record, error) {
	started := time.Now()

	if p.opts.BinTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.BinTimeout)
		defer cancel()
	}

	ctx, span := tracer.Start(ctx, "Pairwise.Generate", trace.WithAttributes(
		attribute.String("bin.label", bin.Label),
	))
	defer span.End()

	res, err := p.refiner.Run(ctx, bin)
	binDuration.WithLabelValues(p.Name()).Observe(time.Since(started).Seconds())
	if err != nil {
		binsTotal.WithLabelValues(p.Name(), "error").Inc()
		p.opts.Logger.Warn("consensus failed", "bin", bin.Label, "reads", bin.Size(), "error", err)
		return nil, err
	}
	binsTotal.WithLabelValues(p.Name(), "ok").Inc()

	p.opts.Logger.Debug("consensus built",
		"bin", bin.Label,
		"reads", bin.Size(),
		"length", len(res.Sequence),
		"rounds", res.Rounds,
		"termination", res.Termination.String(),
		"elapsed", time.Since(started),
	)

	return &Record{
		Label:       bin.Label,
		Sequence:    res.Sequence,
		ReadCount:   bin.Size(),
		Score:       res.Score,
		Rounds:      res.Rounds,
		Termination: res.Termination,
		Source:      bin.Source,
	}, nil
}

// GenerateAll refines bins on a pool of Workers goroutines.
func (p *Pairwise) GenerateAll(ctx context.Context, bins []Bin) *Batch {
	return runBatch(ctx, p, bins, p.opts.Workers)
}
