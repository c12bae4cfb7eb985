// Package conseq provides a high-level API for building consensus sequences
// from bins of noisy reads.
//
// Example usage:
//
//	bin, err := conseq.ReadBin("bins/seq_bin3.fq")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rec, err := conseq.GenerateConsensus(ctx, bin)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s: %s (%d rounds, %s)\n", rec.Label, rec.Sequence, rec.Rounds, rec.Termination)
package conseq

import (
	"context"
	"fmt"
	"io"

	"github.com/aria-lang/conseq-go/internal/alignment"
	"github.com/aria-lang/conseq-go/internal/consensus"
	"github.com/aria-lang/conseq-go/internal/fastx"
	"github.com/aria-lang/conseq-go/internal/seed"
	"github.com/aria-lang/conseq-go/internal/sequence"
	"github.com/aria-lang/conseq-go/internal/stats"
)

// Re-export types for convenience
type (
	Sequence        = sequence.Sequence
	Bin             = consensus.Bin
	Record          = consensus.Record
	Batch           = consensus.Batch
	Outcome         = consensus.Outcome
	Strategy        = consensus.Strategy
	Options         = consensus.Options
	Termination     = consensus.Termination
	Edit            = consensus.Edit
	InvalidBinError = consensus.InvalidBinError
	Alignment       = alignment.Alignment
	Scoring         = alignment.Scoring
	ReadSetStats    = stats.ReadSetStats
)

// Termination reasons
const (
	Converged    = consensus.TerminationConverged
	Rejected     = consensus.TerminationRejected
	IterationCap = consensus.TerminationIterationCap
)

// Errors
var (
	ErrInvalidBin       = consensus.ErrInvalidBin
	ErrAlignmentFailure = consensus.ErrAlignmentFailure
	ErrUnknownStrategy  = consensus.ErrUnknownStrategy
)

// NewSequence creates a validated read.
func NewSequence(bases string) (*Sequence, error) {
	return sequence.New(bases)
}

// NewBin builds a bin from raw bases.
func NewBin(label string, bases ...string) Bin {
	return consensus.NewBin(label, bases...)
}

// NewStrategy returns a registered strategy.
func NewStrategy(name string, opts Options) (Strategy, error) {
	return consensus.New(name, opts)
}

// GenerateConsensus refines one bin with the default pairwise strategy.
func GenerateConsensus(ctx context.Context, bin Bin) (*Record, error) {
	return consensus.NewPairwise(Options{}).Generate(ctx, bin)
}

// GenerateConsensusAll refines bins concurrently with the default pairwise
// strategy. Outcomes keep the input order.
func GenerateConsensusAll(ctx context.Context, bins []Bin) *Batch {
	return consensus.NewPairwise(Options{}).GenerateAll(ctx, bins)
}

// EstimateSeed returns the positional-vote seed of reads.
func EstimateSeed(reads []string) (string, error) {
	return seed.New().Estimate(reads)
}

// Align performs unweighted global alignment, the scheme edits come from.
func Align(seq1, seq2 *Sequence) (*Alignment, error) {
	return alignment.NeedlemanWunsch(seq1, seq2, alignment.Unweighted())
}

// AlignPenalized performs global alignment under the scoring scheme.
func AlignPenalized(seq1, seq2 *Sequence) (*Alignment, error) {
	return alignment.NeedlemanWunsch(seq1, seq2, alignment.Penalized())
}

// AlignmentScore returns the penalized global score without traceback.
func AlignmentScore(seq1, seq2 *Sequence) (float64, error) {
	return alignment.GlobalAlignmentScoreOnly(seq1, seq2, alignment.Penalized())
}

// BinStats summarises read lengths of a bin.
func BinStats(bin Bin) (*ReadSetStats, error) {
	return stats.FromSequences(sequence.BasesOf(bin.Reads))
}

// ReadBin loads one FASTQ file as a bin.
func ReadBin(path string) (Bin, error) {
	return fastx.ReadBin(path)
}

// ReadBinDir loads every FASTQ file of a directory.
func ReadBinDir(dir string) ([]Bin, error) {
	return fastx.ReadBinDir(dir)
}

// ReadFASTQ parses reads from a FASTQ stream.
func ReadFASTQ(r io.Reader) ([]*Sequence, error) {
	return fastx.ReadFASTQ(r)
}

// WriteFASTA writes consensus records as FASTA.
func WriteFASTA(w io.Writer, records []*Record) error {
	return fastx.WriteFASTA(w, records)
}

// Version returns the conseq version.
func Version() string {
	return "1.0.0"
}

// Info returns information about conseq.
func Info() string {
	return fmt.Sprintf(`conseq v%s - Consensus Refinement for Noisy Read Bins

Builds one consensus sequence per bin of reads that share a molecular origin.

Method:
  - Positional-vote seed from a sliding window over padded reads
  - Unweighted global alignment of every read to the candidate
  - Most frequent edit applied per round
  - Candidate kept while the mean penalized score does not drop
  - At most %d refinement rounds per bin

Strategies: %v
`, Version(), consensus.DefaultMaxRounds, consensus.Names())
}
