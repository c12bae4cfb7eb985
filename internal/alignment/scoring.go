// Package alignment provides the pairwise alignment primitive used by the
// consensus engine.
//
// Alignments are global (Needleman-Wunsch with Gotoh affine gaps) and end
// gaps are scored like interior gaps. Two presets cover the engine's needs:
// Unweighted for deriving edits and Penalized for scoring candidates.
package alignment

import "fmt"

// AlignDirection represents the traceback state in the alignment matrices.
type AlignDirection uint8

const (
	// Diagonal represents a match or mismatch column
	Diagonal AlignDirection = iota
	// Up represents a base of sequence 1 against a gap
	Up
	// Left represents a base of sequence 2 against a gap
	Left
)

func (d AlignDirection) String() string {
	switch d {
	case Diagonal:
		return "diagonal"
	case Up:
		return "up"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Scoring holds the parameters of an affine gap scheme. A gap of length L
// scores GapOpen + (L-1)*GapExtend.
type Scoring struct {
	Match     float64
	Mismatch  float64
	GapOpen   float64
	GapExtend float64
}

// NewScoring creates a scoring scheme with validation.
func NewScoring(match, mismatch, gapOpen, gapExtend float64) (*Scoring, error) {
	if match <= 0 {
		return nil, fmt.Errorf("match score must be positive")
	}
	if mismatch > 0 {
		return nil, fmt.Errorf("mismatch score should be <= 0")
	}
	if gapOpen > 0 {
		return nil, fmt.Errorf("gap open score should be <= 0")
	}
	if gapExtend > 0 {
		return nil, fmt.Errorf("gap extend score should be <= 0")
	}

	return &Scoring{
		Match:     match,
		Mismatch:  mismatch,
		GapOpen:   gapOpen,
		GapExtend: gapExtend,
	}, nil
}

// Unweighted counts matches only. It is the scheme edits are derived under.
func Unweighted() *Scoring {
	return &Scoring{Match: 1}
}

// Penalized is the scheme candidates are scored under.
func Penalized() *Scoring {
	return &Scoring{
		Match:     1,
		Mismatch:  -1,
		GapOpen:   -1,
		GapExtend: -0.5,
	}
}

// Score returns the score for comparing two bases.
func (s *Scoring) Score(base1, base2 byte) float64 {
	if base1 == base2 {
		return s.Match
	}
	return s.Mismatch
}

// GapPenalty returns the score of a gap of the given length.
func (s *Scoring) GapPenalty(length int) float64 {
	if length <= 0 {
		return 0
	}
	return s.GapOpen + float64(length-1)*s.GapExtend
}

// String returns a string representation of the scoring scheme.
func (s *Scoring) String() string {
	return fmt.Sprintf("Scoring { match: %g, mismatch: %g, gap_open: %g, gap_extend: %g }",
		s.Match, s.Mismatch, s.GapOpen, s.GapExtend)
}
