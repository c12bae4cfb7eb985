// Package sequence provides the read type consumed by the consensus engine.
//
// Reads arrive from the binning step already resolved to the nucleotide
// alphabet. Construction normalizes case and validates bases; the engine
// treats a Sequence as immutable once built.
package sequence

import (
	"fmt"
	"strings"
)

// ValidBases is the alphabet accepted at the consensus boundary. Ambiguity
// codes are resolved upstream and rejected here.
var ValidBases = map[rune]bool{'A': true, 'C': true, 'G': true, 'T': true}

// Sequence is a single read: a stable identifier and its bases.
type Sequence struct {
	Bases       string
	ID          string
	Description string
}

// New creates a validated sequence without an identifier.
func New(bases string) (*Sequence, error) {
	normalized := strings.ToUpper(bases)

	if len(normalized) == 0 {
		return nil, &EmptySequenceError{}
	}

	if err := ValidateDNA(normalized); err != nil {
		return nil, err
	}

	return &Sequence{Bases: normalized}, nil
}

// WithID creates a validated sequence carrying an identifier.
func WithID(bases, id string) (*Sequence, error) {
	if len(id) == 0 {
		return nil, fmt.Errorf("ID cannot be empty")
	}

	seq, err := New(bases)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}

	seq.ID = id
	return seq, nil
}

// Unchecked builds a sequence without validating its bases. File readers use
// it so that a malformed read fails its own bin instead of the whole input.
func Unchecked(id, bases string) *Sequence {
	return &Sequence{Bases: strings.ToUpper(bases), ID: id}
}

// Len returns the number of bases.
func (s *Sequence) Len() int {
	return len(s.Bases)
}

// IsValid reports whether the sequence is non-empty and over ValidBases.
func (s *Sequence) IsValid() bool {
	return len(s.Bases) > 0 && ValidateDNA(s.Bases) == nil
}

// Equal compares bases only.
func (s *Sequence) Equal(other *Sequence) bool {
	if other == nil {
		return false
	}
	return s.Bases == other.Bases
}

func (s *Sequence) String() string {
	if s.ID != "" {
		return fmt.Sprintf(">%s\n%s", s.ID, s.Bases)
	}
	return s.Bases
}

// BasesOf returns the raw base strings of seqs in order.
func BasesOf(seqs []*Sequence) []string {
	out := make([]string, len(seqs))
	for i, s := range seqs {
		out[i] = s.Bases
	}
	return out
}
