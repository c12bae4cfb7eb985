package consensus

import (
	"fmt"

	"github.com/aria-lang/conseq-go/internal/sequence"
)

// Bin is a group of reads believed to come from one molecule.
type Bin struct {
	Label  string
	Reads  []*sequence.Sequence
	Source string
}

// NewBin builds a bin from raw bases, naming reads by their position.
func NewBin(label string, bases ...string) Bin {
	reads := make([]*sequence.Sequence, len(bases))
	for i, b := range bases {
		reads[i] = sequence.Unchecked(fmt.Sprintf("%s/%d", label, i), b)
	}
	return Bin{Label: label, Reads: reads}
}

// Validate rejects empty bins and reads outside the nucleotide alphabet.
func (b Bin) Validate() error {
	if len(b.Reads) == 0 {
		return &InvalidBinError{Label: b.Label, Reason: "bin has no reads"}
	}
	for i, r := range b.Reads {
		if r == nil {
			return &InvalidBinError{Label: b.Label, Reason: fmt.Sprintf("read %d is nil", i)}
		}
		if r.Len() == 0 {
			return &InvalidBinError{Label: b.Label, ReadID: r.ID, Reason: "empty read"}
		}
		if err := sequence.ValidateDNA(r.Bases); err != nil {
			return &InvalidBinError{Label: b.Label, ReadID: r.ID, Reason: err.Error()}
		}
	}
	return nil
}

// Size returns the number of reads.
func (b Bin) Size() int {
	return len(b.Reads)
}
