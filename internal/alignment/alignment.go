package alignment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAlignmentFailure is the class of every aligner failure.
	ErrAlignmentFailure = errors.New("alignment failure")
	// ErrNoAlignment is returned when no finite-scoring alignment exists.
	ErrNoAlignment = fmt.Errorf("%w: no usable alignment", ErrAlignmentFailure)
	// ErrAlignmentTooLarge is returned when the DP matrix would exceed MaxCells.
	ErrAlignmentTooLarge = fmt.Errorf("%w: matrix exceeds cell limit", ErrAlignmentFailure)
)

// Block is a half-open range [Start, End) of one sequence.
type Block struct {
	Start int
	End   int
}

// Len returns the block length.
func (b Block) Len() int {
	return b.End - b.Start
}

// Alignment represents the result of a global alignment between two sequences.
//
// Blocks1 and Blocks2 are paired: Blocks1[k] and Blocks2[k] cover the same
// run of identical aligned columns. A mismatch or gap column ends a block.
type Alignment struct {
	AlignedSeq1 string
	AlignedSeq2 string
	Blocks1     []Block
	Blocks2     []Block
	Score       float64
	Identity    float64
}

// newAlignment builds the result from the gapped rows.
func newAlignment(aligned1, aligned2 string, score float64) (*Alignment, error) {
	if len(aligned1) != len(aligned2) {
		return nil, fmt.Errorf("aligned sequences must have equal length")
	}

	a := &Alignment{
		AlignedSeq1: aligned1,
		AlignedSeq2: aligned2,
		Score:       score,
	}
	a.Blocks1, a.Blocks2 = matchedBlocks(aligned1, aligned2)
	a.Identity = a.calculateIdentity()
	return a, nil
}

// matchedBlocks walks the gapped rows and collects runs of identical columns
// in ungapped coordinates of each sequence.
func matchedBlocks(aligned1, aligned2 string) ([]Block, []Block) {
	var blocks1, blocks2 []Block
	i, j := 0, 0
	open := false

	for k := 0; k < len(aligned1); k++ {
		c1, c2 := aligned1[k], aligned2[k]
		match := c1 != '-' && c1 == c2

		if match {
			if !open {
				blocks1 = append(blocks1, Block{Start: i})
				blocks2 = append(blocks2, Block{Start: j})
				open = true
			}
		} else if open {
			blocks1[len(blocks1)-1].End = i
			blocks2[len(blocks2)-1].End = j
			open = false
		}

		if c1 != '-' {
			i++
		}
		if c2 != '-' {
			j++
		}
	}
	if open {
		blocks1[len(blocks1)-1].End = i
		blocks2[len(blocks2)-1].End = j
	}

	return blocks1, blocks2
}

// calculateIdentity calculates the sequence identity.
func (a *Alignment) calculateIdentity() float64 {
	if len(a.AlignedSeq1) == 0 {
		return 0.0
	}
	return float64(a.MatchCount()) / float64(len(a.AlignedSeq1))
}

// Length returns the number of alignment columns.
func (a *Alignment) Length() int {
	return len(a.AlignedSeq1)
}

// MatchCount returns the number of matches.
func (a *Alignment) MatchCount() int {
	count := 0
	for _, b := range a.Blocks1 {
		count += b.Len()
	}
	return count
}

// MismatchCount returns the number of mismatches.
func (a *Alignment) MismatchCount() int {
	count := 0
	for i := 0; i < len(a.AlignedSeq1); i++ {
		if a.AlignedSeq1[i] != a.AlignedSeq2[i] &&
			a.AlignedSeq1[i] != '-' && a.AlignedSeq2[i] != '-' {
			count++
		}
	}
	return count
}

// TotalGaps returns the total number of gap columns.
func (a *Alignment) TotalGaps() int {
	return strings.Count(a.AlignedSeq1, "-") + strings.Count(a.AlignedSeq2, "-")
}

// ToCIGAR generates a CIGAR string with sequence 1 as the reference.
func (a *Alignment) ToCIGAR() string {
	if len(a.AlignedSeq1) == 0 {
		return ""
	}

	var cigar strings.Builder
	currentOp := byte(0)
	count := 0

	for i := 0; i < len(a.AlignedSeq1); i++ {
		var op byte
		if a.AlignedSeq1[i] == '-' {
			op = 'I'
		} else if a.AlignedSeq2[i] == '-' {
			op = 'D'
		} else if a.AlignedSeq1[i] == a.AlignedSeq2[i] {
			op = '='
		} else {
			op = 'X'
		}

		if op == currentOp {
			count++
		} else {
			if count > 0 {
				fmt.Fprintf(&cigar, "%d%c", count, currentOp)
			}
			currentOp = op
			count = 1
		}
	}

	if count > 0 {
		fmt.Fprintf(&cigar, "%d%c", count, currentOp)
	}

	return cigar.String()
}

// Format returns a formatted string representation of the alignment.
func (a *Alignment) Format() string {
	var matchLine strings.Builder
	for i := 0; i < len(a.AlignedSeq1); i++ {
		if a.AlignedSeq1[i] == a.AlignedSeq2[i] && a.AlignedSeq1[i] != '-' {
			matchLine.WriteByte('|')
		} else if a.AlignedSeq1[i] == '-' || a.AlignedSeq2[i] == '-' {
			matchLine.WriteByte(' ')
		} else {
			matchLine.WriteByte('.')
		}
	}

	return fmt.Sprintf("Seq1: %s\n      %s\nSeq2: %s\nScore: %g\nIdentity: %.1f%%\nCIGAR: %s",
		a.AlignedSeq1, matchLine.String(), a.AlignedSeq2,
		a.Score, a.Identity*100, a.ToCIGAR())
}

func (a *Alignment) String() string {
	return fmt.Sprintf("Alignment { score: %g, identity: %.1f%%, length: %d }",
		a.Score, a.Identity*100, a.Length())
}
