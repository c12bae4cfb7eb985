package alignment

import (
	"fmt"
	"math"

	"github.com/aria-lang/conseq-go/internal/sequence"
)

// DefaultMaxCells bounds the matrix size of a single Align or Score call.
const DefaultMaxCells = 1 << 27

// Aligner computes global alignments under one scoring scheme. The zero
// value aligns with Unweighted scoring and no cell limit. An Aligner holds
// no mutable state and is safe for concurrent use.
type Aligner struct {
	Scoring  *Scoring
	MaxCells int
}

// NewAligner returns an aligner with the default cell limit.
func NewAligner(scoring *Scoring) *Aligner {
	return &Aligner{Scoring: scoring, MaxCells: DefaultMaxCells}
}

func (al *Aligner) scoring() *Scoring {
	if al.Scoring == nil {
		return Unweighted()
	}
	return al.Scoring
}

// best3 picks the best of the three states. Ties resolve to the earliest
// argument: diagonal, then up, then left.
func best3(diag, up, left float64) (float64, AlignDirection) {
	best, dir := diag, Diagonal
	if up > best {
		best, dir = up, Up
	}
	if left > best {
		best, dir = left, Left
	}
	return best, dir
}

// Align returns the single best global alignment of a and b.
//
// Three Gotoh matrices are filled row by row: Diagonal ends in an aligned
// column, Up ends with a[i-1] against a gap and Left ends with b[j-1]
// against a gap. Only the traceback is kept for the whole matrix, packed
// as two bits per state in one byte per cell.
func (al *Aligner) Align(a, b string) (*Alignment, error) {
	sc := al.scoring()
	m, n := len(a), len(b)

	if al.MaxCells > 0 && (m+1)*(n+1) > al.MaxCells {
		return nil, fmt.Errorf("%w: %d x %d", ErrAlignmentTooLarge, m, n)
	}

	cols := n + 1
	trace := make([]uint8, (m+1)*cols)
	negInf := math.Inf(-1)

	prevM, prevX, prevY := make([]float64, cols), make([]float64, cols), make([]float64, cols)
	curM, curX, curY := make([]float64, cols), make([]float64, cols), make([]float64, cols)

	prevX[0], prevY[0] = negInf, negInf
	for j := 1; j <= n; j++ {
		prevM[j], prevX[j] = negInf, negInf
		if j == 1 {
			prevY[j] = sc.GapOpen
			trace[j] = uint8(Diagonal) << 4
		} else {
			prevY[j] = prevY[j-1] + sc.GapExtend
			trace[j] = uint8(Left) << 4
		}
	}

	for i := 1; i <= m; i++ {
		row := i * cols
		curM[0], curY[0] = negInf, negInf
		if i == 1 {
			curX[0] = sc.GapOpen
			trace[row] = uint8(Diagonal) << 2
		} else {
			curX[0] = prevX[0] + sc.GapExtend
			trace[row] = uint8(Up) << 2
		}

		for j := 1; j <= n; j++ {
			diag, dFrom := best3(prevM[j-1], prevX[j-1], prevY[j-1])
			curM[j] = diag + sc.Score(a[i-1], b[j-1])

			up, uFrom := best3(prevM[j]+sc.GapOpen, prevX[j]+sc.GapExtend, prevY[j]+sc.GapOpen)
			curX[j] = up

			left, lFrom := best3(curM[j-1]+sc.GapOpen, curX[j-1]+sc.GapOpen, curY[j-1]+sc.GapExtend)
			curY[j] = left

			trace[row+j] = uint8(dFrom) | uint8(uFrom)<<2 | uint8(lFrom)<<4
		}

		prevM, curM = curM, prevM
		prevX, curX = curX, prevX
		prevY, curY = curY, prevY
	}

	score, state := best3(prevM[n], prevX[n], prevY[n])
	if math.IsInf(score, 0) || math.IsNaN(score) {
		return nil, ErrNoAlignment
	}

	aligned1, aligned2, err := tracebackGlobal(a, b, trace, cols, state)
	if err != nil {
		return nil, err
	}

	return newAlignment(aligned1, aligned2, score)
}

// tracebackGlobal walks from the bottom-right corner back to the origin.
func tracebackGlobal(a, b string, trace []uint8, cols int, state AlignDirection) (string, string, error) {
	i, j := len(a), len(b)
	buf1 := make([]byte, 0, i+j)
	buf2 := make([]byte, 0, i+j)

	for i > 0 || j > 0 {
		t := trace[i*cols+j]
		switch {
		case state == Diagonal && i > 0 && j > 0:
			buf1 = append(buf1, a[i-1])
			buf2 = append(buf2, b[j-1])
			state = AlignDirection(t & 3)
			i--
			j--
		case state == Up && i > 0:
			buf1 = append(buf1, a[i-1])
			buf2 = append(buf2, '-')
			state = AlignDirection(t >> 2 & 3)
			i--
		case state == Left && j > 0:
			buf1 = append(buf1, '-')
			buf2 = append(buf2, b[j-1])
			state = AlignDirection(t >> 4 & 3)
			j--
		default:
			return "", "", fmt.Errorf("%w: traceback left the matrix at (%d, %d)", ErrNoAlignment, i, j)
		}
	}

	reverse(buf1)
	reverse(buf2)
	return string(buf1), string(buf2), nil
}

// reverse reverses a byte slice in place.
func reverse(s []byte) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// Score calculates the global alignment score without traceback.
//
// Uses O(n) space instead of O(m*n) by only keeping two rows per state.
// It returns exactly the score Align would report.
func (al *Aligner) Score(a, b string) (float64, error) {
	sc := al.scoring()
	m, n := len(a), len(b)
	if al.MaxCells > 0 && (m+1)*(n+1) > al.MaxCells {
		return 0, fmt.Errorf("%w: %d x %d", ErrAlignmentTooLarge, m, n)
	}
	cols := n + 1
	negInf := math.Inf(-1)

	prevM, prevX, prevY := make([]float64, cols), make([]float64, cols), make([]float64, cols)
	curM, curX, curY := make([]float64, cols), make([]float64, cols), make([]float64, cols)

	prevX[0], prevY[0] = negInf, negInf
	for j := 1; j <= n; j++ {
		prevM[j], prevX[j] = negInf, negInf
		if j == 1 {
			prevY[j] = sc.GapOpen
		} else {
			prevY[j] = prevY[j-1] + sc.GapExtend
		}
	}

	for i := 1; i <= m; i++ {
		curM[0], curY[0] = negInf, negInf
		if i == 1 {
			curX[0] = sc.GapOpen
		} else {
			curX[0] = prevX[0] + sc.GapExtend
		}

		for j := 1; j <= n; j++ {
			diag, _ := best3(prevM[j-1], prevX[j-1], prevY[j-1])
			curM[j] = diag + sc.Score(a[i-1], b[j-1])
			curX[j], _ = best3(prevM[j]+sc.GapOpen, prevX[j]+sc.GapExtend, prevY[j]+sc.GapOpen)
			curY[j], _ = best3(curM[j-1]+sc.GapOpen, curX[j-1]+sc.GapOpen, curY[j-1]+sc.GapExtend)
		}

		prevM, curM = curM, prevM
		prevX, curX = curX, prevX
		prevY, curY = curY, prevY
	}

	score, _ := best3(prevM[n], prevX[n], prevY[n])
	if math.IsInf(score, 0) || math.IsNaN(score) {
		return 0, ErrNoAlignment
	}
	return score, nil
}

// NeedlemanWunsch performs global alignment of two validated sequences.
func NeedlemanWunsch(seq1, seq2 *sequence.Sequence, scoring *Scoring) (*Alignment, error) {
	if seq1.Len() == 0 || seq2.Len() == 0 {
		return nil, fmt.Errorf("sequences must be non-empty")
	}
	return NewAligner(scoring).Align(seq1.Bases, seq2.Bases)
}

// GlobalAlignmentScoreOnly calculates the global alignment score of two
// validated sequences without traceback.
func GlobalAlignmentScoreOnly(seq1, seq2 *sequence.Sequence, scoring *Scoring) (float64, error) {
	if seq1.Len() == 0 || seq2.Len() == 0 {
		return 0, fmt.Errorf("sequences must be non-empty")
	}
	return NewAligner(scoring).Score(seq1.Bases, seq2.Bases)
}
