package consensus

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/aria-lang/conseq-go/internal/alignment"
	"github.com/aria-lang/conseq-go/internal/sequence"
	"github.com/aria-lang/conseq-go/internal/vote"
)

// EditKey identifies an edit regardless of which read proposed it.
type EditKey struct {
	Start     int
	End       int
	Insertion string
}

// Edit replaces candidate[Start:End] with Insertion.
type Edit struct {
	Start     int
	End       int
	Insertion string
	ReadID    string
}

// Key drops the proposing read.
func (e Edit) Key() EditKey {
	return EditKey{Start: e.Start, End: e.End, Insertion: e.Insertion}
}

func (e Edit) String() string {
	return fmt.Sprintf("[%d,%d)->%q", e.Start, e.End, e.Insertion)
}

// ExtractDiffs aligns read against candidate and returns one edit per gap
// between consecutive matched blocks, in alignment order.
//
// The aligner should use Unweighted scoring so that every difference the
// alignment exposes is a candidate edit.
func ExtractDiffs(aligner *alignment.Aligner, candidate string, read *sequence.Sequence) ([]Edit, error) {
	aln, err := aligner.Align(candidate, read.Bases)
	if err != nil {
		return nil, &AlignmentError{ReadID: read.ID, Err: err}
	}

	a := bracket(aln.Blocks1, len(candidate))
	b := bracket(aln.Blocks2, read.Len())

	var edits []Edit
	for k := 0; k+1 < len(a); k++ {
		start, end := a[k].End, a[k+1].Start
		ins := read.Bases[b[k].End:b[k+1].Start]
		if start == end && ins == "" {
			continue
		}
		edits = append(edits, Edit{Start: start, End: end, Insertion: ins, ReadID: read.ID})
	}
	return edits, nil
}

// bracket adds empty blocks at both ends so leading and trailing
// differences fall between two blocks.
func bracket(blocks []alignment.Block, length int) []alignment.Block {
	out := make([]alignment.Block, 0, len(blocks)+2)
	out = append(out, alignment.Block{})
	out = append(out, blocks...)
	return append(out, alignment.Block{Start: length, End: length})
}

// ApplyEdit returns candidate with e applied.
func ApplyEdit(candidate string, e Edit) (string, error) {
	if e.Start < 0 || e.Start > e.End || e.End > len(candidate) {
		return "", fmt.Errorf("edit %s out of range for length %d", e, len(candidate))
	}
	return candidate[:e.Start] + e.Insertion + candidate[e.End:], nil
}

// collectEdits pools the edits of every read against candidate. Reads are
// aligned concurrently but the pool keeps bin order, then alignment order.
func collectEdits(ctx context.Context, aligner *alignment.Aligner, candidate string, reads []*sequence.Sequence, parallelism int) ([]Edit, error) {
	perRead := make([][]Edit, len(reads))

	g, gctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, read := range reads {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			edits, err := ExtractDiffs(aligner, candidate, read)
			if err != nil {
				return err
			}
			perRead[i] = edits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var pool []Edit
	for _, edits := range perRead {
		pool = append(pool, edits...)
	}
	return pool, nil
}

// mostFrequent returns the edit proposed most often. Ties go to the key
// that appears first in the pool.
func mostFrequent(pool []Edit) (Edit, int, bool) {
	tally := vote.New[EditKey]()
	first := make(map[EditKey]Edit, len(pool))
	for _, e := range pool {
		k := e.Key()
		if _, ok := first[k]; !ok {
			first[k] = e
		}
		tally.Add(k)
	}

	key, count, ok := tally.Top()
	if !ok {
		return Edit{}, 0, false
	}
	return first[key], count, true
}
