package conseq

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConsensus(t *testing.T) {
	rec, err := GenerateConsensus(context.Background(), NewBin("1", "AACCGGTT", "AACCGGTT", "AACGGTT"))
	require.NoError(t, err)
	assert.Equal(t, "AACCGGTT", rec.Sequence)
	assert.Equal(t, Rejected, rec.Termination)

	_, err = GenerateConsensus(context.Background(), NewBin("empty"))
	assert.ErrorIs(t, err, ErrInvalidBin)
}

func TestGenerateConsensusAll(t *testing.T) {
	batch := GenerateConsensusAll(context.Background(), []Bin{
		NewBin("a", "GATTACA", "GATTACA"),
		NewBin("b"),
	})
	require.Len(t, batch.Outcomes, 2)
	require.Len(t, batch.Records(), 1)
	assert.Equal(t, "GATTACA", batch.Records()[0].Sequence)
	assert.Equal(t, Converged, batch.Records()[0].Termination)
	assert.ErrorIs(t, batch.Failures()[0].Err, ErrInvalidBin)
}

func TestAlignmentHelpers(t *testing.T) {
	s1, err := NewSequence("AACCGGTT")
	require.NoError(t, err)
	s2, err := NewSequence("AACGGTT")
	require.NoError(t, err)

	aln, err := Align(s1, s2)
	require.NoError(t, err)
	assert.Equal(t, 7.0, aln.Score)

	pen, err := AlignPenalized(s1, s2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, pen.Score)

	score, err := AlignmentScore(s1, s2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, score)
}

func TestEstimateSeed(t *testing.T) {
	got, err := EstimateSeed([]string{"ACGTACGT", "ACGTACGT"})
	require.NoError(t, err)
	assert.Equal(t, "ACGTACGT", got)
}

func TestBinStats(t *testing.T) {
	st, err := BinStats(NewBin("s", "ACGT", "ACG", "ACGTA"))
	require.NoError(t, err)
	assert.Equal(t, 3, st.Count)
	assert.Equal(t, 3, st.MinLength)
	assert.Equal(t, 5, st.MaxLength)
}

func TestFASTXRoundTrip(t *testing.T) {
	reads, err := ReadFASTQ(strings.NewReader("@r1\nACGT\n+\nIIII\n"))
	require.NoError(t, err)
	require.Len(t, reads, 1)

	var buf bytes.Buffer
	require.NoError(t, WriteFASTA(&buf, []*Record{{Label: "1", Sequence: reads[0].Bases, ReadCount: 1, Source: "x.fq"}}))
	assert.Contains(t, buf.String(), "ACGT")
}

func TestInfo(t *testing.T) {
	assert.Contains(t, Info(), Version())
	assert.Contains(t, Info(), "pairwise")
}
