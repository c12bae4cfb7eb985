package sequence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		bases   string
		wantErr bool
		errType interface{}
	}{
		{
			name:    "valid DNA sequence",
			bases:   "ATGCATGC",
			wantErr: false,
		},
		{
			name:    "valid DNA with lowercase",
			bases:   "atgcatgc",
			wantErr: false,
		},
		{
			name:    "ambiguous base rejected",
			bases:   "ATGCNATGC",
			wantErr: true,
			errType: &InvalidBaseError{},
		},
		{
			name:    "empty sequence",
			bases:   "",
			wantErr: true,
			errType: &EmptySequenceError{},
		},
		{
			name:    "invalid base X",
			bases:   "ATGCXATGC",
			wantErr: true,
			errType: &InvalidBaseError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := New(tt.bases)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errType != nil {
					assert.IsType(t, tt.errType, err)
				}
			} else {
				require.NoError(t, err)
				assert.NotNil(t, seq)
				assert.True(t, seq.IsValid())
			}
		})
	}
}

func TestWithID(t *testing.T) {
	seq, err := WithID("acgt", "read-1")
	require.NoError(t, err)
	assert.Equal(t, "ACGT", seq.Bases)
	assert.Equal(t, "read-1", seq.ID)

	_, err = WithID("ACGT", "")
	require.Error(t, err)

	_, err = WithID("ACXT", "read-2")
	var baseErr *InvalidBaseError
	require.True(t, errors.As(err, &baseErr))
	assert.Equal(t, 2, baseErr.Position)
	assert.Equal(t, 'X', baseErr.Found)
}

func TestUnchecked(t *testing.T) {
	seq := Unchecked("r", "acnt")
	assert.Equal(t, "ACNT", seq.Bases)
	assert.False(t, seq.IsValid())
	assert.False(t, Unchecked("r", "").IsValid())
}

func TestEqual(t *testing.T) {
	seq1, _ := New("ATGC")
	seq2, _ := WithID("ATGC", "other")
	seq3, _ := New("GCTA")

	assert.True(t, seq1.Equal(seq2))
	assert.False(t, seq1.Equal(seq3))
	assert.False(t, seq1.Equal(nil))
}

func TestBasesOf(t *testing.T) {
	a, _ := New("AC")
	b, _ := New("GT")
	assert.Equal(t, []string{"AC", "GT"}, BasesOf([]*Sequence{a, b}))
}

func TestString(t *testing.T) {
	seq, _ := WithID("ACGT", "r1")
	assert.Equal(t, ">r1\nACGT", seq.String())

	anon, _ := New("ACGT")
	assert.Equal(t, "ACGT", anon.String())
}

func BenchmarkNew(b *testing.B) {
	bases := "ATGCATGCATGCATGCATGCATGCATGCATGCATGCATGC"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = New(bases)
	}
}
