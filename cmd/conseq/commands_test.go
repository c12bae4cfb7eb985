package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastq(reads ...string) string {
	var b strings.Builder
	for i, r := range reads {
		b.WriteString("@r")
		b.WriteString(string(rune('a' + i)))
		b.WriteString("\n" + r + "\n+\n" + strings.Repeat("I", len(r)) + "\n")
	}
	return b.String()
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestConsCommand(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "results")

	big := filepath.Join(in, "seq_bin1.fq")
	require.NoError(t, os.WriteFile(big, []byte(fastq("AACCGGTT", "AACCGGTT", "AACGGTT")), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "seq_bin2.fq"), []byte(fastq("ACGT")), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "seq_bin3.fq"), []byte(fastq("GATTACA", "GATTACA", "GATTACA", "GATTACA")), 0o644))

	stdout, stderr, err := run(t, "cons", "-i", in, "-o", out, "--min-reads", "2", "--workers", "2")
	require.NoError(t, err, stderr)

	path := filepath.Join(out, "consensus_pairwise.fasta")
	assert.Equal(t, path+"\n", stdout)
	assert.Contains(t, stderr, "skipping small bins")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, ">3 Number of Target Sequences used to generate this consensus: 4, File Path: "+filepath.Join(in, "seq_bin3.fq"), lines[0])
	assert.Equal(t, "GATTACA", lines[1])
	assert.Equal(t, ">1 Number of Target Sequences used to generate this consensus: 3, File Path: "+big, lines[2])
	assert.Equal(t, "AACCGGTT", lines[3])
}

func TestConsCommandErrors(t *testing.T) {
	_, _, err := run(t, "cons", "-o", t.TempDir())
	assert.Error(t, err, "input is required")

	_, _, err = run(t, "cons", "-i", t.TempDir(), "-o", t.TempDir())
	assert.Error(t, err, "empty directory has no bins")

	_, _, err = run(t, "cons", "-i", t.TempDir(), "-o", t.TempDir(), "-c", "poa")
	assert.Error(t, err)
}

func TestSeedCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seq_bin4.fq")
	require.NoError(t, os.WriteFile(path, []byte(fastq("AACCGGTT", "AACCGGTT", "AACGGTT")), 0o644))

	stdout, _, err := run(t, "seed", "-i", path)
	require.NoError(t, err)
	assert.Equal(t, "AACCGGTT\n", stdout)

	bad := filepath.Join(t.TempDir(), "bad.fq")
	require.NoError(t, os.WriteFile(bad, []byte(fastq("ACNT")), 0o644))
	_, _, err = run(t, "seed", "-i", bad)
	assert.Error(t, err)
}

func TestAlignCommand(t *testing.T) {
	stdout, _, err := run(t, "align", "--seq1", "AACCGGTT", "--seq2", "AACGGTT")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Seq2: AA-CGGTT")
	assert.Contains(t, stdout, "Score: 7")
	assert.Contains(t, stdout, "CIGAR: 2=1D5=")

	stdout, _, err = run(t, "align", "--seq1", "AACCGGTT", "--seq2", "AACGGTT", "--penalized")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Score: 6")

	_, _, err = run(t, "align", "--seq1", "ACGT", "--seq2", "AXGT")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "conseq v1.0.0")
}
