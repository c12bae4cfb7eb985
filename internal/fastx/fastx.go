// Package fastx reads bins from FASTQ files and writes consensus records
// as FASTA.
package fastx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"

	"github.com/aria-lang/conseq-go/internal/consensus"
	"github.com/aria-lang/conseq-go/internal/sequence"
)

// LineWidth is the FASTA sequence line length.
const LineWidth = 60

var binPattern = regexp.MustCompile(`seq_bin(\d+)\.fq`)

// binExtensions are the file suffixes ReadBinDir picks up.
var binExtensions = map[string]bool{".fq": true, ".fastq": true}

// BinLabel returns the bin number of a seq_bin<N>.fq path, or the base name
// without extension for any other file.
func BinLabel(path string) string {
	base := filepath.Base(path)
	if m := binPattern.FindStringSubmatch(base); m != nil {
		return m[1]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadFASTQ parses every record of r. Bases are upper-cased but not
// validated, so a malformed read is reported by the bin that owns it.
func ReadFASTQ(r io.Reader) ([]*sequence.Sequence, error) {
	reader := fastq.NewReader(r, linear.NewQSeq("", nil, alphabet.DNA, alphabet.Sanger))

	var reads []*sequence.Sequence
	for {
		s, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read fastq record %d: %w", len(reads)+1, err)
		}

		q, ok := s.(*linear.QSeq)
		if !ok {
			return nil, fmt.Errorf("read fastq record %d: unexpected type %T", len(reads)+1, s)
		}
		bases := make([]byte, len(q.Seq))
		for i, ql := range q.Seq {
			bases[i] = byte(ql.L)
		}
		reads = append(reads, sequence.Unchecked(q.Name(), string(bases)))
	}
	return reads, nil
}

// ReadBin loads one FASTQ file as a bin.
func ReadBin(path string) (consensus.Bin, error) {
	f, err := os.Open(path)
	if err != nil {
		return consensus.Bin{}, err
	}
	defer f.Close()

	reads, err := ReadFASTQ(f)
	if err != nil {
		return consensus.Bin{}, fmt.Errorf("%s: %w", path, err)
	}
	return consensus.Bin{Label: BinLabel(path), Reads: reads, Source: path}, nil
}

// ReadBinDir loads every FASTQ file directly inside dir, in name order.
func ReadBinDir(dir string) ([]consensus.Bin, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var bins []consensus.Bin
	for _, e := range entries {
		if e.IsDir() || !binExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		bin, err := ReadBin(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		bins = append(bins, bin)
	}
	if len(bins) == 0 {
		return nil, fmt.Errorf("no fastq files in %s", dir)
	}
	return bins, nil
}

// SortBySize orders bins largest first. Equal sizes keep their order.
func SortBySize(bins []consensus.Bin) {
	sort.SliceStable(bins, func(i, j int) bool {
		return bins[i].Size() > bins[j].Size()
	})
}

// SplitByMinimum partitions bins into those with at least min reads and the
// rest, preserving order.
func SplitByMinimum(bins []consensus.Bin, min int) (kept, skipped []consensus.Bin) {
	for _, b := range bins {
		if b.Size() >= min {
			kept = append(kept, b)
		} else {
			skipped = append(skipped, b)
		}
	}
	return kept, skipped
}

// Description is the FASTA header text of a record.
func Description(rec *consensus.Record) string {
	return fmt.Sprintf("Number of Target Sequences used to generate this consensus: %d, File Path: %s",
		rec.ReadCount, rec.Source)
}

// WriteFASTA writes one record per consensus, named by bin label.
func WriteFASTA(w io.Writer, records []*consensus.Record) error {
	writer := fasta.NewWriter(w, LineWidth)
	for _, rec := range records {
		s := linear.NewSeq(rec.Label, alphabet.BytesToLetters([]byte(rec.Sequence)), alphabet.DNA)
		s.Desc = Description(rec)
		if _, err := writer.Write(s); err != nil {
			return fmt.Errorf("write %s: %w", rec.Label, err)
		}
	}
	return nil
}

// OutputName is the consensus file name for a strategy.
func OutputName(strategy string) string {
	return fmt.Sprintf("consensus_%s.fasta", strategy)
}

// WriteConsensusFile writes records to dir/consensus_<strategy>.fasta and
// returns the path.
func WriteConsensusFile(dir, strategy string, records []*consensus.Record) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, OutputName(strategy))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := WriteFASTA(f, records); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
