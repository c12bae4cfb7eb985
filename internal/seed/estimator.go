// Package seed builds the initial consensus of a bin by positional voting.
//
// The estimator never aligns. It pads every read, votes on a starting
// excerpt and then extends the seed one base at a time: each read offers the
// base that follows the seed's current suffix inside a sliding window, and
// the most common offer wins.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/aria-lang/conseq-go/internal/stats"
	"github.com/aria-lang/conseq-go/internal/vote"
)

const (
	// DefaultExcerptLength is the length of the suffix searched for.
	DefaultExcerptLength = 10
	// DefaultBufferLength is the window width and the padding added to reads.
	DefaultBufferLength = 20
	// DefaultTieFraction is the share of the bin the runner-up must exceed
	// before match position decides between the top two bases.
	DefaultTieFraction = 0.2

	padding = ' '
)

// ErrNoSequences is returned for an empty input.
var ErrNoSequences = errors.New("no sequences to estimate from")

// Estimator holds the voting parameters.
type Estimator struct {
	ExcerptLength int
	BufferLength  int
	TieFraction   float64
}

// New returns an estimator with the default parameters.
func New() *Estimator {
	return &Estimator{
		ExcerptLength: DefaultExcerptLength,
		BufferLength:  DefaultBufferLength,
		TieFraction:   DefaultTieFraction,
	}
}

// Validate checks that a pattern plus one base fits in a window.
func (e *Estimator) Validate() error {
	if e.ExcerptLength <= 0 {
		return fmt.Errorf("excerpt length must be positive, got %d", e.ExcerptLength)
	}
	if e.BufferLength <= e.ExcerptLength {
		return fmt.Errorf("buffer length %d must exceed excerpt length %d", e.BufferLength, e.ExcerptLength)
	}
	if e.TieFraction < 0 || e.TieFraction > 1 {
		return fmt.Errorf("tie fraction must be within [0, 1], got %g", e.TieFraction)
	}
	return nil
}

// Estimate returns the seed consensus of seqs.
func (e *Estimator) Estimate(seqs []string) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	if len(seqs) == 0 {
		return "", ErrNoSequences
	}

	padded := pad(seqs, e.BufferLength)
	maxLen := len(padded[0]) - e.BufferLength
	start, plurality := e.opening(padded)

	out := make([]byte, 0, e.ExcerptLength+maxLen)
	out = append(out, start...)

	for i := 0; i < maxLen; i++ {
		out = append(out, e.step(padded, plurality, out, i))
	}

	// Padding can only appear where most windows had run off the reads;
	// none of it belongs in the seed.
	return strings.ReplaceAll(string(out), string(padding), ""), nil
}

// opening votes on the starting excerpt and returns it with the plurality
// read, the first padded read that begins with it.
func (e *Estimator) opening(padded [][]byte) (string, []byte) {
	excerpts := make([]string, len(padded))
	for i, p := range padded {
		excerpts[i] = string(p[:e.ExcerptLength])
	}
	start, _ := vote.Majority(excerpts)

	for i, x := range excerpts {
		if x == start {
			return start, padded[i]
		}
	}
	return start, padded[0]
}

// step returns the base appended to out at extension step i. When no window
// holds the current suffix it copies the plurality read at len(out).
func (e *Estimator) step(padded [][]byte, plurality, out []byte, i int) byte {
	pattern := out[len(out)-e.ExcerptLength:]
	if next, ok := e.extend(padded, i, pattern); ok {
		return next
	}
	return fallback(plurality, len(out))
}

// extend collects, for every read, the base that follows the leftmost
// occurrence of pattern in the window starting at offset, and picks one.
// ok is false when no window contains the pattern.
func (e *Estimator) extend(padded [][]byte, offset int, pattern []byte) (byte, bool) {
	tally := vote.New[byte]()
	positions := make(map[byte][]int)

	for _, p := range padded {
		window := p[offset : offset+e.BufferLength]
		pos := bytes.Index(window[:len(window)-1], pattern)
		if pos < 0 {
			continue
		}
		next := window[pos+len(pattern)]
		tally.Add(next)
		positions[next] = append(positions[next], pos)
	}

	if tally.Len() == 0 {
		return 0, false
	}
	return e.choose(tally.MostCommon(), positions, len(padded)), true
}

// choose applies the tie rule: when the runner-up was offered by more than
// TieFraction of the bin, the one of the top two found earlier in the
// windows (smaller median position) wins. Equal medians keep the leader.
func (e *Estimator) choose(ranked []vote.Entry[byte], positions map[byte][]int, binSize int) byte {
	threshold := int(float64(binSize) * e.TieFraction)
	if len(ranked) > 1 && ranked[1].Count > threshold {
		first, second := ranked[0].Key, ranked[1].Key
		if stats.Median(positions[second]) < stats.Median(positions[first]) {
			return second
		}
		return first
	}
	return ranked[0].Key
}

// fallback copies the plurality read's padded base at index, or padding past
// its end.
func fallback(read []byte, index int) byte {
	if index < len(read) {
		return read[index]
	}
	return padding
}

// pad right-pads every sequence to the longest length plus buffer.
func pad(seqs []string, buffer int) [][]byte {
	maxLen := 0
	for _, s := range seqs {
		if len(s) > maxLen {
			maxLen = len(s)
		}
	}

	width := maxLen + buffer
	padded := make([][]byte, len(seqs))
	for i, s := range seqs {
		p := bytes.Repeat([]byte{padding}, width)
		copy(p, s)
		padded[i] = p
	}
	return padded
}
