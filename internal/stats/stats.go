// Package stats provides summary statistics for read sets.
package stats

import (
	"fmt"
	"sort"
)

// ReadSetStats summarizes the lengths of the reads in one bin.
type ReadSetStats struct {
	Count        int     `json:"count"`
	TotalBases   int     `json:"total_bases"`
	MinLength    int     `json:"min_length"`
	MaxLength    int     `json:"max_length"`
	MeanLength   float64 `json:"mean_length"`
	MedianLength float64 `json:"median_length"`
	N50          int     `json:"n50"`
}

// FromLengths calculates statistics for a collection of read lengths.
func FromLengths(lengths []int) (*ReadSetStats, error) {
	if len(lengths) == 0 {
		return nil, fmt.Errorf("length list cannot be empty")
	}

	count := len(lengths)
	totalBases := 0
	minLen, maxLen := lengths[0], lengths[0]

	for _, l := range lengths {
		totalBases += l
		if l < minLen {
			minLen = l
		}
		if l > maxLen {
			maxLen = l
		}
	}

	return &ReadSetStats{
		Count:        count,
		TotalBases:   totalBases,
		MinLength:    minLen,
		MaxLength:    maxLen,
		MeanLength:   float64(totalBases) / float64(count),
		MedianLength: Median(lengths),
		N50:          n50(lengths, totalBases),
	}, nil
}

// FromSequences calculates statistics for raw base strings.
func FromSequences(seqs []string) (*ReadSetStats, error) {
	lengths := make([]int, len(seqs))
	for i, s := range seqs {
		lengths[i] = len(s)
	}
	return FromLengths(lengths)
}

// Median returns the median of values without modifying them. An even count
// yields the mean of the two middle values. The median of nothing is 0.
func Median(values []int) float64 {
	count := len(values)
	if count == 0 {
		return 0
	}

	sorted := make([]int, count)
	copy(sorted, values)
	sort.Ints(sorted)

	mid := count / 2
	if count%2 == 0 {
		return float64(sorted[mid-1]+sorted[mid]) / 2.0
	}
	return float64(sorted[mid])
}

// n50 returns the length L such that reads of length >= L hold at least half
// of all bases.
func n50(lengths []int, total int) int {
	sorted := make([]int, len(lengths))
	copy(sorted, lengths)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	cumulative := 0
	for _, l := range sorted {
		cumulative += l
		if cumulative*2 >= total {
			return l
		}
	}
	return 0
}

func (s *ReadSetStats) String() string {
	return fmt.Sprintf("ReadSetStats { reads: %d, bases: %d, length: %d-%d, mean: %.1f, median: %.1f, N50: %d }",
		s.Count, s.TotalBases, s.MinLength, s.MaxLength, s.MeanLength, s.MedianLength, s.N50)
}
