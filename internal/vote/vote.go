// Package vote implements frequency tallies with a deterministic tie-break.
//
// Keys are ranked by count, highest first. Keys with equal counts keep the
// order in which they were first added, so the earliest-seen key wins a tie.
package vote

import "sort"

// Entry is one ranked key.
type Entry[K comparable] struct {
	Key   K
	Count int
}

// Tally counts occurrences of comparable keys.
type Tally[K comparable] struct {
	counts map[K]int
	order  []K
	total  int
}

// New returns an empty tally.
func New[K comparable]() *Tally[K] {
	return &Tally[K]{counts: make(map[K]int)}
}

// Of tallies items in order.
func Of[K comparable](items []K) *Tally[K] {
	t := New[K]()
	for _, item := range items {
		t.Add(item)
	}
	return t
}

// Add records one occurrence of key.
func (t *Tally[K]) Add(key K) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
	t.total++
}

// Count returns the occurrences of key.
func (t *Tally[K]) Count(key K) int {
	return t.counts[key]
}

// Len returns the number of distinct keys.
func (t *Tally[K]) Len() int {
	return len(t.order)
}

// Total returns the number of Add calls.
func (t *Tally[K]) Total() int {
	return t.total
}

// MostCommon ranks every key by descending count.
func (t *Tally[K]) MostCommon() []Entry[K] {
	entries := make([]Entry[K], len(t.order))
	for i, key := range t.order {
		entries[i] = Entry[K]{Key: key, Count: t.counts[key]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

// Top returns the winning key. ok is false for an empty tally.
func (t *Tally[K]) Top() (key K, count int, ok bool) {
	for _, k := range t.order {
		if c := t.counts[k]; c > count {
			key, count, ok = k, c, true
		}
	}
	return key, count, ok
}

// Majority returns the most frequent item, earliest first on ties.
func Majority[K comparable](items []K) (K, bool) {
	key, _, ok := Of(items).Top()
	return key, ok
}
