package counts

import "sort"

// Counter maintains history and bigram counts over phoneme sequences
type Counter struct {
	N   int64            // total history mass (sum of Nh)
	Nh  map[string]int64 // occurrences of a symbol as the left element of a bigram
	Nhc map[Bigram]int64 // bigram counts

	continuations map[string]int // distinct continuations per history
	symbols       map[string]struct{}
}

// Bigram represents an ordered pair of adjacent symbols
type Bigram struct {
	History, Current string
}

// NewCounter creates an empty counter
func NewCounter() *Counter {
	return &Counter{
		N:             0,
		Nh:            make(map[string]int64),
		Nhc:           make(map[Bigram]int64),
		continuations: make(map[string]int),
		symbols:       make(map[string]struct{}),
	}
}

// Extract counts every sequence of a corpus
func Extract(corpus [][]string) *Counter {
	c := NewCounter()
	for _, seq := range corpus {
		c.AddSequence(seq)
	}
	return c
}

// AddSequence updates counts with every adjacent pair of seq.
// The last symbol never counts as a history.
func (c *Counter) AddSequence(seq []string) {
	for _, sym := range seq {
		c.symbols[sym] = struct{}{}
	}

	for i := 1; i < len(seq); i++ {
		pair := Bigram{History: seq[i-1], Current: seq[i]}
		if c.Nhc[pair] == 0 {
			c.continuations[pair.History]++
		}
		c.Nhc[pair]++
		c.Nh[pair.History]++
		c.N++
	}
}

// PairCount returns count(h, cur), zero when unseen
func (c *Counter) PairCount(h, cur string) int64 {
	return c.Nhc[Bigram{History: h, Current: cur}]
}

// HistoryCount returns count(h), zero when unseen
func (c *Counter) HistoryCount(h string) int64 {
	return c.Nh[h]
}

// Total returns the total history mass N
func (c *Counter) Total() int64 {
	return c.N
}

// Continuations returns the number of distinct symbols observed after h
func (c *Counter) Continuations(h string) int {
	return c.continuations[h]
}

// DistinctHistories returns the number of symbols with a positive history count
func (c *Counter) DistinctHistories() int {
	return len(c.Nh)
}

// UniquePairs returns the number of distinct bigrams
func (c *Counter) UniquePairs() int {
	return len(c.Nhc)
}

// Symbols returns every symbol seen in the counted sequences, sorted
func (c *Counter) Symbols() []string {
	out := make([]string, 0, len(c.symbols))
	for sym := range c.symbols {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
