// Package vocab holds the closed phoneme inventory a model is defined over.
package vocab

import "sort"

// DefaultUnknown is the reserved out-of-vocabulary symbol
const DefaultUnknown = "$"

// Vocabulary is an immutable, sorted set of symbols
type Vocabulary struct {
	symbols []string
	index   map[string]int
	unknown string
}

// New creates a vocabulary from symbols. A non-empty unknown symbol is
// added to the set and used by Resolve for out-of-vocabulary lookups.
func New(symbols []string, unknown string) *Vocabulary {
	set := make(map[string]struct{}, len(symbols)+1)
	for _, s := range symbols {
		if s == "" {
			continue
		}
		set[s] = struct{}{}
	}
	if unknown != "" {
		set[unknown] = struct{}{}
	}

	sorted := make([]string, 0, len(set))
	for s := range set {
		sorted = append(sorted, s)
	}
	sort.Strings(sorted)

	index := make(map[string]int, len(sorted))
	for i, s := range sorted {
		index[s] = i
	}

	return &Vocabulary{
		symbols: sorted,
		index:   index,
		unknown: unknown,
	}
}

// FromCorpus builds a vocabulary from every symbol of a corpus
func FromCorpus(corpus [][]string, unknown string) *Vocabulary {
	var symbols []string
	for _, seq := range corpus {
		symbols = append(symbols, seq...)
	}
	return New(symbols, unknown)
}

// Size returns the number of symbols, the unknown symbol included
func (v *Vocabulary) Size() int {
	return len(v.symbols)
}

// Symbols returns a copy of the sorted symbols
func (v *Vocabulary) Symbols() []string {
	out := make([]string, len(v.symbols))
	copy(out, v.symbols)
	return out
}

// Index returns the position of sym in sorted order
func (v *Vocabulary) Index(sym string) (int, bool) {
	i, ok := v.index[sym]
	return i, ok
}

// Contains reports whether sym belongs to the vocabulary
func (v *Vocabulary) Contains(sym string) bool {
	_, ok := v.index[sym]
	return ok
}

// Unknown returns the reserved symbol, if one is configured
func (v *Vocabulary) Unknown() (string, bool) {
	return v.unknown, v.unknown != ""
}

// Resolve maps sym onto the vocabulary. Out-of-vocabulary symbols become the
// unknown symbol; ok is false when there is none to fall back to.
func (v *Vocabulary) Resolve(sym string) (resolved string, ok bool) {
	if v.Contains(sym) {
		return sym, true
	}
	if v.unknown == "" {
		return sym, false
	}
	return v.unknown, true
}
