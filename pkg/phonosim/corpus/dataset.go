package corpus

import "sort"

// Dataset maps a language id to its ordered phoneme sequences
type Dataset map[string][][]string

// Languages returns the language ids, sorted
func (d Dataset) Languages() []string {
	out := make([]string, 0, len(d))
	for lang := range d {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Sequences returns the sequences of one language
func (d Dataset) Sequences(lang string) [][]string {
	return d[lang]
}

// PhonemeSet returns the sorted set of symbols used by one language,
// markers included.
func (d Dataset) PhonemeSet(lang string) []string {
	set := make(map[string]struct{})
	for _, seq := range d[lang] {
		for _, sym := range seq {
			set[sym] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for sym := range set {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Bigrams returns the number of adjacent pairs across one language's sequences
func (d Dataset) Bigrams(lang string) int {
	n := 0
	for _, seq := range d[lang] {
		if len(seq) > 1 {
			n += len(seq) - 1
		}
	}
	return n
}
