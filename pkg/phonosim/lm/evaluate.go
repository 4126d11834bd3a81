package lm

import (
	"fmt"
	"math"

	"github.com/cognicore/phonosim/pkg/phonosim/internalerr"
)

// Evaluation summarizes a model on a held-out corpus
type Evaluation struct {
	Perplexity float64 `json:"perplexity"`
	Surprisal  float64 `json:"surprisal"`
	Bigrams    int     `json:"bigrams"` // M
	OOV        int     `json:"oov"`     // bigram positions remapped to the unknown symbol
}

// LogProb returns log2 P(current | history). Both symbols must belong to the
// vocabulary; a zero probability is reported as ErrZeroProbability.
func (m *Model) LogProb(history, current string) (float64, error) {
	p, ok := m.dist.Prob(history, current)
	if !ok {
		return 0, fmt.Errorf("bigram (%q, %q): %w", history, current, internalerr.ErrOutOfVocabulary)
	}
	if !(p > 0) {
		return 0, fmt.Errorf("bigram (%q, %q): %w", history, current, internalerr.ErrZeroProbability)
	}
	return math.Log2(p), nil
}

// Evaluate scores every adjacent pair of the held-out corpus. Symbols outside
// the vocabulary are remapped to the unknown symbol in each position
// independently.
func (m *Model) Evaluate(test [][]string) (Evaluation, error) {
	var (
		ev       Evaluation
		logProbs float64
	)

	for _, seq := range test {
		for i := 1; i < len(seq); i++ {
			h, hRemapped, err := m.resolve(seq[i-1])
			if err != nil {
				return Evaluation{}, err
			}
			c, cRemapped, err := m.resolve(seq[i])
			if err != nil {
				return Evaluation{}, err
			}
			if hRemapped {
				ev.OOV++
			}
			if cRemapped {
				ev.OOV++
			}

			lp, err := m.LogProb(h, c)
			if err != nil {
				return Evaluation{}, err
			}
			logProbs += lp
			ev.Bigrams++
		}
	}

	if ev.Bigrams == 0 {
		return Evaluation{}, fmt.Errorf("held-out corpus has no bigrams: %w: %w",
			internalerr.ErrInvalidInput, internalerr.ErrEmptyCorpus)
	}

	ev.Perplexity = math.Pow(2, (-1/float64(ev.Bigrams))*logProbs)
	ev.Surprisal = math.Log2(ev.Perplexity)
	return ev, nil
}

// Perplexity returns 2^(-1/M Σ log2 P(c|h)) over the held-out corpus
func (m *Model) Perplexity(test [][]string) (float64, error) {
	ev, err := m.Evaluate(test)
	if err != nil {
		return 0, err
	}
	return ev.Perplexity, nil
}

// Surprisal returns log2 of the perplexity
func (m *Model) Surprisal(test [][]string) (float64, error) {
	pp, err := m.Perplexity(test)
	if err != nil {
		return 0, err
	}
	return math.Log2(pp), nil
}

func (m *Model) resolve(sym string) (string, bool, error) {
	resolved, ok := m.vocab.Resolve(sym)
	if !ok {
		return "", false, fmt.Errorf("held-out symbol %q without unknown symbol: %w",
			sym, internalerr.ErrOutOfVocabulary)
	}
	return resolved, resolved != sym, nil
}
