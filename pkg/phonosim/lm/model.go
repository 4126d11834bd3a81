package lm

import (
	"fmt"

	"github.com/cognicore/phonosim/pkg/phonosim/counts"
	"github.com/cognicore/phonosim/pkg/phonosim/internalerr"
	"github.com/cognicore/phonosim/pkg/phonosim/vocab"
)

// Model is a fitted bigram model. It never changes after construction, so it
// can be evaluated from several goroutines.
type Model struct {
	vocab  *vocab.Vocabulary
	counts *counts.Counter
	est    Estimator
	dist   *Distribution
}

// New fits est on a training corpus over vocabulary v and checks that every
// conditional distribution sums to one.
func New(corpus [][]string, v *vocab.Vocabulary, est Estimator) (*Model, error) {
	if v == nil || v.Size() == 0 {
		return nil, fmt.Errorf("empty vocabulary: %w", internalerr.ErrInvalidInput)
	}
	if est == nil {
		return nil, fmt.Errorf("no estimator: %w", internalerr.ErrInvalidConfig)
	}

	c := counts.Extract(corpus)
	for _, sym := range c.Symbols() {
		if !v.Contains(sym) {
			return nil, fmt.Errorf("training symbol %q: %w: %w",
				sym, internalerr.ErrInvalidInput, internalerr.ErrOutOfVocabulary)
		}
	}

	return fit(c, v, est)
}

func fit(c *counts.Counter, v *vocab.Vocabulary, est Estimator) (*Model, error) {
	dist, err := est.Estimate(c, v)
	if err != nil {
		return nil, fmt.Errorf("%s estimate: %w", est.Name(), err)
	}

	m := &Model{
		vocab:  v,
		counts: c,
		est:    est,
		dist:   dist,
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s estimate: %w", est.Name(), err)
	}
	return m, nil
}

// Refit re-estimates the full distribution from the same counts with another
// estimator. The receiver is left untouched.
func (m *Model) Refit(est Estimator) (*Model, error) {
	if est == nil {
		return nil, fmt.Errorf("no estimator: %w", internalerr.ErrInvalidConfig)
	}
	return fit(m.counts, m.vocab, est)
}

// Prob returns P(current | history), zero for symbols outside the vocabulary
func (m *Model) Prob(history, current string) float64 {
	p, _ := m.dist.Prob(history, current)
	return p
}

// Vocabulary returns the closed symbol set of the model
func (m *Model) Vocabulary() *vocab.Vocabulary {
	return m.vocab
}

// Distribution returns a copy of the estimated table
func (m *Model) Distribution() *Distribution {
	return m.dist.Clone()
}

// EstimatorName returns the name of the estimator that produced the model
func (m *Model) EstimatorName() string {
	return m.est.Name()
}

// Stats returns statistics about the model
func (m *Model) Stats() ModelStats {
	return ModelStats{
		Estimator:      m.est.Name(),
		VocabularySize: m.vocab.Size(),
		Bigrams:        m.counts.Total(),
		UniquePairs:    m.counts.UniquePairs(),
		Histories:      m.counts.DistinctHistories(),
	}
}

// ModelStats contains statistics about a fitted model
type ModelStats struct {
	Estimator      string `json:"estimator"`
	VocabularySize int    `json:"vocabulary_size"`
	Bigrams        int64  `json:"bigrams"`
	UniquePairs    int    `json:"unique_pairs"`
	Histories      int    `json:"histories"`
}
