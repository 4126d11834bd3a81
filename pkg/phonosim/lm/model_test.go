package lm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/phonosim/pkg/phonosim/internalerr"
	"github.com/cognicore/phonosim/pkg/phonosim/vocab"
)

func estimators(t *testing.T) []Estimator {
	return []Estimator{NewAdditive(1), mustAbsDisc(t, 0.5), mustAbsDisc(t, 0.9)}
}

func TestNormalizationAcrossCorpora(t *testing.T) {
	tests := []struct {
		name    string
		corpus  [][]string
		unknown string
	}{
		{"toy", toyCorpus, ""},
		{"toy with unknown", toyCorpus, vocab.DefaultUnknown},
		{"small alphabet", randomCorpus(1, 30, 4), vocab.DefaultUnknown},
		{"phoneme-sized alphabet", randomCorpus(2, 2000, 40), vocab.DefaultUnknown},
		{"repeated word", [][]string{{"#", "a", "a", "a", "@"}, {"#", "a", "a", "a", "@"}}, ""},
	}

	for _, tt := range tests {
		for _, est := range estimators(t) {
			t.Run(tt.name+"/"+est.Name(), func(t *testing.T) {
				v := vocab.FromCorpus(tt.corpus, tt.unknown)
				m := mustModel(t, tt.corpus, v, est)

				for _, mc := range m.MassReport() {
					assert.InDelta(t, 1.0, mc.Sum, MassTolerance, "history %q", mc.History)
				}

				for _, h := range v.Symbols() {
					for _, c := range v.Symbols() {
						p := m.Prob(h, c)
						assert.GreaterOrEqual(t, p, 0.0)
						assert.LessOrEqual(t, p, 1.0)
					}
				}
			})
		}
	}
}

func TestNewRejectsEmptyVocabulary(t *testing.T) {
	_, err := New(toyCorpus, vocab.New(nil, ""), NewAdditive(1))
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)

	_, err = New(toyCorpus, nil, NewAdditive(1))
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}

func TestNewRejectsNilEstimator(t *testing.T) {
	_, err := New(toyCorpus, toyVocab(), nil)
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestNewRejectsTrainingSymbolOutsideVocabulary(t *testing.T) {
	v := vocab.New([]string{"#", "@", "a"}, vocab.DefaultUnknown)

	_, err := New(toyCorpus, v, NewAdditive(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, internalerr.ErrOutOfVocabulary)
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
	assert.Contains(t, err.Error(), `"b"`)
}

func TestDeterminism(t *testing.T) {
	corpus := randomCorpus(5, 500, 30)

	for _, est := range estimators(t) {
		t.Run(est.Name(), func(t *testing.T) {
			a := mustModel(t, corpus, vocab.FromCorpus(corpus, vocab.DefaultUnknown), est)
			b := mustModel(t, corpus, vocab.FromCorpus(corpus, vocab.DefaultUnknown), est)
			assert.True(t, a.Distribution().Equal(b.Distribution()))
		})
	}
}

func TestDistributionCopyIsIndependent(t *testing.T) {
	m := mustModel(t, toyCorpus, toyVocab(), NewAdditive(1))

	d := m.Distribution()
	d.Set(0, 0, 42)

	assert.NotEqual(t, 42.0, m.Distribution().At(0, 0))
	require.NoError(t, m.Validate())
}

func TestRefit(t *testing.T) {
	additive := mustModel(t, toyCorpus, toyVocab(), NewAdditive(1))

	discounted, err := additive.Refit(mustAbsDisc(t, 0.5))
	require.NoError(t, err)

	direct := mustModel(t, toyCorpus, toyVocab(), mustAbsDisc(t, 0.5))
	assert.True(t, discounted.Distribution().Equal(direct.Distribution()))

	// receiver is unchanged
	assert.InDelta(t, 0.4, additive.Prob("a", "b"), 1e-15)
	assert.Equal(t, "additive", additive.EstimatorName())
	assert.Equal(t, "absdisc", discounted.EstimatorName())

	_, err = additive.Refit(nil)
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestProbOutsideVocabulary(t *testing.T) {
	m := mustModel(t, toyCorpus, toyVocab(), NewAdditive(1))
	assert.Equal(t, 0.0, m.Prob("x", "a"))
	assert.Equal(t, 0.0, m.Prob("a", "x"))
}

func TestStats(t *testing.T) {
	m := mustModel(t, toyCorpus, vocab.New([]string{"#", "@", "a", "b"}, vocab.DefaultUnknown), NewAdditive(1))

	stats := m.Stats()
	assert.Equal(t, "additive", stats.Estimator)
	assert.Equal(t, 5, stats.VocabularySize)
	assert.Equal(t, int64(3), stats.Bigrams)
	assert.Equal(t, 3, stats.UniquePairs)
	assert.Equal(t, 3, stats.Histories)
}
