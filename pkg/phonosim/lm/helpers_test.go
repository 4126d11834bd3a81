package lm

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cognicore/phonosim/pkg/phonosim/vocab"
)

var toyCorpus = [][]string{{"#", "a", "b", "@"}}

func toyVocab() *vocab.Vocabulary {
	return vocab.New([]string{"a", "b", "#", "@"}, "")
}

// randomCorpus draws bracketed words over an alphabet of size symbols
func randomCorpus(seed int64, words, size int) [][]string {
	rng := rand.New(rand.NewSource(seed))
	alphabet := make([]string, size)
	for i := range alphabet {
		alphabet[i] = string(rune('a' + i%26))
		if i >= 26 {
			alphabet[i] += "ː"
		}
	}

	corpus := make([][]string, 0, words)
	for i := 0; i < words; i++ {
		n := 2 + rng.Intn(8)
		seq := []string{"#"}
		for j := 0; j < n; j++ {
			seq = append(seq, alphabet[rng.Intn(len(alphabet))])
		}
		seq = append(seq, "@")
		corpus = append(corpus, seq)
	}
	return corpus
}

func mustModel(t *testing.T, corpus [][]string, v *vocab.Vocabulary, est Estimator) *Model {
	t.Helper()
	m, err := New(corpus, v, est)
	require.NoError(t, err)
	return m
}

func mustAbsDisc(t *testing.T, d float64) *AbsoluteDiscount {
	t.Helper()
	est, err := NewAbsoluteDiscount(d)
	require.NoError(t, err)
	return est
}
