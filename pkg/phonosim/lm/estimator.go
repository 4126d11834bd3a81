// Package lm estimates bigram distributions over phoneme sequences and scores
// held-out corpora with them.
package lm

import (
	"math"

	"github.com/cognicore/phonosim/pkg/phonosim/counts"
	"github.com/cognicore/phonosim/pkg/phonosim/vocab"
)

// Estimator names
const (
	AdditiveName         = "additive"
	AbsoluteDiscountName = "absdisc"
)

// Estimator turns frequency tables into a complete conditional distribution
// P(current | history) over a closed vocabulary.
type Estimator interface {
	// Estimate fills a distribution covering every ordered vocabulary pair
	Estimate(c *counts.Counter, v *vocab.Vocabulary) (*Distribution, error)

	// Name returns the name of the estimation algorithm
	Name() string
}

// Distribution is a dense |V|×|V| table of P(current | history), rows indexed
// by history in the vocabulary's sorted order.
type Distribution struct {
	vocab *vocab.Vocabulary
	size  int
	p     []float64
}

// NewDistribution allocates an all-zero table over v
func NewDistribution(v *vocab.Vocabulary) *Distribution {
	n := v.Size()
	return &Distribution{
		vocab: v,
		size:  n,
		p:     make([]float64, n*n),
	}
}

// Set stores P(current | history) by vocabulary index
func (d *Distribution) Set(history, current int, p float64) {
	d.p[history*d.size+current] = p
}

// At returns P(current | history) by vocabulary index
func (d *Distribution) At(history, current int) float64 {
	return d.p[history*d.size+current]
}

// Prob returns P(current | history); ok is false if either symbol is outside the vocabulary
func (d *Distribution) Prob(history, current string) (p float64, ok bool) {
	hi, ok := d.vocab.Index(history)
	if !ok {
		return 0, false
	}
	ci, ok := d.vocab.Index(current)
	if !ok {
		return 0, false
	}
	return d.At(hi, ci), true
}

// Row returns a copy of P(· | history)
func (d *Distribution) Row(history string) ([]float64, bool) {
	hi, ok := d.vocab.Index(history)
	if !ok {
		return nil, false
	}
	row := make([]float64, d.size)
	copy(row, d.p[hi*d.size:(hi+1)*d.size])
	return row, true
}

// Vocabulary returns the symbols the distribution is defined over
func (d *Distribution) Vocabulary() *vocab.Vocabulary {
	return d.vocab
}

// Clone returns an independent copy
func (d *Distribution) Clone() *Distribution {
	p := make([]float64, len(d.p))
	copy(p, d.p)
	return &Distribution{vocab: d.vocab, size: d.size, p: p}
}

// Equal reports whether both tables hold bit-identical values over the same symbols
func (d *Distribution) Equal(other *Distribution) bool {
	if other == nil || d.size != other.size {
		return false
	}
	a, b := d.vocab.Symbols(), other.vocab.Symbols()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	for i := range d.p {
		if math.Float64bits(d.p[i]) != math.Float64bits(other.p[i]) {
			return false
		}
	}
	return true
}
