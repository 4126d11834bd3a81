package lm

import (
	"github.com/cognicore/phonosim/pkg/phonosim/counts"
	"github.com/cognicore/phonosim/pkg/phonosim/vocab"
)

// Additive implements add-k smoothing. K = 1 is Laplace (add-one) smoothing:
//
//	P(c|h) = (count(h,c) + K) / (count(h) + K·|V|)
type Additive struct {
	K float64
}

// NewAdditive creates an add-k estimator; k <= 0 falls back to add-one
func NewAdditive(k float64) *Additive {
	if k <= 0 {
		k = 1.0
	}
	return &Additive{K: k}
}

// Estimate implements Estimator
func (a *Additive) Estimate(c *counts.Counter, v *vocab.Vocabulary) (*Distribution, error) {
	k := a.K
	if k <= 0 {
		k = 1.0
	}

	symbols := v.Symbols()
	size := float64(len(symbols))
	dist := NewDistribution(v)

	for hi, h := range symbols {
		denominator := float64(c.HistoryCount(h)) + k*size
		for ci, cur := range symbols {
			numerator := float64(c.PairCount(h, cur)) + k
			dist.Set(hi, ci, numerator/denominator)
		}
	}

	return dist, nil
}

// Name implements Estimator
func (a *Additive) Name() string {
	return AdditiveName
}
