package lm

import (
	"fmt"
	"math"

	"github.com/cognicore/phonosim/pkg/phonosim/counts"
	"github.com/cognicore/phonosim/pkg/phonosim/internalerr"
	"github.com/cognicore/phonosim/pkg/phonosim/vocab"
)

// DefaultDiscount is the absolute discount used when none is given
const DefaultDiscount = 0.5

// AbsoluteDiscount implements a bigram → unigram → uniform back-off model with
// absolute discounting.
//
// For a history h with count(h) = Nh > 0:
//
//	P(c|h) = max(count(h,c) - D, 0)/Nh + (D/Nh)·N1+(h•)·Puni(c)
//
// and for an unseen history P(c|h) = Puni(c), where
//
//	Puni(c) = max(count(c) - D, 0)/N + (D/N)·N1+(•)·(1/|V|)
//
// count(c) is the history count of c and N the total history mass.
type AbsoluteDiscount struct {
	D float64
}

// NewAbsoluteDiscount creates a discounting estimator; d = 0 selects
// DefaultDiscount, any other value must lie in (0, 1).
func NewAbsoluteDiscount(d float64) (*AbsoluteDiscount, error) {
	if d == 0 {
		d = DefaultDiscount
	}
	if err := checkDiscount(d); err != nil {
		return nil, err
	}
	return &AbsoluteDiscount{D: d}, nil
}

func checkDiscount(d float64) error {
	if !(d > 0 && d < 1) {
		return fmt.Errorf("discount %v outside (0,1): %w", d, internalerr.ErrInvalidConfig)
	}
	return nil
}

// Estimate implements Estimator. An empty training corpus is rejected since
// the unigram back-off is undefined without history mass.
func (a *AbsoluteDiscount) Estimate(c *counts.Counter, v *vocab.Vocabulary) (*Distribution, error) {
	if err := checkDiscount(a.D); err != nil {
		return nil, err
	}
	if c.Total() == 0 {
		return nil, fmt.Errorf("absolute discounting without bigrams: %w: %w",
			internalerr.ErrInvalidInput, internalerr.ErrEmptyCorpus)
	}

	d := a.D
	symbols := v.Symbols()
	size := float64(len(symbols))
	total := float64(c.Total())

	uniMass := (d / total) * float64(c.DistinctHistories())
	uni := make([]float64, len(symbols))
	for i, sym := range symbols {
		uni[i] = math.Max(float64(c.HistoryCount(sym))-d, 0)/total + uniMass*(1/size)
	}

	dist := NewDistribution(v)
	for hi, h := range symbols {
		nh := c.HistoryCount(h)
		if nh == 0 {
			for ci := range symbols {
				dist.Set(hi, ci, uni[ci])
			}
			continue
		}

		histMass := float64(nh)
		backoff := (d / histMass) * float64(c.Continuations(h))
		for ci, cur := range symbols {
			p := math.Max(float64(c.PairCount(h, cur))-d, 0)/histMass + backoff*uni[ci]
			dist.Set(hi, ci, p)
		}
	}

	return dist, nil
}

// Name implements Estimator
func (a *AbsoluteDiscount) Name() string {
	return AbsoluteDiscountName
}
