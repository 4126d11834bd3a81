package lm

import (
	"fmt"
	"math"

	"github.com/cognicore/phonosim/pkg/phonosim/internalerr"
)

// MassTolerance bounds |1 - Σc P(c|h)| for every history h
const MassTolerance = 1e-10

// MassCheck is the probability mass of one conditional distribution
type MassCheck struct {
	History string
	Sum     float64
}

// Deviation returns |1 - Sum|
func (mc MassCheck) Deviation() float64 {
	return math.Abs(1.0 - mc.Sum)
}

// OK reports whether the sum is within MassTolerance of one
func (mc MassCheck) OK() bool {
	return mc.Deviation() < MassTolerance
}

// MassReport sums P(·|h) for every history, in vocabulary order
func (m *Model) MassReport() []MassCheck {
	symbols := m.vocab.Symbols()
	report := make([]MassCheck, 0, len(symbols))

	for hi, h := range symbols {
		sum := 0.0
		for ci := range symbols {
			sum += m.dist.At(hi, ci)
		}
		report = append(report, MassCheck{History: h, Sum: sum})
	}

	return report
}

// Validate checks that every probability lies in [0,1] and that every
// conditional distribution sums to one within MassTolerance.
func (m *Model) Validate() error {
	symbols := m.vocab.Symbols()
	for hi, h := range symbols {
		for ci, c := range symbols {
			p := m.dist.At(hi, ci)
			if !(p >= 0 && p <= 1) {
				return fmt.Errorf("P(%q|%q) = %v outside [0,1]: %w", c, h, p, internalerr.ErrMassNotNormalized)
			}
		}
	}

	for _, mc := range m.MassReport() {
		if !mc.OK() {
			return fmt.Errorf("history %q sums to %.17g: %w", mc.History, mc.Sum, internalerr.ErrMassNotNormalized)
		}
	}
	return nil
}
