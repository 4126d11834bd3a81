package config

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/phonosim/pkg/phonosim/corpus"
	"github.com/cognicore/phonosim/pkg/phonosim/lm"
)

// Loader loads an experiment and constructs its components
type Loader struct {
	ExperimentPath string
	Logger         *zap.Logger

	// Override is applied after the file is read and before validation
	Override func(*Experiment)
}

// Components holds all loaded configuration components
type Components struct {
	Experiment Experiment
	Estimator  lm.Estimator
	Reader     *corpus.Reader
}

// Load reads the experiment file (or defaults) and returns initialized components
func (l *Loader) Load() (*Components, error) {
	exp := Default()
	if l.ExperimentPath != "" {
		loaded, err := Load(l.ExperimentPath)
		if err != nil {
			return nil, fmt.Errorf("load experiment: %w", err)
		}
		exp = *loaded
	}

	if l.Override != nil {
		l.Override(&exp)
	}
	if err := exp.Validate(); err != nil {
		return nil, fmt.Errorf("validate experiment: %w", err)
	}

	est, err := exp.NewEstimator()
	if err != nil {
		return nil, fmt.Errorf("build estimator: %w", err)
	}

	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Components{
		Experiment: exp,
		Estimator:  est,
		Reader:     corpus.NewReader(exp.ReaderOptions(), logger),
	}, nil
}
