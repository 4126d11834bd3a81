package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/phonosim/pkg/phonosim/corpus"
	"github.com/cognicore/phonosim/pkg/phonosim/internalerr"
	"github.com/cognicore/phonosim/pkg/phonosim/lm"
	"github.com/cognicore/phonosim/pkg/phonosim/vocab"
)

// Experiment describes one cross-lingual similarity run
type Experiment struct {
	TrainFile      string   `yaml:"train_file"`
	TestFile       string   `yaml:"test_file"`
	TrainLanguages []string `yaml:"train_languages"`
	TestLanguages  []string `yaml:"test_languages"`

	Estimator string  `yaml:"estimator"`
	Discount  float64 `yaml:"discount"`
	AdditiveK float64 `yaml:"additive_k"`

	Unknown       bool   `yaml:"unknown"`
	UnknownSymbol string `yaml:"unknown_symbol"`

	StartMarker string `yaml:"start_marker"`
	EndMarker   string `yaml:"end_marker"`
	MinLength   int    `yaml:"min_length"`

	// "" disables run storage, "memory" keeps runs in process, anything else is a SQLite path
	Store string `yaml:"store"`
}

// Default returns the Slavic similarity experiment
func Default() Experiment {
	return Experiment{
		TrainFile:      "pron_data/gold_data_train",
		TestFile:       "pron_data/gold_data_test",
		TrainLanguages: []string{"rus", "bul", "pol"},
		TestLanguages: []string{"rus", "ukr", "pol", "ces", "slk", "bul", "slv",
			"deu", "swe", "fra", "spa", "ara", "zho"},
		Estimator:     lm.AbsoluteDiscountName,
		Discount:      lm.DefaultDiscount,
		AdditiveK:     1.0,
		Unknown:       true,
		UnknownSymbol: vocab.DefaultUnknown,
		StartMarker:   corpus.DefaultStartMarker,
		EndMarker:     corpus.DefaultEndMarker,
		MinLength:     corpus.DefaultMinLength,
	}
}

// Load reads an experiment from a YAML file on top of Default
func Load(path string) (*Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	exp := Default()
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return nil, err
	}

	if err := exp.Validate(); err != nil {
		return nil, err
	}
	return &exp, nil
}

// Validate checks the experiment for inconsistent settings
func (e *Experiment) Validate() error {
	if len(e.TrainLanguages) == 0 {
		return fmt.Errorf("no training languages: %w", internalerr.ErrInvalidConfig)
	}
	if len(e.TestLanguages) == 0 {
		return fmt.Errorf("no test languages: %w", internalerr.ErrInvalidConfig)
	}

	switch e.Estimator {
	case lm.AbsoluteDiscountName:
		if !(e.Discount > 0 && e.Discount < 1) {
			return fmt.Errorf("discount %v outside (0,1): %w", e.Discount, internalerr.ErrInvalidConfig)
		}
	case lm.AdditiveName:
		if e.AdditiveK <= 0 {
			return fmt.Errorf("additive_k must be positive, got %v: %w", e.AdditiveK, internalerr.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("unknown estimator %q: %w", e.Estimator, internalerr.ErrInvalidConfig)
	}

	if e.StartMarker == "" || e.EndMarker == "" || e.StartMarker == e.EndMarker {
		return fmt.Errorf("start and end markers must be distinct and non-empty: %w", internalerr.ErrInvalidConfig)
	}
	if e.Unknown {
		if e.UnknownSymbol == "" {
			return fmt.Errorf("unknown symbol enabled but empty: %w", internalerr.ErrInvalidConfig)
		}
		if e.UnknownSymbol == e.StartMarker || e.UnknownSymbol == e.EndMarker {
			return fmt.Errorf("unknown symbol %q collides with a marker: %w", e.UnknownSymbol, internalerr.ErrInvalidConfig)
		}
	}
	if e.MinLength < 3 {
		return fmt.Errorf("min_length %d leaves words without phonemes: %w", e.MinLength, internalerr.ErrInvalidConfig)
	}

	return nil
}

// VocabularyUnknown returns the unknown symbol to add to vocabularies, or ""
func (e *Experiment) VocabularyUnknown() string {
	if !e.Unknown {
		return ""
	}
	return e.UnknownSymbol
}

// NewEstimator builds the configured estimator
func (e *Experiment) NewEstimator() (lm.Estimator, error) {
	switch e.Estimator {
	case lm.AbsoluteDiscountName:
		return lm.NewAbsoluteDiscount(e.Discount)
	case lm.AdditiveName:
		return lm.NewAdditive(e.AdditiveK), nil
	default:
		return nil, fmt.Errorf("unknown estimator %q: %w", e.Estimator, internalerr.ErrInvalidConfig)
	}
}

// ReaderOptions returns the corpus options of the experiment
func (e *Experiment) ReaderOptions() corpus.Options {
	return corpus.Options{
		StartMarker: e.StartMarker,
		EndMarker:   e.EndMarker,
		MinLength:   e.MinLength,
	}
}
