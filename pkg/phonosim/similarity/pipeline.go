// Package similarity measures cross-lingual phonemic similarity: a bigram
// model is fitted per training language and scored on every test language.
package similarity

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/cognicore/phonosim/pkg/phonosim/corpus"
	"github.com/cognicore/phonosim/pkg/phonosim/internalerr"
	"github.com/cognicore/phonosim/pkg/phonosim/lm"
	"github.com/cognicore/phonosim/pkg/phonosim/vocab"
)

// Options configures a Pipeline
type Options struct {
	Estimator      lm.Estimator
	TrainLanguages []string
	TestLanguages  []string
	Unknown        string // reserved symbol added to every vocabulary, "" for none
	Logger         *zap.Logger

	// Progress is called once per (train, test) pair, skipped pairs included
	Progress func(train, test string)
}

// Pipeline fits and evaluates models over a train×test language grid
type Pipeline struct {
	opts    Options
	logger  *zap.Logger
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// New creates a pipeline
func New(opts Options) (*Pipeline, error) {
	if opts.Estimator == nil {
		return nil, fmt.Errorf("no estimator: %w", internalerr.ErrInvalidConfig)
	}
	if len(opts.TrainLanguages) == 0 || len(opts.TestLanguages) == 0 {
		return nil, fmt.Errorf("empty language grid: %w", internalerr.ErrInvalidConfig)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		opts:    opts,
		logger:  logger,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}, nil
}

// Fit builds the vocabulary of one training language and fits a model on it
func (p *Pipeline) Fit(train corpus.Dataset, lang string) (*lm.Model, error) {
	seqs := train.Sequences(lang)
	if len(seqs) == 0 {
		return nil, fmt.Errorf("training language %s: %w: %w",
			lang, internalerr.ErrInvalidInput, internalerr.ErrEmptyCorpus)
	}

	v := vocab.New(train.PhonemeSet(lang), p.opts.Unknown)
	model, err := lm.New(seqs, v, p.opts.Estimator)
	if err != nil {
		return nil, fmt.Errorf("training language %s: %w", lang, err)
	}

	stats := model.Stats()
	p.logger.Info("model fitted",
		zap.String("language", lang),
		zap.String("estimator", stats.Estimator),
		zap.Int("vocabulary", stats.VocabularySize),
		zap.Int64("bigrams", stats.Bigrams),
		zap.Int("words", len(seqs)))

	return model, nil
}

// FitAll fits one model per training language, in configured order
func (p *Pipeline) FitAll(train corpus.Dataset) ([]Fitted, error) {
	out := make([]Fitted, 0, len(p.opts.TrainLanguages))
	for _, lang := range p.opts.TrainLanguages {
		model, err := p.Fit(train, lang)
		if err != nil {
			return nil, err
		}
		out = append(out, Fitted{Language: lang, Model: model})
	}
	return out, nil
}

// Fitted pairs a training language with its model
type Fitted struct {
	Language string
	Model    *lm.Model
}

// Run fits every training language and evaluates it on every test language.
// Test languages without sequences are skipped with a warning.
func (p *Pipeline) Run(ctx context.Context, train, test corpus.Dataset) (*Report, error) {
	report := p.newReport()

	for _, trainLang := range p.opts.TrainLanguages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		model, err := p.Fit(train, trainLang)
		if err != nil {
			return nil, err
		}
		report.Models[trainLang] = model.Stats()

		for _, testLang := range p.opts.TestLanguages {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			ev, err := model.Evaluate(test.Sequences(testLang))
			switch {
			case errors.Is(err, internalerr.ErrEmptyCorpus):
				p.logger.Warn("skipping test language without bigrams",
					zap.String("train", trainLang),
					zap.String("test", testLang))
				report.Skipped = append(report.Skipped, Pair{Train: trainLang, Test: testLang})
			case err != nil:
				return nil, fmt.Errorf("evaluate %s on %s: %w", trainLang, testLang, err)
			default:
				p.logger.Debug("pair evaluated",
					zap.String("train", trainLang),
					zap.String("test", testLang),
					zap.Float64("surprisal", ev.Surprisal),
					zap.Int("oov", ev.OOV))
				report.Rows = append(report.Rows, Row{
					Train:      trainLang,
					Test:       testLang,
					Surprisal:  ev.Surprisal,
					Perplexity: ev.Perplexity,
					Bigrams:    ev.Bigrams,
					OOV:        ev.OOV,
				})
			}

			if p.opts.Progress != nil {
				p.opts.Progress(trainLang, testLang)
			}
		}
	}

	p.logger.Info("similarity run complete",
		zap.String("run", report.ID),
		zap.Int("rows", len(report.Rows)),
		zap.Int("skipped", len(report.Skipped)))

	return report, nil
}

// Pairs returns the number of (train, test) pairs a Run visits
func (p *Pipeline) Pairs() int {
	return len(p.opts.TrainLanguages) * len(p.opts.TestLanguages)
}

func (p *Pipeline) newReport() *Report {
	created := p.now().UTC()
	report := &Report{
		ID:        ulid.MustNew(ulid.Timestamp(created), p.entropy).String(),
		CreatedAt: created,
		Estimator: p.opts.Estimator.Name(),
		Unknown:   p.opts.Unknown != "",
		Models:    make(map[string]lm.ModelStats),
	}

	switch est := p.opts.Estimator.(type) {
	case *lm.AbsoluteDiscount:
		report.Discount = est.D
	case *lm.Additive:
		report.AdditiveK = est.K
	}
	return report
}
