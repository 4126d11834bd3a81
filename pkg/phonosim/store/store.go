package store

import (
	"context"
	"time"
)

// Store persists the results of similarity runs. Fitted models are never
// stored; a run only keeps its parameters and report rows.
type Store interface {
	Close() error

	// Runs
	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// Rows across runs
	PairHistory(ctx context.Context, train, test string) ([]PairResult, error)
}

// Run represents one stored train×test evaluation
type Run struct {
	ID        string
	CreatedAt time.Time
	Estimator string
	Discount  float64
	AdditiveK float64
	Unknown   bool
	Rows      []Row // not populated by ListRuns
}

// Row is the evaluation of one training language against one test language
type Row struct {
	Train      string
	Test       string
	Surprisal  float64
	Perplexity float64
	Bigrams    int
	OOV        int
}

// PairResult is a row together with the run it belongs to
type PairResult struct {
	RunID     string
	CreatedAt time.Time
	Estimator string
	Row       Row
}
