package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrDuplicate     = errors.New("duplicate entry")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Estimation and evaluation
	ErrEmptyCorpus       = errors.New("empty corpus")
	ErrOutOfVocabulary   = errors.New("symbol outside vocabulary")
	ErrZeroProbability   = errors.New("zero probability")
	ErrMassNotNormalized = errors.New("probability mass does not sum to one")
)
