package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/phonosim/pkg/phonosim/internalerr"
	"github.com/cognicore/phonosim/pkg/phonosim/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu   sync.RWMutex
	runs map[string]store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		runs: make(map[string]store.Run),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun stores a run; IDs are write-once.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("run without id: %w", internalerr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[r.ID]; ok {
		return fmt.Errorf("run %s: %w", r.ID, internalerr.ErrDuplicate)
	}
	s.runs[r.ID] = copyRun(r)
	return nil
}

// GetRun returns a run with its rows.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, false, nil
	}
	return copyRun(r), true, nil
}

// ListRuns returns runs newest first, without rows.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		r.Rows = nil
		out = append(out, r)
	}
	sortNewestFirst(out)

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// PairHistory returns every stored row for a language pair, oldest first.
func (s *Store) PairHistory(ctx context.Context, train, test string) ([]store.PairResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.PairResult
	for _, r := range s.runs {
		for _, row := range r.Rows {
			if row.Train != train || row.Test != test {
				continue
			}
			out = append(out, store.PairResult{
				RunID:     r.ID,
				CreatedAt: r.CreatedAt,
				Estimator: r.Estimator,
				Row:       row,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].RunID < out[j].RunID
	})
	return out, nil
}

func sortNewestFirst(runs []store.Run) {
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].CreatedAt.After(runs[j].CreatedAt)
		}
		return runs[i].ID > runs[j].ID
	})
}

func copyRun(r store.Run) store.Run {
	if r.Rows != nil {
		rows := make([]store.Row, len(r.Rows))
		copy(rows, r.Rows)
		r.Rows = rows
	}
	return r
}
