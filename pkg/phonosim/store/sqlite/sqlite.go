package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/phonosim/pkg/phonosim/internalerr"
	"github.com/cognicore/phonosim/pkg/phonosim/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	estimator TEXT NOT NULL,
	discount REAL,
	additive_k REAL,
	unknown INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS run_rows (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	train TEXT NOT NULL,
	test TEXT NOT NULL,
	surprisal REAL NOT NULL,
	perplexity REAL NOT NULL,
	bigrams INTEGER NOT NULL,
	oov INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY(run_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_rows_pair ON run_rows(train, test);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts a run and its rows in one transaction
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("run without id: %w", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM runs WHERE id = ?`, r.ID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return fmt.Errorf("run %s: %w", r.ID, internalerr.ErrDuplicate)
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO runs (id, created_at, estimator, discount, additive_k, unknown)
VALUES (?, ?, ?, ?, ?, ?);
`,
		r.ID,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
		r.Estimator,
		r.Discount,
		r.AdditiveK,
		boolToInt(r.Unknown),
	)
	if err != nil {
		return err
	}

	if err := insertRows(ctx, tx, r.ID, r.Rows); err != nil {
		return err
	}

	return tx.Commit()
}

func insertRows(ctx context.Context, tx *sql.Tx, runID string, rows []store.Row) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO run_rows (run_id, position, train, test, surprisal, perplexity, bigrams, oov)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, runID, i, row.Train, row.Test,
			row.Surprisal, row.Perplexity, row.Bigrams, row.OOV); err != nil {
			return err
		}
	}
	return nil
}

// GetRun retrieves a run with its rows in stored order
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, created_at, estimator, discount, additive_k, unknown
FROM runs WHERE id = ?`, id)

	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT train, test, surprisal, perplexity, bigrams, oov
FROM run_rows WHERE run_id = ?
ORDER BY position`, id)
	if err != nil {
		return store.Run{}, false, err
	}
	defer rows.Close()

	for rows.Next() {
		var rr store.Row
		if err := rows.Scan(&rr.Train, &rr.Test, &rr.Surprisal, &rr.Perplexity, &rr.Bigrams, &rr.OOV); err != nil {
			return store.Run{}, false, err
		}
		r.Rows = append(r.Rows, rr)
	}
	if err := rows.Err(); err != nil {
		return store.Run{}, false, err
	}

	return r, true, nil
}

// ListRuns returns runs newest first, without rows
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	query := `
SELECT id, created_at, estimator, discount, additive_k, unknown
FROM runs
ORDER BY created_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PairHistory returns every stored row for a language pair, oldest first
func (s *sqliteStore) PairHistory(ctx context.Context, train, test string) ([]store.PairResult, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT r.id, r.created_at, r.estimator,
       rr.train, rr.test, rr.surprisal, rr.perplexity, rr.bigrams, rr.oov
FROM run_rows rr
JOIN runs r ON r.id = rr.run_id
WHERE rr.train = ? AND rr.test = ?
ORDER BY r.created_at ASC, r.id ASC`, train, test)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.PairResult
	for rows.Next() {
		var (
			pr      store.PairResult
			created string
		)
		if err := rows.Scan(&pr.RunID, &created, &pr.Estimator,
			&pr.Row.Train, &pr.Row.Test, &pr.Row.Surprisal, &pr.Row.Perplexity,
			&pr.Row.Bigrams, &pr.Row.OOV); err != nil {
			return nil, err
		}
		pr.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for run %s: %w", pr.RunID, err)
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (store.Run, error) {
	var (
		r       store.Run
		created string
		unknown int
	)
	if err := sc.Scan(&r.ID, &created, &r.Estimator, &r.Discount, &r.AdditiveK, &unknown); err != nil {
		return store.Run{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return store.Run{}, fmt.Errorf("parse created_at for run %s: %w", r.ID, err)
	}
	r.CreatedAt = t
	r.Unknown = unknown != 0
	return r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
