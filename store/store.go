// ════════════════════════════════════════════════════════════════════════════════════════════════
// Scenario Run History
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: SQLite Run Store
//
// Description:
//   Appends one row per scenario run so conformance can be compared across backing kinds and
//   builds. The digest column lets two runs of the same script be checked for identical output
//   without storing the drained bytes.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"bytering/scenario"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT    NOT NULL,
	backing    TEXT    NOT NULL,
	capacity   INTEGER NOT NULL,
	steps      INTEGER NOT NULL,
	passed     INTEGER NOT NULL,
	failures   INTEGER NOT NULL,
	digest     TEXT    NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_name ON runs(name);
`

// Run is one stored row.
type Run struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Backing   string    `json:"backing"`
	Capacity  uint32    `json:"capacity"`
	Steps     int       `json:"steps"`
	Passed    bool      `json:"passed"`
	Failures  int       `json:"failures"`
	Digest    string    `json:"digest"`
	CreatedAt time.Time `json:"created_at"`
}

// Store wraps the SQLite handle.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "store: open %s", path)
	}
	// Single writer; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "store: apply schema")
	}
	return &Store{db: db, now: time.Now}, nil
}

// Record inserts r and returns the new row id.
func (s *Store) Record(ctx context.Context, backing string, r scenario.Result) (int64, error) {
	passed := 0
	if r.Passed() {
		passed = 1
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (name, backing, capacity, steps, passed, failures, digest, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, backing, r.Capacity, r.Steps, passed, len(r.Failures), r.Digest, s.now().UnixNano(),
	)
	if err != nil {
		return 0, errors.Wrapf(err, "store: record %s", r.Name)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "store: last insert id")
	}
	return id, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, backing, capacity, steps, passed, failures, digest, created_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "store: query runs")
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			run     Run
			passed  int
			created int64
		)
		if err := rows.Scan(&run.ID, &run.Name, &run.Backing, &run.Capacity, &run.Steps,
			&passed, &run.Failures, &run.Digest, &created); err != nil {
			return nil, errors.Wrap(err, "store: scan run")
		}
		run.Passed = passed == 1
		run.CreatedAt = time.Unix(0, created)
		out = append(out, run)
	}
	return out, errors.Wrap(rows.Err(), "store: iterate runs")
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
