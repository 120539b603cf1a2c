package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const journalSchema = `
CREATE TABLE IF NOT EXISTS audit_records (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	run    TEXT NOT NULL,
	form   TEXT NOT NULL,
	prop   TEXT NOT NULL DEFAULT '',
	detail TEXT NOT NULL,
	at     TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS audit_records_run ON audit_records (run);
`

// Journal is an append-only, sqlite-backed audit recorder. It survives the
// process, so a failed ingest run can be audited after the fact.
type Journal struct {
	db *sql.DB
}

// OpenJournal opens (and if needed initializes) a journal at the given path.
func OpenJournal(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("audit: opening journal: %w", err)
	}
	if _, err := db.Exec(journalSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: initializing journal: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record appends an entry.
func (j *Journal) Record(ctx context.Context, r Record) error {
	at := r.Time
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO audit_records (run, form, prop, detail, at) VALUES (?, ?, ?, ?, ?)`,
		r.Run, r.Form, r.Prop, r.Detail, at)
	if err != nil {
		return fmt.Errorf("audit: appending record: %w", err)
	}
	return nil
}

// Records returns every entry of the given run in insertion order.
func (j *Journal) Records(ctx context.Context, run string) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT run, form, prop, detail, at FROM audit_records WHERE run = ? ORDER BY id`, run)
	if err != nil {
		return nil, fmt.Errorf("audit: reading journal: %w", err)
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Run, &r.Form, &r.Prop, &r.Detail, &r.Time); err != nil {
			return nil, fmt.Errorf("audit: scanning record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: reading journal: %w", err)
	}
	return out, nil
}

// Close releases the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

var _ Recorder = (*Journal)(nil)
