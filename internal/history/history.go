// Package history keeps a local log of submitted transactions so the CLI
// can show what was done to which multisig without re-scanning the chain.
package history

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB manages the submission log.
type DB struct {
	db *sql.DB
}

// Entry is one submitted transaction.
type Entry struct {
	ID        int64
	Signature string
	Multisig  string
	Proposal  string
	Kind      string
	Note      string
	CreatedAt time.Time
}

// Kinds of logged submissions.
const (
	KindCreate     = "create"
	KindDeposit    = "deposit"
	KindFund       = "fund"
	KindPropose    = "propose"
	KindVote       = "vote"
	KindExecute    = "execute"
	KindCancel     = "cancel"
	KindFinalize   = "finalize"
	KindRelinquish = "relinquish"
)

// Open opens (or creates) the log database at dbPath.
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	h := &DB{db: db}
	if err := h.createTables(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *DB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS submissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		signature TEXT NOT NULL UNIQUE,
		multisig TEXT NOT NULL,
		proposal TEXT,
		kind TEXT NOT NULL,
		note TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_submissions_multisig
		ON submissions(multisig);

	CREATE INDEX IF NOT EXISTS idx_submissions_created
		ON submissions(created_at);
	`

	_, err := h.db.Exec(schema)
	return err
}

// Record logs a submitted transaction.
func (h *DB) Record(signature, multisig, proposal, kind, note string) error {
	_, err := h.db.Exec(
		`INSERT OR IGNORE INTO submissions (signature, multisig, proposal, kind, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		signature, multisig, proposal, kind, note, time.Now().UTC(),
	)
	return err
}

// List returns the most recent entries, newest first. A non-empty
// multisig filters to that multisig; limit <= 0 means no limit.
func (h *DB) List(multisig string, limit int) ([]Entry, error) {
	query := `SELECT id, signature, multisig, COALESCE(proposal, ''), kind, COALESCE(note, ''), created_at
		FROM submissions`
	var args []any
	if multisig != "" {
		query += ` WHERE multisig = ?`
		args = append(args, multisig)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Signature, &e.Multisig, &e.Proposal, &e.Kind, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (h *DB) Close() error {
	return h.db.Close()
}
