// Package db manages the SQLite mirror of the catalog used for substring
// search. The JSON catalog file stays authoritative; the mirror can be
// dropped and rebuilt at any time.
package db

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver with database/sql

	"github.com/go-ports/library/internal/models"
)

// DefaultFindLimit is used by Find when limit is not positive.
const DefaultFindLimit = 10

const fingerprintKey = "fingerprint"

// DB wraps a *sql.DB with the path it was opened from.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the SQLite database at path and initialises the schema.
func Open(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("db.Open: %w", err)
	}
	d := &DB{db: sqldb, path: path}
	if err := d.createSchema(); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("db.Open createSchema: %w", err)
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the database file path.
func (d *DB) Path() string { return d.path }

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

func (d *DB) createSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
			id          INTEGER PRIMARY KEY,
			position    INTEGER NOT NULL,
			title       TEXT NOT NULL,
			author      TEXT NOT NULL,
			year        INTEGER NOT NULL,
			status      TEXT NOT NULL,
			title_fold  TEXT NOT NULL,
			author_fold TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, s := range stmts {
		if _, err := d.db.Exec(s); err != nil {
			return fmt.Errorf("createSchema exec: %w\nSQL: %s", err, s)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mirror maintenance
// ---------------------------------------------------------------------------

// Fingerprint returns a digest of books in catalog order. Two catalogs with
// the same fingerprint hold the same records in the same order.
func Fingerprint(books []models.Book) string {
	b, _ := json.Marshal(models.Records(books)) // records hold only strings and ints
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Rebuild replaces the mirror contents with books in a single transaction
// and records their fingerprint.
func (d *DB) Rebuild(books []models.Book) (err error) {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("Rebuild begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM books`); err != nil {
		return fmt.Errorf("Rebuild clear: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO books (id, position, title, author, year, status, title_fold, author_fold)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("Rebuild prepare: %w", err)
	}
	defer stmt.Close()

	for i, b := range books {
		if _, err = stmt.Exec(
			b.ID, i, b.Title, b.Author, b.Year, b.Status.String(),
			fold(b.Title), fold(b.Author),
		); err != nil {
			return fmt.Errorf("Rebuild insert %d: %w", b.ID, err)
		}
	}

	for k, v := range map[string]string{
		fingerprintKey: Fingerprint(books),
		"rebuilt_at":   time.Now().UTC().Format(time.RFC3339),
	} {
		if err = setMeta(tx, k, v); err != nil {
			return fmt.Errorf("Rebuild meta: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("Rebuild commit: %w", err)
	}
	return nil
}

// Stale reports whether the mirror does not reflect books.
func (d *DB) Stale(books []models.Book) (bool, error) {
	fp, ok, err := d.GetMeta(fingerprintKey)
	if err != nil {
		return true, err
	}
	return !ok || fp != Fingerprint(books), nil
}

// Count returns the number of mirrored books.
func (d *DB) Count() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM books`).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Find returns mirrored books whose title or author contains query,
// ignoring case, ordered by id. A blank query returns no rows.
func (d *DB) Find(query string, limit int) ([]models.Book, error) {
	q := fold(strings.TrimSpace(query))
	if q == "" {
		return make([]models.Book, 0), nil
	}
	if limit <= 0 {
		limit = DefaultFindLimit
	}

	rows, err := d.db.Query(`
		SELECT id, title, author, year, status FROM books
		WHERE instr(title_fold, ?) > 0 OR instr(author_fold, ?) > 0
		ORDER BY id
		LIMIT ?`, q, q, limit)
	if err != nil {
		return nil, fmt.Errorf("Find: %w", err)
	}
	defer rows.Close()

	out := make([]models.Book, 0)
	for rows.Next() {
		var r models.Record
		if err := rows.Scan(&r.ID, &r.Title, &r.Author, &r.Year, &r.Status); err != nil {
			return nil, fmt.Errorf("Find scan: %w", err)
		}
		b, err := r.Book()
		if err != nil {
			return nil, fmt.Errorf("Find: book %d: %w", r.ID, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------------
// Meta
// ---------------------------------------------------------------------------

// GetMeta returns the value stored under key.
func (d *DB) GetMeta(key string) (string, bool, error) {
	var val string
	err := d.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// setMeta upserts a key-value pair in the meta table.
func setMeta(ex execer, key, value string) error {
	_, err := ex.Exec(
		`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value,
	)
	return err
}

// fold normalises text for case-insensitive matching. SQLite's lower() only
// folds ASCII, so folding happens here.
func fold(s string) string { return strings.ToLower(s) }
