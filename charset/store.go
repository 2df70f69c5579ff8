package charset

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists named character-substitution matrices, per spec.md §4.B.
// Replace must delete-then-insert a character set's rows inside a single
// transaction so concurrent Load calls never observe a partially replaced
// matrix.
type Store interface {
	Load(charSet string) (*CharSubMatrix, error)
	Replace(charSet string, m *CharSubMatrix) error
}

// MemStore is an in-process Store, useful for tests and for callers that
// do not need on-disk persistence.
type MemStore struct {
	mu     sync.RWMutex
	byName map[string]*CharSubMatrix
}

// NewMemStore returns an empty in-memory Store.
func NewMemStore() *MemStore {
	return &MemStore{byName: make(map[string]*CharSubMatrix)}
}

// Load returns the matrix for charSet, or an empty one if it has never
// been stored.
func (s *MemStore) Load(charSet string) (*CharSubMatrix, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.byName[charSet]; ok {
		return m, nil
	}
	return NewCharSubMatrix(charSet), nil
}

// Replace atomically swaps the stored matrix for charSet.
func (s *MemStore) Replace(charSet string, m *CharSubMatrix) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byName[charSet] = m
	return nil
}

// SQLiteStore persists matrices in a SQLite table:
//
//	char_sub_matrix(char1, char2, char_set, score, sub)
//
// keyed by (char1, char2, char_set) with char1 <= char2, matching the
// reference's schema (_examples/original_source/ensemble/pylib/db.py).
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (and, if needed, creates) the char_sub_matrix
// table at dsn.
func OpenSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("charset: opening %s: %w", dsn, err)
	}
	const schema = `
		CREATE TABLE IF NOT EXISTS char_sub_matrix (
			char1    TEXT NOT NULL,
			char2    TEXT NOT NULL,
			char_set TEXT NOT NULL,
			score    REAL,
			sub      REAL NOT NULL,
			PRIMARY KEY (char1, char2, char_set)
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("charset: creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Load reads every row for charSet into a CharSubMatrix.
func (s *SQLiteStore) Load(charSet string) (*CharSubMatrix, error) {
	rows, err := s.db.Query(
		`SELECT char1, char2, score, sub FROM char_sub_matrix WHERE char_set = ?`,
		charSet,
	)
	if err != nil {
		return nil, fmt.Errorf("charset: loading %s: %w", charSet, err)
	}
	defer rows.Close()

	m := NewCharSubMatrix(charSet)
	for rows.Next() {
		var c1, c2 string
		var score sql.NullFloat64
		var sub float64
		if err := rows.Scan(&c1, &c2, &score, &sub); err != nil {
			return nil, fmt.Errorf("charset: scanning row: %w", err)
		}
		r1, r2 := []rune(c1)[0], []rune(c2)[0]
		m.Set(r1, r2, MatrixEntry{Score: score.Float64, HasScore: score.Valid, Substitute: sub})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Replace deletes charSet's existing rows and inserts m's rows inside a
// single transaction, so no reader ever observes a partial replacement.
func (s *SQLiteStore) Replace(charSet string, m *CharSubMatrix) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("charset: beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM char_sub_matrix WHERE char_set = ?`, charSet); err != nil {
		return fmt.Errorf("charset: deleting old rows: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO char_sub_matrix (char1, char2, char_set, score, sub) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("charset: preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range m.Entries() {
		var score sql.NullFloat64
		if row.Entry.HasScore {
			score = sql.NullFloat64{Float64: row.Entry.Score, Valid: true}
		}
		if _, err := stmt.Exec(string(row.Pair.C1), string(row.Pair.C2), charSet, score, row.Entry.Substitute); err != nil {
			return fmt.Errorf("charset: inserting row %v: %w", row.Pair, err)
		}
	}

	return tx.Commit()
}
