// Package database records an audit trail of mutating commands: triage
// batches, migrations, and project/folder changes. The engine's file
// operations are irreversible, so a durable record of what ran when is kept
// next to the application data.
package database

import (
	"database/sql"
	"fmt"
	"time"

	"toss-go/internal/database/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Operation is one recorded command.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string // "success" or "error"
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Store persists operation records.
type Store interface {
	// CreateOperation records the start of an operation and returns its id.
	CreateOperation(operation, parameters string, startedAt time.Time) (int64, error)

	// FinishOperation records the outcome of an operation.
	FinishOperation(id int64, status string, finishedAt time.Time) error

	// ListOperations returns the most recent operations, newest first.
	ListOperations(limit int) ([]Operation, error)

	Close() error
}

// SQLiteStore implements Store on a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the history database at path and brings
// its schema up to date. path may be ":memory:" for tests.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating history database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// OpenConnection opens and configures a SQLite connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite ships with foreign keys off for backward compatibility.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

func (s *SQLiteStore) CreateOperation(operation, parameters string, startedAt time.Time) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO operations (operation, parameters, started_at) VALUES (?, ?, ?)`,
		operation, parameters, startedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("creating operation record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading operation id: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) FinishOperation(id int64, status string, finishedAt time.Time) error {
	_, err := s.db.Exec(
		`UPDATE operations SET status = ?, finished_at = ? WHERE id = ?`,
		status, finishedAt.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("finishing operation record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListOperations(limit int) ([]Operation, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, operation, parameters, status, started_at, finished_at
		 FROM operations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []Operation
	for rows.Next() {
		var op Operation
		var finished sql.NullTime
		if err := rows.Scan(&op.ID, &op.Operation, &op.Parameters, &op.Status, &op.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("scanning operation row: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			op.FinishedAt = &t
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading operation rows: %w", err)
	}
	return ops, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
