package repositories

import (
	"database/sql"
	"errors"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It wraps the underlying driver error.
	ErrDatabaseError = errors.New("database error")
)

// SQLExecutor is satisfied by *sql.DB and *sql.Tx, so repository write
// methods can run against a direct connection or inside a transaction.
type SQLExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

// scanner is satisfied by *sql.Row and *sql.Rows; row-scanning helpers take
// it so the same code serves single- and multi-row queries.
type scanner interface {
	Scan(dest ...interface{}) error
}
