// Package store provides database access methods for all Fieldnotes
// entities. Each store struct wraps a *sql.DB and exposes typed query
// methods. Stores participating in the editorial save transaction offer
// a WithTx variant bound to an open *sql.Tx, so the status update, the
// revision snapshot, the taxonomy rebind, and the media reorder commit
// together or not at all.
package store

import "database/sql"

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan helpers.
type scanner interface{ Scan(...any) error }
