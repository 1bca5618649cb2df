package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("not found")

var errMalformedID = errors.New("id is not a uuid")

// codeInvalidText is the SQLSTATE for invalid_text_representation.
const codeInvalidText = "22P02"

// TransientQueryError means a read could not reach the store or the store
// failed to answer. Readers that gate access treat it as "no".
type TransientQueryError struct {
	Op  string
	Err error
}

func (e *TransientQueryError) Error() string {
	return fmt.Sprintf("%s: store unavailable: %v", e.Op, e.Err)
}

func (e *TransientQueryError) Unwrap() error { return e.Err }

// PersistenceError means a write was rejected or never acknowledged.
type PersistenceError struct {
	Op  string
	Err error
	// Code is the Postgres SQLSTATE when the server rejected the write.
	Code string
}

func (e *PersistenceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: write rejected (%s): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: write failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// readError classifies an error from a read query.
func readError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	// A malformed id (not a uuid) cannot match any row.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeInvalidText {
		return ErrNotFound
	}
	return &TransientQueryError{Op: op, Err: err}
}

// writeError classifies an error from an insert, update or delete.
func writeError(op string, err error) error {
	if err == nil {
		return nil
	}
	pe := &PersistenceError{Op: op, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		pe.Code = pgErr.Code
	}
	return pe
}

// validID reports whether every id can name a row. Ids are uuid columns, and
// a string that is not a uuid fails client-side encoding under the extended
// protocol before the server ever sees it.
func validID(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}

// IsTransient reports whether err is a read-side transport failure.
func IsTransient(err error) bool {
	var te *TransientQueryError
	return errors.As(err, &te)
}
