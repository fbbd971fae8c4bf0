package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in
	// the store.
	ErrNotFound = errors.New("entity not found")

	// ErrWordNotFound indicates that the requested word does not exist.
	ErrWordNotFound = fmt.Errorf("%w: word", ErrNotFound)

	// ErrUnknownField is returned when a partial update names a column
	// the schema does not carry. Callers use it to classify
	// schema-mismatch failures and retry with a reduced field set.
	ErrUnknownField = errors.New("unknown field in update")

	// ErrNoFields is returned when a partial update carries no fields.
	ErrNoFields = errors.New("no fields to update")
)

// pgUndefinedColumn is the PostgreSQL error code for a reference to a
// column that does not exist.
const pgUndefinedColumn = "42703"

// classifyPgError maps database driver errors onto store sentinels where
// a sentinel applies, passing everything else through.
func classifyPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedColumn {
		return fmt.Errorf("%w: %s", ErrUnknownField, pgErr.Message)
	}
	return err
}
