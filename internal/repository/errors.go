package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned by lookups that match no record. Stores translate
// driver-level no-row results so callers never depend on pgx directly.
var ErrNotFound = errors.New("record not found")

func translateNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
