package repository

import (
	"database/sql"
	"errors"
)

// optionalRow turns sql.ErrNoRows from a single-row Get into a nil row.
func optionalRow[T any](row *T, err error) (*T, error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return row, nil
}

// removedAny reports whether a DELETE matched at least one row.
func removedAny(result sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}
