package database

import (
	"database/sql"
	"errors"
	"strings"

	"ms-events/internal/apperror"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// IsUniqueViolation matches both PostgreSQL and SQLite unique constraint failures.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsForeignKeyViolation matches rows that are still referenced, or that
// reference a missing row, on PostgreSQL and SQLite.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// Translate maps store errors onto application error kinds.
func Translate(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case IsNoRows(err):
		return apperror.Wrap(apperror.NotFound, notFound, err)
	case IsUniqueViolation(err):
		return apperror.Wrap(apperror.Conflict, "record already exists", err)
	case IsForeignKeyViolation(err):
		return apperror.Wrap(apperror.Conflict, "record is still in use", err)
	default:
		if _, ok := apperror.As(err); ok {
			return err
		}
		return apperror.NewInternal("database error", err)
	}
}

// TranslateDelete is Translate for removals, where a foreign key violation
// means other rows still point at the record.
func TranslateDelete(err error, notFound, inUse string) error {
	if IsForeignKeyViolation(err) {
		return apperror.Wrap(apperror.Conflict, inUse, err)
	}
	return Translate(err, notFound)
}
