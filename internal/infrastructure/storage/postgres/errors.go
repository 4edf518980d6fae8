package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"centrebooks/internal/core/apperror"
)

// UniqueConstraint describes how a unique index surfaces to callers.
type UniqueConstraint struct {
	Entity string
	Field  string
}

// ConstraintError translates a constraint violation into an application
// error, or returns nil when err is something else. constraints maps index
// names to the field they guard; value is reported as the offending value.
func ConstraintError(err error, constraints map[string]UniqueConstraint, value string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		c, ok := constraints[pgErr.ConstraintName]
		if !ok {
			return apperror.NewConflict("record already exists").WithCause(err)
		}
		return apperror.NewDuplicate(c.Entity, c.Field, value).WithCause(err)
	case pgerrcode.ForeignKeyViolation:
		return apperror.NewConflict("record is referenced by or references a missing record").
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	}
	return nil
}

// IsUniqueViolation reports whether err is a unique index violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
