package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"centrebooks/internal/core/apperror"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, true},
		{"wrapped deadlock", fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}), true},
		{"unique violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retryable(tt.err))
		})
	}
}

func TestDefaultTxOptions(t *testing.T) {
	opts := DefaultTxOptions()
	assert.Equal(t, pgx.Serializable, opts.IsolationLevel)
	assert.Equal(t, 3, opts.MaxAttempts)
}

func TestConstraintError(t *testing.T) {
	constraints := map[string]UniqueConstraint{"centres_name_key": {Entity: "centre", Field: "name"}}

	err := ConstraintError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "centres_name_key"}, constraints, "IQRA")
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))

	err = ConstraintError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "statements_item_fk"}, constraints, "")
	assert.True(t, apperror.HasCode(err, apperror.CodeConflict))

	assert.Nil(t, ConstraintError(errors.New("boom"), constraints, ""))
}
