package testutil

import "github.com/jackc/pgx/v5/pgconn"

// Driver errors returned by MemoryStore, shaped like the ones PostgreSQL
// raises for the same violations.
var (
	ErrDuplicateEmail error = &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "unique_users_email"`,
		TableName:      "users",
		ConstraintName: "unique_users_email",
	}

	ErrForeignKey error = &pgconn.PgError{
		Severity:  "ERROR",
		Code:      "23503",
		Message:   "insert or update violates foreign key constraint",
		TableName: "participate",
	}
)
