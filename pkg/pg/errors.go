package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrFailedToOpenDBConnection is returned when no connection attempt succeeded.
	ErrFailedToOpenDBConnection = errors.New("failed to open db connection")

	ErrEmptyConnectionString = errors.New("empty postgres connection string, use PG_CONN_URL env var")
	ErrFailedToParseDBConfig = errors.New("failed to parse db config")

	// ErrFailedToApplyMigrations wraps goose errors from Migrate.
	ErrFailedToApplyMigrations = errors.New("failed to apply migrations")

	// ErrHealthcheckFailed is returned by the Healthcheck function.
	ErrHealthcheckFailed = errors.New("postgres healthcheck failed")

	// ErrSchemaNotMigrated means the database answers but the notifications
	// table does not exist yet.
	ErrSchemaNotMigrated = errors.New("notifications schema is not migrated")
)

// IsNotFoundError reports whether err is pgx.ErrNoRows.
func IsNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKeyError reports a unique constraint violation (SQLSTATE 23505).
func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKeyViolationError reports a foreign key violation (SQLSTATE 23503),
// e.g. a notification for a user that does not exist.
func IsForeignKeyViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
