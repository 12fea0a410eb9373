package db

import "errors"

var (
	// ErrFailedToParseDBConfig means DATABASE_CONN_URL is not a valid
	// postgres connection string.
	ErrFailedToParseDBConfig = errors.New("db: failed to parse database configuration")

	// ErrFailedToOpenDBConnection means every startup attempt failed.
	ErrFailedToOpenDBConnection = errors.New("db: failed to open database connection")

	// ErrHealthcheckFailed is what the readiness probe reports.
	ErrHealthcheckFailed = errors.New("db: healthcheck failed")

	// ErrSetDialect and ErrApplyMigrations wrap goose failures.
	ErrSetDialect      = errors.New("db migrator: failed to set dialect")
	ErrApplyMigrations = errors.New("db migrator: failed to apply migrations")
)
