// Package db owns the PostgreSQL pool shared by the delivery-event
// store, the submission audit trail, and the River job queue.
//
// It wraps [github.com/jackc/pgx/v5/pgxpool] with startup retries,
// embedded goose migrations, a readiness check, and a teardown hook.
//
// # Configuration
//
// [Config] loads from the environment:
//
//	DATABASE_CONN_URL           - PostgreSQL connection URL (required)
//	DATABASE_MAX_OPEN_CONNS     - Maximum open connections (default: 10)
//	DATABASE_MIN_CONNS          - Minimum idle connections (default: 5)
//	DATABASE_HEALTHCHECK_PERIOD - Pool health check interval (default: 1m)
//	DATABASE_MAX_CONN_IDLE_TIME - Maximum connection idle time (default: 10m)
//	DATABASE_MAX_CONN_LIFETIME  - Maximum connection lifetime (default: 30m)
//	DATABASE_RETRY_ATTEMPTS     - Startup retry attempts (default: 3)
//	DATABASE_RETRY_INTERVAL     - Base retry interval (default: 5s)
//	DATABASE_MIGRATIONS_TABLE   - Migrations table name (default: schema_migrations)
//
// # Usage
//
//	var cfg db.Config
//	if err := env.Parse(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Transactions
//
// [WithTx] keeps a business write and a queued job atomic, which is how
// the send endpoint pairs its audit row with the River insert:
//
//	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//	    if _, err := tx.Exec(ctx, insertSubmission, ...); err != nil {
//	        return err
//	    }
//	    return manager.EnqueueTx(ctx, tx, "send_message", req)
//	})
//
// # Migrations
//
//	//go:embed migrations/*.sql
//	var migrations embed.FS
//
//	err := db.Migrate(ctx, pool, migrations, cfg.MigrationsTable, log)
//
// # Teardown
//
// [Shutdown] returns a hook shaped for the daemon's shutdown sequence,
// and [Healthcheck] one for the readiness endpoint.
//
// Sentinel errors ([ErrFailedToParseDBConfig], [ErrFailedToOpenDBConnection],
// [ErrHealthcheckFailed], [ErrSetDialect], [ErrApplyMigrations]) wrap the
// underlying cause with [errors.Join].
package db
