// Package pg bootstraps the PostgreSQL connection used by the notification
// store. It wraps pgx/v5 pooling with startup retries, applies the embedded
// goose migrations and offers error classification helpers.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//	    return err
//	}
//
// Healthcheck returns a check for the HTTP health endpoint that also fails
// while the notifications schema is not migrated.
package pg
