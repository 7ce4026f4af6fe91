package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Healthcheck returns a check that succeeds once the pool answers and the
// notifications table created by Migrate is present.
func Healthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		var migrated bool
		err := pool.QueryRow(ctx, `SELECT to_regclass('notifications') IS NOT NULL`).Scan(&migrated)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrHealthcheckFailed, err)
		}
		if !migrated {
			return fmt.Errorf("%w: %w", ErrHealthcheckFailed, ErrSchemaNotMigrated)
		}
		return nil
	}
}
