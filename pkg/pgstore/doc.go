// Package pgstore is the PostgreSQL implementation of notifications.Storage
// and notifications.Directory. It expects the schema applied by pg.Migrate.
package pgstore
