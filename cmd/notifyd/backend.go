package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/config"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/httpserver"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/logger"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/mongo"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/mongostore"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/notifications"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/pg"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/pgstore"
)

const disconnectTimeout = 5 * time.Second

// backend bundles the ports served by one storage driver.
type backend struct {
	storage   notifications.Storage
	directory notifications.Directory
	seeder    seeder
	checks    []httpserver.Check
	close     func()
}

func openBackend(ctx context.Context, driver string, log *slog.Logger) (*backend, error) {
	switch driver {
	case StoragePostgres:
		return openPostgres(ctx, log)
	case StorageMongo:
		return openMongo(ctx, log)
	default:
		store := notifications.NewMemoryStorage()
		return &backend{
			storage:   store,
			directory: store,
			seeder:    memorySeeder{store: store},
			close:     func() {},
		}, nil
	}
}

func openPostgres(ctx context.Context, log *slog.Logger) (*backend, error) {
	var cfg pg.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(ctx, pool, cfg, log.With(logger.Component("migrate"))); err != nil {
		pool.Close()
		return nil, err
	}

	store := pgstore.New(pool)
	return &backend{
		storage:   store,
		directory: store,
		seeder:    store,
		checks:    []httpserver.Check{{Name: "postgres", Probe: pg.Healthcheck(pool)}},
		close:     pool.Close,
	}, nil
}

func openMongo(ctx context.Context, log *slog.Logger) (*backend, error) {
	var cfg mongo.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	db, err := mongo.NewWithDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client := db.Client()
	disconnect := func() {
		ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.LogAttrs(ctx, slog.LevelWarn, "MongoDB disconnect failed", logger.Error(err))
		}
	}

	store := mongostore.New(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		disconnect()
		return nil, err
	}

	return &backend{
		storage:   store,
		directory: store,
		seeder:    store,
		checks:    []httpserver.Check{{Name: "mongodb", Probe: mongo.Healthcheck(db)}},
		close:     disconnect,
	}, nil
}
