package main

import (
	"context"
	"fmt"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation/postgresengine"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell/config"
)

// database is an open connection of the configured adapter type.
type database struct {
	newStore func(options ...postgresengine.Option) (postgresengine.Store, error)
	ping     func(ctx context.Context) error
	close    func()
}

func openDatabase(ctx context.Context, cfg config.Config) (database, error) {
	switch cfg.AdapterType {
	case config.AdapterSQLDB:
		db, err := config.NewSQLDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return database{}, err
		}

		return database{
			newStore: func(options ...postgresengine.Option) (postgresengine.Store, error) {
				return postgresengine.NewStoreFromSQLDB(db, options...)
			},
			ping:  db.PingContext,
			close: func() { _ = db.Close() },
		}, nil

	case config.AdapterSQLXDB:
		db, err := config.NewSQLX(ctx, cfg.DatabaseURL)
		if err != nil {
			return database{}, err
		}

		return database{
			newStore: func(options ...postgresengine.Option) (postgresengine.Store, error) {
				return postgresengine.NewStoreFromSQLX(db, options...)
			},
			ping:  db.PingContext,
			close: func() { _ = db.Close() },
		}, nil

	case config.AdapterPGXPool:
		pool, err := config.NewPGXPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return database{}, err
		}

		return database{
			newStore: func(options ...postgresengine.Option) (postgresengine.Store, error) {
				return postgresengine.NewStoreFromPGXPool(pool, options...)
			},
			ping:  pool.Ping,
			close: pool.Close,
		}, nil

	default:
		return database{}, fmt.Errorf("%w: adapter type %q", config.ErrInvalidConfig, cfg.AdapterType)
	}
}

func newStore(db database, cfg config.Config, obs observability) (postgresengine.Store, error) {
	options := []postgresengine.Option{
		postgresengine.WithStatusPolicy(cfg.StatusPolicy),
		postgresengine.WithIsolation(cfg.Isolation),
		postgresengine.WithContextualLogger(obs.contextualLogger),
	}

	if obs.metrics != nil {
		options = append(options, postgresengine.WithMetrics(obs.metrics))
	}

	if obs.tracing != nil {
		options = append(options, postgresengine.WithTracing(obs.tracing))
	}

	return db.newStore(options...)
}
