package database

import (
	"context"
	"fmt"

	"spendtrack/internal/config"
	"spendtrack/internal/logger"
	"spendtrack/internal/store"
	"spendtrack/internal/store/gormstore"
	"spendtrack/internal/store/mongostore"
)

// CloseFunc releases the connection behind a store set.
type CloseFunc func(ctx context.Context) error

// OpenStores connects to the configured store driver, brings its schema or
// indexes up to date, and returns the store set.
func OpenStores(ctx context.Context, cfg *config.Config) (*store.Set, CloseFunc, error) {
	log := logger.Get()

	switch cfg.StoreDriver {
	case config.DriverPostgres, config.DriverSQLite:
		mgr, err := NewManager(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := mgr.Migrate(); err != nil {
			_ = mgr.Close()
			return nil, nil, err
		}
		log.Infow("relational store ready", "driver", cfg.StoreDriver)
		return gormstore.NewSet(mgr.DB()), func(context.Context) error { return mgr.Close() }, nil

	case config.DriverMongo:
		client, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		log.Infow("document store ready", "driver", cfg.StoreDriver, "database", cfg.MongoDatabase)
		return mongostore.NewSet(db), client.Disconnect, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
