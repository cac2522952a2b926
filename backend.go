package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"barangay-health-server/internal/config"
	"barangay-health-server/internal/store"
	"barangay-health-server/internal/store/gormstore"
	"barangay-health-server/internal/store/memory"
	"barangay-health-server/internal/store/mongostore"
)

// backend is the configured record store. Connections are established
// lazily; connect forces it (and the table or index setup that comes with
// it).
type backend struct {
	cols    store.Collections
	connect func(ctx context.Context) error
	close   func(ctx context.Context)
}

func openBackend(cfg *config.Config, log *zap.Logger) (*backend, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Warn("using the in-memory store; records are lost on restart")
		return &backend{
			cols:    memory.Collections(),
			connect: func(context.Context) error { return nil },
			close:   func(context.Context) {},
		}, nil

	case config.DriverMongo:
		h := mongostore.NewHandle(cfg.Mongo.URI, cfg.Mongo.Database)
		return &backend{
			cols: mongostore.Collections(h),
			connect: func(ctx context.Context) error {
				_, err := h.Get(ctx)
				return err
			},
			close: func(ctx context.Context) {
				if !h.Connected() {
					return
				}
				if db, err := h.Get(ctx); err == nil {
					if err := db.Client().Disconnect(ctx); err != nil {
						log.Warn("mongo disconnect failed", zap.Error(err))
					}
				}
			},
		}, nil

	case config.DriverMySQL, config.DriverPostgres, config.DriverSQLite:
		h := gormstore.NewHandle(cfg.Database.Driver, cfg.Database.DSN)
		return &backend{
			cols: gormstore.Collections(h),
			connect: func(ctx context.Context) error {
				_, err := h.Get(ctx)
				return err
			},
			close: func(ctx context.Context) {
				if !h.Connected() {
					return
				}
				db, err := h.Get(ctx)
				if err != nil {
					return
				}
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}
