package cmd

import (
	"context"
	"fmt"
	"time"

	"messenger-core/core/config"
	"messenger-core/core/database"
	"messenger-core/core/persistence"
	"messenger-core/core/storage"

	"go.uber.org/zap"
)

// openStore connects to the configured persistence backend. The returned
// func releases the connection.
func openStore(ctx context.Context, cfg *config.Config, logg *zap.Logger) (persistence.Store, func(), error) {
	var (
		deps    persistence.Deps
		closers []func() error
	)
	switch cfg.Persistence.Backend {
	case persistence.BackendDatabase:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		deps.DB = db
		if sqlDB, err := db.DB(); err == nil {
			closers = append(closers, sqlDB.Close)
		}
		logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
	case persistence.BackendRedis:
		client := persistence.NewRedisClient(cfg.Redis)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to reach redis: %w", err)
		}
		deps.Redis = client
		closers = append(closers, client.Close)
		logg.Info("Connected to redis", zap.String("addr", cfg.Redis.Addr))
	case persistence.BackendMemcache:
		client := persistence.NewMemcacheClient(cfg.Memcache)
		if err := client.Ping(); err != nil {
			return nil, nil, fmt.Errorf("failed to reach memcache: %w", err)
		}
		deps.Memcache = client
		closers = append(closers, client.Close)
		logg.Info("Connected to memcache", zap.Strings("servers", cfg.Memcache.Servers))
	case persistence.BackendStorage:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		bctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Storage.TimeoutSeconds)*time.Second)
		defer cancel()
		if err := storage.EnsureBucket(bctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, nil, err
		}
		deps.Storage = client
		deps.Bucket = cfg.Storage.Bucket
		logg.Info("Using object storage", zap.String("bucket", cfg.Storage.Bucket))
	}

	store, err := persistence.Open(cfg.Persistence, deps)
	if err != nil {
		for _, c := range closers {
			_ = c()
		}
		return nil, nil, err
	}
	release := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logg.Warn("Failed to close persistence backend", zap.Error(err))
			}
		}
	}
	return store, release, nil
}
