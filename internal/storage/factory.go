package storage

import (
	"context"
	"fmt"

	"github.com/georgemunganga/shophub/internal/config"
)

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", "file":
		return NewFile(cfg.Dir)
	case "memory":
		return NewMemory(), nil
	case "sqlite":
		return NewSQLite(ctx, cfg.SQLitePath)
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("STORAGE_POSTGRES_DSN is required for the postgres driver")
		}
		return NewPostgres(ctx, cfg.PostgresDSN)
	case "redis":
		return NewRedis(ctx, cfg.RedisAddr, cfg.RedisPrefix, cfg.RedisTTL)
	case "mongo":
		return NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER: %s", cfg.Driver)
	}
}
