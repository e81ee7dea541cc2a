package config

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/healthtrack/backend/cache"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB connects to the configured database. It does not migrate.
func OpenDB(c DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch c.Driver {
	case DriverPostgres:
		dialector = postgres.Open(c.PostgresDSN())
	case DriverSQLite:
		dialector = sqlite.Open(c.DSN)
	default:
		return nil, fmt.Errorf("unknown db driver %q", c.Driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// NewCacheStore builds the configured cache backend. The returned close func
// releases the redis client and is a no-op for the in-process store.
func NewCacheStore(ctx context.Context, c *Config) (cache.Store, func() error, error) {
	switch c.Cache.Backend {
	case CacheMemory:
		return cache.NewMemoryStore(), func() error { return nil }, nil
	case CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		store := cache.NewRedisStore(client)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", c.Redis.Addr, err)
		}
		return store, client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
}
