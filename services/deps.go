package services

import (
	"context"
	"fmt"
	"time"

	"github.com/healthtrack/backend/cache"
	"github.com/healthtrack/backend/logging"
	"go.uber.org/zap"
)

// Deps is what every domain service is built from.
type Deps struct {
	Repos       Repositories
	UoW         UnitOfWork
	Cache       cache.Store
	Invalidator *CacheInvalidator
	Log         *zap.Logger
	Clock       Clock
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Clock == nil {
		d.Clock = systemClock
	}
	if d.Invalidator == nil {
		d.Invalidator = NewCacheInvalidator(d.Cache, d.Log, nil, d.Clock)
	}
	return d
}

// requireUser fails with ErrNotFound when the user does not exist.
func requireUser(ctx context.Context, users UserRepository, userID uint) error {
	u, err := users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}

// Per-entity views (profile, goal, meal-log listings) are cached best effort:
// a failing cache is logged and the database answer is served.

// cachedValue reads key, treating unreadable entries and store errors as misses.
func cachedValue[T any](ctx context.Context, store cache.Store, key string, log *zap.Logger) (T, bool) {
	v, ok, err := cache.GetTyped[T](ctx, store, key)
	if err != nil {
		logging.For(ctx, log).Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return v, false
	}
	return v, ok
}

func storeValue[T any](ctx context.Context, store cache.Store, key string, v T, ttl time.Duration, log *zap.Logger) {
	if err := cache.SetTyped(ctx, store, key, v, ttl); err != nil {
		logging.For(ctx, log).Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
