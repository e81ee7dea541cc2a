package services

import (
	"context"
	"time"

	"github.com/healthtrack/backend/cache"
	"github.com/healthtrack/backend/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Trigger names the kind of mutation that caused an invalidation.
type Trigger string

const (
	TriggerProfile    Trigger = "profile"
	TriggerGoal       Trigger = "goal"
	TriggerHealthData Trigger = "health_data"
	TriggerMealLog    Trigger = "meal_log"
	TriggerCycle      Trigger = "cycle"
	TriggerManual     Trigger = "manual"
)

// CacheInvalidator deletes every cached view a committed write can make stale.
// It always runs outside the write's transaction, and a failed delete is
// logged and counted rather than returned, since the write already happened.
type CacheInvalidator struct {
	store   cache.Store
	log     *zap.Logger
	counter *prometheus.CounterVec
	now     Clock
}

// NewCacheInvalidator wires the coordinator. counter must carry the labels
// "trigger" and "outcome"; it and log may be nil.
func NewCacheInvalidator(store cache.Store, log *zap.Logger, counter *prometheus.CounterVec, now Clock) *CacheInvalidator {
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = systemClock
	}
	return &CacheInvalidator{store: store, log: log, counter: counter, now: now}
}

func (i *CacheInvalidator) InvalidateDashboard(ctx context.Context, userID uint) {
	i.invalidate(ctx, TriggerManual, userID, cache.DashboardKey(userID))
}

// ProfileChanged also drops the goal, whose calorie target derives from the profile.
func (i *CacheInvalidator) ProfileChanged(ctx context.Context, userID uint) {
	i.invalidate(ctx, TriggerProfile, userID,
		cache.DashboardKey(userID), cache.ProfileKey(userID), cache.GoalKey(userID))
}

func (i *CacheInvalidator) GoalChanged(ctx context.Context, userID uint) {
	i.invalidate(ctx, TriggerGoal, userID, cache.DashboardKey(userID), cache.GoalKey(userID))
}

func (i *CacheInvalidator) HealthDataChanged(ctx context.Context, userID uint) {
	i.invalidate(ctx, TriggerHealthData, userID, cache.DashboardKey(userID))
}

// MealLogChanged drops the per-day listings of every affected day plus today.
func (i *CacheInvalidator) MealLogChanged(ctx context.Context, userID uint, days ...time.Time) {
	keys := []string{cache.DashboardKey(userID), cache.MealLogsKey(userID, i.now())}
	seen := map[string]bool{keys[1]: true}
	for _, d := range days {
		if d.IsZero() {
			continue
		}
		k := cache.MealLogsKey(userID, d.In(i.now().Location()))
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	i.invalidate(ctx, TriggerMealLog, userID, keys...)
}

func (i *CacheInvalidator) CycleChanged(ctx context.Context, userID uint) {
	i.invalidate(ctx, TriggerCycle, userID, cache.DashboardKey(userID))
}

func (i *CacheInvalidator) invalidate(ctx context.Context, trigger Trigger, userID uint, keys ...string) {
	log := logging.For(ctx, i.log)
	// The write is committed; a cancelled request must not skip the delete.
	err := i.store.Delete(context.WithoutCancel(ctx), keys...)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		log.Error("cache invalidation failed",
			zap.String("trigger", string(trigger)),
			zap.Uint("user_id", userID),
			zap.Strings("keys", keys),
			zap.Error(err))
	} else {
		log.Debug("cache invalidated",
			zap.String("trigger", string(trigger)),
			zap.Uint("user_id", userID),
			zap.Strings("keys", keys))
	}
	if i.counter != nil {
		i.counter.WithLabelValues(string(trigger), outcome).Inc()
	}
}
