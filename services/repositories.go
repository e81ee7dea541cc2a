package services

import (
	"context"
	"time"

	"github.com/healthtrack/backend/models"
)

// Repository contracts consumed by the services. Single-record lookups return
// (nil, nil) when nothing matches; ErrNotFound is decided by the caller.

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uint) (*models.UserProfile, error)
	Save(ctx context.Context, p *models.UserProfile) error
}

type GoalRepository interface {
	FindByUserID(ctx context.Context, userID uint) (*models.UserGoal, error)
	Save(ctx context.Context, g *models.UserGoal) error
}

// MetricTotal is one row of a per-metric SUM.
type MetricTotal struct {
	MetricType models.MetricType
	Total      any
}

type HealthDataRepository interface {
	// LatestInWindow returns the newest entry recorded in [from, to).
	LatestInWindow(ctx context.Context, userID uint, metric models.MetricType, from, to time.Time) (*models.HealthDataEntry, error)
	// LatestSince returns the newest entry recorded at or after since.
	LatestSince(ctx context.Context, userID uint, metric models.MetricType, since time.Time) (*models.HealthDataEntry, error)
	WeeklyTotals(ctx context.Context, userID uint, since time.Time, metrics []models.MetricType) ([]MetricTotal, error)
	RecentForScore(ctx context.Context, userID uint, metrics []models.MetricType, since time.Time) ([]models.HealthDataEntry, error)

	FindByID(ctx context.Context, id uint) (*models.HealthDataEntry, error)
	List(ctx context.Context, f HealthDataFilter) ([]models.HealthDataEntry, error)
	Create(ctx context.Context, e *models.HealthDataEntry) error
	Update(ctx context.Context, e *models.HealthDataEntry) error
	Delete(ctx context.Context, e *models.HealthDataEntry) error
}

// HealthDataFilter narrows List. Zero From/To and empty Metric mean unbounded.
type HealthDataFilter struct {
	UserID uint
	Metric models.MetricType
	From   time.Time
	To     time.Time
}

type MealLogRepository interface {
	// DailyTotalAndLastUpdate returns SUM(total_calories) and MAX(logged_at)
	// over [from, to) exactly as the driver hands them back.
	DailyTotalAndLastUpdate(ctx context.Context, userID uint, from, to time.Time) (AggregateRow, error)
	ByUserAndDateRange(ctx context.Context, userID uint, from, to time.Time) ([]models.MealLog, error)

	FindByID(ctx context.Context, id uint) (*models.MealLog, error)
	Create(ctx context.Context, m *models.MealLog) error
	Update(ctx context.Context, m *models.MealLog) error
	Delete(ctx context.Context, m *models.MealLog) error
}

type CycleRepository interface {
	// LatestByUser returns the cycle with the most recent start date.
	LatestByUser(ctx context.Context, userID uint) (*models.MenstrualCycle, error)
	Save(ctx context.Context, c *models.MenstrualCycle) error
}

type ArticleRepository interface {
	// Top2ByPublishedDesc returns the two newest articles with their category loaded.
	Top2ByPublishedDesc(ctx context.Context) ([]models.Article, error)
}

// Repositories bundles every repository bound to one database handle, which
// inside UnitOfWork.Do is the running transaction.
type Repositories struct {
	Users      UserRepository
	Profiles   ProfileRepository
	Goals      GoalRepository
	HealthData HealthDataRepository
	MealLogs   MealLogRepository
	Cycles     CycleRepository
	Articles   ArticleRepository
}

// UnitOfWork runs fn inside one transaction; fn's error rolls it back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(Repositories) error) error
}
