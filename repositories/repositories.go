// Package repositories implements the service repository contracts on gorm.
package repositories

import (
	"context"
	"errors"

	"github.com/healthtrack/backend/models"
	"github.com/healthtrack/backend/services"
	"gorm.io/gorm"
)

// New binds every repository to db, which may be a transaction.
func New(db *gorm.DB) services.Repositories {
	return services.Repositories{
		Users:      &UserRepo{db: db},
		Profiles:   &ProfileRepo{db: db},
		Goals:      &GoalRepo{db: db},
		HealthData: &HealthDataRepo{db: db},
		MealLogs:   &MealLogRepo{db: db},
		Cycles:     &CycleRepo{db: db},
		Articles:   &ArticleRepo{db: db},
	}
}

// UnitOfWork runs callbacks inside a gorm transaction.
type UnitOfWork struct{ db *gorm.DB }

func NewUnitOfWork(db *gorm.DB) *UnitOfWork { return &UnitOfWork{db: db} }

func (u *UnitOfWork) Do(ctx context.Context, fn func(services.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.UserGoal{},
		&models.HealthDataEntry{},
		&models.MealLog{},
		&models.MenstrualCycle{},
		&models.Category{},
		&models.Article{},
	)
}

// take runs q and maps "no rows" to (nil, nil).
func take[T any](q *gorm.DB) (*T, error) {
	var v T
	err := q.Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
