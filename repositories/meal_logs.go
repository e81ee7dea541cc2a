package repositories

import (
	"context"
	"time"

	"github.com/healthtrack/backend/models"
	"github.com/healthtrack/backend/services"
	"gorm.io/gorm"
)

type MealLogRepo struct{ db *gorm.DB }

// DailyTotalAndLastUpdate scans SUM and MAX into untyped values; the
// reconciler decides what they mean.
func (r *MealLogRepo) DailyTotalAndLastUpdate(ctx context.Context, userID uint, from, to time.Time) (services.AggregateRow, error) {
	var row services.AggregateRow
	err := r.db.WithContext(ctx).Model(&models.MealLog{}).
		Select("SUM(total_calories), MAX(logged_at)").
		Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, from, to).
		Row().
		Scan(&row.Total, &row.LastLoggedAt)
	return row, err
}

func (r *MealLogRepo) ByUserAndDateRange(ctx context.Context, userID uint, from, to time.Time) ([]models.MealLog, error) {
	var out []models.MealLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, from, to).
		Order("logged_at ASC").
		Find(&out).Error
	return out, err
}

func (r *MealLogRepo) FindByID(ctx context.Context, id uint) (*models.MealLog, error) {
	return take[models.MealLog](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *MealLogRepo) Create(ctx context.Context, m *models.MealLog) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MealLogRepo) Update(ctx context.Context, m *models.MealLog) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *MealLogRepo) Delete(ctx context.Context, m *models.MealLog) error {
	return r.db.WithContext(ctx).Delete(m).Error
}
