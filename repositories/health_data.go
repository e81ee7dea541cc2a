package repositories

import (
	"context"
	"time"

	"github.com/healthtrack/backend/models"
	"github.com/healthtrack/backend/services"
	"gorm.io/gorm"
)

type HealthDataRepo struct{ db *gorm.DB }

func (r *HealthDataRepo) LatestInWindow(ctx context.Context, userID uint, metric models.MetricType, from, to time.Time) (*models.HealthDataEntry, error) {
	return take[models.HealthDataEntry](r.db.WithContext(ctx).
		Where("user_id = ? AND metric_type = ? AND recorded_at >= ? AND recorded_at < ?", userID, metric, from, to).
		Order("recorded_at DESC"))
}

func (r *HealthDataRepo) LatestSince(ctx context.Context, userID uint, metric models.MetricType, since time.Time) (*models.HealthDataEntry, error) {
	return take[models.HealthDataEntry](r.db.WithContext(ctx).
		Where("user_id = ? AND metric_type = ? AND recorded_at >= ?", userID, metric, since).
		Order("recorded_at DESC"))
}

// WeeklyTotals sums each metric since the given instant. Totals are handed
// back as raw driver values.
func (r *HealthDataRepo) WeeklyTotals(ctx context.Context, userID uint, since time.Time, metrics []models.MetricType) ([]services.MetricTotal, error) {
	rows, err := r.db.WithContext(ctx).Model(&models.HealthDataEntry{}).
		Select("metric_type, SUM(value)").
		Where("user_id = ? AND metric_type IN ? AND recorded_at >= ?", userID, metrics, since).
		Group("metric_type").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []services.MetricTotal
	for rows.Next() {
		var metric string
		var total any
		if err := rows.Scan(&metric, &total); err != nil {
			return nil, err
		}
		out = append(out, services.MetricTotal{MetricType: models.MetricType(metric), Total: total})
	}
	return out, rows.Err()
}

func (r *HealthDataRepo) RecentForScore(ctx context.Context, userID uint, metrics []models.MetricType, since time.Time) ([]models.HealthDataEntry, error) {
	var out []models.HealthDataEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND metric_type IN ? AND recorded_at >= ?", userID, metrics, since).
		Order("recorded_at DESC").
		Find(&out).Error
	return out, err
}

func (r *HealthDataRepo) FindByID(ctx context.Context, id uint) (*models.HealthDataEntry, error) {
	return take[models.HealthDataEntry](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *HealthDataRepo) List(ctx context.Context, f services.HealthDataFilter) ([]models.HealthDataEntry, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", f.UserID)
	if f.Metric != "" {
		q = q.Where("metric_type = ?", f.Metric)
	}
	if !f.From.IsZero() {
		q = q.Where("recorded_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("recorded_at < ?", f.To)
	}
	var out []models.HealthDataEntry
	err := q.Order("recorded_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

func (r *HealthDataRepo) Create(ctx context.Context, e *models.HealthDataEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *HealthDataRepo) Update(ctx context.Context, e *models.HealthDataEntry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *HealthDataRepo) Delete(ctx context.Context, e *models.HealthDataEntry) error {
	return r.db.WithContext(ctx).Delete(e).Error
}
