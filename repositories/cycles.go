package repositories

import (
	"context"

	"github.com/healthtrack/backend/models"
	"gorm.io/gorm"
)

type CycleRepo struct{ db *gorm.DB }

// LatestByUser orders null start dates last on every dialect.
func (r *CycleRepo) LatestByUser(ctx context.Context, userID uint) (*models.MenstrualCycle, error) {
	return take[models.MenstrualCycle](r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("CASE WHEN start_date IS NULL THEN 1 ELSE 0 END").
		Order("start_date DESC").
		Order("id DESC"))
}

func (r *CycleRepo) Save(ctx context.Context, c *models.MenstrualCycle) error {
	return r.db.WithContext(ctx).Save(c).Error
}

type ArticleRepo struct{ db *gorm.DB }

func (r *ArticleRepo) Top2ByPublishedDesc(ctx context.Context) ([]models.Article, error) {
	var out []models.Article
	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("published_at DESC").
		Limit(2).
		Find(&out).Error
	return out, err
}

// Create is used by seeding and tests; article publishing lives elsewhere.
func (r *ArticleRepo) Create(ctx context.Context, a *models.Article) error {
	return r.db.WithContext(ctx).Create(a).Error
}
