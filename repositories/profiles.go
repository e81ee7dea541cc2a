package repositories

import (
	"context"

	"github.com/healthtrack/backend/models"
	"gorm.io/gorm"
)

type ProfileRepo struct{ db *gorm.DB }

func (r *ProfileRepo) FindByUserID(ctx context.Context, userID uint) (*models.UserProfile, error) {
	return take[models.UserProfile](r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// Save upserts on the user_id primary key.
func (r *ProfileRepo) Save(ctx context.Context, p *models.UserProfile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

type GoalRepo struct{ db *gorm.DB }

func (r *GoalRepo) FindByUserID(ctx context.Context, userID uint) (*models.UserGoal, error) {
	return take[models.UserGoal](r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *GoalRepo) Save(ctx context.Context, g *models.UserGoal) error {
	return r.db.WithContext(ctx).Save(g).Error
}
