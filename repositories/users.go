package repositories

import (
	"context"

	"github.com/healthtrack/backend/models"
	"gorm.io/gorm"
)

type UserRepo struct{ db *gorm.DB }

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return take[models.User](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return take[models.User](r.db.WithContext(ctx).Where("email = ?", email))
}

// Create is used by seeding and tests; account sign-up lives elsewhere.
func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}
