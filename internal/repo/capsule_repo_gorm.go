package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/SangramSaha/capsule/internal/domain"
)

type CapsuleRepo struct{ db *gorm.DB }

func NewCapsuleRepo(db *gorm.DB) *CapsuleRepo { return &CapsuleRepo{db: db} }

func (r *CapsuleRepo) Create(ctx context.Context, c *domain.Capsule) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CapsuleRepo) FindByOwner(ctx context.Context, userID string) ([]domain.Capsule, error) {
	var out []domain.Capsule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}
