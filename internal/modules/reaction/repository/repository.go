package repository

import (
	"context"

	"discussify.com/api/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository interface {
	// Toggle removes the user's like if present, otherwise adds it. It
	// reports whether the target is liked afterwards.
	Toggle(ctx context.Context, userID, refID uuid.UUID, refType entity.LikeTarget) (bool, error)
	Count(ctx context.Context, refID uuid.UUID, refType entity.LikeTarget) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Toggle(ctx context.Context, userID, refID uuid.UUID, refType entity.LikeTarget) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND reference_id = ? AND reference_type = ?", userID, refID, refType).
			Delete(&entity.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		liked = true
		return tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&entity.Like{
			UserID:        userID,
			ReferenceID:   refID,
			ReferenceType: refType,
		}).Error
	})
	return liked, err
}

func (r *likeRepository) Count(ctx context.Context, refID uuid.UUID, refType entity.LikeTarget) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Like{}).
		Where("reference_id = ? AND reference_type = ?", refID, refType).
		Count(&count).Error
	return count, err
}
