package repository

import (
	"context"

	"discussify.com/api/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiscussionRepository interface {
	Create(ctx context.Context, discussion *entity.Discussion) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Discussion, error)
	ListByCommunity(ctx context.Context, communityID uuid.UUID, offset, limit int) ([]entity.Discussion, int64, error)
	CountByCommunity(ctx context.Context, communityID uuid.UUID) (int64, error)
	CountAll(ctx context.Context) (int64, error)
}

type discussionRepository struct {
	db *gorm.DB
}

func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

// NotDeleted hides soft deleted discussions. Every read goes through it.
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("discussions.is_deleted = ?", false)
}

func authorColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "photo").Where("active = ?", true)
}

func (r *discussionRepository) Create(ctx context.Context, discussion *entity.Discussion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Community").Create(discussion).Error; err != nil {
			return err
		}
		// bump activity on the community
		return tx.Model(&entity.Community{}).
			Where("id = ?", discussion.CommunityID).
			UpdateColumn("updated_at", gorm.Expr("NOW()")).Error
	})
}

func (r *discussionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Discussion, error) {
	var discussion entity.Discussion
	if err := r.db.WithContext(ctx).
		Scopes(NotDeleted).
		Preload("Author", authorColumns).
		Where("id = ?", id).
		First(&discussion).Error; err != nil {
		return nil, err
	}
	return &discussion, nil
}

func (r *discussionRepository) ListByCommunity(ctx context.Context, communityID uuid.UUID, offset, limit int) ([]entity.Discussion, int64, error) {
	var discussions []entity.Discussion
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entity.Discussion{}).
		Scopes(NotDeleted).
		Where("community_id = ?", communityID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Author", authorColumns).
		Order("is_pinned DESC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&discussions).Error
	return discussions, total, err
}

func (r *discussionRepository) CountByCommunity(ctx context.Context, communityID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Discussion{}).
		Scopes(NotDeleted).
		Where("community_id = ?", communityID).
		Count(&count).Error
	return count, err
}

func (r *discussionRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Discussion{}).Scopes(NotDeleted).Count(&count).Error
	return count, err
}
