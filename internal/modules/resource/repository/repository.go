package repository

import (
	"context"

	"discussify.com/api/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResourceRepository interface {
	Create(ctx context.Context, resource *entity.Resource) error
	ListByCommunity(ctx context.Context, communityID uuid.UUID) ([]entity.Resource, error)
	CountAll(ctx context.Context) (int64, error)
}

type resourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) Create(ctx context.Context, resource *entity.Resource) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Community").Create(resource).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Community{}).
			Where("id = ?", resource.CommunityID).
			UpdateColumn("updated_at", gorm.Expr("NOW()")).Error
	})
}

func (r *resourceRepository) ListByCommunity(ctx context.Context, communityID uuid.UUID) ([]entity.Resource, error) {
	var resources []entity.Resource
	err := r.db.WithContext(ctx).
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "photo").Where("active = ?", true)
		}).
		Where("community_id = ?", communityID).
		Order("created_at DESC").
		Find(&resources).Error
	return resources, err
}

func (r *resourceRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Resource{}).Count(&count).Error
	return count, err
}
