package repository

import (
	"context"

	"discussify.com/api/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []*entity.Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]entity.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	// MarkRead marks the recipient's unread notifications as read;
	// nil id means all of them.
	MarkRead(ctx context.Context, recipientID uuid.UUID, id *uuid.UUID) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(notifications, 100).Error
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]entity.Notification, error) {
	var notifications []entity.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at desc").
		Limit(limit).
		Preload("Sender", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "photo")
		}).
		Preload("Community", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "icon")
		}).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, recipientID uuid.UUID, id *uuid.UUID) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false)
	if id != nil {
		query = query.Where("id = ?", *id)
	}
	res := query.Update("is_read", true)
	return res.RowsAffected, res.Error
}
