package service

import (
	"context"
	"errors"

	"discussify.com/api/internal/entity"
	"discussify.com/api/internal/modules/notification/dto"
	notifRepo "discussify.com/api/internal/modules/notification/repository"
	"discussify.com/api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListLimit caps the notification list.
const ListLimit = 50

// PreferenceStore reads and writes a user's notification flags.
type PreferenceStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	UpdatePreferences(ctx context.Context, id uuid.UUID, patch entity.PreferencesPatch) error
}

type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID) (*dto.NotificationListResponse, error)
	// MarkRead accepts a notification id or "all".
	MarkRead(ctx context.Context, userID uuid.UUID, id string) error
	UpdatePreferences(ctx context.Context, userID uuid.UUID, req dto.UpdatePreferencesRequest) (*entity.NotificationPreferences, error)
}

type notificationService struct {
	repo  notifRepo.NotificationRepository
	users PreferenceStore
}

func NewNotificationService(repo notifRepo.NotificationRepository, users PreferenceStore) NotificationService {
	return &notificationService{repo: repo, users: users}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID) (*dto.NotificationListResponse, error) {
	notifications, err := s.repo.ListByRecipient(ctx, userID, ListLimit)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.NotificationListResponse{
		Notifications: make([]dto.NotificationResponse, 0, len(notifications)),
		UnreadCount:   unread,
	}
	for i := range notifications {
		resp.Notifications = append(resp.Notifications, dto.NewNotificationResponse(&notifications[i]))
	}
	return resp, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID uuid.UUID, id string) error {
	var target *uuid.UUID
	if id != "all" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return apperror.Validation("Invalid notification id")
		}
		target = &parsed
	}

	_, err := s.repo.MarkRead(ctx, userID, target)
	return err
}

func (s *notificationService) UpdatePreferences(ctx context.Context, userID uuid.UUID, req dto.UpdatePreferencesRequest) (*entity.NotificationPreferences, error) {
	patch := entity.PreferencesPatch{
		NewDiscussion: req.NewDiscussion,
		NewResource:   req.NewResource,
		Replies:       req.Replies,
	}
	if err := s.users.UpdatePreferences(ctx, userID, patch); err != nil {
		return nil, userNotFound(err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, userNotFound(err)
	}
	prefs := user.Preferences()
	return &prefs, nil
}

func userNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("User not found")
	}
	return err
}
