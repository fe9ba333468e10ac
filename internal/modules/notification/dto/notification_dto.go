package dto

import (
	"time"

	"discussify.com/api/internal/entity"
	commonDto "discussify.com/api/pkg/dto"
	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID        uuid.UUID                   `json:"id"`
	Type      string                      `json:"type"`
	Message   string                      `json:"message"`
	Link      string                      `json:"link"`
	IsRead    bool                        `json:"isRead"`
	CreatedAt time.Time                   `json:"createdAt"`
	Sender    *commonDto.UserSummary      `json:"sender"`
	Community *commonDto.CommunitySummary `json:"community"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
}

// UpdatePreferencesRequest only changes the flags that are present.
type UpdatePreferencesRequest struct {
	NewDiscussion *bool `json:"newDiscussion"`
	NewResource   *bool `json:"newResource"`
	Replies       *bool `json:"replies"`
}

func NewNotificationResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Message:   n.Message,
		Link:      n.Link,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
		Sender:    commonDto.NewUserSummary(n.Sender),
		Community: commonDto.NewCommunitySummary(n.Community),
	}
}
