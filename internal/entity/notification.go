package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationDiscussion      NotificationType = "discussion"
	NotificationResource        NotificationType = "resource"
	NotificationReply           NotificationType = "reply"
	NotificationJoinRequest     NotificationType = "join_request"
	NotificationCommunityInvite NotificationType = "community_invite"
)

type Notification struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID uuid.UUID        `gorm:"type:uuid;not null;index:idx_notification_recipient,priority:1" json:"recipient_id"`
	SenderID    uuid.UUID        `gorm:"type:uuid;not null" json:"sender_id"`
	Type        NotificationType `gorm:"size:30;not null" json:"type"`
	CommunityID *uuid.UUID       `gorm:"type:uuid" json:"community_id,omitempty"`
	Link        string           `gorm:"type:text" json:"link"`
	Message     string           `gorm:"type:text;not null" json:"message"`
	IsRead      bool             `gorm:"not null;default:false" json:"isRead"`
	CreatedAt   time.Time        `gorm:"autoCreateTime;index:idx_notification_recipient,priority:2,sort:desc" json:"createdAt"`

	Sender    *User      `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
	Recipient *User      `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
	Community *Community `gorm:"foreignKey:CommunityID;constraint:OnDelete:CASCADE" json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		n.ID = id
	}
	return nil
}
