package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityType string

const (
	ActivityCreatedCommunity ActivityType = "created_community"
	ActivityJoinedCommunity  ActivityType = "joined_community"
	ActivityLeftCommunity    ActivityType = "left_community"
	ActivityDiscussion       ActivityType = "discussion"
	ActivityComment          ActivityType = "comment"
	ActivityResource         ActivityType = "resource"
)

// Activity is append-only.
type Activity struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID    `gorm:"type:uuid;not null;index:idx_activity_user,priority:1" json:"user_id"`
	Type          ActivityType `gorm:"size:30;not null" json:"type"`
	TargetID      uuid.UUID    `gorm:"type:uuid;not null" json:"targetId"`
	Title         string       `gorm:"type:text;not null" json:"title"`
	CommunityName string       `gorm:"size:50" json:"communityName,omitempty"`
	CreatedAt     time.Time    `gorm:"autoCreateTime;index:idx_activity_user,priority:2,sort:desc" json:"createdAt"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		a.ID = id
	}
	return nil
}
