package entity

import (
	"time"

	"github.com/google/uuid"
)

type LikeTarget string

const (
	LikeTargetDiscussion LikeTarget = "discussion"
	LikeTargetComment    LikeTarget = "comment"
)

// Like is one user's like on a discussion or a comment.
type Like struct {
	UserID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	ReferenceID   uuid.UUID  `gorm:"type:uuid;primaryKey;index:idx_likes_lookup,priority:1" json:"reference_id"`
	ReferenceType LikeTarget `gorm:"size:20;primaryKey;index:idx_likes_lookup,priority:2" json:"reference_type"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (l *Like) TableName() string {
	return "likes"
}
