package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	UserRoleUser  = "user"
	UserRoleAdmin = "admin"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:20;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Photo        *string   `gorm:"type:text" json:"photo,omitempty"`
	Role         string    `gorm:"size:20;not null;default:user" json:"role"`
	Bio          *string   `gorm:"size:250" json:"bio,omitempty"`

	// nil means the user never touched the setting, which counts as enabled
	NotifyNewDiscussion *bool `gorm:"default:true" json:"-"`
	NotifyNewResource   *bool `gorm:"default:true" json:"-"`
	NotifyReplies       *bool `gorm:"default:true" json:"-"`

	// Inactive users are hidden from every directory query.
	Active    bool      `gorm:"not null;default:true;index" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type NotificationPreferences struct {
	NewDiscussion bool `json:"newDiscussion"`
	NewResource   bool `json:"newResource"`
	Replies       bool `json:"replies"`
}

// PreferencesPatch carries the flags to change; nil fields are left alone.
type PreferencesPatch struct {
	NewDiscussion *bool
	NewResource   *bool
	Replies       *bool
}

func (u *User) Preferences() NotificationPreferences {
	return NotificationPreferences{
		NewDiscussion: enabled(u.NotifyNewDiscussion),
		NewResource:   enabled(u.NotifyNewResource),
		Replies:       enabled(u.NotifyReplies),
	}
}

func enabled(flag *bool) bool {
	return flag == nil || *flag
}
