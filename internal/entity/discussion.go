package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Discussion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CommunityID uuid.UUID `gorm:"type:uuid;not null;index" json:"community_id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	IsPinned    bool      `gorm:"not null;default:false" json:"isPinned"`
	// soft delete flag, filtered by every repository query
	IsDeleted bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Community Community `gorm:"foreignKey:CommunityID;constraint:OnDelete:CASCADE" json:"-"`
}

func (d *Discussion) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type Comment struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Content         string     `gorm:"size:5000;not null" json:"content"`
	DiscussionID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"discussion_id"`
	AuthorID        uuid.UUID  `gorm:"type:uuid;not null" json:"author_id"`
	ParentCommentID *uuid.UUID `gorm:"type:uuid;index" json:"parentComment,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Author     User       `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Discussion Discussion `gorm:"foreignKey:DiscussionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Resource struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"size:1000" json:"description"`
	FileURL     string    `gorm:"type:text;not null" json:"fileUrl"`
	FileType    string    `gorm:"size:100" json:"fileType"`
	CommunityID uuid.UUID `gorm:"type:uuid;not null;index" json:"community_id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Community Community `gorm:"foreignKey:CommunityID;constraint:OnDelete:CASCADE" json:"-"`
}

func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
