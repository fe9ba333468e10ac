package dto

import (
	"io"

	"discussify.com/api/internal/entity"
	"github.com/google/uuid"
)

// UserSummary is the public view of a user embedded in other responses.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Photo    *string   `json:"photo"`
}

func NewUserSummary(u *entity.User) *UserSummary {
	if u == nil || u.ID == uuid.Nil {
		return nil
	}
	return &UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Photo:    u.Photo,
	}
}

type SearchFilter struct {
	Search string `form:"search"`
}

// UploadedFile is a multipart file handed from a handler to a service.
type UploadedFile struct {
	Reader      io.Reader
	FileName    string
	ContentType string
}

type CommunitySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Icon *string   `json:"icon"`
}

func NewCommunitySummary(c *entity.Community) *CommunitySummary {
	if c == nil || c.ID == uuid.Nil {
		return nil
	}
	return &CommunitySummary{ID: c.ID, Name: c.Name, Icon: c.Icon}
}

type PaginationFilter struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=20"`
}

// Normalize fills the defaults and returns the row offset.
func (f *PaginationFilter) Normalize() int {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	return (f.Page - 1) * f.Limit
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

func NewPaginationMeta(filter PaginationFilter, total int64) PaginationMeta {
	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}
	return PaginationMeta{
		CurrentPage: filter.Page,
		TotalPages:  totalPages,
		TotalItems:  total,
		Limit:       filter.Limit,
	}
}
