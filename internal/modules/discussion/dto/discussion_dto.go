package dto

import (
	"time"

	"discussify.com/api/internal/entity"
	commonDto "discussify.com/api/pkg/dto"
	"github.com/google/uuid"
)

type CreateDiscussionRequest struct {
	Title   string `json:"title" binding:"required,max=100"`
	Content string `json:"content" binding:"required"`
}

type CreateCommentRequest struct {
	Content       string  `json:"content" binding:"required,max=5000"`
	ParentComment *string `json:"parentComment" binding:"omitempty,uuid"`
}

type DiscussionResponse struct {
	ID          uuid.UUID              `json:"id"`
	Title       string                 `json:"title"`
	Content     string                 `json:"content"`
	CommunityID uuid.UUID              `json:"community"`
	Author      *commonDto.UserSummary `json:"author"`
	IsPinned    bool                   `json:"isPinned"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

type PaginatedDiscussionResponse struct {
	Data []DiscussionResponse     `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}

type CommentResponse struct {
	ID            uuid.UUID              `json:"id"`
	Content       string                 `json:"content"`
	DiscussionID  uuid.UUID              `json:"discussion"`
	Author        *commonDto.UserSummary `json:"author"`
	ParentComment *uuid.UUID             `json:"parentComment"`
	CreatedAt     time.Time              `json:"createdAt"`
}

func NewDiscussionResponse(d *entity.Discussion) DiscussionResponse {
	return DiscussionResponse{
		ID:          d.ID,
		Title:       d.Title,
		Content:     d.Content,
		CommunityID: d.CommunityID,
		Author:      commonDto.NewUserSummary(&d.Author),
		IsPinned:    d.IsPinned,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func NewCommentResponse(c *entity.Comment) CommentResponse {
	return CommentResponse{
		ID:            c.ID,
		Content:       c.Content,
		DiscussionID:  c.DiscussionID,
		Author:        commonDto.NewUserSummary(&c.Author),
		ParentComment: c.ParentCommentID,
		CreatedAt:     c.CreatedAt,
	}
}
