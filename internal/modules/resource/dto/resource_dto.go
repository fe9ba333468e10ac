package dto

import (
	"time"

	"discussify.com/api/internal/entity"
	commonDto "discussify.com/api/pkg/dto"
	"github.com/google/uuid"
)

type CreateResourceRequest struct {
	Title       string `form:"title" binding:"required,max=100"`
	Description string `form:"description" binding:"max=1000"`
}

type ResourceResponse struct {
	ID          uuid.UUID              `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	FileURL     string                 `json:"fileUrl"`
	FileType    string                 `json:"fileType"`
	CommunityID uuid.UUID              `json:"community"`
	Author      *commonDto.UserSummary `json:"author"`
	CreatedAt   time.Time              `json:"createdAt"`
}

func NewResourceResponse(r *entity.Resource) ResourceResponse {
	return ResourceResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		FileURL:     r.FileURL,
		FileType:    r.FileType,
		CommunityID: r.CommunityID,
		Author:      commonDto.NewUserSummary(&r.Author),
		CreatedAt:   r.CreatedAt,
	}
}
